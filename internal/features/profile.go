// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package features

import (
	"github.com/biliscope/biliscope/internal/models"
)

// ProfileDims is the dimensionality of the per-user profile vector.
const ProfileDims = 14

// ClusterDims is the dimensionality of the per-user clustering vector.
const ClusterDims = 9

// defaultHour is the most-active-hour fallback when a history carries no
// usable timestamps.
const defaultHour = 12

// ClusterFeatureNames names the clustering vector dimensions, in order.
var ClusterFeatureNames = []string{
	"total_videos",
	"avg_watch_time",
	"total_watch_time",
	"most_active_hour",
	"total_likes",
	"total_coins",
	"total_shares",
	"diversity_score",
	"top_category_ratio",
}

// Builder constructs per-user feature vectors. The named preference
// categories get a dedicated profile dimension each; everything else
// folds into a residual ratio.
type Builder struct {
	// PreferredCategories are the category labels tracked as dedicated
	// dimensions, in order. The profile stays 14-dimensional only for
	// the documented five; extra entries are ignored.
	PreferredCategories []string
}

// NewBuilder returns a Builder with the given named categories.
func NewBuilder(preferredCategories []string) *Builder {
	cats := preferredCategories
	if len(cats) > 5 {
		cats = cats[:5]
	}
	return &Builder{PreferredCategories: cats}
}

// UserProfile computes the 14-dimensional profile vector of a watch
// history: average view/like/coin/share/duration, total watched count,
// unique-category count, activity score, five named-category ratios and
// the residual ratio. An empty history yields the zero vector.
func (b *Builder) UserProfile(entries []models.WatchHistoryEntry) []float64 {
	profile := make([]float64, ProfileDims)
	if len(entries) == 0 {
		return profile
	}

	n := float64(len(entries))
	categories := make(map[string]int, 8)
	var sumView, sumLike, sumCoin, sumShare, sumDuration float64
	for i := range entries {
		e := &entries[i]
		sumView += float64(e.View)
		sumLike += float64(e.Like)
		sumCoin += float64(e.Coin)
		sumShare += float64(e.Share)
		sumDuration += float64(e.Duration)
		categories[e.Category]++
	}

	profile[0] = sumView / n
	profile[1] = sumLike / n
	profile[2] = sumCoin / n
	profile[3] = sumShare / n
	profile[4] = sumDuration / n
	profile[5] = n
	profile[6] = float64(len(categories))
	profile[7] = activityScore(len(entries))

	var namedSum float64
	for i, cat := range b.PreferredCategories {
		ratio := float64(categories[cat]) / n
		profile[8+i] = ratio
		namedSum += ratio
	}
	profile[13] = 1 - namedSum

	return profile
}

// activityScore is min(totalWatched/100, 1.0).
func activityScore(totalWatched int) float64 {
	score := float64(totalWatched) / 100
	if score > 1 {
		return 1
	}
	return score
}

// ClusterFeatures computes the 9-dimensional behavioral vector used for
// user clustering: totals, watch-time aggregates, the most frequent
// viewing hour (noon when no timestamps exist), summed engagement,
// category diversity and top-category dominance.
func (b *Builder) ClusterFeatures(entries []models.WatchHistoryEntry) []float64 {
	out := make([]float64, ClusterDims)
	out[3] = defaultHour
	if len(entries) == 0 {
		return out
	}

	n := float64(len(entries))
	categories := make(map[string]int, 8)
	hours := make(map[int]int, 24)
	var totalWatch, totalLikes, totalCoins, totalShares float64
	for i := range entries {
		e := &entries[i]
		totalWatch += float64(e.Duration)
		totalLikes += float64(e.Like)
		totalCoins += float64(e.Coin)
		totalShares += float64(e.Share)
		cat := e.Category
		if cat == "" {
			cat = "其他"
		}
		categories[cat]++
		if !e.ViewedAt.IsZero() {
			hours[e.ViewedAt.Hour()]++
		}
	}

	out[0] = n
	out[1] = totalWatch / n
	out[2] = totalWatch
	out[3] = float64(mostFrequentHour(hours))
	out[4] = totalLikes
	out[5] = totalCoins
	out[6] = totalShares
	out[7] = float64(len(categories))

	top := 0
	for _, count := range categories {
		if count > top {
			top = count
		}
	}
	out[8] = float64(top) / n

	return out
}

// mostFrequentHour returns the modal hour, the earliest hour winning
// ties so results are deterministic. Empty input returns noon.
func mostFrequentHour(hours map[int]int) int {
	best, bestCount := defaultHour, 0
	for h := 0; h < 24; h++ {
		if count := hours[h]; count > bestCount {
			best, bestCount = h, count
		}
	}
	return best
}

// ContentDocuments tokenizes each video's title+description text for
// TF-IDF fitting. Missing text fields contribute empty strings, never
// errors.
func (b *Builder) ContentDocuments(videos []models.VideoRecord) [][]string {
	docs := make([][]string, len(videos))
	for i := range videos {
		docs[i] = Segment(videos[i].ContentText())
	}
	return docs
}
