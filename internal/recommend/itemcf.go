// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package recommend

import (
	"sort"
	"time"

	"github.com/biliscope/biliscope/internal/models"
)

// Item-CF engagement weights and the boost applied when a candidate's
// category is among the user's top-3 historical categories.
const (
	cfViewWeight   = 0.3
	cfLikeWeight   = 0.3
	cfCoinWeight   = 0.2
	cfShareWeight  = 0.2
	categoryBoost  = 2.0
	topCategoryCut = 3
)

// ItemCF ranks unwatched candidates by weighted raw engagement,
// boosting candidates whose category is among the user's three most
// frequent. An empty history falls back to Popularity on the same
// candidate set.
func ItemCF(videos []models.VideoRecord, history []models.WatchHistoryEntry, topN int, now time.Time) []models.Recommendation {
	if len(history) == 0 {
		return Popularity(videos, topN, now)
	}

	watched := make(map[string]struct{}, len(history))
	for i := range history {
		if history[i].BVID != "" {
			watched[history[i].BVID] = struct{}{}
		}
	}
	preferred := topCategories(history, topCategoryCut)

	recs := make([]models.Recommendation, 0, len(videos))
	for i := range videos {
		v := &videos[i]
		if _, ok := watched[v.BVID]; ok {
			continue
		}

		score := cfViewWeight*float64(v.View) +
			cfLikeWeight*float64(v.Like) +
			cfCoinWeight*float64(v.Coin) +
			cfShareWeight*float64(v.Share)
		if _, ok := preferred[v.Category]; ok {
			score *= categoryBoost
		}

		recs = append(recs, models.Recommendation{
			BVID:     v.BVID,
			Title:    v.Title,
			Category: v.Category,
			Score:    score,
			Strategy: models.StrategyItemCF,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return truncate(recs, topN)
}

// topCategories returns the n most frequent history categories, count
// ties resolved by first appearance in the history.
func topCategories(history []models.WatchHistoryEntry, n int) map[string]struct{} {
	counts := make(map[string]int, 8)
	order := make([]string, 0, 8)
	for i := range history {
		cat := history[i].Category
		if cat == "" {
			continue
		}
		if _, ok := counts[cat]; !ok {
			order = append(order, cat)
		}
		counts[cat]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}

	top := make(map[string]struct{}, len(order))
	for _, cat := range order {
		top[cat] = struct{}{}
	}
	return top
}
