// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package recommend

import (
	"math"
	"sort"
	"time"

	"github.com/biliscope/biliscope/internal/models"
)

// Popularity score weights over max-normalized engagement counters.
const (
	popViewWeight  = 0.40
	popLikeWeight  = 0.25
	popCoinWeight  = 0.20
	popShareWeight = 0.15

	// recencyHalfLife is the e-folding time of the publish decay factor
	// exp(-daysSincePublish/recencyHalfLife).
	recencyHalfLife = 30.0
)

// Popularity ranks candidates by a composite engagement score:
// 0.40·view + 0.25·like + 0.20·coin + 0.15·share, each counter divided
// by its maximum over the candidate set (an all-zero counter normalizes
// to 0). Records with a publish timestamp are additionally decayed by
// exp(-daysSincePublish/30) relative to now. Ties keep first-seen order.
func Popularity(videos []models.VideoRecord, topN int, now time.Time) []models.Recommendation {
	if len(videos) == 0 {
		return nil
	}

	var maxView, maxLike, maxCoin, maxShare float64
	for i := range videos {
		maxView = math.Max(maxView, float64(videos[i].View))
		maxLike = math.Max(maxLike, float64(videos[i].Like))
		maxCoin = math.Max(maxCoin, float64(videos[i].Coin))
		maxShare = math.Max(maxShare, float64(videos[i].Share))
	}

	recs := make([]models.Recommendation, 0, len(videos))
	for i := range videos {
		v := &videos[i]
		score := popViewWeight*normalize(float64(v.View), maxView) +
			popLikeWeight*normalize(float64(v.Like), maxLike) +
			popCoinWeight*normalize(float64(v.Coin), maxCoin) +
			popShareWeight*normalize(float64(v.Share), maxShare)

		if v.HasPublishTime() {
			days := now.Sub(v.PublishedAt).Hours() / 24
			if days < 0 {
				days = 0
			}
			score *= math.Exp(-days / recencyHalfLife)
		}

		recs = append(recs, models.Recommendation{
			BVID:     v.BVID,
			Title:    v.Title,
			Category: v.Category,
			Score:    score,
			Strategy: models.StrategyPopularity,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return truncate(recs, topN)
}

// normalize divides by the column maximum, mapping an all-zero column
// to 0 instead of dividing by zero.
func normalize(value, max float64) float64 {
	if max == 0 {
		return 0
	}
	return value / max
}

// truncate caps a ranked list at topN. topN <= 0 keeps everything.
func truncate(recs []models.Recommendation, topN int) []models.Recommendation {
	if topN > 0 && len(recs) > topN {
		return recs[:topN]
	}
	return recs
}
