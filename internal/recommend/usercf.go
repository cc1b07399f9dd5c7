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
	"github.com/biliscope/biliscope/internal/similarity"
)

// defaultSimilarUsers is the neighbor count consulted for user-based
// collaborative filtering.
const defaultSimilarUsers = 5

// userCandidate accumulates contributing-neighbor evidence for one
// unwatched video.
type userCandidate struct {
	rec           models.Recommendation
	similaritySum float64
	contributors  int
	firstSeen     int
}

// UserCF aggregates videos from the histories of the target user's most
// similar neighbors. Each candidate accumulates its contributing
// neighbors' similarity weights; the final score is
//
//	(similaritySum / contributors) * ln(contributors + 1)
//
// Falls back to Popularity when fewer than 2 users are known, the
// target user is unknown, or no unwatched candidates remain.
func UserCF(userMatrix *similarity.Matrix, histories map[string]*models.UserHistory,
	videos []models.VideoRecord, targetID string, similarUsers, topN int, now time.Time,
) []models.Recommendation {
	if similarUsers <= 0 {
		similarUsers = defaultSimilarUsers
	}
	if userMatrix == nil || userMatrix.Len() < 2 || !userMatrix.Contains(targetID) {
		return Popularity(videos, topN, now)
	}

	target, ok := histories[targetID]
	if !ok {
		return Popularity(videos, topN, now)
	}
	watched := target.WatchedSet()

	neighbors := userMatrix.Neighbors(targetID, similarUsers)

	candidates := make(map[string]*userCandidate)
	for _, n := range neighbors {
		neighborHistory, ok := histories[n.ID]
		if !ok {
			continue
		}
		for i := range neighborHistory.Entries {
			entry := &neighborHistory.Entries[i]
			if entry.BVID == "" {
				continue
			}
			if _, seen := watched[entry.BVID]; seen {
				continue
			}

			c, ok := candidates[entry.BVID]
			if !ok {
				c = &userCandidate{
					rec: models.Recommendation{
						BVID:     entry.BVID,
						Title:    entry.Title,
						Category: entry.Category,
						Strategy: models.StrategyUserCF,
					},
					firstSeen: len(candidates),
				}
				candidates[entry.BVID] = c
			}
			c.similaritySum += n.Similarity
			c.contributors++
		}
	}

	if len(candidates) == 0 {
		return Popularity(videos, topN, now)
	}

	recs := make([]models.Recommendation, 0, len(candidates))
	order := make(map[string]int, len(candidates))
	for _, c := range candidates {
		c.rec.Score = c.similaritySum / float64(c.contributors) *
			math.Log(float64(c.contributors)+1)
		order[c.rec.BVID] = c.firstSeen
		recs = append(recs, c.rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return order[recs[i].BVID] < order[recs[j].BVID]
	})
	return truncate(recs, topN)
}
