// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package recommend

import (
	"github.com/biliscope/biliscope/internal/models"
	"github.com/biliscope/biliscope/internal/similarity"
)

// ContentBased returns the seed video's top-N nearest neighbors from
// the content similarity matrix, each annotated with its cosine score.
// A seed absent from the matrix returns an empty list, not an error.
func ContentBased(matrix *similarity.Matrix, byID map[string]*models.VideoRecord, seed string, topN int) []models.Recommendation {
	if matrix == nil {
		return nil
	}

	neighbors := matrix.Neighbors(seed, topN)
	if len(neighbors) == 0 {
		return nil
	}

	recs := make([]models.Recommendation, 0, len(neighbors))
	for _, n := range neighbors {
		rec := models.Recommendation{
			BVID:     n.ID,
			Score:    n.Similarity,
			Strategy: models.StrategyContent,
		}
		if v, ok := byID[n.ID]; ok {
			rec.Title = v.Title
			rec.Category = v.Category
		}
		recs = append(recs, rec)
	}
	return recs
}
