// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package features

import (
	"math"

	"github.com/biliscope/biliscope/internal/models"
)

// StandardScaler rescales each feature dimension to zero mean and unit
// variance. The scaler fitted on training data must be reused for any
// later transform of new data in the same session.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Fit computes per-dimension mean and standard deviation.
// Zero-variance dimensions get a standard deviation of 1 so transformed
// values stay finite (the column becomes all zeros).
func (s *StandardScaler) Fit(rows [][]float64) error {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return models.ErrFeatureExtraction
	}
	dims := len(rows[0])

	s.Mean = make([]float64, dims)
	s.Std = make([]float64, dims)

	for _, row := range rows {
		for d := 0; d < dims; d++ {
			s.Mean[d] += row[d]
		}
	}
	n := float64(len(rows))
	for d := 0; d < dims; d++ {
		s.Mean[d] /= n
	}

	for _, row := range rows {
		for d := 0; d < dims; d++ {
			diff := row[d] - s.Mean[d]
			s.Std[d] += diff * diff
		}
	}
	for d := 0; d < dims; d++ {
		s.Std[d] = math.Sqrt(s.Std[d] / n)
		if s.Std[d] == 0 {
			s.Std[d] = 1
		}
	}
	return nil
}

// Transform standardizes rows in place-safe copies using the fitted
// parameters.
func (s *StandardScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, len(row))
		for d := range row {
			if d < len(s.Mean) {
				scaled[d] = (row[d] - s.Mean[d]) / s.Std[d]
			}
		}
		out[i] = scaled
	}
	return out
}

// TransformOne standardizes a single vector.
func (s *StandardScaler) TransformOne(row []float64) []float64 {
	return s.Transform([][]float64{row})[0]
}

// FitTransform fits the scaler and returns the standardized rows.
func (s *StandardScaler) FitTransform(rows [][]float64) ([][]float64, error) {
	if err := s.Fit(rows); err != nil {
		return nil, err
	}
	return s.Transform(rows), nil
}
