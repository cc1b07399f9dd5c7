// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package trend extrapolates labeled time series linearly into the
// future.
package trend

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/biliscope/biliscope/internal/models"
)

const (
	// minPoints is the smallest series a line can be meaningfully fit to.
	minPoints = 3

	// DefaultPeriods is the projection horizon when the caller does not
	// specify one.
	DefaultPeriods = 7

	baseConfidence  = 0.8
	confidenceDecay = 0.1
)

// Predict fits a least-squares line of value over elapsed seconds and
// projects it forward. The projection step is the series' last observed
// interval; each step ahead loses 0.1 confidence starting from 0.8, and
// projected values are clamped at zero. Fewer than 3 points returns an
// empty list.
func Predict(series []models.TimePoint, periods int) []models.TrendPoint {
	if len(series) < minPoints {
		return nil
	}
	if periods <= 0 {
		periods = DefaultPeriods
	}

	points := make([]models.TimePoint, len(series))
	copy(points, series)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	origin := points[0].Timestamp
	elapsed := make([]float64, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		elapsed[i] = p.Timestamp.Sub(origin).Seconds()
		values[i] = p.Value
	}

	intercept, slope := stat.LinearRegression(elapsed, values, nil, false)

	last := points[len(points)-1]
	step := elapsed[len(elapsed)-1] - elapsed[len(elapsed)-2]

	out := make([]models.TrendPoint, 0, periods)
	for i := 1; i <= periods; i++ {
		future := elapsed[len(elapsed)-1] + step*float64(i)
		value := intercept + slope*future
		if value < 0 {
			value = 0
		}

		confidence := baseConfidence - confidenceDecay*float64(i-1)
		if confidence < 0 {
			confidence = 0
		}

		out = append(out, models.TrendPoint{
			Timestamp:      last.Timestamp.Add(time.Duration(step * float64(i) * float64(time.Second))),
			PredictedValue: value,
			Confidence:     confidence,
		})
	}
	return out
}
