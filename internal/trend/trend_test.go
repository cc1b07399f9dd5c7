// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package trend

import (
	"math"
	"testing"
	"time"

	"github.com/biliscope/biliscope/internal/models"
)

func dailySeries(start time.Time, values ...float64) []models.TimePoint {
	series := make([]models.TimePoint, 0, len(values))
	for i, v := range values {
		series = append(series, models.TimePoint{
			Timestamp: start.Add(time.Duration(i) * 24 * time.Hour),
			Value:     v,
		})
	}
	return series
}

func TestPredictTooFewPoints(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if got := Predict(nil, 5); got != nil {
		t.Errorf("Predict(nil) = %v, want nil", got)
	}
	if got := Predict(dailySeries(start, 10, 20), 5); got != nil {
		t.Errorf("Predict(2 points) = %v, want nil", got)
	}
}

func TestPredictContinuesLinearTrend(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, 100, 200, 300)

	got := Predict(series, 3)
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3", len(got))
	}

	for i, want := range []float64{400, 500, 600} {
		if math.Abs(got[i].PredictedValue-want) > 1e-6 {
			t.Errorf("point %d value = %v, want %v", i, got[i].PredictedValue, want)
		}
	}
	for i, want := range []float64{0.8, 0.7, 0.6} {
		if math.Abs(got[i].Confidence-want) > 1e-9 {
			t.Errorf("point %d confidence = %v, want %v", i, got[i].Confidence, want)
		}
	}

	// Projected timestamps continue at the last observed interval.
	for i, point := range got {
		want := start.Add(time.Duration(3+i) * 24 * time.Hour)
		if !point.Timestamp.Equal(want) {
			t.Errorf("point %d timestamp = %v, want %v", i, point.Timestamp, want)
		}
	}
}

func TestPredictUnsortedInput(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := []models.TimePoint{
		{Timestamp: start.Add(48 * time.Hour), Value: 300},
		{Timestamp: start, Value: 100},
		{Timestamp: start.Add(24 * time.Hour), Value: 200},
	}

	got := Predict(series, 1)
	if len(got) != 1 {
		t.Fatalf("got %d points, want 1", len(got))
	}
	if math.Abs(got[0].PredictedValue-400) > 1e-6 {
		t.Errorf("value = %v, want 400", got[0].PredictedValue)
	}
}

func TestPredictClampsNegativeValues(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, 300, 200, 100)

	got := Predict(series, 5)
	for i, point := range got {
		if point.PredictedValue < 0 {
			t.Errorf("point %d value = %v, want >= 0", i, point.PredictedValue)
		}
	}
	// The declining line crosses zero within the horizon.
	if got[4].PredictedValue != 0 {
		t.Errorf("final point value = %v, want 0", got[4].PredictedValue)
	}
}

func TestPredictDefaultPeriods(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	got := Predict(dailySeries(start, 1, 2, 3), 0)
	if len(got) != DefaultPeriods {
		t.Errorf("got %d points, want %d", len(got), DefaultPeriods)
	}
}

func TestPredictConfidenceFloor(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	got := Predict(dailySeries(start, 1, 2, 3), 12)
	for i, point := range got {
		if point.Confidence < 0 {
			t.Errorf("point %d confidence = %v, want >= 0", i, point.Confidence)
		}
	}
	if got[11].Confidence != 0 {
		t.Errorf("point 12 confidence = %v, want 0", got[11].Confidence)
	}
}
