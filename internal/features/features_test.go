// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package features

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/biliscope/biliscope/internal/models"
)

var testCategories = []string{"科技", "娱乐", "游戏", "知识", "音乐"}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUserProfileEmptyHistoryIsZero(t *testing.T) {
	b := NewBuilder(testCategories)
	profile := b.UserProfile(nil)
	if len(profile) != ProfileDims {
		t.Fatalf("profile dims = %d, want %d", len(profile), ProfileDims)
	}
	for i, v := range profile {
		if v != 0 {
			t.Errorf("profile[%d] = %v, want 0 for empty history", i, v)
		}
	}
}

func TestUserProfileAveragesAndRatios(t *testing.T) {
	b := NewBuilder(testCategories)
	entries := []models.WatchHistoryEntry{
		{BVID: "a", Category: "科技", View: 100, Like: 10, Coin: 4, Share: 2, Duration: 600},
		{BVID: "b", Category: "科技", View: 300, Like: 30, Coin: 6, Share: 4, Duration: 200},
		{BVID: "c", Category: "舞蹈", View: 200, Like: 20, Coin: 5, Share: 3, Duration: 400},
		{BVID: "d", Category: "音乐", View: 400, Like: 40, Coin: 9, Share: 7, Duration: 800},
	}

	p := b.UserProfile(entries)

	if !almostEqual(p[0], 250) {
		t.Errorf("avg view = %v, want 250", p[0])
	}
	if !almostEqual(p[4], 500) {
		t.Errorf("avg duration = %v, want 500", p[4])
	}
	if !almostEqual(p[5], 4) {
		t.Errorf("total videos = %v, want 4", p[5])
	}
	if !almostEqual(p[6], 3) {
		t.Errorf("unique categories = %v, want 3", p[6])
	}
	if !almostEqual(p[7], 0.04) {
		t.Errorf("activity score = %v, want 0.04", p[7])
	}
	// 科技 ratio = 2/4, 音乐 ratio = 1/4, others zero.
	if !almostEqual(p[8], 0.5) {
		t.Errorf("tech ratio = %v, want 0.5", p[8])
	}
	if !almostEqual(p[12], 0.25) {
		t.Errorf("music ratio = %v, want 0.25", p[12])
	}
	// Residual covers the unnamed 舞蹈 entry.
	if !almostEqual(p[13], 0.25) {
		t.Errorf("other ratio = %v, want 0.25", p[13])
	}
}

func TestActivityScoreCapsAtOne(t *testing.T) {
	entries := make([]models.WatchHistoryEntry, 250)
	for i := range entries {
		entries[i] = models.WatchHistoryEntry{BVID: "x", Category: "游戏"}
	}
	p := NewBuilder(testCategories).UserProfile(entries)
	if !almostEqual(p[7], 1.0) {
		t.Errorf("activity score = %v, want capped 1.0", p[7])
	}
}

func TestClusterFeaturesDefaults(t *testing.T) {
	b := NewBuilder(testCategories)
	out := b.ClusterFeatures(nil)
	if len(out) != ClusterDims {
		t.Fatalf("cluster dims = %d, want %d", len(out), ClusterDims)
	}
	if out[3] != defaultHour {
		t.Errorf("most active hour = %v, want noon default", out[3])
	}
}

func TestClusterFeaturesModeHour(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 3, 1, hour, 0, 0, 0, time.UTC)
	}
	entries := []models.WatchHistoryEntry{
		{BVID: "a", Category: "游戏", Duration: 300, Like: 1, ViewedAt: at(21)},
		{BVID: "b", Category: "游戏", Duration: 500, Coin: 2, ViewedAt: at(21)},
		{BVID: "c", Category: "音乐", Duration: 100, Share: 3, ViewedAt: at(9)},
	}
	out := NewBuilder(testCategories).ClusterFeatures(entries)

	if out[0] != 3 {
		t.Errorf("total videos = %v, want 3", out[0])
	}
	if !almostEqual(out[1], 300) {
		t.Errorf("avg watch time = %v, want 300", out[1])
	}
	if out[3] != 21 {
		t.Errorf("most active hour = %v, want 21", out[3])
	}
	if out[4] != 1 || out[5] != 2 || out[6] != 3 {
		t.Errorf("engagement totals = %v/%v/%v, want 1/2/3", out[4], out[5], out[6])
	}
	if out[7] != 2 {
		t.Errorf("diversity = %v, want 2", out[7])
	}
	if !almostEqual(out[8], 2.0/3.0) {
		t.Errorf("top category ratio = %v, want 2/3", out[8])
	}
}

func TestStandardScalerZeroMeanUnitVariance(t *testing.T) {
	rows := [][]float64{{1, 10}, {2, 20}, {3, 30}}
	var s StandardScaler
	scaled, err := s.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	for d := 0; d < 2; d++ {
		var mean float64
		for _, r := range scaled {
			mean += r[d]
		}
		mean /= float64(len(scaled))
		if !almostEqual(mean, 0) {
			t.Errorf("dim %d mean = %v, want 0", d, mean)
		}
	}
}

func TestStandardScalerZeroVarianceStaysFinite(t *testing.T) {
	rows := [][]float64{{5, 1}, {5, 2}, {5, 3}}
	var s StandardScaler
	scaled, err := s.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	for i, r := range scaled {
		if r[0] != 0 {
			t.Errorf("row %d constant dim = %v, want 0", i, r[0])
		}
		if math.IsNaN(r[1]) || math.IsInf(r[1], 0) {
			t.Errorf("row %d dim 1 not finite: %v", i, r[1])
		}
	}
}

func TestStandardScalerEmptyInput(t *testing.T) {
	var s StandardScaler
	if err := s.Fit(nil); !errors.Is(err, models.ErrFeatureExtraction) {
		t.Errorf("Fit(nil) error = %v, want ErrFeatureExtraction", err)
	}
}

func TestFitTFIDFBoundsVocabulary(t *testing.T) {
	docs := [][]string{
		{"go", "engine", "go"},
		{"go", "video", "engine"},
		{"video", "rank", "score", "extra"},
	}
	tf := FitTFIDF(docs, TFIDFConfig{MaxFeatures: 3})
	if tf.NumFeatures() != 3 {
		t.Fatalf("vocab size = %d, want 3", tf.NumFeatures())
	}
	// "go" appears three times and must survive the cut.
	if _, ok := tf.Vocabulary["go"]; !ok {
		t.Errorf("most frequent term dropped from bounded vocabulary")
	}
}

func TestTFIDFRowsAreL2Normalized(t *testing.T) {
	docs := [][]string{
		{"alpha", "beta", "beta"},
		{"alpha", "gamma"},
	}
	tf := FitTFIDF(docs, TFIDFConfig{})
	for i, row := range tf.Rows {
		var norm float64
		for _, v := range row {
			norm += v * v
		}
		if !almostEqual(norm, 1) {
			t.Errorf("row %d squared norm = %v, want 1", i, norm)
		}
	}
}

func TestTFIDFEmptyDocumentYieldsZeroRow(t *testing.T) {
	docs := [][]string{{"term"}, nil}
	tf := FitTFIDF(docs, TFIDFConfig{})
	for _, v := range tf.Rows[1] {
		if v != 0 {
			t.Fatalf("empty document row should be all zeros, got %v", tf.Rows[1])
		}
	}
}

func TestSegmentEmptyAndMixedText(t *testing.T) {
	if got := Segment(""); got != nil {
		t.Errorf("Segment(\"\") = %v, want nil", got)
	}
	tokens := Segment("Go语言 数据分析!")
	if len(tokens) == 0 {
		t.Fatalf("expected tokens for mixed text")
	}
	for _, tok := range tokens {
		if tok == "!" {
			t.Errorf("punctuation token leaked: %v", tokens)
		}
	}
}
