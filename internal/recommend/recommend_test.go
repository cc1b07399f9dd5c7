// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biliscope/biliscope/internal/features"
	"github.com/biliscope/biliscope/internal/models"
	"github.com/biliscope/biliscope/internal/similarity"
)

var testCategories = []string{"科技", "娱乐", "游戏", "知识", "音乐"}

func testVideos() []models.VideoRecord {
	return []models.VideoRecord{
		{BVID: "v1", Title: "Go 语言并发编程实战", Category: "科技", View: 1000, Like: 100, Coin: 40, Share: 20},
		{BVID: "v2", Title: "Go 语言数据分析入门", Category: "科技", View: 800, Like: 90, Coin: 30, Share: 10},
		{BVID: "v3", Title: "深夜食堂 美食探店", Category: "娱乐", View: 5000, Like: 400, Coin: 100, Share: 80},
		{BVID: "v4", Title: "钢琴曲合集 放松音乐", Category: "音乐", View: 300, Like: 50, Coin: 10, Share: 5},
		{BVID: "v5", Title: "游戏实况 新作速递", Category: "游戏", View: 2500, Like: 220, Coin: 60, Share: 30},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(DefaultConfig(), features.NewBuilder(testCategories), zerolog.Nop())
	return e
}

func TestPopularityScoreBoundsAndOrdering(t *testing.T) {
	recs := Popularity(testVideos(), 0, time.Now())
	if len(recs) != 5 {
		t.Fatalf("got %d recommendations, want 5", len(recs))
	}

	for i, r := range recs {
		if r.Score < 0 || r.Score > 1.0 {
			t.Errorf("score out of range at %d: %v", i, r.Score)
		}
		if r.Strategy != models.StrategyPopularity {
			t.Errorf("strategy = %s, want popularity", r.Strategy)
		}
		if i > 0 && recs[i-1].Score < r.Score {
			t.Errorf("not sorted descending at %d: %v < %v", i, recs[i-1].Score, r.Score)
		}
	}

	// v3 dominates every counter: its normalized score is exactly 1.
	if recs[0].BVID != "v3" {
		t.Errorf("top recommendation = %s, want v3", recs[0].BVID)
	}
	if math.Abs(recs[0].Score-1.0) > 1e-9 {
		t.Errorf("dominant score = %v, want 1.0", recs[0].Score)
	}
}

func TestPopularityAllZeroCountersNormalizeToZero(t *testing.T) {
	videos := []models.VideoRecord{
		{BVID: "a", View: 10},
		{BVID: "b", View: 20},
	}
	recs := Popularity(videos, 0, time.Now())
	// like/coin/share columns are all zero; only the view term remains.
	if math.Abs(recs[0].Score-popViewWeight) > 1e-9 {
		t.Errorf("score = %v, want %v from view term only", recs[0].Score, popViewWeight)
	}
	for _, r := range recs {
		if math.IsNaN(r.Score) {
			t.Fatalf("all-zero column produced NaN")
		}
	}
}

func TestPopularityRecencyDecay(t *testing.T) {
	now := time.Now()
	videos := []models.VideoRecord{
		{BVID: "old", View: 100, PublishedAt: now.AddDate(0, 0, -60)},
		{BVID: "new", View: 100, PublishedAt: now},
	}
	recs := Popularity(videos, 0, now)
	if recs[0].BVID != "new" {
		t.Fatalf("recency decay should favor the newer upload")
	}
	wantOld := popViewWeight * math.Exp(-60.0/30.0)
	var oldScore float64
	for _, r := range recs {
		if r.BVID == "old" {
			oldScore = r.Score
		}
	}
	if math.Abs(oldScore-wantOld) > 1e-6 {
		t.Errorf("decayed score = %v, want %v", oldScore, wantOld)
	}
}

func TestPopularityTiesPreserveInputOrder(t *testing.T) {
	videos := []models.VideoRecord{
		{BVID: "first", View: 100},
		{BVID: "second", View: 100},
	}
	recs := Popularity(videos, 0, time.Now())
	if recs[0].BVID != "first" || recs[1].BVID != "second" {
		t.Errorf("tie order = [%s %s], want input order", recs[0].BVID, recs[1].BVID)
	}
}

func TestContentBasedExcludesSeedAndUnknownSeedEmpty(t *testing.T) {
	e := newTestEngine(t)
	e.Rebuild(testVideos(), nil)

	recs := e.ByContent("v1", 3)
	if len(recs) == 0 {
		t.Fatalf("expected content recommendations for known seed")
	}
	for _, r := range recs {
		if r.BVID == "v1" {
			t.Errorf("seed video returned as its own recommendation")
		}
		if r.Strategy != models.StrategyContent {
			t.Errorf("strategy = %s, want content", r.Strategy)
		}
	}
	// v2 shares the "Go 语言" vocabulary with v1 and must rank first.
	if recs[0].BVID != "v2" {
		t.Errorf("nearest neighbor = %s, want v2", recs[0].BVID)
	}

	if got := e.ByContent("missing", 3); len(got) != 0 {
		t.Errorf("unknown seed should return empty list, got %v", got)
	}
}

func TestItemCFExcludesWatchedAndBoostsCategories(t *testing.T) {
	history := []models.WatchHistoryEntry{
		{BVID: "v1", Category: "科技"},
		{BVID: "w1", Category: "科技"},
		{BVID: "w2", Category: "音乐"},
	}
	recs := ItemCF(testVideos(), history, 0, time.Now())

	for _, r := range recs {
		if r.BVID == "v1" {
			t.Errorf("watched video leaked into recommendations")
		}
		if r.Strategy != models.StrategyItemCF {
			t.Errorf("strategy = %s, want item_cf", r.Strategy)
		}
	}

	// v2 (科技, preferred) gets the 2.0 boost over its raw score.
	wantV2 := (cfViewWeight*800 + cfLikeWeight*90 + cfCoinWeight*30 + cfShareWeight*10) * categoryBoost
	for _, r := range recs {
		if r.BVID == "v2" && math.Abs(r.Score-wantV2) > 1e-9 {
			t.Errorf("boosted score = %v, want %v", r.Score, wantV2)
		}
	}
}

func TestItemCFEmptyHistoryFallsBackToPopularity(t *testing.T) {
	now := time.Now()
	got := ItemCF(testVideos(), nil, 3, now)
	want := Popularity(testVideos(), 3, now)

	if len(got) != len(want) {
		t.Fatalf("fallback length = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].BVID != want[i].BVID || got[i].Strategy != models.StrategyPopularity {
			t.Errorf("fallback[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func buildUserMatrix(t *testing.T, histories []models.UserHistory) *similarity.Matrix {
	t.Helper()
	b := features.NewBuilder(testCategories)
	ids := make([]string, len(histories))
	profiles := make([][]float64, len(histories))
	for i := range histories {
		ids[i] = histories[i].UserID
		profiles[i] = b.UserProfile(histories[i].Entries)
	}
	var scaler features.StandardScaler
	scaled, err := scaler.FitTransform(profiles)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	return similarity.NewMatrix(ids, scaled)
}

func TestUserCFFallsBackWithFewerThanTwoUsers(t *testing.T) {
	now := time.Now()
	histories := map[string]*models.UserHistory{
		"u1": {UserID: "u1"},
	}
	matrix := buildUserMatrix(t, []models.UserHistory{{UserID: "u1"}})

	got := UserCF(matrix, histories, testVideos(), "u1", 5, 3, now)
	want := Popularity(testVideos(), 3, now)
	for i := range got {
		if got[i].BVID != want[i].BVID {
			t.Errorf("fallback differs from direct popularity at %d: %s vs %s",
				i, got[i].BVID, want[i].BVID)
		}
	}
}

func TestUserCFUnknownTargetFallsBack(t *testing.T) {
	hs := []models.UserHistory{
		{UserID: "u1", Entries: []models.WatchHistoryEntry{{BVID: "v1", Category: "科技"}}},
		{UserID: "u2", Entries: []models.WatchHistoryEntry{{BVID: "v2", Category: "科技"}}},
	}
	histories := map[string]*models.UserHistory{"u1": &hs[0], "u2": &hs[1]}
	matrix := buildUserMatrix(t, hs)

	got := UserCF(matrix, histories, testVideos(), "nobody", 5, 0, time.Now())
	for _, r := range got {
		if r.Strategy != models.StrategyPopularity {
			t.Fatalf("unknown target must fall back to popularity, got %s", r.Strategy)
		}
	}
}

func TestUserCFScoreFormula(t *testing.T) {
	// u1 watched a; u2 and u3 both watched b, which u1 has not seen.
	hs := []models.UserHistory{
		{UserID: "u1", Entries: []models.WatchHistoryEntry{
			{BVID: "a", Category: "科技", View: 10, Duration: 100},
		}},
		{UserID: "u2", Entries: []models.WatchHistoryEntry{
			{BVID: "a", Category: "科技", View: 12, Duration: 110},
			{BVID: "b", Category: "科技", View: 8, Duration: 90},
		}},
		{UserID: "u3", Entries: []models.WatchHistoryEntry{
			{BVID: "b", Category: "娱乐", View: 500, Duration: 2000},
		}},
	}
	histories := map[string]*models.UserHistory{"u1": &hs[0], "u2": &hs[1], "u3": &hs[2]}
	matrix := buildUserMatrix(t, hs)

	got := UserCF(matrix, histories, testVideos(), "u1", 5, 0, time.Now())
	if len(got) != 1 {
		t.Fatalf("candidate count = %d, want 1 (only unwatched b)", len(got))
	}
	if got[0].BVID != "b" || got[0].Strategy != models.StrategyUserCF {
		t.Fatalf("candidate = %+v, want user_cf b", got[0])
	}

	s12, _ := matrix.Similarity("u1", "u2")
	s13, _ := matrix.Similarity("u1", "u3")
	want := (s12 + s13) / 2 * math.Log(3)
	if math.Abs(got[0].Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got[0].Score, want)
	}
}

func TestEngineSimilarUsers(t *testing.T) {
	e := newTestEngine(t)
	hs := []models.UserHistory{
		{UserID: "u1", Entries: []models.WatchHistoryEntry{{BVID: "v1", Category: "科技", View: 10}}},
		{UserID: "u2", Entries: []models.WatchHistoryEntry{{BVID: "v2", Category: "科技", View: 12}}},
		{UserID: "u3", Entries: []models.WatchHistoryEntry{{BVID: "v3", Category: "娱乐", View: 9000}}},
	}
	e.Rebuild(testVideos(), hs)

	similar := e.SimilarUsers("u1", 2)
	if len(similar) != 2 {
		t.Fatalf("similar users = %d, want 2", len(similar))
	}
	if similar[0].UserID != "u2" {
		t.Errorf("nearest user = %s, want u2", similar[0].UserID)
	}

	if got := e.SimilarUsers("ghost", 2); len(got) != 0 {
		t.Errorf("unknown user should return empty list")
	}
}

func TestEngineVersionIncrements(t *testing.T) {
	e := newTestEngine(t)
	if e.Version() != 0 {
		t.Fatalf("fresh engine version = %d, want 0", e.Version())
	}
	e.Rebuild(testVideos(), nil)
	e.Rebuild(testVideos(), nil)
	if e.Version() != 2 {
		t.Errorf("version after two rebuilds = %d, want 2", e.Version())
	}
}

func TestZeroVectorProfilesDoNotBreakRebuild(t *testing.T) {
	e := newTestEngine(t)
	hs := []models.UserHistory{
		{UserID: "empty1"}, // no history: zero profile vector
		{UserID: "empty2"},
	}
	e.Rebuild(testVideos(), hs)

	// Both profiles are zero vectors; similarity must be defined.
	similar := e.SimilarUsers("empty1", 1)
	for _, s := range similar {
		if math.IsNaN(s.Similarity) {
			t.Fatalf("NaN similarity for zero-vector profiles")
		}
	}
}
