// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package report

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biliscope/biliscope/internal/models"
)

// mockStore returns canned analytics and counts calls so cache behavior
// is observable.
type mockStore struct {
	stats      models.DatasetStats
	categories []models.CategoryStats
	authors    []models.AuthorStats
	hot        []models.VideoRecord
	daily      []models.DailyStats

	statsCalls int
}

func (m *mockStore) DatasetStats(context.Context) (*models.DatasetStats, error) {
	m.statsCalls++
	s := m.stats
	return &s, nil
}

func (m *mockStore) TopCategories(_ context.Context, limit int) ([]models.CategoryStats, error) {
	if limit < len(m.categories) {
		return m.categories[:limit], nil
	}
	return m.categories, nil
}

func (m *mockStore) TopAuthors(_ context.Context, limit int) ([]models.AuthorStats, error) {
	if limit < len(m.authors) {
		return m.authors[:limit], nil
	}
	return m.authors, nil
}

func (m *mockStore) HotVideos(_ context.Context, _ time.Time, limit int) ([]models.VideoRecord, error) {
	if limit < len(m.hot) {
		return m.hot[:limit], nil
	}
	return m.hot, nil
}

func (m *mockStore) DailyStats(context.Context, time.Time, time.Time) ([]models.DailyStats, error) {
	return m.daily, nil
}

func defaultMockStore() *mockStore {
	return &mockStore{
		stats: models.DatasetStats{TotalVideos: 100, AvgViews: 5000, MaxViews: 90000, MinViews: 10},
		categories: []models.CategoryStats{
			{Category: "科技", VideoCount: 40, TotalViews: 300000},
			{Category: "音乐", VideoCount: 35, TotalViews: 200000},
		},
		authors: []models.AuthorStats{
			{Author: "up主一号", VideoCount: 12, TotalViews: 120000},
		},
		hot: []models.VideoRecord{
			{BVID: "BV1hot", Title: "爆款视频", View: 90000},
		},
		daily: []models.DailyStats{
			{VideoCount: 10, TotalViews: 1000},
			{VideoCount: 12, TotalViews: 1500},
		},
	}
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	s, err := NewService(Config{CacheTTL: time.Hour}, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestDailyReportContent(t *testing.T) {
	store := defaultMockStore()
	s := newTestService(t, store)

	date := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	got, err := s.Daily(context.Background(), date)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	want := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Errorf("Date = %v, want %v (truncated)", got.Date, want)
	}
	if got.Stats.TotalVideos != 100 {
		t.Errorf("TotalVideos = %d, want 100", got.Stats.TotalVideos)
	}
	if len(got.TopCategories) != 2 || got.TopCategories[0].Category != "科技" {
		t.Errorf("TopCategories = %+v", got.TopCategories)
	}
	if got.Trend != models.TrendRising {
		t.Errorf("Trend = %q, want rising (1500 vs 1000)", got.Trend)
	}
	if len(got.Insights) == 0 {
		t.Error("no insights generated")
	}
}

func TestDailyReportCached(t *testing.T) {
	store := defaultMockStore()
	s := newTestService(t, store)

	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	if _, err := s.Daily(context.Background(), date); err != nil {
		t.Fatalf("first Daily: %v", err)
	}
	if _, err := s.Daily(context.Background(), date); err != nil {
		t.Fatalf("second Daily: %v", err)
	}

	if store.statsCalls != 1 {
		t.Errorf("store queried %d times, want 1 (second hit cached)", store.statsCalls)
	}

	// A different date misses the cache.
	if _, err := s.Daily(context.Background(), date.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("third Daily: %v", err)
	}
	if store.statsCalls != 2 {
		t.Errorf("store queried %d times, want 2", store.statsCalls)
	}
}

func TestWeeklyReportContent(t *testing.T) {
	store := defaultMockStore()
	s := newTestService(t, store)

	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	got, err := s.Weekly(context.Background(), start)
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}

	if !got.WeekStart.Equal(start) {
		t.Errorf("WeekStart = %v, want %v", got.WeekStart, start)
	}
	if !got.WeekEnd.Equal(start.AddDate(0, 0, 6)) {
		t.Errorf("WeekEnd = %v, want %v", got.WeekEnd, start.AddDate(0, 0, 6))
	}
	if got.TopVideo == nil || got.TopVideo.BVID != "BV1hot" {
		t.Errorf("TopVideo = %+v, want BV1hot", got.TopVideo)
	}
	if got.TopAuthor == nil || got.TopAuthor.Author != "up主一号" {
		t.Errorf("TopAuthor = %+v", got.TopAuthor)
	}
	if len(got.Daily) != 2 {
		t.Errorf("Daily days = %d, want 2", len(got.Daily))
	}
	if len(got.Insights) == 0 {
		t.Error("no insights generated")
	}
}

func TestTrendDirection(t *testing.T) {
	tests := []struct {
		name  string
		daily []models.DailyStats
		want  models.TrendDirection
	}{
		{"empty", nil, models.TrendNoData},
		{"single day", []models.DailyStats{{TotalViews: 100}}, models.TrendNoData},
		{"rising", []models.DailyStats{{TotalViews: 100}, {TotalViews: 100}, {TotalViews: 200}}, models.TrendRising},
		{"falling", []models.DailyStats{{TotalViews: 200}, {TotalViews: 200}, {TotalViews: 100}}, models.TrendFalling},
		{"stable within threshold", []models.DailyStats{{TotalViews: 100}, {TotalViews: 105}}, models.TrendStable},
		{"exact threshold is stable", []models.DailyStats{{TotalViews: 100}, {TotalViews: 110}}, models.TrendStable},
		{"zero baseline", []models.DailyStats{{TotalViews: 0}, {TotalViews: 50}}, models.TrendNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trendDirection(tt.daily); got != tt.want {
				t.Errorf("trendDirection = %q, want %q", got, tt.want)
			}
		})
	}
}
