// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package models

import "time"

// DatasetStats is the analytics overview of the collected video corpus.
type DatasetStats struct {
	TotalVideos int64   `json:"total_videos"`
	AvgViews    float64 `json:"avg_views"`
	AvgLikes    float64 `json:"avg_likes"`
	AvgCoins    float64 `json:"avg_coins"`
	AvgShares   float64 `json:"avg_shares"`
	MaxViews    int64   `json:"max_views"`
	MinViews    int64   `json:"min_views"`
}

// CategoryStats aggregates per-category engagement.
type CategoryStats struct {
	Category   string  `json:"category"`
	VideoCount int64   `json:"video_count"`
	AvgViews   float64 `json:"avg_views"`
	TotalViews int64   `json:"total_views"`
}

// AuthorStats aggregates per-author engagement.
type AuthorStats struct {
	Author     string  `json:"author"`
	VideoCount int64   `json:"video_count"`
	AvgViews   float64 `json:"avg_views"`
	TotalViews int64   `json:"total_views"`
}

// TagStats counts occurrences of a single content tag across the
// corpus. Tags are stored comma separated on the video record.
type TagStats struct {
	Tag        string `json:"tag"`
	VideoCount int64  `json:"video_count"`
}

// TrendDirection classifies a short-window metric movement.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
	TrendNoData  TrendDirection = "no_data"
)

// DailyStats is one day's aggregate used by reports and trend analysis.
type DailyStats struct {
	Date       time.Time `json:"date"`
	VideoCount int64     `json:"video_count"`
	AvgViews   float64   `json:"avg_views"`
	TotalViews int64     `json:"total_views"`
}

// DailyReport is a generated per-day analytics report.
type DailyReport struct {
	Date          time.Time       `json:"date"`
	Stats         DatasetStats    `json:"stats"`
	TopCategories []CategoryStats `json:"top_categories"`
	HotVideos     []VideoRecord   `json:"hot_videos"`
	Trend         TrendDirection  `json:"trend"`
	Insights      []string        `json:"insights"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// WeeklyReport is a generated per-week analytics report.
type WeeklyReport struct {
	WeekStart     time.Time       `json:"week_start"`
	WeekEnd       time.Time       `json:"week_end"`
	Stats         DatasetStats    `json:"stats"`
	TopCategories []CategoryStats `json:"top_categories"`
	TopVideo      *VideoRecord    `json:"top_video,omitempty"`
	TopAuthor     *AuthorStats    `json:"top_author,omitempty"`
	Daily         []DailyStats    `json:"daily"`
	Insights      []string        `json:"insights"`
	GeneratedAt   time.Time       `json:"generated_at"`
}
