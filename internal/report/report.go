// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package report generates daily and weekly analytics reports over the
// collected video corpus, with a TTL cache so repeated requests within
// the cache window reuse the generated report.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/biliscope/biliscope/internal/models"
)

// trendThreshold is the relative change treated as movement; smaller
// swings report as stable.
const trendThreshold = 0.10

// Config tunes report generation.
type Config struct {
	// CachePath is the badger directory. Empty uses an in-memory cache.
	CachePath string

	// CacheTTL is how long a generated report stays valid.
	CacheTTL time.Duration

	HotVideoLimit    int
	TopCategoryLimit int
}

// Store is the persistence surface reports are generated from.
type Store interface {
	DatasetStats(ctx context.Context) (*models.DatasetStats, error)
	TopCategories(ctx context.Context, limit int) ([]models.CategoryStats, error)
	TopAuthors(ctx context.Context, limit int) ([]models.AuthorStats, error)
	HotVideos(ctx context.Context, since time.Time, limit int) ([]models.VideoRecord, error)
	DailyStats(ctx context.Context, from, to time.Time) ([]models.DailyStats, error)
}

// Service generates and caches reports.
type Service struct {
	config Config
	store  Store
	cache  *cache
	logger zerolog.Logger
}

// NewService creates the report service and opens its cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(cfg Config, store Store, logger zerolog.Logger) (*Service, error) {
	if cfg.HotVideoLimit <= 0 {
		cfg.HotVideoLimit = 10
	}
	if cfg.TopCategoryLimit <= 0 {
		cfg.TopCategoryLimit = 5
	}

	c, err := openCache(cfg.CachePath, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	return &Service{
		config: cfg,
		store:  store,
		cache:  c,
		logger: logger.With().Str("component", "report").Logger(),
	}, nil
}

// Close releases the cache.
func (s *Service) Close() error { return s.cache.close() }

// Daily returns the report for the given date, generating and caching
// it on a miss. The date is truncated to its UTC day.
func (s *Service) Daily(ctx context.Context, date time.Time) (*models.DailyReport, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	key := "daily:" + day.Format("2006-01-02")

	var cached models.DailyReport
	if ok, err := s.cache.get(key, &cached); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("report cache read failed")
	} else if ok {
		return &cached, nil
	}

	report, err := s.generateDaily(ctx, day)
	if err != nil {
		return nil, err
	}
	if err := s.cache.put(key, report); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
	return report, nil
}

// Weekly returns the report for the week starting at weekStart,
// truncated to its UTC day.
func (s *Service) Weekly(ctx context.Context, weekStart time.Time) (*models.WeeklyReport, error) {
	start := weekStart.UTC().Truncate(24 * time.Hour)
	key := "weekly:" + start.Format("2006-01-02")

	var cached models.WeeklyReport
	if ok, err := s.cache.get(key, &cached); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("report cache read failed")
	} else if ok {
		return &cached, nil
	}

	report, err := s.generateWeekly(ctx, start)
	if err != nil {
		return nil, err
	}
	if err := s.cache.put(key, report); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
	return report, nil
}

func (s *Service) generateDaily(ctx context.Context, day time.Time) (*models.DailyReport, error) {
	stats, err := s.store.DatasetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("daily report stats: %w", err)
	}
	categories, err := s.store.TopCategories(ctx, s.config.TopCategoryLimit)
	if err != nil {
		return nil, fmt.Errorf("daily report categories: %w", err)
	}
	hot, err := s.store.HotVideos(ctx, day, s.config.HotVideoLimit)
	if err != nil {
		return nil, fmt.Errorf("daily report hot videos: %w", err)
	}

	// Trend over the trailing week, ending with the report day.
	daily, err := s.store.DailyStats(ctx, day.AddDate(0, 0, -6), day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("daily report trend window: %w", err)
	}

	report := &models.DailyReport{
		Date:          day,
		Stats:         *stats,
		TopCategories: categories,
		HotVideos:     hot,
		Trend:         trendDirection(daily),
		GeneratedAt:   time.Now().UTC(),
	}
	report.Insights = dailyInsights(report)

	s.logger.Info().Str("date", day.Format("2006-01-02")).Msg("daily report generated")
	return report, nil
}

func (s *Service) generateWeekly(ctx context.Context, start time.Time) (*models.WeeklyReport, error) {
	end := start.AddDate(0, 0, 7)

	stats, err := s.store.DatasetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("weekly report stats: %w", err)
	}
	categories, err := s.store.TopCategories(ctx, s.config.TopCategoryLimit)
	if err != nil {
		return nil, fmt.Errorf("weekly report categories: %w", err)
	}
	daily, err := s.store.DailyStats(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("weekly report daily stats: %w", err)
	}

	report := &models.WeeklyReport{
		WeekStart:     start,
		WeekEnd:       end.AddDate(0, 0, -1),
		Stats:         *stats,
		TopCategories: categories,
		Daily:         daily,
		GeneratedAt:   time.Now().UTC(),
	}

	if hot, err := s.store.HotVideos(ctx, start, 1); err != nil {
		return nil, fmt.Errorf("weekly report top video: %w", err)
	} else if len(hot) > 0 {
		report.TopVideo = &hot[0]
	}
	if authors, err := s.store.TopAuthors(ctx, 1); err != nil {
		return nil, fmt.Errorf("weekly report top author: %w", err)
	} else if len(authors) > 0 {
		report.TopAuthor = &authors[0]
	}

	report.Insights = weeklyInsights(report)

	s.logger.Info().Str("week_start", start.Format("2006-01-02")).Msg("weekly report generated")
	return report, nil
}

// trendDirection compares the last day's total views against the
// average of the earlier days. Under two days of data has no trend.
func trendDirection(daily []models.DailyStats) models.TrendDirection {
	if len(daily) < 2 {
		return models.TrendNoData
	}

	var earlier float64
	for _, d := range daily[:len(daily)-1] {
		earlier += float64(d.TotalViews)
	}
	earlier /= float64(len(daily) - 1)
	if earlier == 0 {
		return models.TrendNoData
	}

	last := float64(daily[len(daily)-1].TotalViews)
	switch {
	case last > earlier*(1+trendThreshold):
		return models.TrendRising
	case last < earlier*(1-trendThreshold):
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

func dailyInsights(r *models.DailyReport) []string {
	var insights []string

	if len(r.TopCategories) > 0 {
		top := r.TopCategories[0]
		insights = append(insights,
			fmt.Sprintf("最热门分区是%s，共收录 %d 个视频", top.Category, top.VideoCount))
	}
	if len(r.HotVideos) > 0 {
		insights = append(insights,
			fmt.Sprintf("今日最热视频《%s》播放量达 %d", r.HotVideos[0].Title, r.HotVideos[0].View))
	}

	switch r.Trend {
	case models.TrendRising:
		insights = append(insights, "整体播放量呈上升趋势")
	case models.TrendFalling:
		insights = append(insights, "整体播放量呈下降趋势")
	case models.TrendStable:
		insights = append(insights, "整体播放量保持平稳")
	case models.TrendNoData:
	}
	return insights
}

func weeklyInsights(r *models.WeeklyReport) []string {
	var insights []string

	if r.TopVideo != nil {
		insights = append(insights,
			fmt.Sprintf("本周最热视频《%s》播放量达 %d", r.TopVideo.Title, r.TopVideo.View))
	}
	if r.TopAuthor != nil {
		insights = append(insights,
			fmt.Sprintf("本周最活跃UP主是%s，总播放量 %d", r.TopAuthor.Author, r.TopAuthor.TotalViews))
	}
	if len(r.TopCategories) > 0 {
		insights = append(insights,
			fmt.Sprintf("本周最热门分区是%s", r.TopCategories[0].Category))
	}

	var total int64
	for _, d := range r.Daily {
		total += d.VideoCount
	}
	if total > 0 {
		insights = append(insights, fmt.Sprintf("本周共收录 %d 个视频", total))
	}
	return insights
}
