// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package ml is the facade over the analytics engines. The API layer
// and background workers talk to the Service only; the engines never
// call each other.
package ml

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/biliscope/biliscope/internal/cluster"
	"github.com/biliscope/biliscope/internal/features"
	"github.com/biliscope/biliscope/internal/metrics"
	"github.com/biliscope/biliscope/internal/models"
	"github.com/biliscope/biliscope/internal/predict"
	"github.com/biliscope/biliscope/internal/recommend"
	"github.com/biliscope/biliscope/internal/sentiment"
	"github.com/biliscope/biliscope/internal/trend"
)

// Config collects the tunables of all engines.
type Config struct {
	TFIDFMaxFeatures    int
	SimilarUsers        int
	DefaultTopN         int
	Clusters            int
	Seed                int64
	PreferredCategories []string
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		TFIDFMaxFeatures:    1000,
		SimilarUsers:        5,
		DefaultTopN:         10,
		Clusters:            5,
		Seed:                42,
		PreferredCategories: []string{"科技", "娱乐", "游戏", "知识", "音乐"},
	}
}

// RecommendRequest selects a recommendation strategy. The first
// populated field wins: SeedBVID → content-based, History → item CF,
// UserID → user CF, none → popularity.
type RecommendRequest struct {
	SeedBVID string
	UserID   string
	History  []models.WatchHistoryEntry
	TopN     int
}

// Service coordinates the engines behind one interface. Each engine
// guards its own state; the Service itself holds no mutable data.
type Service struct {
	logger zerolog.Logger

	engine    *recommend.Engine
	predictor *predict.Predictor
	clusterer *cluster.Clusterer
	analyzer  *sentiment.Analyzer
}

// NewService wires up all engines from one configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(cfg Config, logger zerolog.Logger) *Service {
	builder := features.NewBuilder(cfg.PreferredCategories)
	return &Service{
		logger: logger.With().Str("component", "ml").Logger(),
		engine: recommend.NewEngine(recommend.Config{
			TFIDFMaxFeatures: cfg.TFIDFMaxFeatures,
			SimilarUsers:     cfg.SimilarUsers,
			DefaultTopN:      cfg.DefaultTopN,
		}, builder, logger),
		predictor: predict.NewPredictor(predict.Config{Seed: cfg.Seed}, logger),
		clusterer: cluster.NewClusterer(cluster.Config{
			Clusters: cfg.Clusters,
			Seed:     cfg.Seed,
		}, builder, logger),
		analyzer: sentiment.NewAnalyzer(logger),
	}
}

// Rebuild replaces the recommendation engine's snapshot with fresh data.
func (s *Service) Rebuild(videos []models.VideoRecord, histories []models.UserHistory) {
	start := time.Now()
	s.engine.Rebuild(videos, histories)
	metrics.RecordTraining("similarity", time.Since(start), nil)
	metrics.RebuildVersion.Set(float64(s.engine.Version()))
}

// RebuildVersion returns the recommendation snapshot generation, 0
// before the first Rebuild.
func (s *Service) RebuildVersion() int {
	return s.engine.Version()
}

// Recommend dispatches to the strategy implied by the request.
func (s *Service) Recommend(req RecommendRequest) []models.Recommendation {
	var recs []models.Recommendation
	strategy := models.StrategyPopularity

	switch {
	case req.SeedBVID != "":
		strategy = models.StrategyContent
		recs = s.engine.ByContent(req.SeedBVID, req.TopN)
	case len(req.History) > 0:
		strategy = models.StrategyItemCF
		recs = s.engine.ByHistory(req.History, req.TopN)
	case req.UserID != "":
		strategy = models.StrategyUserCF
		recs = s.engine.ByUser(req.UserID, req.TopN)
	default:
		recs = s.engine.Popular(req.TopN)
	}

	metrics.RecordRecommendation(string(strategy))
	return recs
}

// SimilarUsers returns the target user's nearest neighbors.
func (s *Service) SimilarUsers(userID string, topN int) []models.SimilarUser {
	return s.engine.SimilarUsers(userID, topN)
}

// TrainPredictionModel fits the view prediction panel.
func (s *Service) TrainPredictionModel(videos []models.VideoRecord) (models.ModelStatus, error) {
	start := time.Now()
	status, err := s.predictor.Train(videos)
	metrics.RecordTraining("predict", time.Since(start), err)
	return status, err
}

// PredictViews estimates the view count of one video.
func (s *Service) PredictViews(video *models.VideoRecord) (int64, error) {
	return s.predictor.Predict(video)
}

// ModelStatus reports the prediction engine's training state.
func (s *Service) ModelStatus() models.ModelStatus {
	return s.predictor.Status()
}

// ClusterUsers segments users by watch behavior.
func (s *Service) ClusterUsers(histories []models.UserHistory) (*models.ClusterAssignment, error) {
	start := time.Now()
	assignment, err := s.clusterer.Assign(histories)
	metrics.RecordTraining("cluster", time.Since(start), err)
	return assignment, err
}

// AnalyzeSentiment scores each text and aggregates the batch.
func (s *Service) AnalyzeSentiment(texts []string) ([]models.SentimentResult, models.SentimentSummary) {
	results := s.analyzer.AnalyzeBatch(texts)
	return results, sentiment.Summarize(results)
}

// PredictTrend extrapolates a time series.
func (s *Service) PredictTrend(series []models.TimePoint, periods int) []models.TrendPoint {
	return trend.Predict(series, periods)
}
