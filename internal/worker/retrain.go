// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/biliscope/biliscope/internal/models"
)

// trainTimeout bounds one retraining cycle.
const trainTimeout = 30 * time.Minute

// CorpusLoader loads the full training corpus from storage.
type CorpusLoader interface {
	AllVideos(ctx context.Context) ([]models.VideoRecord, error)
	AllHistories(ctx context.Context) ([]models.UserHistory, error)
}

// Engine is the training surface of the ML service.
type Engine interface {
	Rebuild(videos []models.VideoRecord, histories []models.UserHistory)
	TrainPredictionModel(videos []models.VideoRecord) (models.ModelStatus, error)
}

// RetrainConfig holds retraining schedule settings.
type RetrainConfig struct {
	// Interval is how often the models are refit. Values <= 0 fall
	// back to 24h.
	Interval time.Duration

	// TrainOnStartup refits once immediately when the service starts.
	TrainOnStartup bool
}

// RetrainService periodically reloads the corpus and refits the
// similarity snapshot and the view prediction panel. It implements
// suture.Service.
type RetrainService struct {
	loader CorpusLoader
	engine Engine
	config RetrainConfig
	logger zerolog.Logger
}

// NewRetrainService creates a supervised retraining loop.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRetrainService(loader CorpusLoader, engine Engine, cfg RetrainConfig, logger zerolog.Logger) *RetrainService {
	return &RetrainService{
		loader: loader,
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "retrain").Logger(),
	}
}

// Serve implements suture.Service. It retrains on the configured
// schedule until the context is canceled. Training failures are logged
// and retried on the next tick rather than crashing the service.
func (s *RetrainService) Serve(ctx context.Context) error {
	interval := s.config.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	s.logger.Info().
		Dur("interval", interval).
		Bool("train_on_startup", s.config.TrainOnStartup).
		Msg("retrain service starting")

	if s.config.TrainOnStartup {
		if err := s.train(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("startup training failed, will retry on schedule")
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("retrain service shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := s.train(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled training failed")
			}
		}
	}
}

// train runs one full retraining cycle.
func (s *RetrainService) train(ctx context.Context) error {
	trainCtx, cancel := context.WithTimeout(ctx, trainTimeout)
	defer cancel()

	start := time.Now()

	videos, err := s.loader.AllVideos(trainCtx)
	if err != nil {
		return err
	}
	histories, err := s.loader.AllHistories(trainCtx)
	if err != nil {
		return err
	}

	s.engine.Rebuild(videos, histories)

	// A small corpus is normal early on; the similarity snapshot above
	// still refreshed, so treat it as a skip rather than a failure.
	if _, err := s.engine.TrainPredictionModel(videos); err != nil {
		if errors.Is(err, models.ErrInsufficientData) {
			s.logger.Info().
				Int("videos", len(videos)).
				Msg("skipping prediction training, corpus too small")
		} else {
			return err
		}
	}

	s.logger.Info().
		Int("videos", len(videos)).
		Int("users", len(histories)).
		Dur("duration", time.Since(start)).
		Msg("retraining complete")
	return nil
}

// String identifies the service in suture logs.
func (s *RetrainService) String() string {
	return "retrain-service"
}
