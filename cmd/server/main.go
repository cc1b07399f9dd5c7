// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package main is the entry point for the Biliscope server.
//
// Biliscope ingests video metadata and watch histories from a social
// video platform, stores them in DuckDB, and serves analytics, machine
// learning driven recommendations and periodic reports over a REST API.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 loading (defaults, file, env)
//  2. Database: DuckDB with the video and watch history schema
//  3. ML service: recommendation, prediction, clustering, sentiment
//  4. Report service: Badger-cached daily and weekly reports
//  5. Supervisor tree: retraining worker and HTTP server under suture
//
// Shutdown is graceful on SIGINT and SIGTERM: the HTTP server drains
// in-flight requests, then the database and report cache close.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biliscope/biliscope/internal/api"
	"github.com/biliscope/biliscope/internal/config"
	"github.com/biliscope/biliscope/internal/database"
	"github.com/biliscope/biliscope/internal/logging"
	"github.com/biliscope/biliscope/internal/ml"
	"github.com/biliscope/biliscope/internal/report"
	"github.com/biliscope/biliscope/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Bool("worker_enabled", cfg.Worker.Enabled).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	engine := ml.NewService(ml.Config{
		TFIDFMaxFeatures:    cfg.ML.TFIDFMaxFeatures,
		SimilarUsers:        cfg.ML.SimilarUsers,
		DefaultTopN:         cfg.ML.DefaultTopN,
		Clusters:            cfg.ML.Clusters,
		Seed:                cfg.ML.Seed,
		PreferredCategories: cfg.ML.PreferredCategories,
	}, logging.Logger())

	reports, err := report.NewService(report.Config{
		CachePath:        cfg.Report.CachePath,
		CacheTTL:         cfg.Report.CacheTTL,
		HotVideoLimit:    cfg.Report.HotVideoLimit,
		TopCategoryLimit: cfg.Report.TopCategoryLimit,
	}, db, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize report service")
	}
	defer func() {
		if err := reports.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing report cache")
		}
	}()

	handlers := api.NewHandlers(db, engine, reports, &cfg.API)
	router := api.NewRouter(handlers, &cfg.API)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := worker.NewTree(logging.NewSlogLogger(), worker.DefaultTreeConfig())

	if cfg.Worker.Enabled {
		tree.AddEngineService(worker.NewRetrainService(db, engine, worker.RetrainConfig{
			Interval:       cfg.Worker.RetrainInterval,
			TrainOnStartup: cfg.Worker.TrainOnStartup,
		}, logging.Logger()))
		logging.Info().
			Dur("interval", cfg.Worker.RetrainInterval).
			Msg("Retrain worker added to supervisor tree")
	}

	tree.AddAPIService(worker.NewHTTPService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	logging.Info().Msg("Shutdown complete")
}
