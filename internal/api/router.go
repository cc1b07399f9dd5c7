// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/biliscope/biliscope/internal/config"
)

// NewRouter assembles the full route tree with the standard middleware
// stack.
func NewRouter(h *Handlers, cfg *config.APIConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(RequestLogger)
	if cfg.RateLimitReqs > 0 {
		r.Use(RateLimit(cfg.RateLimitReqs, cfg.RateLimitWindow))
	}

	r.Get("/health", h.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/videos", func(r chi.Router) {
			r.Get("/", h.ListVideos)
			r.Post("/", h.IngestVideos)
			r.Get("/{bvid}", h.GetVideo)
		})

		r.Post("/users/{userID}/history", h.IngestHistory)

		r.Get("/analysis/videos", h.AnalyzeVideos)

		r.Route("/ml", func(r chi.Router) {
			r.Post("/recommendations", h.Recommendations)
			r.Get("/similar-users", h.SimilarUsers)
			r.Post("/rebuild", h.RebuildEngine)
			r.Post("/train-prediction-model", h.TrainPredictionModel)
			r.Post("/predict-views", h.PredictViews)
			r.Get("/model-status", h.ModelStatus)
			r.Get("/user-clustering", h.UserClustering)
			r.Post("/sentiment-analysis", h.SentimentAnalysis)
			r.Post("/trend-prediction", h.TrendPrediction)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/daily", h.DailyReport)
			r.Get("/weekly", h.WeeklyReport)
		})
	})

	return r
}
