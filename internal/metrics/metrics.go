// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package metrics exposes the Prometheus instrumentation shared by the
// API, storage and engine layers.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "biliscope_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biliscope_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	// Database metrics.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "biliscope_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biliscope_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Ingestion metrics.
	IngestedVideos = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "biliscope_ingested_videos_total",
			Help: "Total number of video records ingested",
		},
	)

	IngestedHistories = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "biliscope_ingested_histories_total",
			Help: "Total number of watch history entries ingested",
		},
	)

	// Engine metrics.
	EngineTrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "biliscope_engine_training_duration_seconds",
			Help:    "Duration of engine training and rebuild operations in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"engine"},
	)

	EngineTrainingErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biliscope_engine_training_errors_total",
			Help: "Total number of failed engine training operations",
		},
		[]string{"engine"},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biliscope_recommendations_served_total",
			Help: "Total number of recommendation lists served",
		},
		[]string{"strategy"},
	)

	RebuildVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "biliscope_similarity_rebuild_version",
			Help: "Generation counter of the similarity matrix snapshot",
		},
	)

	// Report metrics.
	ReportCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "biliscope_report_cache_hits_total",
			Help: "Total number of report cache hits",
		},
	)

	ReportCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "biliscope_report_cache_misses_total",
			Help: "Total number of report cache misses",
		},
	)
)

// RecordAPIRequest records one served API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, route, code).Inc()
}

// RecordDBQuery records one database query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordTraining records one engine training or rebuild operation.
func RecordTraining(engine string, duration time.Duration, err error) {
	EngineTrainingDuration.WithLabelValues(engine).Observe(duration.Seconds())
	if err != nil {
		EngineTrainingErrors.WithLabelValues(engine).Inc()
	}
}

// RecordRecommendation records one served recommendation list.
func RecordRecommendation(strategy string) {
	RecommendationsServed.WithLabelValues(strategy).Inc()
}
