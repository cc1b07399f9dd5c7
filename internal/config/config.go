// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package config provides layered configuration for Biliscope.
//
// Configuration is assembled from three sources in increasing priority:
// built-in defaults, an optional YAML config file, and BILISCOPE_*
// environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the application.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
	ML       MLConfig       `koanf:"ml"`
	Report   ReportConfig   `koanf:"report"`
	Worker   WorkerConfig   `koanf:"worker"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production"; it selects log
	// defaults and error verbosity.
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" opens an in-memory
	// database, used by tests.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage, e.g. "2GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`

	// RateLimitReqs/RateLimitWindow configure per-IP request limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MLConfig holds engine tunables for the analytics and recommendation
// engines. Defaults reproduce the documented scoring contracts; they are
// exposed as configuration so operators can tune without rebuilds.
type MLConfig struct {
	// TFIDFMaxFeatures bounds the content vocabulary size.
	TFIDFMaxFeatures int `koanf:"tfidf_max_features"`

	// DefaultTopN is the recommendation list length when the caller does
	// not specify one.
	DefaultTopN int `koanf:"default_top_n"`

	// SimilarUsers is the neighbor count for user-based collaborative
	// filtering.
	SimilarUsers int `koanf:"similar_users"`

	// Clusters is the k for user clustering.
	Clusters int `koanf:"clusters"`

	// Seed drives every stochastic component (train/validation split,
	// forest sampling, k-means init) for reproducible runs.
	Seed int64 `koanf:"seed"`

	// PreferredCategories are the named categories tracked as dedicated
	// profile dimensions, in order.
	PreferredCategories []string `koanf:"preferred_categories"`
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	// CachePath is the badger directory for generated report caching.
	// Empty disables the persistent cache.
	CachePath string `koanf:"cache_path"`

	// CacheTTL is how long a generated report stays valid.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// HotVideoLimit / TopCategoryLimit bound report sections.
	HotVideoLimit    int `koanf:"hot_video_limit"`
	TopCategoryLimit int `koanf:"top_category_limit"`
}

// WorkerConfig holds background training settings.
type WorkerConfig struct {
	// Enabled turns on the supervised retrain worker.
	Enabled bool `koanf:"enabled"`

	// RetrainInterval is how often models and matrices are refit.
	RetrainInterval time.Duration `koanf:"retrain_interval"`

	// TrainOnStartup refits once immediately after boot.
	TrainOnStartup bool `koanf:"train_on_startup"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/biliscope.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		ML: MLConfig{
			TFIDFMaxFeatures: 1000,
			DefaultTopN:      10,
			SimilarUsers:     5,
			Clusters:         5,
			Seed:             42,
			PreferredCategories: []string{
				"科技", "娱乐", "游戏", "知识", "音乐",
			},
		},
		Report: ReportConfig{
			CachePath:        "/data/reports",
			CacheTTL:         time.Hour,
			HotVideoLimit:    10,
			TopCategoryLimit: 5,
		},
		Worker: WorkerConfig{
			Enabled:         false, // opt-in: retraining is CPU-bound
			RetrainInterval: 24 * time.Hour,
			TrainOnStartup:  false,
		},
	}
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.ML.TFIDFMaxFeatures < 1 {
		return fmt.Errorf("ml.tfidf_max_features must be positive, got %d", c.ML.TFIDFMaxFeatures)
	}
	if c.ML.DefaultTopN < 1 {
		return fmt.Errorf("ml.default_top_n must be positive, got %d", c.ML.DefaultTopN)
	}
	if c.ML.Clusters < 2 {
		return fmt.Errorf("ml.clusters must be at least 2, got %d", c.ML.Clusters)
	}
	if c.ML.SimilarUsers < 1 {
		return fmt.Errorf("ml.similar_users must be positive, got %d", c.ML.SimilarUsers)
	}
	if c.Worker.Enabled && c.Worker.RetrainInterval < time.Minute {
		return fmt.Errorf("worker.retrain_interval must be at least 1m, got %s", c.Worker.RetrainInterval)
	}
	return nil
}
