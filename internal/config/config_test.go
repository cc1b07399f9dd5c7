// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"huge port", func(c *Config) { c.Server.Port = 70000 }},
		{"negative timeout", func(c *Config) { c.Server.Timeout = -time.Second }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"zero page size", func(c *Config) { c.API.DefaultPageSize = 0 }},
		{"max below default page size", func(c *Config) { c.API.MaxPageSize = 5 }},
		{"zero tfidf features", func(c *Config) { c.ML.TFIDFMaxFeatures = 0 }},
		{"zero top n", func(c *Config) { c.ML.DefaultTopN = 0 }},
		{"single cluster", func(c *Config) { c.ML.Clusters = 1 }},
		{"zero similar users", func(c *Config) { c.ML.SimilarUsers = 0 }},
		{"worker interval too small", func(c *Config) {
			c.Worker.Enabled = true
			c.Worker.RetrainInterval = time.Second
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("BILISCOPE_SERVER__PORT", "9191")
	t.Setenv("BILISCOPE_ML__CLUSTERS", "7")
	t.Setenv("BILISCOPE_ML__PREFERRED_CATEGORIES", "tech, music ,game")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("env override for port not applied: got %d", cfg.Server.Port)
	}
	if cfg.ML.Clusters != 7 {
		t.Errorf("env override for clusters not applied: got %d", cfg.ML.Clusters)
	}
	want := []string{"tech", "music", "game"}
	if len(cfg.ML.PreferredCategories) != len(want) {
		t.Fatalf("preferred categories = %v, want %v", cfg.ML.PreferredCategories, want)
	}
	for i := range want {
		if cfg.ML.PreferredCategories[i] != want[i] {
			t.Errorf("preferred categories[%d] = %q, want %q", i, cfg.ML.PreferredCategories[i], want[i])
		}
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct{ in, want string }{
		{"BILISCOPE_SERVER__PORT", "server.port"},
		{"BILISCOPE_DATABASE__MAX_MEMORY", "database.max_memory"},
		{"BILISCOPE_ML__TFIDF_MAX_FEATURES", "ml.tfidf_max_features"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
