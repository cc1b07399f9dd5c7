// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package cluster segments users into behavioral groups by k-means over
// their 9-dimensional watch-behavior features.
package cluster

import (
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/biliscope/biliscope/internal/features"
	"github.com/biliscope/biliscope/internal/models"
)

// Config tunes the clusterer.
type Config struct {
	// Clusters is the number of segments to produce.
	Clusters int

	// Seed drives centroid initialization.
	Seed int64
}

// DefaultConfig returns the default clustering configuration.
func DefaultConfig() Config {
	return Config{Clusters: 5, Seed: 42}
}

// Clusterer groups users into behavioral segments. It is stateless
// between calls; every Assign recomputes features and centroids from
// scratch.
type Clusterer struct {
	config  Config
	builder *features.Builder
	logger  zerolog.Logger
}

// NewClusterer creates a clusterer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClusterer(cfg Config, builder *features.Builder, logger zerolog.Logger) *Clusterer {
	if cfg.Clusters <= 0 {
		cfg.Clusters = 5
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	return &Clusterer{
		config:  cfg,
		builder: builder,
		logger:  logger.With().Str("component", "cluster").Logger(),
	}
}

// Assign partitions the given users into clusters and summarizes each
// cluster from the raw (unstandardized) feature means. Fewer users than
// clusters is an InsufficientDataError, never a partial result.
func (c *Clusterer) Assign(histories []models.UserHistory) (*models.ClusterAssignment, error) {
	start := time.Now()

	userIDs := make([]string, 0, len(histories))
	raw := make([][]float64, 0, len(histories))
	for i := range histories {
		h := &histories[i]
		if h.UserID == "" {
			continue
		}
		userIDs = append(userIDs, h.UserID)
		raw = append(raw, c.builder.ClusterFeatures(h.Entries))
	}

	if len(userIDs) < c.config.Clusters {
		return nil, &models.InsufficientDataError{Have: len(userIDs), Need: c.config.Clusters}
	}

	var scaler features.StandardScaler
	scaled, err := scaler.FitTransform(raw)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(c.config.Seed))
	labels := kMeans(scaled, c.config.Clusters, rng)

	assignments := make(map[string]int, len(userIDs))
	for i, id := range userIDs {
		assignments[id] = labels[i]
	}

	clusters := make([]models.ClusterInfo, 0, c.config.Clusters)
	for idx := 0; idx < c.config.Clusters; idx++ {
		info := summarize(idx, labels, raw)
		if info.UserCount == 0 {
			continue
		}
		clusters = append(clusters, info)
	}

	c.logger.Info().
		Int("users", len(userIDs)).
		Int("clusters", len(clusters)).
		Dur("elapsed", time.Since(start)).
		Msg("user clustering complete")

	return &models.ClusterAssignment{Assignments: assignments, Clusters: clusters}, nil
}

// summarize averages the raw features of one cluster's members and
// derives the description from the averages.
func summarize(idx int, labels []int, raw [][]float64) models.ClusterInfo {
	var count int
	sums := make([]float64, features.ClusterDims)
	for i, label := range labels {
		if label != idx {
			continue
		}
		for d, v := range raw[i] {
			sums[d] += v
		}
		count++
	}

	info := models.ClusterInfo{Index: idx, UserCount: count}
	if count == 0 {
		return info
	}

	avg := make(map[string]float64, features.ClusterDims)
	for d, name := range features.ClusterFeatureNames {
		avg[name] = sums[d] / float64(count)
	}
	info.AvgFeatures = avg
	info.Description = describe(avg)
	return info
}

// describe labels a cluster along four independent axes of its average
// behavior, joined with " | ".
func describe(avg map[string]float64) string {
	parts := make([]string, 0, 4)

	switch {
	case avg["total_videos"] > 50:
		parts = append(parts, "重度用户")
	case avg["total_videos"] > 20:
		parts = append(parts, "中度用户")
	default:
		parts = append(parts, "轻度用户")
	}

	if avg["avg_watch_time"] > 600 {
		parts = append(parts, "长视频偏好")
	} else {
		parts = append(parts, "短视频偏好")
	}

	if avg["diversity_score"] > 5 {
		parts = append(parts, "兴趣广泛")
	} else {
		parts = append(parts, "兴趣专一")
	}

	if avg["most_active_hour"] >= 18 || avg["most_active_hour"] <= 6 {
		parts = append(parts, "夜猫子")
	} else {
		parts = append(parts, "白天活跃")
	}

	return strings.Join(parts, " | ")
}
