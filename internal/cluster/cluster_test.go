// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package cluster

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biliscope/biliscope/internal/features"
	"github.com/biliscope/biliscope/internal/models"
)

func newTestClusterer(clusters int) *Clusterer {
	builder := features.NewBuilder([]string{"科技", "娱乐", "游戏", "知识", "音乐"})
	return NewClusterer(Config{Clusters: clusters, Seed: 42}, builder, zerolog.Nop())
}

// historyOf builds a user with n entries in one category, watched at the
// given hour.
func historyOf(userID, category string, n int, hour int, duration int64) models.UserHistory {
	entries := make([]models.WatchHistoryEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, models.WatchHistoryEntry{
			BVID:     fmt.Sprintf("BV1%s%04d", userID, i),
			Category: category,
			Duration: duration,
			Like:     int64(i % 3),
			ViewedAt: time.Date(2026, 8, 1, hour, 0, 0, 0, time.UTC),
		})
	}
	return models.UserHistory{UserID: userID, Entries: entries}
}

func TestAssignFewerUsersThanClusters(t *testing.T) {
	c := newTestClusterer(5)

	histories := []models.UserHistory{
		historyOf("u1", "科技", 10, 20, 300),
		historyOf("u2", "音乐", 5, 9, 200),
	}
	_, err := c.Assign(histories)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}

	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err is %T, want *InsufficientDataError", err)
	}
	if insufficient.Have != 2 || insufficient.Need != 5 {
		t.Errorf("counts = %d/%d, want 2/5", insufficient.Have, insufficient.Need)
	}
}

func TestAssignCoversAllUsers(t *testing.T) {
	c := newTestClusterer(2)

	histories := []models.UserHistory{
		historyOf("heavy1", "科技", 80, 22, 900),
		historyOf("heavy2", "科技", 90, 23, 800),
		historyOf("light1", "音乐", 3, 10, 120),
		historyOf("light2", "音乐", 4, 11, 150),
	}
	got, err := c.Assign(histories)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if len(got.Assignments) != 4 {
		t.Fatalf("assigned %d users, want 4", len(got.Assignments))
	}
	for id, label := range got.Assignments {
		if label < 0 || label >= 2 {
			t.Errorf("user %q assigned out-of-range cluster %d", id, label)
		}
	}

	// Heavy and light users land in different clusters; same-kind users
	// land together.
	if got.Assignments["heavy1"] != got.Assignments["heavy2"] {
		t.Error("heavy users split across clusters")
	}
	if got.Assignments["light1"] != got.Assignments["light2"] {
		t.Error("light users split across clusters")
	}
	if got.Assignments["heavy1"] == got.Assignments["light1"] {
		t.Error("heavy and light users merged into one cluster")
	}

	var totalMembers int
	for _, info := range got.Clusters {
		totalMembers += info.UserCount
	}
	if totalMembers != 4 {
		t.Errorf("cluster sizes sum to %d, want 4", totalMembers)
	}
}

func TestAssignDeterministicWithSeed(t *testing.T) {
	histories := []models.UserHistory{
		historyOf("u1", "科技", 60, 21, 700),
		historyOf("u2", "科技", 55, 22, 650),
		historyOf("u3", "音乐", 5, 10, 180),
		historyOf("u4", "游戏", 30, 15, 400),
		historyOf("u5", "娱乐", 12, 12, 240),
		historyOf("u6", "知识", 45, 20, 500),
	}

	a, err := newTestClusterer(3).Assign(histories)
	if err != nil {
		t.Fatalf("Assign a: %v", err)
	}
	b, err := newTestClusterer(3).Assign(histories)
	if err != nil {
		t.Fatalf("Assign b: %v", err)
	}

	for id, label := range a.Assignments {
		if b.Assignments[id] != label {
			t.Errorf("user %q assignment differs: %d vs %d", id, label, b.Assignments[id])
		}
	}
}

func TestAssignEmptyHistoriesDoNotFail(t *testing.T) {
	c := newTestClusterer(2)

	histories := []models.UserHistory{
		{UserID: "empty1"},
		{UserID: "empty2"},
		historyOf("active", "科技", 40, 20, 500),
	}
	got, err := c.Assign(histories)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if len(got.Assignments) != 3 {
		t.Errorf("assigned %d users, want 3", len(got.Assignments))
	}
}

func TestDescribeAxes(t *testing.T) {
	tests := []struct {
		name string
		avg  map[string]float64
		want string
	}{
		{
			name: "heavy long broad night",
			avg: map[string]float64{
				"total_videos":     80,
				"avg_watch_time":   900,
				"diversity_score":  7,
				"most_active_hour": 22,
			},
			want: "重度用户 | 长视频偏好 | 兴趣广泛 | 夜猫子",
		},
		{
			name: "moderate short narrow day",
			avg: map[string]float64{
				"total_videos":     30,
				"avg_watch_time":   200,
				"diversity_score":  2,
				"most_active_hour": 14,
			},
			want: "中度用户 | 短视频偏好 | 兴趣专一 | 白天活跃",
		},
		{
			name: "light early morning counts as night",
			avg: map[string]float64{
				"total_videos":     5,
				"avg_watch_time":   100,
				"diversity_score":  1,
				"most_active_hour": 3,
			},
			want: "轻度用户 | 短视频偏好 | 兴趣专一 | 夜猫子",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.avg); got != tt.want {
				t.Errorf("describe = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClusterInfoAveragesRawFeatures(t *testing.T) {
	c := newTestClusterer(2)

	histories := []models.UserHistory{
		historyOf("heavy1", "科技", 80, 22, 900),
		historyOf("heavy2", "科技", 80, 22, 900),
		historyOf("light1", "音乐", 4, 10, 120),
		historyOf("light2", "音乐", 4, 10, 120),
	}
	got, err := c.Assign(histories)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	heavyCluster := got.Assignments["heavy1"]
	for _, info := range got.Clusters {
		if info.Index != heavyCluster {
			continue
		}
		if info.AvgFeatures["total_videos"] != 80 {
			t.Errorf("heavy cluster total_videos = %v, want 80", info.AvgFeatures["total_videos"])
		}
		if info.AvgFeatures["avg_watch_time"] != 900 {
			t.Errorf("heavy cluster avg_watch_time = %v, want 900", info.AvgFeatures["avg_watch_time"])
		}
	}
}

func TestKMeansSeparatesObviousGroups(t *testing.T) {
	points := [][]float64{
		{0, 0}, {0.1, 0.2}, {0.2, 0.1},
		{10, 10}, {10.1, 9.8}, {9.9, 10.2},
	}
	labels := kMeans(points, 2, rand.New(rand.NewSource(42)))

	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Errorf("first group split: %v", labels[:3])
	}
	if labels[3] != labels[4] || labels[4] != labels[5] {
		t.Errorf("second group split: %v", labels[3:])
	}
	if labels[0] == labels[3] {
		t.Error("both groups assigned the same cluster")
	}
}
