// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package models

import "time"

// WatchHistoryEntry is one viewing event in a user's watch history.
// Exactly one entry maps to exactly one video id. Entries are ordered by
// ViewedAt when stored but all aggregation over them is order-independent.
type WatchHistoryEntry struct {
	BVID     string `json:"bvid" db:"bvid" validate:"required"`
	Title    string `json:"title,omitempty" db:"title"`
	Category string `json:"category,omitempty" db:"category"`

	// Counters are snapshots at viewing time, not live values.
	View  int64 `json:"view" db:"view" validate:"gte=0"`
	Like  int64 `json:"like" db:"like_count" validate:"gte=0"`
	Coin  int64 `json:"coin" db:"coin" validate:"gte=0"`
	Share int64 `json:"share" db:"share" validate:"gte=0"`

	// Duration is the video length in seconds at viewing time.
	Duration int64 `json:"duration" db:"duration" validate:"gte=0"`

	// ViewedAt is the viewing timestamp. Zero means unknown; hour-of-day
	// aggregation falls back to noon for users with no usable timestamps.
	ViewedAt time.Time `json:"viewed_at,omitempty" db:"viewed_at"`
}

// UserHistory groups a user's watch history entries.
type UserHistory struct {
	UserID  string              `json:"user_id" validate:"required"`
	Entries []WatchHistoryEntry `json:"entries"`
}

// WatchedSet returns the set of video ids present in the history.
func (h *UserHistory) WatchedSet() map[string]struct{} {
	watched := make(map[string]struct{}, len(h.Entries))
	for i := range h.Entries {
		if h.Entries[i].BVID != "" {
			watched[h.Entries[i].BVID] = struct{}{}
		}
	}
	return watched
}
