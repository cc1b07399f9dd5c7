// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package models defines the domain types shared across the storage,
// engine and API layers.
//
// Records are validated once at the ingestion boundary; the engines treat
// them as read-only inputs and tolerate missing optional fields through
// documented defaults instead of dynamic lookups.
package models

import "time"

// VideoRecord is a single video's metadata and engagement counters as
// collected from the platform. BVID is the unique, immutable identifier;
// everything else is a snapshot at collection time.
type VideoRecord struct {
	BVID        string `json:"bvid" db:"bvid" validate:"required"`
	Title       string `json:"title" db:"title" validate:"required"`
	Author      string `json:"author" db:"author"`
	Category    string `json:"category" db:"category"`
	Description string `json:"description,omitempty" db:"description"`
	Tags        string `json:"tags,omitempty" db:"tags"`

	// Engagement counters.
	View     int64 `json:"view" db:"view" validate:"gte=0"`
	Like     int64 `json:"like" db:"like_count" validate:"gte=0"`
	Coin     int64 `json:"coin" db:"coin" validate:"gte=0"`
	Share    int64 `json:"share" db:"share" validate:"gte=0"`
	Danmaku  int64 `json:"danmaku" db:"danmaku" validate:"gte=0"`
	Favorite int64 `json:"favorite" db:"favorite" validate:"gte=0"`
	Reply    int64 `json:"reply" db:"reply" validate:"gte=0"`

	// Duration is the video length in seconds. Zero means unknown.
	Duration int64 `json:"duration" db:"duration" validate:"gte=0"`

	// PublishedAt is the publish timestamp. The zero value means the
	// publish time is unknown; recency decay is skipped in that case.
	PublishedAt time.Time `json:"published_at,omitempty" db:"published_at"`

	// CollectedAt is when this snapshot was ingested.
	CollectedAt time.Time `json:"collected_at,omitempty" db:"collected_at"`
}

// HasPublishTime reports whether the record carries a usable publish
// timestamp.
func (v *VideoRecord) HasPublishTime() bool {
	return !v.PublishedAt.IsZero()
}

// ContentText returns the text used for content feature extraction:
// title and description concatenated, missing parts contributing an
// empty string.
func (v *VideoRecord) ContentText() string {
	if v.Description == "" {
		return v.Title
	}
	return v.Title + " " + v.Description
}
