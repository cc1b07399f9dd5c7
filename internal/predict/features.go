// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package predict trains a panel of regression models over engineered
// video features and serves view-count predictions from the best one.
package predict

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/biliscope/biliscope/internal/models"
)

// otherCategory is the bucket that absorbs missing and training-time
// unseen category labels.
const otherCategory = "其他"

// Feature column names, in matrix order.
var featureColumns = []string{
	"hour",
	"day_of_week",
	"month",
	"title_length",
	"title_word_count",
	"category_encoded",
	"duration_minutes",
}

// LabelEncoder maps category labels to dense integer codes. The
// vocabulary is fixed at fit time; unseen labels encode as the "other"
// bucket instead of failing.
type LabelEncoder struct {
	classes map[string]int
}

// FitLabelEncoder builds an encoder over the observed labels plus the
// designated other bucket. Codes are assigned in sorted label order so
// encodings are deterministic.
func FitLabelEncoder(labels []string) *LabelEncoder {
	seen := map[string]struct{}{otherCategory: {}}
	for _, l := range labels {
		if l == "" {
			l = otherCategory
		}
		seen[l] = struct{}{}
	}

	sorted := make([]string, 0, len(seen))
	for l := range seen {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)

	classes := make(map[string]int, len(sorted))
	for i, l := range sorted {
		classes[l] = i
	}
	return &LabelEncoder{classes: classes}
}

// Encode returns the label's code, mapping empty and unseen labels to
// the other bucket.
func (e *LabelEncoder) Encode(label string) int {
	if label == "" {
		label = otherCategory
	}
	if code, ok := e.classes[label]; ok {
		return code
	}
	return e.classes[otherCategory]
}

// NumClasses returns the vocabulary size.
func (e *LabelEncoder) NumClasses() int { return len(e.classes) }

// featurize converts one video record into a feature row. The second
// return is false when the row is unusable for training (no publish
// time: the temporal features would be meaningless).
func featurize(v *models.VideoRecord, enc *LabelEncoder, strict bool) ([]float64, bool) {
	if strict && !v.HasPublishTime() {
		return nil, false
	}

	var hour, dow, month float64
	if v.HasPublishTime() {
		hour = float64(v.PublishedAt.Hour())
		dow = float64(int(v.PublishedAt.Weekday()+6) % 7) // Monday=0 as in the collected data
		month = float64(v.PublishedAt.Month())
	}

	return []float64{
		hour,
		dow,
		month,
		float64(utf8.RuneCountInString(v.Title)),
		float64(len(strings.Fields(v.Title))),
		float64(enc.Encode(v.Category)),
		float64(v.Duration) / 60,
	}, true
}
