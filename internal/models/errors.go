// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package models

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. Data-quality problems on single records are
// handled by silently dropping the row; these errors mark structural
// failures that the caller has to act on.
var (
	// ErrInsufficientData indicates too few rows or users for a
	// statistically meaningful operation.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUnknownEntity indicates a lookup of an id absent from a matrix
	// or dataset.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrModelNotTrained indicates inference was requested before fit.
	ErrModelNotTrained = errors.New("model not trained")

	// ErrFeatureExtraction indicates input rows were malformed beyond
	// silent exclusion.
	ErrFeatureExtraction = errors.New("feature extraction failed")
)

// InsufficientDataError wraps ErrInsufficientData with row counts.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d rows, need %d", e.Have, e.Need)
}

// Unwrap makes errors.Is(err, ErrInsufficientData) hold.
func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// UnknownEntityError wraps ErrUnknownEntity with the missing id.
type UnknownEntityError struct {
	Kind string
	ID   string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.ID)
}

// Unwrap makes errors.Is(err, ErrUnknownEntity) hold.
func (e *UnknownEntityError) Unwrap() error { return ErrUnknownEntity }
