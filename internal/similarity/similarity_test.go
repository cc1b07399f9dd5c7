// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package similarity

import (
	"math"
	"testing"
)

func TestNeighborsSortedAndSelfExcluded(t *testing.T) {
	ids := []string{"a", "b", "c"}
	vectors := [][]float64{
		{1, 0},
		{1, 0.1},
		{0, 1},
	}
	m := NewMatrix(ids, vectors)

	got := m.Neighbors("a", 10)
	if len(got) != 2 {
		t.Fatalf("neighbor count = %d, want 2", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "c" {
		t.Errorf("neighbor order = [%s %s], want [b c]", got[0].ID, got[1].ID)
	}
	for _, n := range got {
		if n.ID == "a" {
			t.Errorf("self must be excluded from neighbors")
		}
	}
	if got[0].Similarity < got[1].Similarity {
		t.Errorf("neighbors not sorted descending: %v", got)
	}
}

func TestNeighborsUnknownIDReturnsNil(t *testing.T) {
	m := NewMatrix([]string{"a", "b"}, [][]float64{{1, 0}, {0, 1}})
	if got := m.Neighbors("missing", 5); got != nil {
		t.Errorf("unknown id should return nil, got %v", got)
	}
}

func TestNeighborsSingleEntityReturnsNil(t *testing.T) {
	m := NewMatrix([]string{"only"}, [][]float64{{1, 2}})
	if got := m.Neighbors("only", 5); got != nil {
		t.Errorf("fewer than 2 entities should return nil, got %v", got)
	}
}

func TestNeighborsTieBrokenByInputOrder(t *testing.T) {
	// b and c are identical vectors: b was loaded first, b wins.
	ids := []string{"a", "b", "c"}
	vectors := [][]float64{
		{1, 1},
		{1, 0},
		{1, 0},
	}
	m := NewMatrix(ids, vectors)

	got := m.Neighbors("a", 2)
	if got[0].ID != "b" {
		t.Errorf("tie should preserve first-seen order, got %s first", got[0].ID)
	}
}

func TestNeighborsTopNLimits(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	vectors := [][]float64{{1, 0}, {0.9, 0.1}, {0.5, 0.5}, {0, 1}}
	m := NewMatrix(ids, vectors)

	if got := m.Neighbors("a", 2); len(got) != 2 {
		t.Errorf("topN=2 returned %d neighbors", len(got))
	}
	if got := m.Neighbors("a", 0); len(got) != 3 {
		t.Errorf("topN=0 should return all neighbors, got %d", len(got))
	}
}

func TestZeroVectorYieldsZeroNotNaN(t *testing.T) {
	// A zero vector is what the feature builder produces for an empty
	// history; similarity must stay defined.
	m := NewMatrix([]string{"zero", "unit"}, [][]float64{{0, 0}, {1, 0}})

	sim, ok := m.Similarity("zero", "unit")
	if !ok {
		t.Fatalf("Similarity lookup failed")
	}
	if math.IsNaN(sim) {
		t.Fatalf("zero-norm similarity is NaN")
	}
	if sim != 0 {
		t.Errorf("zero-norm similarity = %v, want 0", sim)
	}
}

func TestCosineBasics(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2}, []float64{1, 2}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"mismatched lengths", []float64{1}, []float64{1, 2}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarityMatrixSymmetric(t *testing.T) {
	ids := []string{"x", "y", "z"}
	vectors := [][]float64{{1, 2, 3}, {3, 2, 1}, {1, 1, 1}}
	m := NewMatrix(ids, vectors)

	for _, a := range ids {
		for _, b := range ids {
			ab, _ := m.Similarity(a, b)
			ba, _ := m.Similarity(b, a)
			if ab != ba {
				t.Errorf("matrix not symmetric for (%s,%s): %v vs %v", a, b, ab, ba)
			}
		}
	}
	if self, _ := m.Similarity("x", "x"); self != 1 {
		t.Errorf("self similarity = %v, want 1", self)
	}
}
