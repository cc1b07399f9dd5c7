// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package similarity computes pairwise cosine similarity matrices over
// feature vectors and serves ranked neighbor lookups.
//
// A Matrix is immutable once built. Owners rebuild and swap it whenever
// the underlying entity set changes; concurrent reads of a built matrix
// are safe.
package similarity

import (
	"math"
	"sort"
)

// Neighbor is one ranked entry of a similarity lookup.
type Neighbor struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// Matrix is a symmetric pairwise cosine similarity matrix keyed by
// entity id.
type Matrix struct {
	ids   []string
	index map[string]int
	sims  [][]float64
}

// NewMatrix computes the pairwise cosine matrix for the given entities.
// ids and vectors must be parallel; entity order is preserved for stable
// tie-breaking in lookups. Zero-norm vectors produce 0 similarity with
// everything, never NaN.
func NewMatrix(ids []string, vectors [][]float64) *Matrix {
	n := len(ids)
	m := &Matrix{
		ids:   ids,
		index: make(map[string]int, n),
		sims:  make([][]float64, n),
	}
	for i, id := range ids {
		m.index[id] = i
		m.sims[i] = make([]float64, n)
	}

	norms := make([]float64, n)
	for i, vec := range vectors {
		norms[i] = l2Norm(vec)
	}

	for i := 0; i < n; i++ {
		m.sims[i][i] = 1 // self-similarity by construction
		for j := i + 1; j < n; j++ {
			s := cosine(vectors[i], vectors[j], norms[i], norms[j])
			m.sims[i][j] = s
			m.sims[j][i] = s
		}
	}
	return m
}

// Len returns the number of entities in the matrix.
func (m *Matrix) Len() int { return len(m.ids) }

// Contains reports whether the id is present in the matrix.
func (m *Matrix) Contains(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Similarity returns the pairwise similarity of two entities.
// The second return is false if either id is unknown.
func (m *Matrix) Similarity(a, b string) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return m.sims[i][j], true
}

// Neighbors returns the entity's neighbors sorted by descending
// similarity, self excluded, ties broken by first-seen input order.
// Returns nil for an unknown id or when fewer than 2 entities are
// loaded. topN <= 0 returns all neighbors.
func (m *Matrix) Neighbors(id string, topN int) []Neighbor {
	idx, ok := m.index[id]
	if !ok || len(m.ids) < 2 {
		return nil
	}

	neighbors := make([]Neighbor, 0, len(m.ids)-1)
	for j, other := range m.ids {
		if j == idx {
			continue
		}
		neighbors = append(neighbors, Neighbor{ID: other, Similarity: m.sims[idx][j]})
	}

	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].Similarity > neighbors[b].Similarity
	})

	if topN > 0 && len(neighbors) > topN {
		neighbors = neighbors[:topN]
	}
	return neighbors
}

// cosine computes the normalized dot product given precomputed norms.
func cosine(a, b []float64, normA, normB float64) float64 {
	if len(a) != len(b) || normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

// l2Norm returns the Euclidean norm of a vector.
func l2Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine computes cosine similarity between two raw vectors. Mismatched
// lengths or zero norms yield 0.
func Cosine(a, b []float64) float64 {
	return cosine(a, b, l2Norm(a), l2Norm(b))
}
