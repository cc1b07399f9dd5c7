// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package features

import (
	"math"
	"sort"
)

// TFIDF is a fitted term-frequency/inverse-document-frequency matrix
// over a document corpus. The vocabulary is bounded by MaxFeatures,
// keeping the most frequent terms; rows are l2-normalized so cosine
// similarity reduces to a dot product.
//
// A TFIDF instance is immutable after Fit; rebuild it whenever the
// underlying document set changes.
type TFIDF struct {
	// Vocabulary maps a term to its column index.
	Vocabulary map[string]int

	// IDF holds the smoothed inverse document frequency per column.
	IDF []float64

	// Rows holds one l2-normalized weight vector per input document.
	Rows [][]float64
}

// TFIDFConfig configures vocabulary construction.
type TFIDFConfig struct {
	// MaxFeatures bounds the vocabulary size. <= 0 means unbounded.
	MaxFeatures int
}

// FitTFIDF builds a TF-IDF matrix from pre-tokenized documents.
// Empty documents yield all-zero rows rather than errors.
func FitTFIDF(docs [][]string, cfg TFIDFConfig) *TFIDF {
	n := len(docs)

	// Corpus term frequency and document frequency.
	corpusTF := make(map[string]int)
	docFreq := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			corpusTF[term]++
			if _, ok := firstSeen[term]; !ok {
				firstSeen[term] = len(firstSeen)
			}
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	// Select vocabulary: most frequent terms first, first-seen order
	// breaking ties so the matrix is deterministic.
	terms := make([]string, 0, len(corpusTF))
	for term := range corpusTF {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if corpusTF[terms[i]] != corpusTF[terms[j]] {
			return corpusTF[terms[i]] > corpusTF[terms[j]]
		}
		return firstSeen[terms[i]] < firstSeen[terms[j]]
	})
	if cfg.MaxFeatures > 0 && len(terms) > cfg.MaxFeatures {
		terms = terms[:cfg.MaxFeatures]
	}

	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}

	// Smoothed IDF: ln((1+n)/(1+df)) + 1.
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	t := &TFIDF{Vocabulary: vocab, IDF: idf, Rows: make([][]float64, n)}
	for i, doc := range docs {
		t.Rows[i] = t.vectorize(doc)
	}
	return t
}

// vectorize computes the l2-normalized TF-IDF weight vector of a
// tokenized document against the fitted vocabulary.
func (t *TFIDF) vectorize(doc []string) []float64 {
	row := make([]float64, len(t.IDF))
	for _, term := range doc {
		if col, ok := t.Vocabulary[term]; ok {
			row[col]++
		}
	}

	var norm float64
	for col := range row {
		if row[col] > 0 {
			row[col] *= t.IDF[col]
			norm += row[col] * row[col]
		}
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range row {
			row[col] /= norm
		}
	}
	return row
}

// Transform vectorizes a new tokenized document with the fitted
// vocabulary and IDF weights.
func (t *TFIDF) Transform(doc []string) []float64 {
	return t.vectorize(doc)
}

// NumFeatures returns the vocabulary size.
func (t *TFIDF) NumFeatures() int { return len(t.IDF) }
