// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package features builds numeric and textual feature vectors from raw
// video and watch-history records. It is the leaf of the engine
// dependency graph: similarity, clustering and prediction all consume
// its output and never touch raw records directly.
package features

import (
	"strings"
	"sync"
	"unicode"

	"github.com/go-ego/gse"
)

var (
	segOnce sync.Once
	seg     gse.Segmenter
	segErr  error
)

// Segment splits mixed Chinese/Latin text into lowercase tokens using
// the embedded dictionary. Single-rune punctuation and whitespace tokens
// are dropped. Returns nil for empty input; never fails on missing text.
func Segment(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	segOnce.Do(func() {
		segErr = seg.LoadDict()
	})
	if segErr != nil {
		// Dictionary load failure degrades to whitespace tokenization
		// rather than losing the document.
		return fallbackTokens(text)
	}

	raw := seg.Cut(text, true)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" || isPunctOnly(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// fallbackTokens is the degraded tokenizer used when the segmenter
// dictionary is unavailable.
func fallbackTokens(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// isPunctOnly reports whether every rune in the token is punctuation or
// a symbol.
func isPunctOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
