// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package sentiment scores free text polarity on a [0, 1] scale and
// maps it to discrete labels. The analyzer never returns an error:
// unusable input degrades to a neutral result.
package sentiment

import (
	"strings"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
	"github.com/rs/zerolog"

	"github.com/biliscope/biliscope/internal/features"
	"github.com/biliscope/biliscope/internal/models"
)

// Label thresholds on the [0, 1] polarity scale.
const (
	positiveThreshold = 0.6
	negativeThreshold = 0.4
)

// Analyzer scores text with a domain lexicon first and falls back to a
// general-purpose scorer only when the lexicon finds no signal at all.
type Analyzer struct {
	logger zerolog.Logger
}

// NewAnalyzer creates a sentiment analyzer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAnalyzer(logger zerolog.Logger) *Analyzer {
	return &Analyzer{logger: logger.With().Str("component", "sentiment").Logger()}
}

// Analyze scores one text. Empty or whitespace-only input yields
// {neutral, 0.0} with zero confidence; everything else yields a score
// in [0, 1] with confidence |score-0.5|*2.
func (a *Analyzer) Analyze(text string) models.SentimentResult {
	if strings.TrimSpace(text) == "" {
		return models.SentimentResult{Sentiment: models.SentimentNeutral, Score: 0, Confidence: 0}
	}

	score, ok := lexiconScore(text)
	if !ok {
		score, ok = a.vaderScore(text)
	}
	if !ok {
		return result(0.5)
	}
	return result(score)
}

// AnalyzeBatch scores each text independently.
func (a *Analyzer) AnalyzeBatch(texts []string) []models.SentimentResult {
	out := make([]models.SentimentResult, len(texts))
	for i, text := range texts {
		out[i] = a.Analyze(text)
	}
	return out
}

// Summarize aggregates batch results into distribution counts and
// ratios. An empty batch yields zeroed ratios, not NaN.
func Summarize(results []models.SentimentResult) models.SentimentSummary {
	summary := models.SentimentSummary{
		TotalTexts:   len(results),
		Distribution: make(map[models.SentimentLabel]int, 3),
	}
	if len(results) == 0 {
		return summary
	}

	var scoreSum float64
	for _, r := range results {
		summary.Distribution[r.Sentiment]++
		scoreSum += r.Score
	}

	n := float64(len(results))
	summary.AverageScore = scoreSum / n
	summary.PositiveRatio = float64(summary.Distribution[models.SentimentPositive]) / n
	summary.NegativeRatio = float64(summary.Distribution[models.SentimentNegative]) / n
	summary.NeutralRatio = float64(summary.Distribution[models.SentimentNeutral]) / n
	return summary
}

// result maps a [0, 1] polarity score to the labeled result.
func result(score float64) models.SentimentResult {
	label := models.SentimentNeutral
	switch {
	case score > positiveThreshold:
		label = models.SentimentPositive
	case score < negativeThreshold:
		label = models.SentimentNegative
	}

	confidence := (score - 0.5) * 2
	if confidence < 0 {
		confidence = -confidence
	}
	return models.SentimentResult{Sentiment: label, Score: score, Confidence: confidence}
}

// lexiconScore is the primary scorer: the share of positive hits among
// all polarity hits in the segmented text. No hits means no signal and
// the second return is false.
func lexiconScore(text string) (float64, bool) {
	var positive, negative float64
	for _, token := range features.Segment(text) {
		if _, ok := positiveWords[token]; ok {
			positive++
		}
		if _, ok := negativeWords[token]; ok {
			negative++
		}
	}
	if positive+negative == 0 {
		return 0, false
	}
	return positive / (positive + negative), true
}

// vaderScore is the fallback scorer, rescaling the compound score from
// [-1, 1] to [0, 1]. A zero compound means the scorer found no signal
// either.
func (a *Analyzer) vaderScore(text string) (score float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn().Interface("panic", r).Msg("fallback scorer panicked")
			score, ok = 0, false
		}
	}()

	polarity := sentitext.PolarityScore(sentitext.Parse(text, lexicon.DefaultLexicon))
	if polarity.Compound == 0 {
		return 0, false
	}
	return (polarity.Compound + 1) / 2, true
}
