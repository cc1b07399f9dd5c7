// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package recommend

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/biliscope/biliscope/internal/features"
	"github.com/biliscope/biliscope/internal/models"
	"github.com/biliscope/biliscope/internal/similarity"
)

// Config tunes the engine.
type Config struct {
	// TFIDFMaxFeatures bounds the content vocabulary.
	TFIDFMaxFeatures int

	// SimilarUsers is the neighbor count for user-based CF.
	SimilarUsers int

	// DefaultTopN is used when a request does not specify a list length.
	DefaultTopN int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		TFIDFMaxFeatures: 1000,
		SimilarUsers:     defaultSimilarUsers,
		DefaultTopN:      10,
	}
}

// Engine owns the candidate video snapshot, the user histories and the
// two similarity matrices derived from them. Rebuild replaces all
// cached artifacts under the write lock; recommendation calls hold the
// read lock, so reads never observe a half-built matrix.
type Engine struct {
	config  Config
	builder *features.Builder
	logger  zerolog.Logger

	mu            sync.RWMutex
	videos        []models.VideoRecord
	byID          map[string]*models.VideoRecord
	histories     map[string]*models.UserHistory
	contentMatrix *similarity.Matrix
	userMatrix    *similarity.Matrix
	version       int
	builtAt       time.Time
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, builder *features.Builder, logger zerolog.Logger) *Engine {
	if cfg.TFIDFMaxFeatures <= 0 {
		cfg.TFIDFMaxFeatures = 1000
	}
	if cfg.SimilarUsers <= 0 {
		cfg.SimilarUsers = defaultSimilarUsers
	}
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = 10
	}
	return &Engine{
		config:  cfg,
		builder: builder,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}
}

// Rebuild replaces the engine's candidate set and recomputes both
// similarity matrices. This is CPU-bound and blocking; callers run it
// off any latency-sensitive path.
func (e *Engine) Rebuild(videos []models.VideoRecord, histories []models.UserHistory) {
	start := time.Now()

	// Content matrix: TF-IDF over segmented title+description.
	ids := make([]string, len(videos))
	for i := range videos {
		ids[i] = videos[i].BVID
	}
	docs := e.builder.ContentDocuments(videos)
	tfidf := features.FitTFIDF(docs, features.TFIDFConfig{MaxFeatures: e.config.TFIDFMaxFeatures})
	contentMatrix := similarity.NewMatrix(ids, tfidf.Rows)

	// User matrix: cosine over standardized 14-d profiles. Profiles are
	// recomputed fresh on every rebuild, never carried over.
	userIDs := make([]string, 0, len(histories))
	profiles := make([][]float64, 0, len(histories))
	historyIndex := make(map[string]*models.UserHistory, len(histories))
	for i := range histories {
		h := &histories[i]
		if h.UserID == "" {
			continue
		}
		userIDs = append(userIDs, h.UserID)
		profiles = append(profiles, e.builder.UserProfile(h.Entries))
		historyIndex[h.UserID] = h
	}

	var userMatrix *similarity.Matrix
	if len(userIDs) > 0 {
		var scaler features.StandardScaler
		if scaled, err := scaler.FitTransform(profiles); err == nil {
			userMatrix = similarity.NewMatrix(userIDs, scaled)
		}
	}

	byID := make(map[string]*models.VideoRecord, len(videos))

	e.mu.Lock()
	e.videos = videos
	for i := range e.videos {
		byID[e.videos[i].BVID] = &e.videos[i]
	}
	e.byID = byID
	e.histories = historyIndex
	e.contentMatrix = contentMatrix
	e.userMatrix = userMatrix
	e.version++
	e.builtAt = time.Now()
	version := e.version
	e.mu.Unlock()

	e.logger.Info().
		Int("videos", len(videos)).
		Int("users", len(userIDs)).
		Int("vocabulary", tfidf.NumFeatures()).
		Int("version", version).
		Dur("elapsed", time.Since(start)).
		Msg("similarity matrices rebuilt")
}

// Version returns the rebuild generation, 0 before the first Rebuild.
func (e *Engine) Version() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.version
}

// topN resolves a requested list length against the configured default.
func (e *Engine) topN(requested int) int {
	if requested > 0 {
		return requested
	}
	return e.config.DefaultTopN
}

// Popular returns the popularity-ranked recommendation list.
func (e *Engine) Popular(topN int) []models.Recommendation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Popularity(e.videos, e.topN(topN), time.Now())
}

// ByContent returns videos most similar to the seed video. An unknown
// seed returns an empty list.
func (e *Engine) ByContent(seed string, topN int) []models.Recommendation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ContentBased(e.contentMatrix, e.byID, seed, e.topN(topN))
}

// ByHistory returns item-CF recommendations for an explicit watch
// history, falling back to popularity when the history is empty.
func (e *Engine) ByHistory(history []models.WatchHistoryEntry, topN int) []models.Recommendation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ItemCF(e.videos, history, e.topN(topN), time.Now())
}

// ByUser returns user-CF recommendations for a known user id, with the
// documented popularity fallbacks.
func (e *Engine) ByUser(userID string, topN int) []models.Recommendation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return UserCF(e.userMatrix, e.histories, e.videos, userID, e.config.SimilarUsers, e.topN(topN), time.Now())
}

// SimilarUsers returns the target user's nearest neighbors from the
// user similarity matrix. Unknown users return an empty list.
func (e *Engine) SimilarUsers(userID string, topN int) []models.SimilarUser {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.userMatrix == nil {
		return nil
	}
	neighbors := e.userMatrix.Neighbors(userID, e.topN(topN))
	out := make([]models.SimilarUser, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, models.SimilarUser{UserID: n.ID, Similarity: n.Similarity})
	}
	return out
}
