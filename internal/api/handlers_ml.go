// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package api

import (
	"net/http"
	"strconv"

	"github.com/biliscope/biliscope/internal/logging"
	"github.com/biliscope/biliscope/internal/ml"
	"github.com/biliscope/biliscope/internal/models"
)

// recommendationsRequest selects the strategy through its populated
// fields: video_bvid → content, history → item CF, user_id → user CF,
// none → popularity.
type recommendationsRequest struct {
	VideoBVID string                     `json:"video_bvid"`
	UserID    string                     `json:"user_id"`
	History   []models.WatchHistoryEntry `json:"history" validate:"omitempty,dive"`
	TopN      int                        `json:"top_n" validate:"gte=0,lte=100"`
}

// Recommendations serves ranked recommendation lists.
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req recommendationsRequest
	if !h.decode(rw, r, &req) {
		return
	}

	recs := h.engine.Recommend(ml.RecommendRequest{
		SeedBVID: req.VideoBVID,
		UserID:   req.UserID,
		History:  req.History,
		TopN:     req.TopN,
	})
	rw.Success(map[string]any{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// SimilarUsers returns the nearest neighbors of a user.
func (h *Handlers) SimilarUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		rw.BadRequest("user_id query parameter is required")
		return
	}

	topN := 0
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			topN = v
		}
	}

	neighbors := h.engine.SimilarUsers(userID, topN)
	rw.Success(map[string]any{
		"user_id":       userID,
		"similar_users": neighbors,
	})
}

// RebuildEngine reloads the corpus and rebuilds the similarity
// snapshot. This is CPU-bound; the worker calls it on a schedule and
// this endpoint exists for explicit refreshes after bulk ingestion.
func (h *Handlers) RebuildEngine(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	videos, err := h.store.AllVideos(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	histories, err := h.store.AllHistories(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	h.engine.Rebuild(videos, histories)
	rw.Success(map[string]any{
		"rebuild_version": h.engine.RebuildVersion(),
		"videos":          len(videos),
		"users":           len(histories),
	})
}

// TrainPredictionModel fits the view prediction panel on the stored
// corpus.
func (h *Handlers) TrainPredictionModel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	videos, err := h.store.AllVideos(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	status, err := h.engine.TrainPredictionModel(videos)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("prediction training failed")
		h.engineError(rw, err)
		return
	}
	rw.Success(status)
}

// predictViewsRequest carries the video whose views to estimate.
type predictViewsRequest struct {
	Video models.VideoRecord `json:"video" validate:"required"`
}

// PredictViews estimates the view count for one video.
func (h *Handlers) PredictViews(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req predictViewsRequest
	if !h.decode(rw, r, &req) {
		return
	}

	views, err := h.engine.PredictViews(&req.Video)
	if err != nil {
		h.engineError(rw, err)
		return
	}
	rw.Success(map[string]any{
		"bvid":            req.Video.BVID,
		"predicted_views": views,
	})
}

// ModelStatus reports the prediction engine's training state.
func (h *Handlers) ModelStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.engine.ModelStatus())
}

// UserClustering segments all stored users by watch behavior.
func (h *Handlers) UserClustering(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	histories, err := h.store.AllHistories(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	assignment, err := h.engine.ClusterUsers(histories)
	if err != nil {
		h.engineError(rw, err)
		return
	}
	rw.Success(assignment)
}

// sentimentRequest is a batch of texts to score.
type sentimentRequest struct {
	Texts []string `json:"texts" validate:"required"`
}

// SentimentAnalysis scores a batch of texts and aggregates the result.
func (h *Handlers) SentimentAnalysis(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req sentimentRequest
	if !h.decode(rw, r, &req) {
		return
	}

	results, summary := h.engine.AnalyzeSentiment(req.Texts)
	rw.Success(map[string]any{
		"results": results,
		"summary": summary,
	})
}

// trendRequest is a labeled series plus the projection horizon.
type trendRequest struct {
	Series  []models.TimePoint `json:"series" validate:"required,dive"`
	Periods int                `json:"periods" validate:"gte=0,lte=365"`
}

// TrendPrediction extrapolates a time series.
func (h *Handlers) TrendPrediction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req trendRequest
	if !h.decode(rw, r, &req) {
		return
	}

	points := h.engine.PredictTrend(req.Series, req.Periods)
	rw.Success(map[string]any{
		"predictions": points,
		"count":       len(points),
	})
}
