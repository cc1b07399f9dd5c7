// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/biliscope/biliscope/internal/config"
	"github.com/biliscope/biliscope/internal/ml"
	"github.com/biliscope/biliscope/internal/models"
)

// Store is the persistence surface the handlers consume.
type Store interface {
	UpsertVideos(ctx context.Context, videos []models.VideoRecord) error
	GetVideo(ctx context.Context, bvid string) (*models.VideoRecord, error)
	ListVideos(ctx context.Context, category string, limit, offset int) ([]models.VideoRecord, error)
	CountVideos(ctx context.Context, category string) (int64, error)
	AllVideos(ctx context.Context) ([]models.VideoRecord, error)

	ReplaceUserHistory(ctx context.Context, history *models.UserHistory) error
	GetUserHistory(ctx context.Context, userID string) (*models.UserHistory, error)
	AllHistories(ctx context.Context) ([]models.UserHistory, error)
	CountUsers(ctx context.Context) (int64, error)

	DatasetStats(ctx context.Context) (*models.DatasetStats, error)
	TopCategories(ctx context.Context, limit int) ([]models.CategoryStats, error)
	TopAuthors(ctx context.Context, limit int) ([]models.AuthorStats, error)
	TopTags(ctx context.Context, limit int) ([]models.TagStats, error)
}

// Reports generates analytics reports.
type Reports interface {
	Daily(ctx context.Context, date time.Time) (*models.DailyReport, error)
	Weekly(ctx context.Context, weekStart time.Time) (*models.WeeklyReport, error)
}

// Handlers owns the HTTP endpoint implementations.
type Handlers struct {
	store    Store
	engine   *ml.Service
	reports  Reports
	cfg      *config.APIConfig
	validate *validator.Validate
}

// NewHandlers creates the handler set.
func NewHandlers(store Store, engine *ml.Service, reports Reports, cfg *config.APIConfig) *Handlers {
	return &Handlers{
		store:    store,
		engine:   engine,
		reports:  reports,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HealthCheck reports liveness plus basic corpus counters.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	videos, err := h.store.CountVideos(r.Context(), "")
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	users, err := h.store.CountUsers(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(map[string]any{
		"status":          "ok",
		"videos":          videos,
		"users":           users,
		"rebuild_version": h.engine.RebuildVersion(),
	})
}

// ingestVideosRequest is the batch video ingestion payload.
type ingestVideosRequest struct {
	Videos []models.VideoRecord `json:"videos" validate:"required,min=1,dive"`
}

// IngestVideos upserts a batch of video snapshots.
func (h *Handlers) IngestVideos(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ingestVideosRequest
	if !h.decode(rw, r, &req) {
		return
	}

	if err := h.store.UpsertVideos(r.Context(), req.Videos); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Created(map[string]any{"ingested": len(req.Videos)})
}

// ingestHistoryRequest is the watch history ingestion payload. The
// entries replace the user's previous snapshot wholesale.
type ingestHistoryRequest struct {
	Entries []models.WatchHistoryEntry `json:"entries" validate:"required,dive"`
}

// IngestHistory replaces one user's watch history.
func (h *Handlers) IngestHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("user id is required")
		return
	}

	var req ingestHistoryRequest
	if !h.decode(rw, r, &req) {
		return
	}

	history := &models.UserHistory{UserID: userID, Entries: req.Entries}
	if err := h.store.ReplaceUserHistory(r.Context(), history); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Created(map[string]any{"user_id": userID, "entries": len(req.Entries)})
}

// ListVideos returns a page of stored videos.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, offset := h.pagination(r)
	category := r.URL.Query().Get("category")

	videos, err := h.store.ListVideos(r.Context(), category, limit, offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	total, err := h.store.CountVideos(r.Context(), category)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.SuccessWithPagination(videos, &PaginationMeta{
		Total:   total,
		Count:   len(videos),
		Offset:  offset,
		Limit:   limit,
		HasMore: int64(offset+len(videos)) < total,
	})
}

// GetVideo returns one stored video.
func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	video, err := h.store.GetVideo(r.Context(), chi.URLParam(r, "bvid"))
	if err != nil {
		h.engineError(rw, err)
		return
	}
	rw.Success(video)
}

// AnalyzeVideos returns the corpus analytics overview.
func (h *Handlers) AnalyzeVideos(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	stats, err := h.store.DatasetStats(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	categories, err := h.store.TopCategories(r.Context(), 10)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	authors, err := h.store.TopAuthors(r.Context(), 10)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	tags, err := h.store.TopTags(r.Context(), 10)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(map[string]any{
		"stats":          stats,
		"top_categories": categories,
		"top_authors":    authors,
		"top_tags":       tags,
	})
}

// decode unmarshals and validates a request body, answering the error
// response itself when the payload is unusable.
func (h *Handlers) decode(rw *ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.BadRequest("invalid JSON payload: " + err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]string, 0, len(verrs))
			for _, ve := range verrs {
				details = append(details, ve.Error())
			}
			rw.ValidationError("payload validation failed", details)
		} else {
			rw.BadRequest("payload validation failed")
		}
		return false
	}
	return true
}

// pagination resolves limit/offset query parameters against the
// configured bounds.
func (h *Handlers) pagination(r *http.Request) (limit, offset int) {
	limit = h.cfg.DefaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > h.cfg.MaxPageSize {
		limit = h.cfg.MaxPageSize
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// engineError maps the engine error taxonomy to HTTP responses.
func (h *Handlers) engineError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInsufficientData):
		rw.Error(http.StatusUnprocessableEntity, ErrCodeInsufficientData, err.Error())
	case errors.Is(err, models.ErrModelNotTrained):
		rw.Error(http.StatusConflict, ErrCodeModelNotTrained, err.Error())
	case errors.Is(err, models.ErrUnknownEntity):
		rw.Error(http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		rw.DatabaseError(err)
	}
}
