// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package api

import (
	"net/http"
	"time"
)

// dateParam parses a YYYY-MM-DD query parameter, defaulting to now.
func dateParam(r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Now().UTC(), true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// DailyReport serves the daily analytics report, today's by default.
func (h *Handlers) DailyReport(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	date, ok := dateParam(r, "date")
	if !ok {
		rw.BadRequest("date must be formatted YYYY-MM-DD")
		return
	}

	report, err := h.reports.Daily(r.Context(), date)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(report)
}

// WeeklyReport serves the weekly analytics report. Without an explicit
// week_start the current week (starting Monday) is used.
func (h *Handlers) WeeklyReport(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	start, ok := dateParam(r, "week_start")
	if !ok {
		rw.BadRequest("week_start must be formatted YYYY-MM-DD")
		return
	}
	if r.URL.Query().Get("week_start") == "" {
		// Snap to the Monday of the current week.
		start = start.AddDate(0, 0, -int((start.Weekday()+6)%7))
	}

	report, err := h.reports.Weekly(r.Context(), start)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(report)
}
