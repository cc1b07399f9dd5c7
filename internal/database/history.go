// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/biliscope/biliscope/internal/metrics"
	"github.com/biliscope/biliscope/internal/models"
)

// ReplaceUserHistory swaps a user's complete watch history in one
// transaction. Histories are snapshots, not event streams: the ingest
// layer always sends the full current history.
func (db *DB) ReplaceUserHistory(ctx context.Context, history *models.UserHistory) error {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history replace: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM watch_history WHERE user_id = ?`, history.UserID); err != nil {
		return fmt.Errorf("clear history for %s: %w", history.UserID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO watch_history (user_id, bvid, title, category,
			view, like_count, coin, share, duration, viewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range history.Entries {
		e := &history.Entries[i]
		if _, err := stmt.ExecContext(ctx,
			history.UserID, e.BVID, e.Title, e.Category,
			e.View, e.Like, e.Coin, e.Share, e.Duration, nullableTime(e.ViewedAt),
		); err != nil {
			metrics.RecordDBQuery("replace", "watch_history", time.Since(start), err)
			return fmt.Errorf("insert history entry %s/%s: %w", history.UserID, e.BVID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordDBQuery("replace", "watch_history", time.Since(start), err)
		return fmt.Errorf("commit history replace: %w", err)
	}
	metrics.RecordDBQuery("replace", "watch_history", time.Since(start), nil)
	metrics.IngestedHistories.Add(float64(len(history.Entries)))
	return nil
}

// GetUserHistory returns one user's watch history ordered by viewing
// time. An unknown user yields an UnknownEntityError.
func (db *DB) GetUserHistory(ctx context.Context, userID string) (*models.UserHistory, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT bvid, title, category, view, like_count, coin, share, duration, viewed_at
		FROM watch_history WHERE user_id = ?
		ORDER BY viewed_at NULLS FIRST, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", userID, err)
	}
	defer closeQuietly(rows)

	history := &models.UserHistory{UserID: userID}
	for rows.Next() {
		e, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		history.Entries = append(history.Entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	if len(history.Entries) == 0 {
		return nil, &models.UnknownEntityError{Kind: "user", ID: userID}
	}
	return history, nil
}

// AllHistories returns every user's watch history, used for engine
// rebuilds and clustering.
func (db *DB) AllHistories(ctx context.Context) ([]models.UserHistory, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, bvid, title, category, view, like_count, coin, share, duration, viewed_at
		FROM watch_history ORDER BY user_id, viewed_at NULLS FIRST, id`)
	metrics.RecordDBQuery("select_all", "watch_history", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load histories: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.UserHistory
	var current *models.UserHistory
	for rows.Next() {
		var userID string
		var e models.WatchHistoryEntry
		var viewed sql.NullTime
		if err := rows.Scan(&userID, &e.BVID, &e.Title, &e.Category,
			&e.View, &e.Like, &e.Coin, &e.Share, &e.Duration, &viewed); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if viewed.Valid {
			e.ViewedAt = viewed.Time
		}

		if current == nil || current.UserID != userID {
			out = append(out, models.UserHistory{UserID: userID})
			current = &out[len(out)-1]
		}
		current.Entries = append(current.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate histories: %w", err)
	}
	return out, nil
}

// CountUsers returns the number of distinct users with stored history.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(DISTINCT user_id) FROM watch_history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func scanHistoryEntry(s scanner) (*models.WatchHistoryEntry, error) {
	var e models.WatchHistoryEntry
	var viewed sql.NullTime
	if err := s.Scan(&e.BVID, &e.Title, &e.Category,
		&e.View, &e.Like, &e.Coin, &e.Share, &e.Duration, &viewed); err != nil {
		return nil, err
	}
	if viewed.Valid {
		e.ViewedAt = viewed.Time
	}
	return &e, nil
}
