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

// DatasetStats computes the corpus-wide analytics overview. An empty
// corpus yields all-zero stats, not an error.
func (db *DB) DatasetStats(ctx context.Context) (*models.DatasetStats, error) {
	start := time.Now()

	row := db.conn.QueryRowContext(ctx, `
		SELECT count(*),
			coalesce(avg(view), 0), coalesce(avg(like_count), 0),
			coalesce(avg(coin), 0), coalesce(avg(share), 0),
			coalesce(max(view), 0), coalesce(min(view), 0)
		FROM videos`)

	var s models.DatasetStats
	err := row.Scan(&s.TotalVideos, &s.AvgViews, &s.AvgLikes,
		&s.AvgCoins, &s.AvgShares, &s.MaxViews, &s.MinViews)
	metrics.RecordDBQuery("stats", "videos", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("dataset stats: %w", err)
	}
	return &s, nil
}

// TopCategories returns categories ranked by video count.
func (db *DB) TopCategories(ctx context.Context, limit int) ([]models.CategoryStats, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT category, count(*), avg(view), sum(view)
		FROM videos
		WHERE category <> ''
		GROUP BY category
		ORDER BY count(*) DESC, category
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.CategoryStats
	for rows.Next() {
		var c models.CategoryStats
		if err := rows.Scan(&c.Category, &c.VideoCount, &c.AvgViews, &c.TotalViews); err != nil {
			return nil, fmt.Errorf("scan category stats: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}
	return out, nil
}

// TopAuthors returns authors ranked by total views.
func (db *DB) TopAuthors(ctx context.Context, limit int) ([]models.AuthorStats, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT author, count(*), avg(view), sum(view)
		FROM videos
		WHERE author <> ''
		GROUP BY author
		ORDER BY sum(view) DESC, author
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top authors: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.AuthorStats
	for rows.Next() {
		var a models.AuthorStats
		if err := rows.Scan(&a.Author, &a.VideoCount, &a.AvgViews, &a.TotalViews); err != nil {
			return nil, fmt.Errorf("scan author stats: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate author stats: %w", err)
	}
	return out, nil
}

// TopTags splits the comma separated tags column and ranks individual
// tags by how many videos carry them.
func (db *DB) TopTags(ctx context.Context, limit int) ([]models.TagStats, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT tag, count(*) AS cnt
		FROM (
			SELECT trim(unnest(string_split(tags, ','))) AS tag
			FROM videos
			WHERE tags <> ''
		)
		WHERE tag <> ''
		GROUP BY tag
		ORDER BY cnt DESC, tag
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top tags: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.TagStats
	for rows.Next() {
		var t models.TagStats
		if err := rows.Scan(&t.Tag, &t.VideoCount); err != nil {
			return nil, fmt.Errorf("scan tag stats: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag stats: %w", err)
	}
	return out, nil
}

// HotVideos returns the most viewed videos collected in the given time
// window. A zero since means no lower bound.
func (db *DB) HotVideos(ctx context.Context, since time.Time, limit int) ([]models.VideoRecord, error) {
	query := `
		SELECT bvid, title, author, category, description, tags,
			view, like_count, coin, share, danmaku, favorite, reply,
			duration, published_at, collected_at
		FROM videos`
	args := []any{}
	if !since.IsZero() {
		query += ` WHERE collected_at >= ?`
		args = append(args, since)
	}
	query += ` ORDER BY view DESC, bvid LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("hot videos: %w", err)
	}
	defer closeQuietly(rows)

	return collectVideos(rows)
}

// DailyStats aggregates per-day video counts and views over the window
// [from, to), bucketed by collection date. Days without data are
// omitted.
func (db *DB) DailyStats(ctx context.Context, from, to time.Time) ([]models.DailyStats, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT date_trunc('day', collected_at) AS day,
			count(*), avg(view), sum(view)
		FROM videos
		WHERE collected_at >= ? AND collected_at < ?
		GROUP BY day
		ORDER BY day`, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.DailyStats
	for rows.Next() {
		var d models.DailyStats
		var day sql.NullTime
		if err := rows.Scan(&day, &d.VideoCount, &d.AvgViews, &d.TotalViews); err != nil {
			return nil, fmt.Errorf("scan daily stats: %w", err)
		}
		if day.Valid {
			d.Date = day.Time
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stats: %w", err)
	}
	return out, nil
}
