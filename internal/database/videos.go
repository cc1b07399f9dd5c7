// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/biliscope/biliscope/internal/metrics"
	"github.com/biliscope/biliscope/internal/models"
)

// UpsertVideos inserts or refreshes video snapshots keyed by bvid. The
// whole batch commits in one transaction.
func (db *DB) UpsertVideos(ctx context.Context, videos []models.VideoRecord) error {
	if len(videos) == 0 {
		return nil
	}
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO videos (bvid, title, author, category, description, tags,
			view, like_count, coin, share, danmaku, favorite, reply,
			duration, published_at, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (bvid) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			category = excluded.category,
			description = excluded.description,
			tags = excluded.tags,
			view = excluded.view,
			like_count = excluded.like_count,
			coin = excluded.coin,
			share = excluded.share,
			danmaku = excluded.danmaku,
			favorite = excluded.favorite,
			reply = excluded.reply,
			duration = excluded.duration,
			published_at = excluded.published_at,
			collected_at = excluded.collected_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range videos {
		v := &videos[i]
		collected := v.CollectedAt
		if collected.IsZero() {
			collected = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			v.BVID, v.Title, v.Author, v.Category, v.Description, v.Tags,
			v.View, v.Like, v.Coin, v.Share, v.Danmaku, v.Favorite, v.Reply,
			v.Duration, nullableTime(v.PublishedAt), collected,
		); err != nil {
			metrics.RecordDBQuery("upsert", "videos", time.Since(start), err)
			return fmt.Errorf("upsert video %s: %w", v.BVID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordDBQuery("upsert", "videos", time.Since(start), err)
		return fmt.Errorf("commit upsert: %w", err)
	}
	metrics.RecordDBQuery("upsert", "videos", time.Since(start), nil)
	metrics.IngestedVideos.Add(float64(len(videos)))
	return nil
}

// GetVideo returns one video by id, or an UnknownEntityError.
func (db *DB) GetVideo(ctx context.Context, bvid string) (*models.VideoRecord, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT bvid, title, author, category, description, tags,
			view, like_count, coin, share, danmaku, favorite, reply,
			duration, published_at, collected_at
		FROM videos WHERE bvid = ?`, bvid)

	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.UnknownEntityError{Kind: "video", ID: bvid}
	}
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", bvid, err)
	}
	return v, nil
}

// ListVideos returns a page of videos, newest collected first. An empty
// category matches everything.
func (db *DB) ListVideos(ctx context.Context, category string, limit, offset int) ([]models.VideoRecord, error) {
	start := time.Now()

	query := `
		SELECT bvid, title, author, category, description, tags,
			view, like_count, coin, share, danmaku, favorite, reply,
			duration, published_at, collected_at
		FROM videos`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY collected_at DESC, bvid LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "videos", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer closeQuietly(rows)

	return collectVideos(rows)
}

// AllVideos returns the complete video set, used for engine rebuilds
// and training.
func (db *DB) AllVideos(ctx context.Context) ([]models.VideoRecord, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT bvid, title, author, category, description, tags,
			view, like_count, coin, share, danmaku, favorite, reply,
			duration, published_at, collected_at
		FROM videos ORDER BY collected_at, bvid`)
	metrics.RecordDBQuery("select_all", "videos", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}
	defer closeQuietly(rows)

	return collectVideos(rows)
}

// CountVideos returns the total number of stored videos, optionally
// filtered by category.
func (db *DB) CountVideos(ctx context.Context, category string) (int64, error) {
	query := `SELECT count(*) FROM videos`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}

	var count int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (*models.VideoRecord, error) {
	var v models.VideoRecord
	var published, collected sql.NullTime
	if err := s.Scan(
		&v.BVID, &v.Title, &v.Author, &v.Category, &v.Description, &v.Tags,
		&v.View, &v.Like, &v.Coin, &v.Share, &v.Danmaku, &v.Favorite, &v.Reply,
		&v.Duration, &published, &collected,
	); err != nil {
		return nil, err
	}
	if published.Valid {
		v.PublishedAt = published.Time
	}
	if collected.Valid {
		v.CollectedAt = collected.Time
	}
	return &v, nil
}

func collectVideos(rows *sql.Rows) ([]models.VideoRecord, error) {
	var out []models.VideoRecord
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return out, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
