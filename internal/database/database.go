// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package database is the DuckDB persistence layer for video records,
// watch histories and the analytics queries built on them.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/biliscope/biliscope/internal/config"
	"github.com/biliscope/biliscope/internal/logging"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the database and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	if dir := filepath.Dir(cfg.Path); cfg.Path != ":memory:" && dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	// Auto-install/auto-load stays off so startup cannot hang on network
	// access in restricted environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, threads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// DuckDB is embedded; a single writer connection avoids write-write
	// conflicts between concurrent transactions.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, cfg: cfg}
	if err := db.initSchema(context.Background()); err != nil {
		if cerr := conn.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("closing database after failed init")
		}
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Int("threads", threads).Msg("database ready")
	return db, nil
}

// NewMemory opens an in-memory database, used by tests.
func NewMemory() (*DB, error) {
	return New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 1})
}

// Conn returns the underlying SQL connection.
func (db *DB) Conn() *sql.DB { return db.conn }

// Close closes the database connection.
func (db *DB) Close() error { return db.conn.Close() }

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error { return db.conn.PingContext(ctx) }

// initSchema creates the tables and indexes if they do not exist.
func (db *DB) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE SEQUENCE IF NOT EXISTS watch_history_id_seq`,
		`CREATE TABLE IF NOT EXISTS videos (
			bvid         VARCHAR PRIMARY KEY,
			title        VARCHAR NOT NULL,
			author       VARCHAR DEFAULT '',
			category     VARCHAR DEFAULT '',
			description  VARCHAR DEFAULT '',
			tags         VARCHAR DEFAULT '',
			view         BIGINT DEFAULT 0,
			like_count   BIGINT DEFAULT 0,
			coin         BIGINT DEFAULT 0,
			share        BIGINT DEFAULT 0,
			danmaku      BIGINT DEFAULT 0,
			favorite     BIGINT DEFAULT 0,
			reply        BIGINT DEFAULT 0,
			duration     BIGINT DEFAULT 0,
			published_at TIMESTAMP,
			collected_at TIMESTAMP DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS watch_history (
			id        BIGINT PRIMARY KEY DEFAULT nextval('watch_history_id_seq'),
			user_id   VARCHAR NOT NULL,
			bvid      VARCHAR NOT NULL,
			title     VARCHAR DEFAULT '',
			category  VARCHAR DEFAULT '',
			view      BIGINT DEFAULT 0,
			like_count BIGINT DEFAULT 0,
			coin      BIGINT DEFAULT 0,
			share     BIGINT DEFAULT 0,
			duration  BIGINT DEFAULT 0,
			viewed_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_category ON videos(category)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_published ON videos(published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON watch_history(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
