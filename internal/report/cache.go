// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/biliscope/biliscope/internal/metrics"
)

// cache is the badger-backed report cache. Entries expire by TTL, so a
// regenerated report replaces a stale one at most one TTL late.
type cache struct {
	db  *badger.DB
	ttl time.Duration
}

// openCache opens the cache at path, or in memory when path is empty.
func openCache(path string, ttl time.Duration) (*cache, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open report cache: %w", err)
	}
	return &cache{db: db, ttl: ttl}, nil
}

func (c *cache) close() error { return c.db.Close() }

// get unmarshals the cached value into out, reporting whether a live
// entry existed.
func (c *cache) get(key string, out any) (bool, error) {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.ReportCacheMisses.Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read report cache %s: %w", key, err)
	}
	metrics.ReportCacheHits.Inc()
	return true, nil
}

// put stores value under key with the configured TTL.
func (c *cache) put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", key, err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), raw)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("write report cache %s: %w", key, err)
	}
	return nil
}
