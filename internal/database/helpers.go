// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package database

import (
	"database/sql"
	"errors"
	"io"

	"github.com/biliscope/biliscope/internal/logging"
)

// closeQuietly closes a resource and logs instead of returning the
// error; used in defers where the primary error already propagates.
func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		logging.Warn().Err(err).Msg("closing database resource")
	}
}

// rollbackQuietly rolls a transaction back, tolerating the no-op case
// after a successful commit.
func rollbackQuietly(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Warn().Err(err).Msg("rolling back transaction")
	}
}
