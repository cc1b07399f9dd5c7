// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

// Package recommend implements the four recommendation strategies and
// the stateful engine that owns the similarity matrices they share.
//
// # Strategies
//
//   - Popularity: engagement-weighted ranking with recency decay
//   - Content-based: TF-IDF cosine neighbors of a seed video
//   - Item CF: history-filtered engagement ranking with category boost
//   - User CF: aggregation over the histories of similar users
//
// Scores are comparable within one strategy only; every result carries
// its strategy tag.
//
// # Thread Safety
//
// Each strategy is a pure function over its inputs. The Engine guards
// its cached matrices with an RWMutex: Rebuild takes the write lock,
// recommendation calls take read locks, so a rebuild never runs
// concurrently with reads of the same instance.
package recommend
