// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package database is the DuckDB persistence layer for AllScreen.
//
// # Overview
//
// Movies, TV shows, persons, genres and companies are stored under the ids
// the external catalog assigns them, so an upsert of the same title always
// lands on the same row. User activity (reviews, watched, watchlist, list
// items) points at exactly one title through the media_type / movie_id /
// tv_id / media_id columns; see database_schema.go.
//
// # Files
//
//   - database.go: lifecycle, pool configuration, per-key locks
//   - database_schema.go: tables, CHECK constraints and indexes
//   - crud_media.go: catalog upserts and relation loading
//   - crud_tracking.go: toggles, reviews and activity listings
//   - crud_lists.go: user lists with owner checks
//   - crud_users.go: accounts and public profiles
//   - media_ref.go: the one place a MediaRef becomes columns and back
//
// # Concurrency
//
// DuckDB aborts a transaction on a write-write conflict instead of waiting.
// Catalog upserts share person rows, so they run one at a time; toggles and
// review writes lock their (table, owner, title) key. Every method takes a
// context and applies a 30 second deadline when the caller set none.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	state, err := db.ToggleWatchlist(ctx, userID, models.MovieRef(603))
package database
