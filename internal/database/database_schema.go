// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
database_schema.go - Database Schema Management

Tables:
  - users: accounts; name and email unique
  - movies, tv_shows: local copies of catalog titles keyed by the catalog id
  - persons, genres, companies: catalog entities shared between titles
  - movie_genres, movie_companies, movie_credits: links, replaced wholesale on
    every movie upsert
  - reviews, watched, watchlist: one row per (user, title)
  - lists, list_items: user lists and their titles

Title references:
Tracking rows carry media_type plus exactly one of movie_id / tv_id. media_id
repeats whichever is set so a single unique constraint covers both kinds.
CHECK constraints keep the three columns consistent.

Link tables have no declared unique constraints: DuckDB checks them eagerly
inside a transaction, which breaks delete-then-insert replacement. Uniqueness
of links is enforced when the rows are built.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// createIndexes creates lookup indexes
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

// titleRefColumns is shared by every table that points at one title.
const titleRefColumns = `
	media_type TEXT NOT NULL CHECK (media_type IN ('MOVIE', 'TVSHOW')),
	movie_id BIGINT,
	tv_id BIGINT,
	media_id BIGINT NOT NULL,
	CHECK ((movie_id IS NULL) <> (tv_id IS NULL)),
	CHECK ((media_type = 'MOVIE') = (movie_id IS NOT NULL)),
	CHECK (media_id = COALESCE(movie_id, tv_id))`

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			bio TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS movies (
			id BIGINT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			poster TEXT NOT NULL DEFAULT '',
			release_date DATE,
			runtime INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS tv_shows (
			id BIGINT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			poster TEXT NOT NULL DEFAULT '',
			first_air_date DATE,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS persons (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			profile_path TEXT NOT NULL DEFAULT '',
			popularity DOUBLE NOT NULL DEFAULT 0,
			jobs TEXT NOT NULL DEFAULT '[]'
		)`,

		`CREATE TABLE IF NOT EXISTS genres (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS companies (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			logo_path TEXT NOT NULL DEFAULT '',
			origin_country TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS movie_genres (
			movie_id BIGINT NOT NULL,
			genre_id BIGINT NOT NULL,
			position INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS movie_companies (
			movie_id BIGINT NOT NULL,
			company_id BIGINT NOT NULL,
			position INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS movie_credits (
			movie_id BIGINT NOT NULL,
			person_id BIGINT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('director', 'producer', 'executive_producer',
				'writer', 'composer', 'cinematographer', 'actor')),
			ord INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,` + titleRefColumns + `,
			rating DOUBLE NOT NULL CHECK (rating IN (0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0, 4.5, 5.0)),
			comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, media_type, media_id)
		)`,

		`CREATE TABLE IF NOT EXISTS watched (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,` + titleRefColumns + `,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, media_type, media_id)
		)`,

		`CREATE TABLE IF NOT EXISTS watchlist (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,` + titleRefColumns + `,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, media_type, media_id)
		)`,

		`CREATE TABLE IF NOT EXISTS lists (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS list_items (
			id TEXT PRIMARY KEY,
			list_id TEXT NOT NULL,` + titleRefColumns + `,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (list_id, media_type, media_id)
		)`,
	}
}

func indexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_movie_genres_movie ON movie_genres(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_movie_companies_movie ON movie_companies(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_movie_credits_movie ON movie_credits(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_user ON reviews(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watched_user ON watched(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watchlist_user ON watchlist(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lists_user ON lists(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_list_items_list ON list_items(list_id)`,
	}
}
