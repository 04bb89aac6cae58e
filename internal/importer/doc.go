// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package importer moves ratings, watched titles and watchlists in and out
// of AllScreen as CSV.
//
// # Import
//
// Each row is matched to a catalog title, by TMDb ID (source "tmdb") or by
// Name and Year through catalog search (source "search"), and then written
// through the media service so the title is stored before the activity row.
//
// Rows run in batches of five, concurrently within a batch, with a two second
// pause between batches. A catalog 429 is retried by the catalog client's
// import policy: three retries starting at 60s, growing by 1.5x, capped at
// 300s. A row never fails the import; it ends up added, updated, skipped,
// not found or failed, and the Summary lists the last two by line.
//
// Watched and watchlist imports add missing rows and skip present ones; they
// never remove anything. Rating imports create or overwrite the review.
//
// # Export
//
// Export writes Date, Name, Year, TMDb ID and Type, plus Rating and Comment
// for ratings. The file can be imported back with source "tmdb".
package importer
