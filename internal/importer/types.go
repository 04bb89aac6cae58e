// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package importer

import (
	"strings"
	"time"

	"github.com/tomtom215/allscreen/internal/models"
)

// Kind selects what an import or export file holds.
type Kind string

const (
	KindRatings   Kind = "ratings"
	KindWatched   Kind = "watched"
	KindWatchlist Kind = "watchlist"
)

// ParseKind validates a kind taken from a URL or flag.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRatings, KindWatched, KindWatchlist:
		return k, nil
	}
	return "", models.Invalid("kind", "must be one of ratings, watched, watchlist, got %q", s)
}

// Source selects how rows are matched to catalog titles.
type Source string

const (
	// SourceSearch resolves Name and Year through catalog search.
	SourceSearch Source = "search"
	// SourceTMDB uses the TMDb ID column directly.
	SourceTMDB Source = "tmdb"
)

// ParseSource validates a source; empty means SourceSearch.
func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case "":
		return SourceSearch, nil
	case SourceSearch, SourceTMDB:
		return src, nil
	}
	return "", models.Invalid("source", "must be search or tmdb, got %q", s)
}

// Row is one parsed CSV data row.
type Row struct {
	// Line is the 1-based line of the row in the file, header included.
	Line    int
	Name    string
	Year    int
	Rating  string
	Comment string
	Date    *time.Time
	TMDbID  int64
	Type    models.MediaKind
	// Problem is set when a cell could not be parsed; the row is reported
	// as failed without touching the catalog.
	Problem string
}

// RowIssue identifies a row that was not imported.
type RowIssue struct {
	Line   int    `json:"line"`
	Name   string `json:"name,omitempty"`
	Year   int    `json:"year,omitempty"`
	TMDbID int64  `json:"tmdb_id,omitempty"`
	Reason string `json:"reason"`
}

func issue(r Row, reason string) RowIssue {
	return RowIssue{Line: r.Line, Name: r.Name, Year: r.Year, TMDbID: r.TMDbID, Reason: reason}
}

// Summary reports the outcome of an import. Rows never fail the import as a
// whole; each lands in exactly one bucket.
type Summary struct {
	Kind      Kind       `json:"kind"`
	Source    Source     `json:"source"`
	Total     int        `json:"total"`
	Added     int        `json:"added"`
	Updated   int        `json:"updated"`
	Skipped   int        `json:"skipped"`
	NotFound  []RowIssue `json:"not_found"`
	Failed    []RowIssue `json:"failed"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
}

// Processed returns the number of rows with an outcome.
func (s *Summary) Processed() int {
	return s.Added + s.Updated + s.Skipped + len(s.NotFound) + len(s.Failed)
}

// Duration returns the duration of the import operation.
func (s *Summary) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RowsPerSecond returns the import rate.
func (s *Summary) RowsPerSecond() float64 {
	d := s.Duration().Seconds()
	if d == 0 {
		return 0
	}
	return float64(s.Processed()) / d
}

// counts returns the per-outcome totals for metrics.
func (s *Summary) counts() map[string]int {
	return map[string]int{
		"added":     s.Added,
		"updated":   s.Updated,
		"skipped":   s.Skipped,
		"not_found": len(s.NotFound),
		"failed":    len(s.Failed),
	}
}
