// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/allscreen/internal/catalog"
	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/metrics"
	"github.com/tomtom215/allscreen/internal/models"
)

// Searcher resolves titles by name.
type Searcher interface {
	Search(ctx context.Context, kind models.MediaKind, query string, page, year int) (*catalog.ResultPage, error)
}

// Tracker writes user activity, fetching the title first.
type Tracker interface {
	Review(ctx context.Context, userID string, ref models.MediaRef, rating models.Rating, comment string) (*models.ReviewWrite, error)
	MarkWatched(ctx context.Context, userID string, ref models.MediaRef) (bool, error)
	AddToWatchlist(ctx context.Context, userID string, ref models.MediaRef) (bool, error)
}

// Importer applies CSV files to a user's activity in paced batches.
type Importer struct {
	cfg      *config.ImportConfig
	searcher Searcher
	tracker  Tracker

	mu      sync.Mutex
	running map[string]bool
}

// New creates an importer. searcher and tracker should share a catalog
// client configured with the import retry policy.
func New(cfg *config.ImportConfig, searcher Searcher, tracker Tracker) *Importer {
	return &Importer{
		cfg:      cfg,
		searcher: searcher,
		tracker:  tracker,
		running:  make(map[string]bool),
	}
}

// ImportCSV parses r and imports it for userID. Bad files fail up front;
// after that only cancellation stops the import, and the summary so far is
// returned with ctx.Err().
func (i *Importer) ImportCSV(ctx context.Context, userID string, kind Kind, source Source, r io.Reader) (*Summary, error) {
	rows, err := ParseCSV(r, i.cfg.MaxRows)
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, userID, kind, source, rows)
}

// Import processes rows in batches of cfg.BatchSize, rows within a batch
// concurrently, pausing cfg.BatchDelay between batches. One import per user
// runs at a time.
func (i *Importer) Import(ctx context.Context, userID string, kind Kind, source Source, rows []Row) (*Summary, error) {
	if userID == "" {
		return nil, models.Invalid("user_id", "user id is required")
	}
	if !i.begin(userID) {
		return nil, fmt.Errorf("%w: an import is already running for this user", models.ErrConflict)
	}
	defer i.end(userID)

	s := &Summary{
		Kind:      kind,
		Source:    source,
		Total:     len(rows),
		NotFound:  []RowIssue{},
		Failed:    []RowIssue{},
		StartTime: time.Now(),
	}
	log := logging.Ctx(ctx).With().Str("kind", string(kind)).Str("source", string(source)).Logger()
	log.Info().Int("rows", len(rows)).Msg("Starting import")

	batchSize := i.cfg.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	var mu sync.Mutex
	err := func() error {
		for start := 0; start < len(rows); start += batchSize {
			if start > 0 {
				if err := wait(ctx, i.cfg.BatchDelay); err != nil {
					return err
				}
			}
			end := min(start+batchSize, len(rows))

			g, gctx := errgroup.WithContext(ctx)
			for _, row := range rows[start:end] {
				g.Go(func() error {
					o := i.process(gctx, userID, kind, source, row)
					mu.Lock()
					o.apply(s)
					mu.Unlock()
					return nil
				})
			}
			_ = g.Wait()

			if err := ctx.Err(); err != nil {
				return err
			}
			log.Debug().Int("processed", end).Int("total", len(rows)).Msg("Import batch done")
		}
		return nil
	}()

	s.EndTime = time.Now()
	sortIssues(s.NotFound)
	sortIssues(s.Failed)
	metrics.RecordImport(s.counts(), s.Duration())

	log.Info().
		Int("added", s.Added).
		Int("updated", s.Updated).
		Int("skipped", s.Skipped).
		Int("not_found", len(s.NotFound)).
		Int("failed", len(s.Failed)).
		Dur("duration", s.Duration()).
		Float64("rows_per_second", s.RowsPerSecond()).
		Msg("Import finished")

	return s, err
}

func (i *Importer) begin(userID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.running[userID] {
		return false
	}
	i.running[userID] = true
	return true
}

func (i *Importer) end(userID string) {
	i.mu.Lock()
	delete(i.running, userID)
	i.mu.Unlock()
}

// IsRunning reports whether an import is in progress for userID.
func (i *Importer) IsRunning(userID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.running[userID]
}

type outcomeKind int

const (
	outcomeAdded outcomeKind = iota
	outcomeUpdated
	outcomeSkipped
	outcomeNotFound
	outcomeFailed
)

type outcome struct {
	kind  outcomeKind
	issue RowIssue
}

func (o outcome) apply(s *Summary) {
	switch o.kind {
	case outcomeAdded:
		s.Added++
	case outcomeUpdated:
		s.Updated++
	case outcomeSkipped:
		s.Skipped++
	case outcomeNotFound:
		s.NotFound = append(s.NotFound, o.issue)
	case outcomeFailed:
		s.Failed = append(s.Failed, o.issue)
	}
}

// errNoMatch marks a row the catalog has no title for.
var errNoMatch = errors.New("no matching title")

func (i *Importer) process(ctx context.Context, userID string, kind Kind, source Source, row Row) outcome {
	if row.Problem != "" {
		return outcome{kind: outcomeFailed, issue: issue(row, row.Problem)}
	}

	var rating models.Rating
	if kind == KindRatings {
		r, err := models.ParseRatingString(row.Rating)
		if err != nil {
			return outcome{kind: outcomeFailed, issue: issue(row, err.Error())}
		}
		rating = r
	}

	ref, err := i.resolve(ctx, source, row)
	if err == nil {
		var added bool
		switch kind {
		case KindRatings:
			var w *models.ReviewWrite
			if w, err = i.tracker.Review(ctx, userID, ref, rating, row.Comment); err == nil {
				added = w.Created
				if !added {
					return outcome{kind: outcomeUpdated}
				}
			}
		case KindWatched:
			added, err = i.tracker.MarkWatched(ctx, userID, ref)
		case KindWatchlist:
			added, err = i.tracker.AddToWatchlist(ctx, userID, ref)
		default:
			err = models.Invalid("kind", "unknown import kind %q", kind)
		}
		if err == nil {
			if added {
				return outcome{kind: outcomeAdded}
			}
			return outcome{kind: outcomeSkipped}
		}
	}

	// A 429 that outlasted the retry policy is reported with the missing titles.
	if errors.Is(err, errNoMatch) || errors.Is(err, models.ErrNotFound) || catalog.IsRateLimited(err) {
		return outcome{kind: outcomeNotFound, issue: issue(row, err.Error())}
	}
	logging.Ctx(ctx).Warn().Err(err).Int("line", row.Line).Str("name", row.Name).Msg("Import row failed")
	return outcome{kind: outcomeFailed, issue: issue(row, err.Error())}
}

// resolve maps a row to a title. Search takes the first result released in
// the row's year, else the first result.
func (i *Importer) resolve(ctx context.Context, source Source, row Row) (models.MediaRef, error) {
	if source == SourceTMDB {
		if row.TMDbID <= 0 {
			return models.MediaRef{}, models.Invalid("tmdb_id", "TMDb ID is required for source tmdb")
		}
		return models.MediaRef{Kind: row.Type, ID: row.TMDbID}, nil
	}

	if row.Name == "" {
		return models.MediaRef{}, models.Invalid("name", "name is required for source search")
	}
	page, err := i.searcher.Search(ctx, row.Type, row.Name, 1, row.Year)
	if err != nil {
		return models.MediaRef{}, err
	}
	if len(page.Results) == 0 {
		return models.MediaRef{}, errNoMatch
	}
	if row.Year > 0 {
		for _, r := range page.Results {
			if r.ReleaseDate != nil && r.ReleaseDate.Year() == row.Year {
				return r.Ref, nil
			}
		}
	}
	return page.Results[0].Ref, nil
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func sortIssues(issues []RowIssue) {
	sort.SliceStable(issues, func(a, b int) bool { return issues[a].Line < issues[b].Line })
}
