// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package media keeps local copies of catalog titles and applies user
// actions to them. Every action first makes sure the title row exists, so
// activity rows never point at a title the store has not seen.
package media

import (
	"context"
	"fmt"

	"github.com/tomtom215/allscreen/internal/catalog"
	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/metrics"
	"github.com/tomtom215/allscreen/internal/models"
)

// Catalog fetches title details from the external catalog.
type Catalog interface {
	Movie(ctx context.Context, id int64) (*catalog.MovieDetails, error)
	TVShow(ctx context.Context, id int64) (*catalog.TVDetails, error)
}

// Store persists titles and user activity.
type Store interface {
	UpsertMovie(ctx context.Context, m *models.Movie) error
	UpsertTVShow(ctx context.Context, s *models.TVShow) error

	ToggleWatched(ctx context.Context, userID string, ref models.MediaRef) (models.ToggleState, error)
	ToggleWatchlist(ctx context.Context, userID string, ref models.MediaRef) (models.ToggleState, error)
	ToggleListItem(ctx context.Context, userID, listID string, ref models.MediaRef) (models.ToggleState, error)

	SetWatched(ctx context.Context, userID string, ref models.MediaRef) (bool, error)
	SetWatchlist(ctx context.Context, userID string, ref models.MediaRef) (bool, error)
	UpsertReview(ctx context.Context, userID string, ref models.MediaRef, rating models.Rating, comment string) (*models.ReviewWrite, error)
}

// Service applies user actions to titles.
type Service struct {
	catalog Catalog
	store   Store
}

// NewService creates a media service.
func NewService(c Catalog, s Store) *Service {
	return &Service{catalog: c, store: s}
}

// WithCatalog returns a service sharing the store but fetching through c.
// Imports use it to apply their own retry policy.
func (s *Service) WithCatalog(c Catalog) *Service {
	return &Service{catalog: c, store: s.store}
}

// Ensure fetches ref from the catalog and upserts it with its genres,
// companies, persons and credits. A catalog failure leaves the store untouched.
func (s *Service) Ensure(ctx context.Context, ref models.MediaRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	if ref.IsMovie() {
		details, err := s.catalog.Movie(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", ref, err)
		}
		m := details.Movie
		if err := s.store.UpsertMovie(ctx, &m); err != nil {
			return fmt.Errorf("store %s: %w", ref, err)
		}
	} else {
		details, err := s.catalog.TVShow(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", ref, err)
		}
		show := details.TVShow
		if err := s.store.UpsertTVShow(ctx, &show); err != nil {
			return fmt.Errorf("store %s: %w", ref, err)
		}
	}

	logging.Ctx(ctx).Debug().Stringer("media", ref).Msg("Title stored")
	return nil
}

// ToggleWatched flips the watched state of ref for userID.
func (s *Service) ToggleWatched(ctx context.Context, userID string, ref models.MediaRef) (*models.ToggleResult, error) {
	return s.toggle(ctx, "watched", ref, func() (models.ToggleState, error) {
		return s.store.ToggleWatched(ctx, userID, ref)
	})
}

// ToggleWatchlist flips whether ref is on the watchlist of userID.
func (s *Service) ToggleWatchlist(ctx context.Context, userID string, ref models.MediaRef) (*models.ToggleResult, error) {
	return s.toggle(ctx, "watchlist", ref, func() (models.ToggleState, error) {
		return s.store.ToggleWatchlist(ctx, userID, ref)
	})
}

// ToggleListItem flips membership of ref in a list owned by userID.
func (s *Service) ToggleListItem(ctx context.Context, userID, listID string, ref models.MediaRef) (*models.ToggleResult, error) {
	return s.toggle(ctx, "list_item", ref, func() (models.ToggleState, error) {
		return s.store.ToggleListItem(ctx, userID, listID, ref)
	})
}

func (s *Service) toggle(ctx context.Context, kind string, ref models.MediaRef, flip func() (models.ToggleState, error)) (*models.ToggleResult, error) {
	if err := s.Ensure(ctx, ref); err != nil {
		return nil, err
	}
	state, err := flip()
	if err != nil {
		return nil, err
	}
	metrics.RecordToggle(kind, state == models.StatePresent)
	logging.Ctx(ctx).Debug().Str("kind", kind).Stringer("media", ref).Str("state", string(state)).Msg("Toggled")
	return &models.ToggleResult{Media: ref, State: state}, nil
}

// Review creates or updates the review of ref by userID.
func (s *Service) Review(ctx context.Context, userID string, ref models.MediaRef, rating models.Rating, comment string) (*models.ReviewWrite, error) {
	if !rating.Valid() {
		return nil, models.Invalid("rating", "rating %v is not one of 0.5, 1, ..., 5", float64(rating))
	}
	if err := s.Ensure(ctx, ref); err != nil {
		return nil, err
	}
	return s.store.UpsertReview(ctx, userID, ref, rating, comment)
}

// MarkWatched records ref as watched without toggling. It reports whether
// the row was new.
func (s *Service) MarkWatched(ctx context.Context, userID string, ref models.MediaRef) (bool, error) {
	if err := s.Ensure(ctx, ref); err != nil {
		return false, err
	}
	return s.store.SetWatched(ctx, userID, ref)
}

// AddToWatchlist adds ref to the watchlist without toggling. It reports
// whether the row was new.
func (s *Service) AddToWatchlist(ctx context.Context, userID string, ref models.MediaRef) (bool, error) {
	if err := s.Ensure(ctx, ref); err != nil {
		return false, err
	}
	return s.store.SetWatchlist(ctx, userID, ref)
}
