// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/models"
)

// Store is the read side the statistics need.
type Store interface {
	UserByName(ctx context.Context, name string) (*models.User, error)
	// ReviewedMovies returns every movie review of the user joined to its
	// cached movie with credits loaded. Movie is nil for dangling reviews.
	ReviewedMovies(ctx context.Context, userID string) ([]models.ReviewedMovie, error)
}

// Service computes statistics for stored users.
type Service struct {
	store Store
}

// NewService creates a statistics service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ForUser computes the rollups and collaborator rankings for username.
func (s *Service) ForUser(ctx context.Context, username string) (*models.UserStats, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.Invalid("username", "username is required")
	}

	user, err := s.store.UserByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, models.Invalid("user_id", "user id is required")
	}

	start := time.Now()
	reviews, err := s.store.ReviewedMovies(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}

	movies := make([]models.Movie, 0, len(reviews))
	for _, rv := range reviews {
		if rv.Movie != nil {
			movies = append(movies, *rv.Movie)
		}
	}

	out := &models.UserStats{
		Username:      user.Name,
		ReviewCount:   len(reviews),
		Rollup:        Rollup(reviews),
		Collaborators: TopCollaborators(movies, TopCollaboratorsPerRole),
	}

	logging.Ctx(ctx).Debug().
		Str("username", user.Name).
		Int("reviews", len(reviews)).
		Dur("duration", time.Since(start)).
		Msg("Computed user statistics")

	return out, nil
}
