// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package importer

import (
	"context"
	"io"

	"github.com/tomtom215/allscreen/internal/models"
)

// ExportStore reads the activity an export writes out.
type ExportStore interface {
	AllReviews(ctx context.Context, userID string) ([]models.Review, error)
	AllWatched(ctx context.Context, userID string) ([]models.Membership, error)
	AllWatchlist(ctx context.Context, userID string) ([]models.Membership, error)
}

// Export writes the user's activity of kind as CSV, in the column layout
// ParseCSV reads back.
func Export(ctx context.Context, store ExportStore, userID string, kind Kind, w io.Writer) (int, error) {
	var rows []exportRow
	switch kind {
	case KindRatings:
		reviews, err := store.AllReviews(ctx, userID)
		if err != nil {
			return 0, err
		}
		for _, r := range reviews {
			rating := r.Rating
			rows = append(rows, exportRow{Date: r.UpdatedAt, Title: r.Title, Rating: &rating, Comment: r.Comment})
		}
	case KindWatched, KindWatchlist:
		load := store.AllWatched
		if kind == KindWatchlist {
			load = store.AllWatchlist
		}
		items, err := load(ctx, userID)
		if err != nil {
			return 0, err
		}
		for _, m := range items {
			rows = append(rows, exportRow{Date: m.CreatedAt, Title: m.Title})
		}
	default:
		return 0, models.Invalid("kind", "unknown export kind %q", kind)
	}

	if err := writeCSV(w, kind, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
