// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/allscreen/internal/models"
)

// membershipTable names a table where row presence is the state.
type membershipTable string

const (
	tableWatched   membershipTable = "watched"
	tableWatchlist membershipTable = "watchlist"
	tableListItems membershipTable = "list_items"
)

func (t membershipTable) ownerColumn() string {
	if t == tableListItems {
		return "list_id"
	}
	return "user_id"
}

// ToggleWatched flips whether the user has watched ref.
func (db *DB) ToggleWatched(ctx context.Context, userID string, ref models.MediaRef) (models.ToggleState, error) {
	return db.toggle(ctx, tableWatched, userID, ref)
}

// ToggleWatchlist flips whether ref is on the user's watchlist.
func (db *DB) ToggleWatchlist(ctx context.Context, userID string, ref models.MediaRef) (models.ToggleState, error) {
	return db.toggle(ctx, tableWatchlist, userID, ref)
}

// toggle deletes the (owner, title) row if present and inserts it otherwise.
// Toggles on the same key are serialized, so N concurrent toggles end in the
// same state as N sequential ones. The unique constraint guards against a
// second process writing the same file.
func (db *DB) toggle(ctx context.Context, table membershipTable, ownerID string, ref models.MediaRef) (models.ToggleState, error) {
	a, err := refColumns(ref)
	if err != nil {
		return "", err
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.lockKey(fmt.Sprintf("%s/%s/%s", table, ownerID, ref))
	mu.Lock()
	defer mu.Unlock()

	owner := table.ownerColumn()
	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `DELETE FROM `+string(table)+` WHERE `+owner+` = ? AND media_type = ? AND media_id = ?`,
		ownerID, a.mediaType, a.mediaID)
	observe("DELETE", string(table), start, err)
	if err != nil {
		return "", fmt.Errorf("toggle %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return models.StateAbsent, nil
	}

	if _, err := db.insertMembership(ctx, table, ownerID, a); err != nil {
		return "", err
	}
	return models.StatePresent, nil
}

// insertMembership inserts the row unless it exists and reports whether a row was added.
func (db *DB) insertMembership(ctx context.Context, table membershipTable, ownerID string, a refArgs) (bool, error) {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `INSERT INTO `+string(table)+`
		(id, `+table.ownerColumn()+`, media_type, movie_id, tv_id, media_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		uuid.New().String(), ownerID, a.mediaType, a.movieID, a.tvID, a.mediaID, time.Now().UTC())
	observe("INSERT", string(table), start, err)
	if err != nil {
		return false, fmt.Errorf("insert %s: %w", table, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetWatched marks ref as watched without toggling. It reports whether a row was added.
func (db *DB) SetWatched(ctx context.Context, userID string, ref models.MediaRef) (bool, error) {
	return db.set(ctx, tableWatched, userID, ref)
}

// SetWatchlist adds ref to the watchlist without toggling. It reports whether a row was added.
func (db *DB) SetWatchlist(ctx context.Context, userID string, ref models.MediaRef) (bool, error) {
	return db.set(ctx, tableWatchlist, userID, ref)
}

func (db *DB) set(ctx context.Context, table membershipTable, ownerID string, ref models.MediaRef) (bool, error) {
	a, err := refColumns(ref)
	if err != nil {
		return false, err
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.lockKey(fmt.Sprintf("%s/%s/%s", table, ownerID, ref))
	mu.Lock()
	defer mu.Unlock()
	return db.insertMembership(ctx, table, ownerID, a)
}

// UpsertReview creates the user's review of ref or replaces its rating and comment.
func (db *DB) UpsertReview(ctx context.Context, userID string, ref models.MediaRef, rating models.Rating, comment string) (*models.ReviewWrite, error) {
	a, err := refColumns(ref)
	if err != nil {
		return nil, err
	}
	if !rating.Valid() {
		return nil, models.Invalid("rating", "rating %v is not one of 0.5, 1, ..., 5", float64(rating))
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.lockKey(fmt.Sprintf("reviews/%s/%s", userID, ref))
	mu.Lock()
	defer mu.Unlock()

	var existing string
	start := time.Now()
	err = db.conn.QueryRowContext(ctx, `SELECT id FROM reviews WHERE user_id = ? AND media_type = ? AND media_id = ?`,
		userID, a.mediaType, a.mediaID).Scan(&existing)
	observe("SELECT", "reviews", start, err)
	created := errors.Is(err, sql.ErrNoRows)
	if err != nil && !created {
		return nil, fmt.Errorf("load review: %w", err)
	}

	now := time.Now().UTC()
	start = time.Now()
	if created {
		_, err = db.conn.ExecContext(ctx, `INSERT INTO reviews
			(id, user_id, media_type, movie_id, tv_id, media_id, rating, comment, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, media_type, media_id) DO UPDATE SET
				rating = excluded.rating, comment = excluded.comment, updated_at = excluded.updated_at`,
			uuid.New().String(), userID, a.mediaType, a.movieID, a.tvID, a.mediaID, float64(rating), comment, now, now)
		observe("INSERT", "reviews", start, err)
	} else {
		_, err = db.conn.ExecContext(ctx, `UPDATE reviews SET rating = ?, comment = ?, updated_at = ? WHERE id = ?`,
			float64(rating), comment, now, existing)
		observe("UPDATE", "reviews", start, err)
	}
	if err != nil {
		return nil, fmt.Errorf("write review: %w", err)
	}

	reviews, err := db.queryReviews(ctx, `t.user_id = ? AND t.media_type = ? AND t.media_id = ?`,
		[]interface{}{userID, a.mediaType, a.mediaID}, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, models.NotFound("review", ref)
	}
	return &models.ReviewWrite{Review: reviews[0], Created: created}, nil
}

// DeleteReview removes the user's review of ref.
func (db *DB) DeleteReview(ctx context.Context, userID string, ref models.MediaRef) error {
	a, err := refColumns(ref)
	if err != nil {
		return err
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `DELETE FROM reviews WHERE user_id = ? AND media_type = ? AND media_id = ?`,
		userID, a.mediaType, a.mediaID)
	observe("DELETE", "reviews", start, err)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFound("review", ref)
	}
	return nil
}

// Review returns the user's review of ref.
func (db *DB) Review(ctx context.Context, userID string, ref models.MediaRef) (*models.Review, error) {
	a, err := refColumns(ref)
	if err != nil {
		return nil, err
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	reviews, err := db.queryReviews(ctx, `t.user_id = ? AND t.media_type = ? AND t.media_id = ?`,
		[]interface{}{userID, a.mediaType, a.mediaID}, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, models.NotFound("review", ref)
	}
	return &reviews[0], nil
}

// ReviewsByUser returns one page of the user's reviews, newest first.
func (db *DB) ReviewsByUser(ctx context.Context, userID string, page, pageSize int) (models.Page[models.Review], error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	total, err := db.countByOwner(ctx, "reviews", "user_id", userID)
	if err != nil {
		return models.Page[models.Review]{}, err
	}
	items, err := db.queryReviews(ctx, `t.user_id = ?`, []interface{}{userID}, pageSize, offsetFor(page, pageSize))
	if err != nil {
		return models.Page[models.Review]{}, err
	}
	return models.NewPage(items, max(page, 1), pageSize, total), nil
}

// AllReviews returns every review of the user, newest first.
func (db *DB) AllReviews(ctx context.Context, userID string) ([]models.Review, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.queryReviews(ctx, `t.user_id = ?`, []interface{}{userID}, 0, 0)
}

// queryReviews selects reviews aliased t matching where. limit <= 0 means all rows.
func (db *DB) queryReviews(ctx context.Context, where string, args []interface{}, limit, offset int) ([]models.Review, error) {
	query := `SELECT t.id, t.user_id, t.rating, t.comment, t.created_at, t.updated_at, ` + summaryColumns + `
		FROM reviews t` + summaryJoin + `
		WHERE ` + where + `
		ORDER BY t.updated_at DESC, t.id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	var out []models.Review
	start := time.Now()
	err := db.eachRow(ctx, query, args, func(rows *sql.Rows) error {
		var (
			r             models.Review
			rating        float64
			mediaType     string
			movieID, tvID sql.NullInt64
			title, poster string
			released      sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.UserID, &rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt,
			&mediaType, &movieID, &tvID, &title, &poster, &released); err != nil {
			return err
		}
		summary, err := scanSummary(mediaType, movieID, tvID, title, poster, released)
		if err != nil {
			return err
		}
		r.Rating = models.Rating(rating)
		r.Media = summary.Ref
		r.Title = summary
		out = append(out, r)
		return nil
	})
	observe("SELECT", "reviews", start, err)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

// WatchedByUser returns one page of the user's watched titles, newest first.
func (db *DB) WatchedByUser(ctx context.Context, userID string, page, pageSize int) (models.Page[models.Membership], error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	total, err := db.countByOwner(ctx, string(tableWatched), "user_id", userID)
	if err != nil {
		return models.Page[models.Membership]{}, err
	}
	items, err := db.queryMemberships(ctx, tableWatched, userID, pageSize, offsetFor(page, pageSize))
	if err != nil {
		return models.Page[models.Membership]{}, err
	}
	return models.NewPage(items, max(page, 1), pageSize, total), nil
}

// AllWatched returns every watched row of the user, newest first.
func (db *DB) AllWatched(ctx context.Context, userID string) ([]models.Membership, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.queryMemberships(ctx, tableWatched, userID, 0, 0)
}

// AllWatchlist returns every watchlist row of the user, newest first.
func (db *DB) AllWatchlist(ctx context.Context, userID string) ([]models.Membership, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.queryMemberships(ctx, tableWatchlist, userID, 0, 0)
}

func (db *DB) queryMemberships(ctx context.Context, table membershipTable, userID string, limit, offset int) ([]models.Membership, error) {
	query := `SELECT t.id, t.user_id, t.created_at, ` + summaryColumns + `
		FROM ` + string(table) + ` t` + summaryJoin + `
		WHERE t.user_id = ?
		ORDER BY t.created_at DESC, t.id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	var out []models.Membership
	start := time.Now()
	err := db.eachRow(ctx, query, []interface{}{userID}, func(rows *sql.Rows) error {
		var (
			m             models.Membership
			mediaType     string
			movieID, tvID sql.NullInt64
			title, poster string
			released      sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.CreatedAt,
			&mediaType, &movieID, &tvID, &title, &poster, &released); err != nil {
			return err
		}
		summary, err := scanSummary(mediaType, movieID, tvID, title, poster, released)
		if err != nil {
			return err
		}
		m.Media = summary.Ref
		m.Title = summary
		out = append(out, m)
		return nil
	})
	observe("SELECT", string(table), start, err)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return out, nil
}

func (db *DB) countByOwner(ctx context.Context, table, column, ownerID string) (int, error) {
	var n int
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE `+column+` = ?`, ownerID).Scan(&n)
	observe("SELECT", table, start, err)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// ReviewedMovies returns the user's movie reviews in creation order, each with
// its movie and credits. A review whose movie row is missing has a nil Movie.
func (db *DB) ReviewedMovies(ctx context.Context, userID string) ([]models.ReviewedMovie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var out []models.ReviewedMovie
	byID := make(map[int64]*models.Movie)
	start := time.Now()
	err := db.eachRow(ctx, `SELECT r.rating, m.id, m.title, m.description, m.poster, m.release_date, m.runtime, m.updated_at
		FROM reviews r
		LEFT JOIN movies m ON m.id = r.movie_id
		WHERE r.user_id = ? AND r.media_type = 'MOVIE'
		ORDER BY r.created_at, r.id`, []interface{}{userID}, func(rows *sql.Rows) error {
		var (
			rating      float64
			id          sql.NullInt64
			title, desc sql.NullString
			poster      sql.NullString
			released    sql.NullTime
			runtime     sql.NullInt64
			updated     sql.NullTime
		)
		if err := rows.Scan(&rating, &id, &title, &desc, &poster, &released, &runtime, &updated); err != nil {
			return err
		}
		rm := models.ReviewedMovie{Rating: models.Rating(rating)}
		if id.Valid {
			rm.Movie = &models.Movie{
				ID:          id.Int64,
				Title:       title.String,
				Description: desc.String,
				Poster:      poster.String,
				ReleaseDate: nullTime(released),
				Runtime:     int(runtime.Int64),
				UpdatedAt:   updated.Time,
			}
			byID[id.Int64] = rm.Movie
		}
		out = append(out, rm)
		return nil
	})
	observe("SELECT", "reviews", start, err)
	if err != nil {
		return nil, fmt.Errorf("load reviewed movies: %w", err)
	}

	if err := db.loadMovieRelations(ctx, byID,
		`SELECT movie_id FROM reviews WHERE user_id = ? AND media_type = 'MOVIE'`, userID); err != nil {
		return nil, err
	}
	return out, nil
}

// WatchlistMovies returns the movies on the user's watchlist, most recently
// added first, with genres, companies and credits loaded.
func (db *DB) WatchlistMovies(ctx context.Context, userID string) ([]models.WatchlistMovie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var out []models.WatchlistMovie
	start := time.Now()
	err := db.eachRow(ctx, `SELECT w.created_at, m.id, m.title, m.description, m.poster, m.release_date, m.runtime, m.updated_at
		FROM watchlist w
		JOIN movies m ON m.id = w.movie_id
		WHERE w.user_id = ? AND w.media_type = 'MOVIE'
		ORDER BY w.created_at DESC, w.id`, []interface{}{userID}, func(rows *sql.Rows) error {
		var (
			item     models.WatchlistMovie
			released sql.NullTime
		)
		m := &item.Movie
		if err := rows.Scan(&item.AddedAt, &m.ID, &m.Title, &m.Description, &m.Poster, &released, &m.Runtime, &m.UpdatedAt); err != nil {
			return err
		}
		m.ReleaseDate = nullTime(released)
		out = append(out, item)
		return nil
	})
	observe("SELECT", "watchlist", start, err)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	byID := make(map[int64]*models.Movie, len(out))
	for i := range out {
		byID[out[i].Movie.ID] = &out[i].Movie
	}
	if err := db.loadMovieRelations(ctx, byID,
		`SELECT movie_id FROM watchlist WHERE user_id = ? AND media_type = 'MOVIE'`, userID); err != nil {
		return nil, err
	}
	return out, nil
}
