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

	"github.com/goccy/go-json"

	"github.com/tomtom215/allscreen/internal/models"
)

// UpsertMovie creates or refreshes a movie together with its genres,
// companies, persons and credits in one transaction. Link rows are replaced,
// so repeating the call with the same input leaves the same rows.
func (db *DB) UpsertMovie(ctx context.Context, m *models.Movie) error {
	if m == nil || m.ID <= 0 {
		return models.Invalid("id", "movie id must be positive")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	db.mediaMu.Lock()
	defer db.mediaMu.Unlock()

	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		m.UpdatedAt = time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `INSERT INTO movies (id, title, description, poster, release_date, runtime, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				poster = excluded.poster,
				release_date = excluded.release_date,
				runtime = excluded.runtime,
				updated_at = excluded.updated_at`,
			m.ID, m.Title, m.Description, m.Poster, dateArg(m.ReleaseDate), m.Runtime, m.UpdatedAt); err != nil {
			return fmt.Errorf("upsert movie: %w", err)
		}

		for _, q := range []string{
			`DELETE FROM movie_genres WHERE movie_id = ?`,
			`DELETE FROM movie_companies WHERE movie_id = ?`,
			`DELETE FROM movie_credits WHERE movie_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, m.ID); err != nil {
				return fmt.Errorf("clear movie links: %w", err)
			}
		}

		if err := upsertGenres(ctx, tx, m.ID, m.Genres); err != nil {
			return err
		}
		if err := upsertCompanies(ctx, tx, m.ID, m.Companies); err != nil {
			return err
		}
		return upsertCredits(ctx, tx, m.ID, m.Credits)
	})
	observe("UPSERT", "movies", start, err)
	return err
}

func upsertGenres(ctx context.Context, tx *sql.Tx, movieID int64, genres []models.Genre) error {
	seen := make(map[int64]bool, len(genres))
	pos := 0
	for _, g := range genres {
		if g.ID <= 0 || seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		if _, err := tx.ExecContext(ctx, `INSERT INTO genres (id, name) VALUES (?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name`, g.ID, g.Name); err != nil {
			return fmt.Errorf("upsert genre %d: %w", g.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO movie_genres (movie_id, genre_id, position) VALUES (?, ?, ?)`,
			movieID, g.ID, pos); err != nil {
			return fmt.Errorf("link genre %d: %w", g.ID, err)
		}
		pos++
	}
	return nil
}

func upsertCompanies(ctx context.Context, tx *sql.Tx, movieID int64, companies []models.Company) error {
	seen := make(map[int64]bool, len(companies))
	pos := 0
	for _, c := range companies {
		if c.ID <= 0 || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		if _, err := tx.ExecContext(ctx, `INSERT INTO companies (id, name, logo_path, origin_country) VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, logo_path = excluded.logo_path,
				origin_country = excluded.origin_country`,
			c.ID, c.Name, c.LogoPath, c.Country); err != nil {
			return fmt.Errorf("upsert company %d: %w", c.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO movie_companies (movie_id, company_id, position) VALUES (?, ?, ?)`,
			movieID, c.ID, pos); err != nil {
			return fmt.Errorf("link company %d: %w", c.ID, err)
		}
		pos++
	}
	return nil
}

type creditKey struct {
	person int64
	role   models.Role
}

func upsertCredits(ctx context.Context, tx *sql.Tx, movieID int64, credits []models.Credit) error {
	persons := make(map[int64]models.Person)
	var order []int64
	for _, c := range credits {
		p := c.Person
		prev, ok := persons[p.ID]
		if !ok {
			order = append(order, p.ID)
		}
		prev.ID, prev.Name, prev.ProfilePath = p.ID, p.Name, p.ProfilePath
		if p.Popularity > prev.Popularity {
			prev.Popularity = p.Popularity
		}
		prev.Jobs = mergeJobs(prev.Jobs, p.Jobs)
		persons[p.ID] = prev
	}

	for _, id := range order {
		p := persons[id]
		if id <= 0 {
			continue
		}
		jobs, err := json.Marshal(nonNilJobs(p.Jobs))
		if err != nil {
			return fmt.Errorf("encode jobs: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO persons (id, name, profile_path, popularity, jobs) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, profile_path = excluded.profile_path,
				popularity = excluded.popularity, jobs = excluded.jobs`,
			p.ID, p.Name, p.ProfilePath, p.Popularity, string(jobs)); err != nil {
			return fmt.Errorf("upsert person %d: %w", p.ID, err)
		}
	}

	seen := make(map[creditKey]bool, len(credits))
	pos := 0
	for _, c := range credits {
		k := creditKey{c.Person.ID, c.Role}
		if c.Person.ID <= 0 || seen[k] {
			continue
		}
		seen[k] = true
		if _, err := tx.ExecContext(ctx, `INSERT INTO movie_credits (movie_id, person_id, role, ord, position) VALUES (?, ?, ?, ?, ?)`,
			movieID, c.Person.ID, string(c.Role), c.Order, pos); err != nil {
			return fmt.Errorf("link credit %d/%s: %w", c.Person.ID, c.Role, err)
		}
		pos++
	}
	return nil
}

func mergeJobs(a, b []string) []string {
	out := a
	for _, j := range b {
		dup := false
		for _, have := range out {
			if have == j {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, j)
		}
	}
	return out
}

func nonNilJobs(jobs []string) []string {
	if jobs == nil {
		return []string{}
	}
	return jobs
}

// UpsertTVShow creates or refreshes a TV show.
func (db *DB) UpsertTVShow(ctx context.Context, s *models.TVShow) error {
	if s == nil || s.ID <= 0 {
		return models.Invalid("id", "tv show id must be positive")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	db.mediaMu.Lock()
	defer db.mediaMu.Unlock()

	s.UpdatedAt = time.Now().UTC()
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `INSERT INTO tv_shows (id, title, description, poster, first_air_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			poster = excluded.poster,
			first_air_date = excluded.first_air_date,
			updated_at = excluded.updated_at`,
		s.ID, s.Title, s.Description, s.Poster, dateArg(s.FirstAirDate), s.UpdatedAt)
	observe("UPSERT", "tv_shows", start, err)
	if err != nil {
		return fmt.Errorf("upsert tv show: %w", err)
	}
	return nil
}

// TitleExists reports whether the referenced movie or show is stored.
func (db *DB) TitleExists(ctx context.Context, ref models.MediaRef) (bool, error) {
	if err := ref.Validate(); err != nil {
		return false, err
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	table := "movies"
	if !ref.IsMovie() {
		table = "tv_shows"
	}
	var n int
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE id = ?`, ref.ID).Scan(&n)
	observe("SELECT", table, start, err)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", ref, err)
	}
	return n > 0, nil
}

// Movie loads a stored movie with genres, companies and credits.
func (db *DB) Movie(ctx context.Context, id int64) (*models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	m := &models.Movie{}
	var released sql.NullTime
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT id, title, description, poster, release_date, runtime, updated_at
		FROM movies WHERE id = ?`, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.Poster, &released, &m.Runtime, &m.UpdatedAt)
	observe("SELECT", "movies", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("movie", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load movie: %w", err)
	}
	m.ReleaseDate = nullTime(released)

	if err := db.loadMovieRelations(ctx, map[int64]*models.Movie{m.ID: m}, `SELECT ?::BIGINT`, id); err != nil {
		return nil, err
	}
	return m, nil
}

// TVShow loads a stored TV show.
func (db *DB) TVShow(ctx context.Context, id int64) (*models.TVShow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	s := &models.TVShow{}
	var aired sql.NullTime
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT id, title, description, poster, first_air_date, updated_at
		FROM tv_shows WHERE id = ?`, id).Scan(
		&s.ID, &s.Title, &s.Description, &s.Poster, &aired, &s.UpdatedAt)
	observe("SELECT", "tv_shows", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("tv show", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load tv show: %w", err)
	}
	s.FirstAirDate = nullTime(aired)
	return s, nil
}

// loadMovieRelations fills genres, companies and credits for the movies in
// byID. idQuery is a subquery yielding the movie ids to load.
func (db *DB) loadMovieRelations(ctx context.Context, byID map[int64]*models.Movie, idQuery string, args ...interface{}) error {
	if len(byID) == 0 {
		return nil
	}

	start := time.Now()
	err := db.eachRow(ctx, `SELECT mg.movie_id, g.id, g.name
		FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id
		WHERE mg.movie_id IN (`+idQuery+`)
		ORDER BY mg.movie_id, mg.position`, args, func(rows *sql.Rows) error {
		var movieID int64
		var g models.Genre
		if err := rows.Scan(&movieID, &g.ID, &g.Name); err != nil {
			return err
		}
		if m := byID[movieID]; m != nil {
			m.Genres = append(m.Genres, g)
		}
		return nil
	})
	observe("SELECT", "movie_genres", start, err)
	if err != nil {
		return fmt.Errorf("load genres: %w", err)
	}

	start = time.Now()
	err = db.eachRow(ctx, `SELECT mc.movie_id, c.id, c.name, c.logo_path, c.origin_country
		FROM movie_companies mc JOIN companies c ON c.id = mc.company_id
		WHERE mc.movie_id IN (`+idQuery+`)
		ORDER BY mc.movie_id, mc.position`, args, func(rows *sql.Rows) error {
		var movieID int64
		var c models.Company
		if err := rows.Scan(&movieID, &c.ID, &c.Name, &c.LogoPath, &c.Country); err != nil {
			return err
		}
		if m := byID[movieID]; m != nil {
			m.Companies = append(m.Companies, c)
		}
		return nil
	})
	observe("SELECT", "movie_companies", start, err)
	if err != nil {
		return fmt.Errorf("load companies: %w", err)
	}

	start = time.Now()
	err = db.eachRow(ctx, `SELECT cr.movie_id, cr.role, cr.ord, p.id, p.name, p.profile_path, p.popularity, p.jobs
		FROM movie_credits cr JOIN persons p ON p.id = cr.person_id
		WHERE cr.movie_id IN (`+idQuery+`)
		ORDER BY cr.movie_id, cr.position`, args, func(rows *sql.Rows) error {
		var (
			movieID int64
			role    string
			jobs    string
			c       models.Credit
		)
		if err := rows.Scan(&movieID, &role, &c.Order, &c.Person.ID, &c.Person.Name,
			&c.Person.ProfilePath, &c.Person.Popularity, &jobs); err != nil {
			return err
		}
		c.Role = models.Role(role)
		if err := json.Unmarshal([]byte(jobs), &c.Person.Jobs); err != nil {
			return fmt.Errorf("decode jobs of person %d: %w", c.Person.ID, err)
		}
		if m := byID[movieID]; m != nil {
			m.Credits = append(m.Credits, c)
		}
		return nil
	})
	observe("SELECT", "movie_credits", start, err)
	if err != nil {
		return fmt.Errorf("load credits: %w", err)
	}
	return nil
}

// eachRow runs query and calls fn for every row.
func (db *DB) eachRow(ctx context.Context, query string, args []interface{}, fn func(*sql.Rows) error) error {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// withTx runs fn in a transaction, committing on nil and rolling back otherwise.
func (db *DB) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		rollbackQuietly(tx)
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
