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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/allscreen/internal/database/query"
	"github.com/tomtom215/allscreen/internal/models"
)

const userColumns = `id, name, email, bio, image, password_hash, created_at, updated_at`

// CreateUser inserts a new account. A taken name or email returns models.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Bio, u.Image, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	observe("INSERT", "users", start, err)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: username or email already registered", models.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UserByName looks a user up by handle.
func (db *DB) UserByName(ctx context.Context, name string) (*models.User, error) {
	return db.userWhere(ctx, "name = ?", name, "user", name)
}

// UserByEmail looks a user up by email, case-insensitively.
func (db *DB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return db.userWhere(ctx, "email = ?", email, "user", email)
}

// UserByID looks a user up by id.
func (db *DB) UserByID(ctx context.Context, id string) (*models.User, error) {
	return db.userWhere(ctx, "id = ?", id, "user", id)
}

func (db *DB) userWhere(ctx context.Context, where string, arg interface{}, entity, key string) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var u models.User
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Bio, &u.Image, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	observe("SELECT", "users", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound(entity, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, nil
}

// UpdateProfile applies the non-nil fields of upd to the user.
func (db *DB) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		upd.Email = &email
	}
	sb := &query.SetBuilder{}
	query.SetIf(sb, "email", upd.Email)
	query.SetIf(sb, "bio", upd.Bio)
	query.SetIf(sb, "image", upd.Image)
	if sb.IsEmpty() {
		return db.UserByID(ctx, userID)
	}
	sb.Set("updated_at", time.Now().UTC())
	set, args := sb.Build()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `UPDATE users SET `+set+` WHERE id = ?`, append(args, userID)...)
	observe("UPDATE", "users", start, err)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: email already registered", models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, models.NotFound("user", userID)
	}
	return db.UserByID(ctx, userID)
}

// Profile returns the public profile of name with activity counts.
func (db *DB) Profile(ctx context.Context, name string) (*models.Profile, error) {
	u, err := db.UserByName(ctx, name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	p := &models.Profile{User: *u}
	start := time.Now()
	err = db.conn.QueryRowContext(ctx, `SELECT
			(SELECT COUNT(*) FROM reviews WHERE user_id = $1),
			(SELECT COUNT(*) FROM watched WHERE user_id = $1),
			(SELECT COUNT(*) FROM watchlist WHERE user_id = $1),
			(SELECT COUNT(*) FROM lists WHERE user_id = $1)`, u.ID).Scan(
		&p.ReviewCount, &p.WatchedCount, &p.WatchlistCount, &p.ListCount)
	observe("SELECT", "profile", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity: %w", err)
	}
	return p, nil
}
