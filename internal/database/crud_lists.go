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

// CreateList creates an empty list owned by userID.
func (db *DB) CreateList(ctx context.Context, userID, name, description string) (*models.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Invalid("name", "list name is required")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	l := &models.List{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Items:       []models.MediaSummary{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `INSERT INTO lists (id, user_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`, l.ID, l.UserID, l.Name, l.Description, l.CreatedAt, l.UpdatedAt)
	observe("INSERT", "lists", start, err)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return l, nil
}

// List loads a list with its items, most recently added first.
func (db *DB) List(ctx context.Context, id string) (*models.List, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	l := &models.List{}
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT id, user_id, name, description, created_at, updated_at
		FROM lists WHERE id = ?`, id).Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	observe("SELECT", "lists", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("list", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load list: %w", err)
	}

	l.Items = []models.MediaSummary{}
	start = time.Now()
	err = db.eachRow(ctx, `SELECT `+summaryColumns+`
		FROM list_items t`+summaryJoin+`
		WHERE t.list_id = ?
		ORDER BY t.created_at DESC, t.id`, []interface{}{id}, func(rows *sql.Rows) error {
		var (
			mediaType     string
			movieID, tvID sql.NullInt64
			title, poster string
			released      sql.NullTime
		)
		if err := rows.Scan(&mediaType, &movieID, &tvID, &title, &poster, &released); err != nil {
			return err
		}
		s, err := scanSummary(mediaType, movieID, tvID, title, poster, released)
		if err != nil {
			return err
		}
		l.Items = append(l.Items, s)
		return nil
	})
	observe("SELECT", "list_items", start, err)
	if err != nil {
		return nil, fmt.Errorf("load list items: %w", err)
	}
	l.ItemCount = len(l.Items)
	return l, nil
}

// ListsByUser returns the user's lists with item counts, newest first. Items are not loaded.
func (db *DB) ListsByUser(ctx context.Context, userID string) ([]models.List, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	out := []models.List{}
	start := time.Now()
	err := db.eachRow(ctx, `SELECT l.id, l.user_id, l.name, l.description, l.created_at, l.updated_at,
			(SELECT COUNT(*) FROM list_items i WHERE i.list_id = l.id)
		FROM lists l
		WHERE l.user_id = ?
		ORDER BY l.created_at DESC, l.id`, []interface{}{userID}, func(rows *sql.Rows) error {
		var l models.List
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt, &l.ItemCount); err != nil {
			return err
		}
		out = append(out, l)
		return nil
	})
	observe("SELECT", "lists", start, err)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	return out, nil
}

// UpdateList renames or re-describes a list owned by userID.
func (db *DB) UpdateList(ctx context.Context, userID, id string, name, description *string) (*models.List, error) {
	if err := db.requireListOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	sb := &query.SetBuilder{}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return nil, models.Invalid("name", "list name is required")
		}
		sb.Set("name", n)
	}
	query.SetIf(sb, "description", description)
	if !sb.IsEmpty() {
		sb.Set("updated_at", time.Now().UTC())
		set, args := sb.Build()
		start := time.Now()
		_, err := db.conn.ExecContext(ctx, `UPDATE lists SET `+set+` WHERE id = ?`, append(args, id)...)
		observe("UPDATE", "lists", start, err)
		if err != nil {
			return nil, fmt.Errorf("update list: %w", err)
		}
	}
	return db.List(ctx, id)
}

// DeleteList removes a list owned by userID and its items.
func (db *DB) DeleteList(ctx context.Context, userID, id string) error {
	if err := db.requireListOwner(ctx, userID, id); err != nil {
		return err
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM list_items WHERE list_id = ?`, id); err != nil {
			return fmt.Errorf("delete list items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete list: %w", err)
		}
		return nil
	})
	observe("DELETE", "lists", start, err)
	return err
}

// ToggleListItem flips membership of ref in a list owned by userID.
func (db *DB) ToggleListItem(ctx context.Context, userID, listID string, ref models.MediaRef) (models.ToggleState, error) {
	if err := db.requireListOwner(ctx, userID, listID); err != nil {
		return "", err
	}
	state, err := db.toggle(ctx, tableListItems, listID, ref)
	if err != nil {
		return "", err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	if _, err := db.conn.ExecContext(ctx, `UPDATE lists SET updated_at = ? WHERE id = ?`, time.Now().UTC(), listID); err != nil {
		return "", fmt.Errorf("touch list: %w", err)
	}
	return state, nil
}

// requireListOwner returns models.ErrNotFound for a missing list and
// models.ErrForbidden when userID does not own it.
func (db *DB) requireListOwner(ctx context.Context, userID, listID string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var owner string
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT user_id FROM lists WHERE id = ?`, listID).Scan(&owner)
	observe("SELECT", "lists", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NotFound("list", listID)
	}
	if err != nil {
		return fmt.Errorf("load list owner: %w", err)
	}
	if owner != userID {
		return fmt.Errorf("%w: list %s belongs to another user", models.ErrForbidden, listID)
	}
	return nil
}
