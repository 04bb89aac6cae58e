// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package models

import "time"

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio,omitempty"`
	Image        string    `json:"image,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Bio   *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Image *string `json:"image,omitempty" validate:"omitempty,url,max=1024"`
}

// Profile is the public view of a user with activity counts.
type Profile struct {
	User           User `json:"user"`
	ReviewCount    int  `json:"review_count"`
	WatchedCount   int  `json:"watched_count"`
	WatchlistCount int  `json:"watchlist_count"`
	ListCount      int  `json:"list_count"`
}

// Review is a user's rating of one title.
type Review struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Media     MediaRef     `json:"media"`
	Rating    Rating       `json:"rating"`
	Comment   string       `json:"comment,omitempty"`
	Title     MediaSummary `json:"title"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Membership is a watched or watchlist row.
type Membership struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Media     MediaRef     `json:"media"`
	Title     MediaSummary `json:"title"`
	CreatedAt time.Time    `json:"created_at"`
}

// List is a user-curated collection of titles.
type List struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Items       []MediaSummary `json:"items,omitempty"`
	ItemCount   int            `json:"item_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ToggleState is the membership state after a toggle.
type ToggleState string

const (
	StatePresent ToggleState = "present"
	StateAbsent  ToggleState = "absent"
)

// ToggleResult reports the outcome of a toggle.
type ToggleResult struct {
	Media MediaRef    `json:"media"`
	State ToggleState `json:"state"`
}

// ReviewWrite reports whether a review upsert created or replaced a row.
type ReviewWrite struct {
	Review  Review `json:"review"`
	Created bool   `json:"created"`
}

// Page is a 1-based page of items with totals.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPage fills the derived pagination fields.
func NewPage[T any](items []T, page, pageSize, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
