// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package models

import (
	"time"
)

// APIResponse is the envelope every JSON endpoint returns.
//
// Success:
//
//	{
//	  "success": true,
//	  "data": {"items": [...], "page": 1},
//	  "meta": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "..."}
//	}
//
// Failure:
//
//	{
//	  "success": false,
//	  "error": {"code": "VALIDATION_FAILED", "message": "rating: must be one of 0.5, 1, ..., 5"},
//	  "meta": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// Meta carries response metadata.
type Meta struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the machine-readable error body.
//
// Codes: VALIDATION_FAILED, UNAUTHORIZED, FORBIDDEN, NOT_FOUND, CONFLICT,
// RATE_LIMITED, EXTERNAL_SERVICE_FAILED, SERVICE_UNAVAILABLE, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SignupRequest creates an account.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest authenticates by username or email.
type LoginRequest struct {
	Login    string `json:"login" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginResponse returns the signed token. The same token is also set as an
// HTTP-only cookie.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
}

// MediaRequest identifies a title in toggle bodies.
type MediaRequest struct {
	Type string `json:"type" validate:"required,mediatype"`
	ID   int64  `json:"id" validate:"required,gt=0"`
}

// ReviewRequest creates or replaces the caller's review of a title.
type ReviewRequest struct {
	Type    string  `json:"type" validate:"required,mediatype"`
	ID      int64   `json:"id" validate:"required,gt=0"`
	Rating  float64 `json:"rating" validate:"rating"`
	Comment string  `json:"comment" validate:"max=5000"`
}

// ListRequest creates a list.
type ListRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// ListUpdateRequest edits a list; nil fields are unchanged.
type ListUpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Database  bool          `json:"database"`
	Catalog   string        `json:"catalog_breaker"`
	Uptime    time.Duration `json:"uptime_ns"`
	Timestamp time.Time     `json:"timestamp"`
}
