// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package auth

import (
	"context"
	"time"
)

// Subject is the authenticated caller of one request.
type Subject struct {
	UserID   string
	Username string

	// Token identity, needed for logout.
	TokenID   string
	ExpiresAt time.Time
}

type subjectKey struct{}

// ContextWithSubject stores s in ctx.
func ContextWithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

// SubjectFromContext returns the caller stored by the middleware.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(subjectKey{}).(Subject)
	return s, ok && s.UserID != ""
}
