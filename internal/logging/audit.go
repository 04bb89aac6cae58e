// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package logging

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Authentication event names.
const (
	EventRegister     = "auth.register"
	EventLogin        = "auth.login"
	EventLogout       = "auth.logout"
	EventTokenRevoked = "auth.token_revoked"
	EventTokenInvalid = "auth.token_invalid"
)

// AuthLogger records authentication events with identifying data masked.
type AuthLogger struct {
	logger zerolog.Logger
}

// NewAuthLogger returns an AuthLogger on the global logger.
func NewAuthLogger() *AuthLogger {
	return &AuthLogger{logger: WithComponent("auth")}
}

// NewAuthLoggerWithLogger returns an AuthLogger on a specific logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuthLoggerWithLogger(logger zerolog.Logger) *AuthLogger {
	return &AuthLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// Success records a successful event for userID.
func (l *AuthLogger) Success(ctx context.Context, event, userID, email, ip string) {
	e := l.logger.Info().Str("event", event).Str("status", "success")
	l.fields(ctx, e, userID, email, ip).Msg("")
}

// Failure records a failed event. reason is scrubbed of secret-looking text.
func (l *AuthLogger) Failure(ctx context.Context, event, email, ip, reason string) {
	e := l.logger.Warn().Str("event", event).Str("status", "failed")
	if reason != "" {
		e = e.Str("reason", SanitizeError(reason))
	}
	l.fields(ctx, e, "", email, ip).Msg("")
}

func (l *AuthLogger) fields(ctx context.Context, e *zerolog.Event, userID, email, ip string) *zerolog.Event {
	if id := RequestIDFromContext(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	if userID != "" {
		e = e.Str("user_id", userID)
	}
	if email != "" {
		e = e.Str("email", SanitizeEmail(email))
	}
	if ip != "" {
		e = e.Str("ip", ip)
	}
	return e
}

// SanitizeToken keeps the first and last four characters of a token.
func SanitizeToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 12:
		return "***"
	default:
		return token[:4] + "..." + token[len(token)-4:]
	}
}

// SanitizeEmail keeps the first two characters of the local part.
//
//	"jane.doe@example.com" -> "ja***@example.com"
func SanitizeEmail(email string) string {
	at := strings.Index(email, "@")
	switch {
	case email == "":
		return ""
	case at <= 0:
		return "***"
	case at <= 2:
		return "***" + email[at:]
	default:
		return email[:2] + "***" + email[at:]
	}
}

var sensitiveWords = []string{"password", "secret", "token", "bearer", "authorization", "cookie"}

// SanitizeError replaces messages that mention credentials and truncates the rest.
func SanitizeError(msg string) string {
	lower := strings.ToLower(msg)
	for _, w := range sensitiveWords {
		if strings.Contains(lower, w) {
			return "authentication error"
		}
	}
	if len(msg) > 200 {
		return msg[:200] + "..."
	}
	return msg
}
