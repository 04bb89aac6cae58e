// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package auth

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/models"
)

// ErrNoCredentials is returned when neither header nor cookie carries a token.
var ErrNoCredentials = errors.New("no credentials provided")

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware resolves the session token once per request and stores the
// Subject in the request context.
type Middleware struct {
	tokens     *TokenManager
	cookieName string
	audit      *logging.AuthLogger
	onError    ErrorWriter
}

// NewMiddleware builds the middleware. A nil onError writes a 401 envelope.
func NewMiddleware(tokens *TokenManager, cookieName string, onError ErrorWriter) *Middleware {
	if onError == nil {
		onError = writeUnauthorized
	}
	return &Middleware{
		tokens:     tokens,
		cookieName: cookieName,
		audit:      logging.NewAuthLogger(),
		onError:    onError,
	}
}

// Authenticate rejects requests without a valid token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.extractToken(r)
		if err != nil {
			m.onError(w, r, err)
			return
		}

		subject, err := m.tokens.Verify(r.Context(), token)
		if err != nil {
			m.audit.Failure(r.Context(), logging.EventTokenInvalid, "", ClientIP(r), err.Error())
			m.onError(w, r, err)
			return
		}

		ctx := ContextWithSubject(r.Context(), subject)
		ctx = logging.ContextWithUserID(ctx, subject.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads a Bearer header first, then the session cookie.
func (m *Middleware) extractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", ErrInvalidToken
		}
		return strings.TrimSpace(token), nil
	}
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrNoCredentials
}

// ClientIP returns the request's remote host. chi's RealIP middleware runs
// first and has already applied X-Forwarded-For.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeUnauthorized(w http.ResponseWriter, _ *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Success: false,
		Error:   &models.APIError{Code: "UNAUTHORIZED", Message: err.Error()},
		Meta:    models.Meta{Timestamp: time.Now().UTC()},
	})
}
