// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/allscreen/internal/models"
)

var (
	// ErrNotFound is returned when the catalog has no such title or person.
	ErrNotFound = errors.New("catalog: not found")

	// ErrRateLimited is returned when the catalog answers 429.
	ErrRateLimited = errors.New("catalog: rate limited")

	// ErrUnavailable is returned while the circuit breaker rejects calls.
	ErrUnavailable = errors.New("catalog: unavailable")

	// ErrRequestFailed wraps transport and decoding failures.
	ErrRequestFailed = errors.New("catalog: request failed")
)

// StatusError is a non-2xx answer from the catalog.
type StatusError struct {
	StatusCode int
	Path       string
	// RetryAfter is the server's Retry-After hint, zero when absent.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: %s returned %d %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// RetryDelay exposes the Retry-After hint to the retry policy.
func (e *StatusError) RetryDelay() time.Duration {
	return e.RetryAfter
}

// Is lets 404 match both ErrNotFound and models.ErrNotFound, and 429 match
// ErrRateLimited.
func (e *StatusError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return target == ErrNotFound || target == models.ErrNotFound
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	return false
}

// IsUpstreamFailure reports whether err came from talking to the catalog
// rather than from the caller's input. Not-found answers are excluded.
func IsUpstreamFailure(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return false
	}
	var se *StatusError
	return errors.As(err, &se) || errors.Is(err, ErrRequestFailed) || errors.Is(err, ErrRateLimited)
}

// IsRateLimited reports whether err is a catalog 429. It is the retry
// predicate for every catalog call.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
