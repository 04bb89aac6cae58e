// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package retry provides the exponential backoff policy applied to every
// catalog call. A Policy is a value: callers pick the operation and decide
// which errors are worth retrying.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/metrics"
)

// Policy describes a capped exponential backoff without jitter.
type Policy struct {
	// Name labels log lines and metrics.
	Name string
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration
	// Multiplier grows the delay after every retry.
	Multiplier float64
	// MaxDelay caps any single wait.
	MaxDelay time.Duration
}

// ImportPolicy is used by bulk CSV imports when the catalog answers 429:
// waits of 60s, 90s and 135s, never more than 300s.
func ImportPolicy() Policy {
	return Policy{
		Name:       "import",
		MaxRetries: 3,
		BaseDelay:  60 * time.Second,
		Multiplier: 1.5,
		MaxDelay:   300 * time.Second,
	}
}

// RequestPolicy is used for single interactive catalog calls.
func RequestPolicy() Policy {
	return Policy{
		Name:       "request",
		MaxRetries: 2,
		BaseDelay:  time.Second,
		Multiplier: 2,
		MaxDelay:   10 * time.Second,
	}
}

// RetryHinter is implemented by errors that carry a server-supplied wait,
// such as an HTTP Retry-After header.
type RetryHinter interface {
	RetryDelay() time.Duration
}

// hintedBackOff raises the next wait to the last error's hint. The policy
// cap still bounds it.
type hintedBackOff struct {
	backoff.BackOff
	max  time.Duration
	hint time.Duration
}

func (b *hintedBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.hint > next {
		next = b.hint
		if b.max > 0 && next > b.max {
			next = b.max
		}
	}
	b.hint = 0
	return next
}

func (b *hintedBackOff) Reset() {
	b.hint = 0
	b.BackOff.Reset()
}

func (p Policy) backOff(ctx context.Context) (backoff.BackOff, *hintedBackOff) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.BaseDelay
	eb.Multiplier = p.Multiplier
	if eb.Multiplier < 1 {
		eb.Multiplier = 1
	}
	eb.MaxInterval = p.MaxDelay
	if eb.MaxInterval <= 0 {
		eb.MaxInterval = p.BaseDelay
	}
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0
	eb.Reset()

	hinted := &hintedBackOff{BackOff: eb, max: eb.MaxInterval}

	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(hinted, uint64(retries)), ctx), hinted
}

// Do runs op until it succeeds, returns an error retryable rejects, the
// retries run out, or ctx ends. A nil retryable retries every error. The
// last error from op is returned unchanged so callers can inspect it.
//
// An error implementing RetryHinter raises the following wait to its hint,
// up to MaxDelay.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error, retryable func(error) bool) error {
	return p.do(ctx, op, retryable, nil)
}

// do is Do with a replaceable timer; nil uses a real one.
func (p Policy) do(ctx context.Context, op func(ctx context.Context) error, retryable func(error) bool, timer backoff.Timer) error {
	b, hinted := p.backOff(ctx)

	attempt := 0
	operation := func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		var h RetryHinter
		if errors.As(err, &h) {
			hinted.hint = h.RetryDelay()
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		metrics.RetryAttempts.WithLabelValues(p.Name).Inc()
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("policy", p.Name).
			Int("attempt", attempt).
			Int("max_retries", p.MaxRetries).
			Dur("retry_delay", wait).
			Msg("Retrying after backoff")
	}

	return backoff.RetryNotifyWithTimer(operation, b, notify, timer)
}

// Value is Do for operations that produce a result.
func Value[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error), retryable func(error) bool) (T, error) {
	var out T
	err := p.Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	}, retryable)
	return out, err
}
