// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package cache holds raw catalog responses between requests. Two backends
// are provided: an in-process TTL map (default) and Redis for deployments
// running several instances.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/allscreen/internal/config"
)

// Store is what the catalog client needs from a cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Close() error
}

// Backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// New builds the configured backend. A nil Store with a nil error means
// caching is disabled.
func New(ctx context.Context, cfg *config.CacheConfig) (Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemory(ttl, cfg.MaxEntries), nil
	case BackendRedis:
		return NewRedis(ctx, &cfg.Redis, ttl)
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
)
