// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package testinfra starts Docker containers for integration tests.
//
// Files in this package build only with the integration tag:
//
//	go test -tags integration ./internal/cache/...
//
// # Redis Container
//
// NewRedisContainer runs a throwaway Redis server for the catalog cache:
//
//	func TestRedisCache(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    rc, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, rc.Container)
//
//	    store, err := cache.NewRedis(ctx, &config.RedisConfig{Addr: rc.Addr}, time.Minute)
//	    // ...
//	}
//
// Tests skip when the docker CLI cannot reach a daemon, so the default
// test run needs no Docker.
package testinfra
