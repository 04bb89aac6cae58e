// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package metrics defines the Prometheus instruments exported at /metrics.

Families:
  - duckdb_query_*: query latency and errors by operation and table
  - api_*: request counts, latency and in-flight gauge
  - catalog_*: upstream TMDB requests by operation and outcome
  - retry_attempts_total: retries scheduled per policy (catalog, import)
  - cache_*: hit, miss and eviction counters per cache
  - circuit_breaker_*: state, outcomes and transitions per breaker
  - import_*: rows by outcome and import duration
  - toggle_operations_total: like, watched and watchlist toggles

All collectors are registered with the default registry through promauto.
*/
package metrics
