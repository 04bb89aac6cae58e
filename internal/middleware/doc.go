// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package middleware provides HTTP middleware for the API router.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation
  - PerformanceMonitor: sliding-window latency percentiles per route

All middleware has the chi signature func(http.Handler) http.Handler. Routes
are labelled by their chi pattern (/api/v1/catalog/movies/{id}) rather than
the raw path, so metric cardinality stays bounded.

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)

Thread Safety:

PerformanceMonitor is safe for concurrent use.
*/
package middleware
