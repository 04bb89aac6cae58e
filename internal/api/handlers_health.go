// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/allscreen/internal/models"
)

// Health reports database connectivity and the catalog breaker state. An
// unreachable database answers 503; an open breaker only degrades.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	breaker := "unknown"
	if h.catalog != nil {
		breaker = h.catalog.BreakerState()
	}

	status := "healthy"
	code := http.StatusOK
	switch {
	case !dbConnected:
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	case breaker == "open":
		status = "degraded"
	}

	respondOK(w, r, code, models.HealthStatus{
		Status:    status,
		Version:   h.version,
		Database:  dbConnected,
		Catalog:   breaker,
		Uptime:    time.Since(h.startTime),
		Timestamp: time.Now().UTC(),
	})
}

// HealthLive answers as long as the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// Performance returns per-route latency percentiles over the recent window.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, http.StatusOK, h.perf.Stats())
}
