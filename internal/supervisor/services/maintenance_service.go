// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/metrics"
)

// MaintenanceStore is the database surface the maintenance loop uses.
type MaintenanceStore interface {
	Checkpoint(ctx context.Context) error
	RecordCounts(ctx context.Context) (map[string]int64, error)
}

// maxConsecutiveFailures ends Serve so suture restarts the service with
// backoff.
const maxConsecutiveFailures = 3

// MaintenanceService periodically checkpoints the database, publishes
// per-table row counts and refreshes the uptime gauge.
//
// Example usage:
//
//	svc := services.NewMaintenanceService(db, 5*time.Minute, startTime)
//	tree.AddDataService(svc)
type MaintenanceService struct {
	store    MaintenanceStore
	interval time.Duration
	started  time.Time
	name     string
}

// NewMaintenanceService creates the service. A non-positive interval means
// five minutes.
func NewMaintenanceService(store MaintenanceStore, interval time.Duration, started time.Time) *MaintenanceService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MaintenanceService{
		store:    store,
		interval: interval,
		started:  started,
		name:     "db-maintenance",
	}
}

// Serve implements suture.Service. It runs one pass immediately, then one
// per interval, until ctx ends or passes fail maxConsecutiveFailures times
// in a row.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	log := logging.WithComponent(s.name)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	failures := 0
	for {
		if err := s.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			log.Warn().Err(err).Int("consecutive_failures", failures).Msg("Maintenance pass failed")
			if failures >= maxConsecutiveFailures {
				return fmt.Errorf("maintenance failed %d times in a row: %w", failures, err)
			}
		} else {
			failures = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *MaintenanceService) runOnce(ctx context.Context) error {
	metrics.UpdateUptime(s.started)

	counts, err := s.store.RecordCounts(ctx)
	if err != nil {
		return err
	}
	metrics.SetRecordCounts(counts)

	return s.store.Checkpoint(ctx)
}

// String names the service in supervisor events.
func (s *MaintenanceService) String() string {
	return s.name
}
