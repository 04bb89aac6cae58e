// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/allscreen/internal/metrics"
)

type mockStore struct {
	checkpoints atomic.Int32
	counts      atomic.Int32
	err         error
}

func (m *mockStore) Checkpoint(context.Context) error {
	m.checkpoints.Add(1)
	return m.err
}

func (m *mockStore) RecordCounts(context.Context) (map[string]int64, error) {
	m.counts.Add(1)
	return map[string]int64{"maintenance_test": 42}, nil
}

func TestMaintenanceService_Interface(t *testing.T) {
	var _ suture.Service = (*MaintenanceService)(nil)
}

func TestMaintenanceService_RunsPeriodically(t *testing.T) {
	store := &mockStore{}
	svc := NewMaintenanceService(store, 20*time.Millisecond, time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}
	if n := store.checkpoints.Load(); n < 3 {
		t.Errorf("checkpoints = %d, want at least 3", n)
	}
	if got := testutil.ToFloat64(metrics.DBRecords.WithLabelValues("maintenance_test")); got != 42 {
		t.Errorf("row gauge = %v, want 42", got)
	}
}

func TestMaintenanceService_GivesUpAfterRepeatedFailures(t *testing.T) {
	boom := errors.New("disk full")
	store := &mockStore{err: boom}
	svc := NewMaintenanceService(store, time.Millisecond, time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("Serve() = %v, want wrapped %v", err, boom)
	}
	if n := store.checkpoints.Load(); n != maxConsecutiveFailures {
		t.Errorf("attempts = %d, want %d", n, maxConsecutiveFailures)
	}
}

func TestNewMaintenanceService_DefaultInterval(t *testing.T) {
	svc := NewMaintenanceService(&mockStore{}, 0, time.Now())
	if svc.interval != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", svc.interval)
	}
	if svc.String() != "db-maintenance" {
		t.Errorf("String() = %q", svc.String())
	}
}
