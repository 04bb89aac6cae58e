// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package services provides suture.Service wrappers for AllScreen components.

Each wrapper implements suture's Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and names itself through fmt.Stringer for supervisor events.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server, converting ListenAndServe to Serve
  - Drains connections with Shutdown on cancellation
  - OnStart hands the serving context to handlers so CSV imports outlive
    their request but not the server

Database Maintenance (MaintenanceService):
  - Checkpoints DuckDB on an interval
  - Publishes per-table row counts and uptime to Prometheus
  - Returns after repeated failures so the supervisor backs off and restarts it
*/
package services
