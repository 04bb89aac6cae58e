// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package supervisor provides process supervision for AllScreen using suture v4.

The tree isolates failures by layer:

	RootSupervisor ("allscreen")
	├── DataSupervisor ("data-layer")
	│   └── MaintenanceService (checkpoint, row-count gauges)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff; a data-layer restart does
not touch the API layer. Supervisor events are logged through sutureslog
into the zerolog output (logging.NewSlogLogger).

# Usage

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewMaintenanceService(db, 5*time.Minute, start))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)

See the services subpackage for the wrappers.
*/
package supervisor
