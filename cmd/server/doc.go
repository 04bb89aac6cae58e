// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package main is the entry point for the AllScreen server.

AllScreen proxies a movie and TV catalog (TMDB), and lets users track what
they watched, keep a watchlist, write reviews, curate lists and import their
history from Letterboxd or IMDb CSV exports.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("allscreen")
	├── DataSupervisor ("data-layer")
	│   └── db-maintenance (checkpoint, row-count gauges, uptime)
	└── APISupervisor ("api-layer")
	    └── http-server (chi router, /api/v1)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file and environment
 2. Logging: zerolog (JSON or console)
 3. Database: DuckDB
 4. Catalog cache: in-memory LRU, Redis or none
 5. Catalog clients: one for requests, one with the import retry policy
 6. Accounts: bcrypt passwords, HS256 tokens, Badger revocation list
 7. HTTP handler and router
 8. Supervisor tree

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains
connections for SHUTDOWN_TIMEOUT, running imports are cancelled and
the database is closed.

# Example

	export TMDB_API_TOKEN=your-read-access-token
	export JWT_SECRET=$(openssl rand -base64 32)
	./allscreen
*/
package main
