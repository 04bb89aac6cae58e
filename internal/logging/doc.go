// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package logging wraps a global zerolog logger.

Initialize once from main, then log through the package functions:

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logging.Info().Str("addr", addr).Msg("Server starting")

Request-scoped logging picks up the request ID and authenticated user from
the context:

	logging.Ctx(ctx).Warn().Err(err).Msg("Catalog lookup failed")

Libraries that want a *slog.Logger (suture via sutureslog) get one backed by
the same zerolog output through NewSlogLogger.

Authentication events go through AuthLogger, which masks emails and tokens
before they reach the log.

Always finish an event with Msg or Send; an unfinished event is dropped.
*/
package logging
