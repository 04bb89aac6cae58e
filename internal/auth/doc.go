// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package auth provides account authentication for the HTTP API.

Accounts sign up and log in with a password hashed by bcrypt. A successful
login returns an HS256 JWT (golang-jwt/jwt/v5) whose subject is the user id
and whose jti identifies the session. The token is accepted as a Bearer
header or as the session cookie.

# Request-scoped caller

Middleware.Authenticate verifies the token once and stores a Subject in the
request context:

	r.With(authMW.Authenticate).Post("/me/watched", h.ToggleWatched)

	func (h *Handler) ToggleWatched(w http.ResponseWriter, r *http.Request) {
	    subject, _ := auth.SubjectFromContext(r.Context())
	    ...
	}

# Logout

Logout stores the token's jti in a RevocationStore until the token would
have expired. BadgerRevocationStore persists revocations in BadgerDB with
per-key TTLs; with an empty path it runs in memory.
*/
package auth
