// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package models defines the data structures shared by the AllScreen packages.

Model Categories:

1. Catalog Models (media.go):
  - MediaKind and MediaRef: the movie-or-TV tagged reference used at every boundary
  - Movie, TVShow, Person, Genre, Company, Credit
  - Role: the seven credit roles counted by stats (actor, director, producer,
    executive producer, writer, composer, cinematographer)

2. Tracking Models (tracking.go, rating.go):
  - User, Profile, ProfileUpdate
  - Review with a Rating in {0.5, 1.0, ..., 5.0}
  - Membership rows for watched and watchlist, List
  - ToggleState and ToggleResult
  - Page[T]: a 1-based page of results

3. Statistics Models (stats.go):
  - Rollup: per-year and per-decade counts and averages, top films per decade
  - Collaborators: the top people per role

4. Watchlist Models (watchlist.go):
  - WatchlistFilter, WatchlistSort and WatchlistPage with facets and pagination

5. API Models (api_responses.go):
  - APIResponse, APIError and Meta: the JSON envelope
  - Request bodies for signup, login, toggles, reviews and lists

Errors (errors.go):

	ErrNotFound, ErrValidation, ErrForbidden and ErrConflict are sentinels
	matched with errors.Is. NotFound and Invalid build the wrapped forms.

Thread Safety:

Models are plain values with no internal synchronization. Treat values shared
between goroutines as read-only.
*/
package models
