// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/allscreen/internal/models"
	"github.com/tomtom215/allscreen/internal/watchlist"
)

// pageParam reads the 1-based page query parameter. Pages below 1 read as 1.
func pageParam(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("page"))
	if v == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(v)
	if err != nil {
		return 0, models.Invalid("page", "must be an integer")
	}
	return max(page, 1), nil
}

// intParam reads an optional integer query parameter.
func intParam(r *http.Request, key string) (*int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, models.Invalid(key, "must be an integer")
	}
	return &n, nil
}

// idPathParam reads a positive integer path parameter.
func idPathParam(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id < 1 {
		return 0, models.Invalid(key, "must be a positive integer")
	}
	return id, nil
}

// kindParam reads the type query parameter, defaulting to movies.
func kindParam(r *http.Request) (models.MediaKind, error) {
	v := r.URL.Query().Get("type")
	if v == "" {
		return models.KindMovie, nil
	}
	return models.ParseMediaKind(v)
}

// parseCommaSeparatedIDs parses "1,2, 3" into ids.
func parseCommaSeparatedIDs(key, value string) ([]int64, error) {
	if value == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, models.Invalid(key, "%q is not an id", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// watchlistFilter reads the faceted watchlist query string.
func watchlistFilter(r *http.Request) (models.WatchlistFilter, error) {
	q := r.URL.Query()
	var (
		f   models.WatchlistFilter
		err error
	)

	if f.Genres, err = parseCommaSeparatedIDs(models.FacetGenre, q.Get(models.FacetGenre)); err != nil {
		return f, err
	}
	if f.Companies, err = parseCommaSeparatedIDs(models.FacetCompany, q.Get(models.FacetCompany)); err != nil {
		return f, err
	}
	for _, role := range models.Roles {
		key := watchlist.FacetKey(role)
		ids, err := parseCommaSeparatedIDs(key, q.Get(key))
		if err != nil {
			return f, err
		}
		if len(ids) > 0 {
			if f.People == nil {
				f.People = make(map[models.Role][]int64)
			}
			f.People[role] = ids
		}
	}

	if f.Decade, err = intParam(r, "decade"); err != nil {
		return f, err
	}
	if f.Decade != nil && *f.Decade%10 != 0 {
		return f, models.Invalid("decade", "must be a multiple of 10")
	}
	if f.Year, err = intParam(r, "year"); err != nil {
		return f, err
	}

	if s := q.Get("sort"); s != "" {
		if !watchlist.ValidSort(s) {
			return f, models.Invalid("sort", "unknown sort %q", s)
		}
		f.Sort = models.WatchlistSort(s)
	}
	return f, nil
}
