// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/allscreen/internal/catalog"
)

// Search proxies catalog title search.
//
// Query parameters: query (required), type (MOVIE or TVSHOW), page, year.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := pageParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	y := 0
	if year != nil {
		y = *year
	}

	result, err := h.catalog.Search(r.Context(), kind, r.URL.Query().Get("query"), page, y)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, result)
}

// Discover lists titles sharing one attribute, e.g.
// /discover/company/420?type=MOVIE.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	dim, err := catalog.ParseDimension(chi.URLParam(r, "dimension"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := pageParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.catalog.Discover(r.Context(), kind, dim, chi.URLParam(r, "value"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, result)
}

// Movie returns catalog details for one movie.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	id, err := idPathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.catalog.Movie(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, m)
}

// TVShow returns catalog details for one TV show.
func (h *Handler) TVShow(w http.ResponseWriter, r *http.Request) {
	id, err := idPathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.catalog.TVShow(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, s)
}

// Person returns a person with their combined credits.
func (h *Handler) Person(w http.ResponseWriter, r *http.Request) {
	id, err := idPathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.catalog.Person(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, p)
}

// Genres lists the catalog genres for ?type=.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	genres, err := h.catalog.Genres(r.Context(), kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, genres)
}
