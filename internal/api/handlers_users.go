// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/allscreen/internal/importer"
	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/models"
	"github.com/tomtom215/allscreen/internal/watchlist"
)

// pathUser resolves the {username} path parameter.
func (h *Handler) pathUser(r *http.Request) (*models.User, error) {
	return h.db.UserByName(r.Context(), chi.URLParam(r, "username"))
}

// Profile returns a user's public profile with activity counts.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.db.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, p)
}

// UserStats returns a user's rating rollups and top collaborators.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.stats.ForUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, s)
}

// Watchlist returns one page of a user's faceted movie watchlist.
func (h *Handler) Watchlist(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter, err := watchlistFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.pathUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.db.WatchlistMovies(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, watchlist.Browse(items, filter, page, h.config.API.WatchlistPageSize))
}

// Watched returns one page of a user's watched titles, newest first.
func (h *Handler) Watched(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.pathUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.db.WatchedByUser(r.Context(), u.ID, page, h.config.API.DefaultPageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, result)
}

// Reviews returns one page of a user's reviews, most recently updated first.
func (h *Handler) Reviews(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.pathUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.db.ReviewsByUser(r.Context(), u.ID, page, h.config.API.DefaultPageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, result)
}

// UserLists returns a user's lists without their items.
func (h *Handler) UserLists(w http.ResponseWriter, r *http.Request) {
	u, err := h.pathUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	lists, err := h.db.ListsByUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if lists == nil {
		lists = []models.List{}
	}
	respondOK(w, r, http.StatusOK, lists)
}

// Export streams a user's ratings, watched or watchlist titles as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	kind, err := importer.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.pathUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Buffer so a failed query still gets a JSON error instead of a
	// truncated CSV.
	var buf bytes.Buffer
	n, err := importer.Export(r.Context(), h.db, u.ID, kind, &buf)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", u.Name+"-"+string(kind)+".csv"))
	w.Header().Set("X-Export-Rows", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write export")
	}
}

// GetList returns one list with its items.
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	l, err := h.db.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, l)
}
