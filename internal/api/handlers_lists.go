// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/allscreen/internal/models"
)

// CreateList creates a list owned by the caller.
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.ListRequest
	if err := decodeJSON(w, r, maxWriteBody, &req); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := h.db.CreateList(r.Context(), s.UserID, req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, l)
}

// UpdateList renames or redescribes a list the caller owns.
func (h *Handler) UpdateList(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.ListUpdateRequest
	if err := decodeJSON(w, r, maxWriteBody, &req); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := h.db.UpdateList(r.Context(), s.UserID, chi.URLParam(r, "id"), req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, l)
}

// DeleteList removes a list the caller owns along with its items.
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.db.DeleteList(r.Context(), s.UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleListItem flips membership of a title in a list the caller owns.
func (h *Handler) ToggleListItem(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	ref, err := readMediaRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.media.ToggleListItem(r.Context(), s.UserID, chi.URLParam(r, "id"), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, result)
}
