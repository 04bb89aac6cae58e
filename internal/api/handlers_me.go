// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/allscreen/internal/auth"
	"github.com/tomtom215/allscreen/internal/models"
)

// maxWriteBody bounds JSON bodies of the write endpoints.
const maxWriteBody = 16 << 10

// caller returns the authenticated subject. Routes reaching here are behind
// auth.Middleware, so a miss is a wiring bug and answers 401.
func caller(w http.ResponseWriter, r *http.Request) (auth.Subject, bool) {
	s, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, auth.ErrNoCredentials)
	}
	return s, ok
}

// readMediaRequest decodes a {type, id} body into a MediaRef.
func readMediaRequest(w http.ResponseWriter, r *http.Request) (models.MediaRef, error) {
	var req models.MediaRequest
	if err := decodeJSON(w, r, maxWriteBody, &req); err != nil {
		return models.MediaRef{}, err
	}
	return models.ParseMediaRef(req.Type, strconv.FormatInt(req.ID, 10))
}

// Me returns the caller's own profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	p, err := h.db.Profile(r.Context(), s.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, p)
}

// UpdateMe edits the caller's bio, image and email.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	var upd models.ProfileUpdate
	if err := decodeJSON(w, r, maxWriteBody, &upd); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.db.UpdateProfile(r.Context(), s.UserID, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, u)
}

// ToggleWatched flips whether the caller has watched a title.
func (h *Handler) ToggleWatched(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	ref, err := readMediaRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.media.ToggleWatched(r.Context(), s.UserID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, result)
}

// ToggleWatchlist flips whether a title is on the caller's watchlist.
func (h *Handler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	ref, err := readMediaRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.media.ToggleWatchlist(r.Context(), s.UserID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, result)
}

// PutReview creates or replaces the caller's review of a title. It answers
// 201 when a review was created and 200 when one was replaced.
func (h *Handler) PutReview(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.ReviewRequest
	if err := decodeJSON(w, r, maxWriteBody, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ref, err := models.ParseMediaRef(req.Type, strconv.FormatInt(req.ID, 10))
	if err != nil {
		writeError(w, r, err)
		return
	}
	rating, err := models.ParseRating(req.Rating)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.media.Review(r.Context(), s.UserID, ref, rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	respondOK(w, r, status, result)
}

// DeleteReview removes the caller's review of /{type}/{id}.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	ref, err := models.ParseMediaRef(chi.URLParam(r, "type"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.db.DeleteReview(r.Context(), s.UserID, ref); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
