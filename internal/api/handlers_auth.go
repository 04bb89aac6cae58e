// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/allscreen/internal/auth"
	"github.com/tomtom215/allscreen/internal/models"
)

// maxAuthBody bounds signup and login bodies.
const maxAuthBody = 4 << 10

// Signup creates an account and starts a session.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeJSON(w, r, maxAuthBody, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.accounts.Signup(r.Context(), &req, auth.ClientIP(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, resp.Token, resp.ExpiresAt)
	respondOK(w, r, http.StatusCreated, resp)
}

// Login starts a session for a username or email and password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, maxAuthBody, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.accounts.Login(r.Context(), &req, auth.ClientIP(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, resp.Token, resp.ExpiresAt)
	respondOK(w, r, http.StatusOK, resp)
}

// Logout revokes the caller's token and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, auth.ErrNoCredentials)
		return
	}
	if err := h.accounts.Logout(r.Context(), subject, auth.ClientIP(r)); err != nil {
		writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, "", time.Unix(0, 0))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	c := &http.Cookie{
		Name:     h.config.Security.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.config.Security.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}
