// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/allscreen/internal/importer"
	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/models"
)

// ImportCSV imports a CSV body of ratings, watched or watchlist rows for the
// caller and answers with the per-row summary.
//
// The body is read in full before processing starts. Processing is detached
// from the request: a client disconnect does not stop it, server shutdown
// does.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	s, ok := caller(w, r)
	if !ok {
		return
	}
	kind, err := importer.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	source, err := importer.ParseSource(r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.Import.MaxBodyBytes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, r, models.Invalid("body", "CSV body is empty"))
		return
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()
	stop := context.AfterFunc(h.baseCtx, cancel)
	defer stop()

	logging.Ctx(ctx).Info().
		Str("kind", string(kind)).
		Str("source", string(source)).
		Int("bytes", len(body)).
		Msg("Import requested")

	summary, err := h.importer.ImportCSV(ctx, s.UserID, kind, source, bytes.NewReader(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, summary)
}
