// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/allscreen/internal/auth"
	"github.com/tomtom215/allscreen/internal/catalog"
	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/models"
	"github.com/tomtom215/allscreen/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeTooManyRequests     = "RATE_LIMITED"
	ErrCodePayloadTooLarge     = "PAYLOAD_TOO_LARGE"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed    = validation.ErrorCode
	ErrCodeExternalServiceFail = "EXTERNAL_SERVICE_FAILED"
)

func meta(r *http.Request) models.Meta {
	return models.Meta{
		Timestamp: time.Now().UTC(),
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
}

// respondJSON writes the envelope with status.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondOK writes a success envelope.
func respondOK(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, status, &models.APIResponse{Success: true, Data: data, Meta: meta(r)})
}

// respondError writes a failure envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{Success: false, Error: apiErr, Meta: meta(r)})
}

// writeError maps err onto a status code and error code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := classify(err)
	log := logging.Ctx(r.Context())
	if status >= 500 {
		log.Error().Err(err).Str("code", apiErr.Code).Str("path", sanitizeLogValue(r.URL.Path)).Msg("API error")
	} else {
		log.Debug().Err(err).Str("code", apiErr.Code).Msg("Request rejected")
	}
	respondError(w, r, status, apiErr)
}

func classify(err error) (int, *models.APIError) {
	var reqErr *validation.RequestValidationError
	if errors.As(err, &reqErr) {
		v := reqErr.ToAPIError()
		return http.StatusBadRequest, &models.APIError{Code: v.Code, Message: v.Message, Details: v.Details}
	}

	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, models.ErrValidation):
		apiErr := &models.APIError{Code: ErrCodeValidationFailed, Message: err.Error()}
		var ve *models.ValidationError
		if errors.As(err, &ve) && ve.Field != "" {
			apiErr.Message = ve.Error()
			apiErr.Details = map[string]interface{}{"field": ve.Field}
		}
		return http.StatusBadRequest, apiErr
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, &models.APIError{
			Code:    ErrCodePayloadTooLarge,
			Message: fmt.Sprintf("request body exceeds %d bytes", maxBytes.Limit),
		}
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, auth.ErrNoCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenRevoked):
		return http.StatusUnauthorized, &models.APIError{Code: ErrCodeUnauthorized, Message: err.Error()}
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, &models.APIError{Code: ErrCodeNotFound, Message: notFoundMessage(err)}
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, &models.APIError{Code: ErrCodeForbidden, Message: "you do not own this resource"}
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, &models.APIError{Code: ErrCodeConflict, Message: err.Error()}
	case errors.Is(err, catalog.ErrUnavailable):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeServiceUnavailable,
			Message: "the movie catalog is temporarily unavailable",
		}
	case catalog.IsUpstreamFailure(err):
		return http.StatusBadGateway, &models.APIError{
			Code:    ErrCodeExternalServiceFail,
			Message: "the movie catalog request failed",
		}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, &models.APIError{Code: ErrCodeServiceUnavailable, Message: "request timed out"}
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, &models.APIError{Code: ErrCodeServiceUnavailable, Message: "request cancelled"}
	}
	return http.StatusInternalServerError, &models.APIError{Code: ErrCodeInternalError, Message: "internal server error"}
}

func notFoundMessage(err error) string {
	var nf *models.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return "not found"
}

// rateLimited is the httprate limit handler.
func rateLimited(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusTooManyRequests, &models.APIError{
		Code:    ErrCodeTooManyRequests,
		Message: "too many requests, slow down",
	})
}

// decodeJSON reads one JSON object of at most limit bytes into dst and
// validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return models.Invalid("body", "request body is empty")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return models.Invalid("body", "malformed JSON: %v", err)
	}
	if vErr := validation.ValidateStruct(dst); vErr != nil {
		return vErr
	}
	return nil
}

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
