// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package validation validates API request bodies with go-playground/validator.

A single validator is shared (GetValidator). Field names in messages are the
JSON names. Two tags are added to the built-in set:

  - rating: a half-star value 0.5, 1, ..., 5 (float or numeric string)
  - mediatype: MOVIE or TVSHOW in any accepted spelling

	type reviewRequest struct {
	    Type   string  `json:"type" validate:"required,mediatype"`
	    ID     int64   `json:"id" validate:"required,gt=0"`
	    Rating float64 `json:"rating" validate:"required,rating"`
	}

ValidateStruct returns a *RequestValidationError, which matches
models.ErrValidation and converts to the API error body with ToAPIError.
*/
package validation
