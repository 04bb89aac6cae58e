// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/allscreen/internal/models"
)

type reviewBody struct {
	Type    string  `json:"type" validate:"required,mediatype"`
	ID      int64   `json:"id" validate:"required,gt=0"`
	Rating  float64 `json:"rating" validate:"required,rating"`
	Comment string  `json:"comment" validate:"max=20"`
}

type signupBody struct {
	Name     string `json:"name" validate:"required,alphanum,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Source   string `json:"source" validate:"omitempty,oneof=search tmdb"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestRatingTag(t *testing.T) {
	for _, r := range models.ValidRatings {
		body := reviewBody{Type: "MOVIE", ID: 1, Rating: float64(r)}
		if err := ValidateStruct(&body); err != nil {
			t.Errorf("rating %v rejected: %v", r, err)
		}
	}

	for _, r := range []float64{0.25, 5.5, 3.3, -1, 0.4999} {
		body := reviewBody{Type: "MOVIE", ID: 1, Rating: r}
		err := ValidateStruct(&body)
		if err == nil {
			t.Errorf("rating %v accepted", r)
			continue
		}
		if got := err.Errors()[0].Field(); got != "rating" {
			t.Errorf("field = %q, want rating", got)
		}
	}
}

func TestMediaTypeTag(t *testing.T) {
	for _, typ := range []string{"MOVIE", "movie", "TVSHOW", "tv"} {
		body := reviewBody{Type: typ, ID: 1, Rating: 3}
		if err := ValidateStruct(&body); err != nil {
			t.Errorf("type %q rejected: %v", typ, err)
		}
	}
	body := reviewBody{Type: "episode", ID: 1, Rating: 3}
	err := ValidateStruct(&body)
	if err == nil || err.Errors()[0].Tag() != "mediatype" {
		t.Errorf("ValidateStruct() = %v, want mediatype failure", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     signupBody
		wantField string
		wantMsg   string
	}{
		{"missing name", signupBody{Email: "a@b.co", Password: "12345678"}, "name", "name is required"},
		{"short name", signupBody{Name: "a", Email: "a@b.co", Password: "12345678"}, "name", "name must be at least 2 characters"},
		{"handle punctuation", signupBody{Name: "a b", Email: "a@b.co", Password: "12345678"}, "name", "letters and digits"},
		{"bad email", signupBody{Name: "ann", Email: "nope", Password: "12345678"}, "email", "valid email"},
		{"short password", signupBody{Name: "ann", Email: "a@b.co", Password: "123"}, "password", "at least 8 characters"},
		{"bad source", signupBody{Name: "ann", Email: "a@b.co", Password: "12345678", Source: "imdb"}, "source", "one of: search tmdb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			first := err.Errors()[0]
			if first.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", first.Field(), tt.wantField)
			}
			if !strings.Contains(first.Error(), tt.wantMsg) {
				t.Errorf("message %q does not contain %q", first.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	var err error = ValidateStruct(&signupBody{})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("errors.Is(%v, ErrValidation) = false", err)
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&reviewBody{Type: "MOVIE", ID: 1, Rating: 7})
	apiErr := single.ToAPIError()
	if apiErr.Code != ErrorCode || apiErr.Details["field"] != "rating" {
		t.Errorf("single ToAPIError() = %+v", apiErr)
	}

	multi := ValidateStruct(&reviewBody{Comment: strings.Repeat("x", 21)})
	apiErr = multi.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 4 {
		t.Fatalf("multi ToAPIError() details = %+v", apiErr.Details)
	}
	if !strings.Contains(apiErr.Message, "comment must be at most 20 characters") {
		t.Errorf("Message = %q", apiErr.Message)
	}
}
