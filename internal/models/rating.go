// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rating is a half-star score between 0.5 and 5.0.
type Rating float64

const (
	MinRating Rating = 0.5
	MaxRating Rating = 5.0
)

// ValidRatings lists the ten accepted values in ascending order.
var ValidRatings = []Rating{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}

// Valid reports whether r is exactly one of ValidRatings.
func (r Rating) Valid() bool {
	f := float64(r)
	if math.IsNaN(f) || r < MinRating || r > MaxRating {
		return false
	}
	doubled := f * 2
	return doubled == math.Trunc(doubled)
}

// ParseRating validates a numeric rating.
func ParseRating(v float64) (Rating, error) {
	r := Rating(v)
	if !r.Valid() {
		return 0, &ValidationError{
			Field:   "rating",
			Message: fmt.Sprintf("rating %v is not one of 0.5, 1, ..., 5", v),
		}
	}
	return r, nil
}

// ParseRatingString parses a rating from text such as a CSV cell.
func ParseRatingString(s string) (Rating, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "rating", Message: "rating is required"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValidationError{Field: "rating", Message: fmt.Sprintf("rating %q is not a number", s)}
	}
	return ParseRating(v)
}
