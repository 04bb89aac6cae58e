// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package catalog

import (
	"errors"
	"strings"

	"github.com/tomtom215/allscreen/internal/models"
)

// Dimension is an attribute discover results can be filtered by.
type Dimension string

const (
	DimensionCompany  Dimension = "company"
	DimensionGenre    Dimension = "genre"
	DimensionKeyword  Dimension = "keyword"
	DimensionCountry  Dimension = "country"
	DimensionLanguage Dimension = "language"
	DimensionNetwork  Dimension = "network"
)

// Dimensions lists every discover dimension.
var Dimensions = []Dimension{
	DimensionCompany,
	DimensionGenre,
	DimensionKeyword,
	DimensionCountry,
	DimensionLanguage,
	DimensionNetwork,
}

// ParseDimension accepts a dimension name in any case.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := d.param(); !ok {
		return "", models.Invalid("dimension", "unknown discover dimension %q", s)
	}
	return d, nil
}

func (d Dimension) param() (string, bool) {
	switch d {
	case DimensionCompany:
		return "with_companies", true
	case DimensionGenre:
		return "with_genres", true
	case DimensionKeyword:
		return "with_keywords", true
	case DimensionCountry:
		return "with_origin_country", true
	case DimensionLanguage:
		return "with_original_language", true
	case DimensionNetwork:
		return "with_networks", true
	}
	return "", false
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
