// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package models defines the domain types shared by the catalog client, the
// persistence layer, the aggregation engine and the HTTP API.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MediaKind discriminates movies from TV shows.
type MediaKind string

const (
	KindMovie  MediaKind = "MOVIE"
	KindTVShow MediaKind = "TVSHOW"
)

// ParseMediaKind accepts the API spellings of a media kind ("MOVIE", "movie",
// "TVSHOW", "tv", "tvshow").
func ParseMediaKind(s string) (MediaKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MOVIE", "MOVIES":
		return KindMovie, nil
	case "TVSHOW", "TV", "TVSHOWS", "TV_SHOW":
		return KindTVShow, nil
	default:
		return "", &ValidationError{Field: "type", Message: fmt.Sprintf("unknown media type %q", s)}
	}
}

// Valid reports whether k is one of the known kinds.
func (k MediaKind) Valid() bool {
	return k == KindMovie || k == KindTVShow
}

// CatalogPath returns the catalog URL segment for the kind ("movie" or "tv").
func (k MediaKind) CatalogPath() string {
	if k == KindTVShow {
		return "tv"
	}
	return "movie"
}

// MediaRef identifies exactly one title: a movie or a TV show, by external
// catalog id. It replaces the movieId/TVId field pair at every boundary.
type MediaRef struct {
	Kind MediaKind `json:"type"`
	ID   int64     `json:"id"`
}

// MovieRef returns a reference to a movie.
func MovieRef(id int64) MediaRef { return MediaRef{Kind: KindMovie, ID: id} }

// TVShowRef returns a reference to a TV show.
func TVShowRef(id int64) MediaRef { return MediaRef{Kind: KindTVShow, ID: id} }

// ParseMediaRef builds a reference from raw request values.
func ParseMediaRef(kind, id string) (MediaRef, error) {
	k, err := ParseMediaKind(kind)
	if err != nil {
		return MediaRef{}, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return MediaRef{}, &ValidationError{Field: "id", Message: fmt.Sprintf("invalid media id %q", id)}
	}
	return MediaRef{Kind: k, ID: n}, nil
}

// Validate checks that the reference names a known kind and a positive id.
func (r MediaRef) Validate() error {
	if !r.Kind.Valid() {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown media type %q", r.Kind)}
	}
	if r.ID <= 0 {
		return &ValidationError{Field: "id", Message: "id must be positive"}
	}
	return nil
}

// IsMovie reports whether the reference is a movie.
func (r MediaRef) IsMovie() bool { return r.Kind == KindMovie }

func (r MediaRef) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// Role is a credited position on a movie.
type Role string

const (
	RoleDirector        Role = "director"
	RoleProducer        Role = "producer"
	RoleExecProducer    Role = "executive_producer"
	RoleWriter          Role = "writer"
	RoleComposer        Role = "composer"
	RoleCinematographer Role = "cinematographer"
	RoleActor           Role = "actor"
)

// Roles lists every tracked role in display order.
var Roles = []Role{
	RoleDirector,
	RoleProducer,
	RoleExecProducer,
	RoleWriter,
	RoleComposer,
	RoleCinematographer,
	RoleActor,
}

// ParseRole accepts the role names used in query strings and the database.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Genre is a catalog genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Company is a production company.
type Company struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path,omitempty"`
	Country  string `json:"origin_country,omitempty"`
}

// Person is a cast or crew member as cached locally.
type Person struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	ProfilePath string   `json:"profile_path,omitempty"`
	Popularity  float64  `json:"popularity"`
	Jobs        []string `json:"jobs,omitempty"`
}

// Credit attaches a person to a movie in one role.
type Credit struct {
	Person Person `json:"person"`
	Role   Role   `json:"role"`
	// Order is the billing order for actors, zero for crew.
	Order int `json:"order,omitempty"`
}

// Movie is the locally cached copy of a catalog movie.
type Movie struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Poster      string     `json:"poster,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Runtime     int        `json:"runtime"`
	Genres      []Genre    `json:"genres,omitempty"`
	Companies   []Company  `json:"companies,omitempty"`
	Credits     []Credit   `json:"credits,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Year returns the release year, or zero when the release date is unknown.
func (m *Movie) Year() int {
	if m == nil || m.ReleaseDate == nil {
		return 0
	}
	return m.ReleaseDate.Year()
}

// TVShow is the locally cached copy of a catalog TV show.
type TVShow struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Poster       string     `json:"poster,omitempty"`
	FirstAirDate *time.Time `json:"first_air_date,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MediaSummary is the common projection of a movie or show used in listings.
type MediaSummary struct {
	Ref         MediaRef   `json:"ref"`
	Title       string     `json:"title"`
	Poster      string     `json:"poster,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}
