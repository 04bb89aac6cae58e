// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package models

// Decade returns the decade a year belongs to, rounding toward negative
// infinity (1994 -> 1990, -5 -> -10).
func Decade(year int) int {
	if year < 0 {
		return -((-year + 9) / 10 * 10)
	}
	return year / 10 * 10
}

// ReviewedMovie is one review joined to its cached movie. Movie is nil when
// the movie row could not be resolved.
type ReviewedMovie struct {
	Rating Rating
	Movie  *Movie
}

// YearRollup aggregates ratings for one release year.
type YearRollup struct {
	Year    int     `json:"year"`
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
}

// DecadeFilm is a reviewed movie listed under its decade.
type DecadeFilm struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
	Year   int     `json:"year"`
	Poster string  `json:"poster,omitempty"`
}

// DecadeRollup aggregates ratings for one decade with its top films.
type DecadeRollup struct {
	Decade   int          `json:"decade"`
	Count    int          `json:"count"`
	Sum      float64      `json:"sum"`
	Average  float64      `json:"average"`
	TopFilms []DecadeFilm `json:"top_films"`
}

// Rollup is the year and decade breakdown of a user's reviews.
type Rollup struct {
	Years   []YearRollup   `json:"years"`
	Decades []DecadeRollup `json:"decades"`
}

// Collaborator is a person ranked by how many reviewed movies credit them.
type Collaborator struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path,omitempty"`
	Count       int    `json:"count"`
}

// Collaborators holds one ranked list per role.
type Collaborators struct {
	Directors        []Collaborator `json:"directors"`
	Producers        []Collaborator `json:"producers"`
	ExecProducers    []Collaborator `json:"executive_producers"`
	Writers          []Collaborator `json:"writers"`
	Composers        []Collaborator `json:"composers"`
	Cinematographers []Collaborator `json:"cinematographers"`
	Actors           []Collaborator `json:"actors"`
}

// ByRole returns the list for role.
func (c *Collaborators) ByRole(role Role) []Collaborator {
	switch role {
	case RoleDirector:
		return c.Directors
	case RoleProducer:
		return c.Producers
	case RoleExecProducer:
		return c.ExecProducers
	case RoleWriter:
		return c.Writers
	case RoleComposer:
		return c.Composers
	case RoleCinematographer:
		return c.Cinematographers
	case RoleActor:
		return c.Actors
	}
	return nil
}

// SetRole replaces the list for role.
func (c *Collaborators) SetRole(role Role, list []Collaborator) {
	switch role {
	case RoleDirector:
		c.Directors = list
	case RoleProducer:
		c.Producers = list
	case RoleExecProducer:
		c.ExecProducers = list
	case RoleWriter:
		c.Writers = list
	case RoleComposer:
		c.Composers = list
	case RoleCinematographer:
		c.Cinematographers = list
	case RoleActor:
		c.Actors = list
	}
}

// UserStats is the all-time statistics payload for a profile.
type UserStats struct {
	Username      string        `json:"username"`
	ReviewCount   int           `json:"review_count"`
	Rollup        Rollup        `json:"rollup"`
	Collaborators Collaborators `json:"collaborators"`
}
