// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package stats computes a user's all-time statistics from their reviews:
// year and decade rating rollups and the most frequent collaborators per
// credited role.
//
// The computations are pure functions over already-loaded rows so they can
// be tested without a database. Service wires them to the store.
package stats

import (
	"sort"

	"github.com/tomtom215/allscreen/internal/models"
)

// TopFilmsPerDecade caps the film list kept for each decade.
const TopFilmsPerDecade = 20

type yearAcc struct {
	count int
	sum   float64
	avg   float64
}

type decadeAcc struct {
	count int
	sum   float64
	avg   float64
	films []models.DecadeFilm
}

// add folds one rating into a running average without dividing the total.
func (a *yearAcc) add(r float64) {
	a.count++
	a.sum += r
	a.avg += (r - a.avg) / float64(a.count)
}

func (a *decadeAcc) add(r float64) {
	a.count++
	a.sum += r
	a.avg += (r - a.avg) / float64(a.count)
}

// Rollup groups reviews by release year and decade. Reviews without a
// resolved movie or release date are skipped. Years and decades come back in
// ascending order; each decade keeps its 20 best-rated films, ties in
// encounter order.
func Rollup(reviews []models.ReviewedMovie) models.Rollup {
	years := make(map[int]*yearAcc)
	decades := make(map[int]*decadeAcc)

	for _, rv := range reviews {
		if rv.Movie == nil || rv.Movie.ReleaseDate == nil {
			continue
		}
		year := rv.Movie.ReleaseDate.Year()
		rating := float64(rv.Rating)

		ya, ok := years[year]
		if !ok {
			ya = &yearAcc{}
			years[year] = ya
		}
		ya.add(rating)

		d := models.Decade(year)
		da, ok := decades[d]
		if !ok {
			da = &decadeAcc{}
			decades[d] = da
		}
		da.add(rating)
		da.films = append(da.films, models.DecadeFilm{
			ID:     rv.Movie.ID,
			Title:  rv.Movie.Title,
			Rating: rating,
			Year:   year,
			Poster: rv.Movie.Poster,
		})
	}

	out := models.Rollup{
		Years:   make([]models.YearRollup, 0, len(years)),
		Decades: make([]models.DecadeRollup, 0, len(decades)),
	}

	for y, acc := range years {
		out.Years = append(out.Years, models.YearRollup{
			Year:    y,
			Count:   acc.count,
			Sum:     acc.sum,
			Average: acc.avg,
		})
	}
	sort.Slice(out.Years, func(i, j int) bool { return out.Years[i].Year < out.Years[j].Year })

	for d, acc := range decades {
		films := acc.films
		sort.SliceStable(films, func(i, j int) bool { return films[i].Rating > films[j].Rating })
		if len(films) > TopFilmsPerDecade {
			films = films[:TopFilmsPerDecade]
		}
		out.Decades = append(out.Decades, models.DecadeRollup{
			Decade:   d,
			Count:    acc.count,
			Sum:      acc.sum,
			Average:  acc.avg,
			TopFilms: films,
		})
	}
	sort.Slice(out.Decades, func(i, j int) bool { return out.Decades[i].Decade < out.Decades[j].Decade })

	return out
}
