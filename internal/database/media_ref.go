// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package database

import (
	"database/sql"
	"fmt"

	"github.com/tomtom215/allscreen/internal/models"
)

// refArgs are the column values for one title reference.
type refArgs struct {
	mediaType string
	movieID   interface{}
	tvID      interface{}
	mediaID   int64
}

// refColumns maps a MediaRef onto the media_type / movie_id / tv_id / media_id
// columns. It is the only place the union is split.
func refColumns(ref models.MediaRef) (refArgs, error) {
	if err := ref.Validate(); err != nil {
		return refArgs{}, err
	}
	a := refArgs{mediaType: string(ref.Kind), mediaID: ref.ID}
	if ref.IsMovie() {
		a.movieID = ref.ID
	} else {
		a.tvID = ref.ID
	}
	return a, nil
}

// scanRef rebuilds a MediaRef from the stored columns.
func scanRef(mediaType string, movieID, tvID sql.NullInt64) (models.MediaRef, error) {
	switch {
	case mediaType == string(models.KindMovie) && movieID.Valid:
		return models.MovieRef(movieID.Int64), nil
	case mediaType == string(models.KindTVShow) && tvID.Valid:
		return models.TVShowRef(tvID.Int64), nil
	}
	return models.MediaRef{}, fmt.Errorf("corrupt title reference: type=%s movie=%v tv=%v", mediaType, movieID, tvID)
}

// summaryJoin joins a tracking table aliased t to its title.
const summaryJoin = `
	LEFT JOIN movies m ON t.movie_id = m.id
	LEFT JOIN tv_shows s ON t.tv_id = s.id`

// summaryColumns selects the title projection for summaryJoin.
const summaryColumns = `t.media_type, t.movie_id, t.tv_id,
	COALESCE(m.title, s.title, ''), COALESCE(m.poster, s.poster, ''),
	COALESCE(m.release_date, s.first_air_date)`

// scanSummary reads the summaryColumns into a MediaSummary.
func scanSummary(mediaType string, movieID, tvID sql.NullInt64, title, poster string, released sql.NullTime) (models.MediaSummary, error) {
	ref, err := scanRef(mediaType, movieID, tvID)
	if err != nil {
		return models.MediaSummary{}, err
	}
	return models.MediaSummary{
		Ref:         ref,
		Title:       title,
		Poster:      poster,
		ReleaseDate: nullTime(released),
	}, nil
}
