// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package watchlist implements faceted, paginated browsing of a user's
// watchlist movies.
//
// Filter semantics:
//   - Dimensions combine with AND; ids within one dimension combine with OR.
//   - A dimension's facet counts are taken over the items that match every
//     other dimension, ignoring the dimension's own selection, so selecting a
//     genre still shows how many items each other genre would add.
//   - Pages are 1-based; a page past the end is empty, not an error.
package watchlist

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/allscreen/internal/models"
)

// DefaultPageSize is the number of movies per page.
const DefaultPageSize = 20

// FacetKey returns the facet and query-parameter name for a role.
func FacetKey(role models.Role) string {
	switch role {
	case models.RoleDirector:
		return "directors"
	case models.RoleProducer:
		return "producers"
	case models.RoleExecProducer:
		return "exec_producers"
	case models.RoleWriter:
		return "writers"
	case models.RoleComposer:
		return "composers"
	case models.RoleCinematographer:
		return "cinematographers"
	case models.RoleActor:
		return "actors"
	}
	return string(role)
}

type value struct {
	id   int64
	name string
}

// dimension is one filterable attribute of a movie.
type dimension struct {
	key      string
	selected map[int64]bool
	ordinal  bool // years and decades list in ascending value order
	values   func(m *models.Movie) []value
}

func (d *dimension) active() bool { return len(d.selected) > 0 }

func (d *dimension) matches(m *models.Movie) bool {
	if !d.active() {
		return true
	}
	for _, v := range d.values(m) {
		if d.selected[v.id] {
			return true
		}
	}
	return false
}

func idSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func intSet(v *int) map[int64]bool {
	if v == nil {
		return nil
	}
	return map[int64]bool{int64(*v): true}
}

func genreValues(m *models.Movie) []value {
	out := make([]value, 0, len(m.Genres))
	for _, g := range m.Genres {
		out = append(out, value{id: g.ID, name: g.Name})
	}
	return out
}

func companyValues(m *models.Movie) []value {
	out := make([]value, 0, len(m.Companies))
	for _, c := range m.Companies {
		out = append(out, value{id: c.ID, name: c.Name})
	}
	return out
}

func roleValues(role models.Role) func(m *models.Movie) []value {
	return func(m *models.Movie) []value {
		var out []value
		for _, c := range m.Credits {
			if c.Role == role {
				out = append(out, value{id: c.Person.ID, name: c.Person.Name})
			}
		}
		return out
	}
}

func yearValues(m *models.Movie) []value {
	if m.ReleaseDate == nil {
		return nil
	}
	y := m.ReleaseDate.Year()
	return []value{{id: int64(y), name: strconv.Itoa(y)}}
}

func decadeValues(m *models.Movie) []value {
	if m.ReleaseDate == nil {
		return nil
	}
	y := m.ReleaseDate.Year()
	d := models.Decade(y)
	return []value{{id: int64(d), name: strconv.Itoa(d) + "s"}}
}

func dimensions(f *models.WatchlistFilter) []*dimension {
	dims := []*dimension{
		{key: models.FacetGenre, selected: idSet(f.Genres), values: genreValues},
		{key: models.FacetCompany, selected: idSet(f.Companies), values: companyValues},
	}
	for _, role := range models.Roles {
		dims = append(dims, &dimension{
			key:      FacetKey(role),
			selected: idSet(f.People[role]),
			values:   roleValues(role),
		})
	}
	dims = append(dims,
		&dimension{key: models.FacetDecade, selected: intSet(f.Decade), ordinal: true, values: decadeValues},
		&dimension{key: models.FacetYear, selected: intSet(f.Year), ordinal: true, values: yearValues},
	)
	return dims
}

// Browse filters, sorts, counts facets and paginates items. pageSize <= 0
// uses DefaultPageSize; page < 1 is treated as 1.
func Browse(items []models.WatchlistMovie, f models.WatchlistFilter, page, pageSize int) models.WatchlistPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	dims := dimensions(&f)

	// fails[i] is the number of dimensions item i does not match, and
	// missed[i] the last one it missed. An item counts toward dimension d's
	// facets when it fails nothing, or fails only d.
	fails := make([]int, len(items))
	missed := make([]int, len(items))
	for i := range items {
		for di, d := range dims {
			if !d.matches(&items[i].Movie) {
				fails[i]++
				missed[i] = di
			}
		}
	}

	facets := make(map[string][]models.FacetValue, len(dims))
	for di, d := range dims {
		facets[d.key] = countFacet(items, d, func(i int) bool {
			return fails[i] == 0 || (fails[i] == 1 && missed[i] == di)
		})
	}

	matched := make([]models.WatchlistMovie, 0, len(items))
	for i := range items {
		if fails[i] == 0 {
			matched = append(matched, items[i])
		}
	}
	sortMovies(matched, f.Sort)

	total := len(matched)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	pageItems := []models.WatchlistMovie{}
	if start < total {
		end := start + pageSize
		if end > total {
			end = total
		}
		pageItems = matched[start:end]
	}

	return models.WatchlistPage{
		Movies: pageItems,
		Pagination: models.WatchlistPagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
			TotalMovies: total,
			PageSize:    pageSize,
		},
		Facets: facets,
	}
}

func countFacet(items []models.WatchlistMovie, d *dimension, include func(i int) bool) []models.FacetValue {
	counts := make(map[int64]*models.FacetValue)
	for i := range items {
		if !include(i) {
			continue
		}
		seen := make(map[int64]bool)
		for _, v := range d.values(&items[i].Movie) {
			if seen[v.id] {
				continue
			}
			seen[v.id] = true
			fv, ok := counts[v.id]
			if !ok {
				fv = &models.FacetValue{ID: v.id, Name: v.name}
				counts[v.id] = fv
			}
			fv.Count++
		}
	}

	// Selected values stay visible even when nothing else matches them.
	for id := range d.selected {
		if _, ok := counts[id]; !ok {
			counts[id] = &models.FacetValue{ID: id, Name: valueName(items, d, id)}
		}
	}

	out := make([]models.FacetValue, 0, len(counts))
	for id, fv := range counts {
		fv.Selected = d.selected[id]
		out = append(out, *fv)
	}

	if d.ordinal {
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Name != out[j].Name {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func valueName(items []models.WatchlistMovie, d *dimension, id int64) string {
	for i := range items {
		for _, v := range d.values(&items[i].Movie) {
			if v.id == id {
				return v.name
			}
		}
	}
	name := strconv.FormatInt(id, 10)
	if d.key == models.FacetDecade {
		name += "s"
	}
	return name
}

func releaseUnix(m *models.WatchlistMovie) (int64, bool) {
	if m.Movie.ReleaseDate == nil {
		return 0, false
	}
	return m.Movie.ReleaseDate.Unix(), true
}

func sortMovies(ms []models.WatchlistMovie, key models.WatchlistSort) {
	var less func(a, b *models.WatchlistMovie) bool
	switch key {
	case models.SortAddedAsc:
		less = func(a, b *models.WatchlistMovie) bool { return a.AddedAt.Before(b.AddedAt) }
	case models.SortTitleAsc:
		less = func(a, b *models.WatchlistMovie) bool {
			return strings.ToLower(a.Movie.Title) < strings.ToLower(b.Movie.Title)
		}
	case models.SortTitleDesc:
		less = func(a, b *models.WatchlistMovie) bool {
			return strings.ToLower(a.Movie.Title) > strings.ToLower(b.Movie.Title)
		}
	case models.SortReleaseAsc, models.SortReleaseDesc:
		desc := key == models.SortReleaseDesc
		less = func(a, b *models.WatchlistMovie) bool {
			ra, okA := releaseUnix(a)
			rb, okB := releaseUnix(b)
			if okA != okB {
				return okA // undated movies sort last either way
			}
			if desc {
				return ra > rb
			}
			return ra < rb
		}
	case models.SortRuntimeAsc:
		less = func(a, b *models.WatchlistMovie) bool { return a.Movie.Runtime < b.Movie.Runtime }
	case models.SortRuntimeDesc:
		less = func(a, b *models.WatchlistMovie) bool { return a.Movie.Runtime > b.Movie.Runtime }
	default:
		less = func(a, b *models.WatchlistMovie) bool { return a.AddedAt.After(b.AddedAt) }
	}
	sort.SliceStable(ms, func(i, j int) bool { return less(&ms[i], &ms[j]) })
}

// ValidSort reports whether s is a known sort key or empty.
func ValidSort(s string) bool {
	if s == "" {
		return true
	}
	for _, k := range models.ValidWatchlistSorts {
		if string(k) == s {
			return true
		}
	}
	return false
}
