// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package models

import "time"

// WatchlistMovie is a watchlist entry with the movie attributes the faceted
// browser filters on.
type WatchlistMovie struct {
	Movie   Movie     `json:"movie"`
	AddedAt time.Time `json:"added_at"`
}

// WatchlistSort names a supported ordering.
type WatchlistSort string

const (
	SortAddedDesc   WatchlistSort = "added_desc"
	SortAddedAsc    WatchlistSort = "added_asc"
	SortTitleAsc    WatchlistSort = "title_asc"
	SortTitleDesc   WatchlistSort = "title_desc"
	SortReleaseDesc WatchlistSort = "release_desc"
	SortReleaseAsc  WatchlistSort = "release_asc"
	SortRuntimeAsc  WatchlistSort = "runtime_asc"
	SortRuntimeDesc WatchlistSort = "runtime_desc"
)

// ValidWatchlistSorts lists the accepted sort keys.
var ValidWatchlistSorts = []WatchlistSort{
	SortAddedDesc, SortAddedAsc, SortTitleAsc, SortTitleDesc,
	SortReleaseDesc, SortReleaseAsc, SortRuntimeAsc, SortRuntimeDesc,
}

// WatchlistFilter selects watchlist movies. Empty slices and zero values
// leave a dimension unfiltered. Ids within a dimension match any; dimensions
// must all match.
type WatchlistFilter struct {
	Genres    []int64
	Companies []int64
	People    map[Role][]int64
	Decade    *int
	Year      *int
	Sort      WatchlistSort
}

// Facet dimensions beyond the credited roles.
const (
	FacetGenre   = "genres"
	FacetCompany = "companies"
	FacetDecade  = "decades"
	FacetYear    = "years"
)

// FacetValue is one selectable filter value with its match count.
type FacetValue struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// WatchlistPagination is the page metadata for a watchlist listing.
type WatchlistPagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
	TotalMovies int  `json:"total_movies"`
	PageSize    int  `json:"page_size"`
}

// WatchlistPage is one page of the faceted watchlist.
type WatchlistPage struct {
	Movies     []WatchlistMovie        `json:"movies"`
	Pagination WatchlistPagination     `json:"pagination"`
	Facets     map[string][]FacetValue `json:"facets"`
}
