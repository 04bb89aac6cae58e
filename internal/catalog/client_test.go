// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/models"
	"github.com/tomtom215/allscreen/internal/retry"
)

const movieFixture = `{
  "id": 680,
  "title": "Pulp Fiction",
  "overview": "A burger-loving hit man...",
  "poster_path": "/pulp.jpg",
  "release_date": "1994-09-10",
  "runtime": 154,
  "original_language": "en",
  "genres": [{"id": 53, "name": "Thriller"}, {"id": 80, "name": "Crime"}],
  "production_companies": [{"id": 14, "name": "Miramax", "logo_path": "/mx.png", "origin_country": "US"}],
  "credits": {
    "cast": [
      {"id": 8891, "name": "John Travolta", "order": 0, "known_for_department": "Acting"},
      {"id": 2231, "name": "Samuel L. Jackson", "order": 1},
      {"id": 2231, "name": "Samuel L. Jackson", "order": 7}
    ],
    "crew": [
      {"id": 138, "name": "Quentin Tarantino", "job": "Director", "department": "Directing"},
      {"id": 138, "name": "Quentin Tarantino", "job": "Screenplay", "department": "Writing"},
      {"id": 138, "name": "Quentin Tarantino", "job": "Writer", "department": "Writing"},
      {"id": 7, "name": "Lawrence Bender", "job": "Producer", "department": "Production"},
      {"id": 9, "name": "Danny DeVito", "job": "Executive Producer", "department": "Production"},
      {"id": 11, "name": "Andrzej Sekula", "job": "Director of Photography", "department": "Camera"},
      {"id": 12, "name": "Grip Person", "job": "Key Grip", "department": "Crew"}
    ]
  },
  "keywords": {"keywords": [{"id": 1, "name": "nonlinear timeline"}]},
  "recommendations": {"page": 1, "results": [{"id": 500, "title": "Reservoir Dogs", "release_date": "1992-09-02"}]},
  "watch/providers": {"results": {"FR": {"link": "https://example.test/fr", "flatrate": [{"provider_id": 8, "provider_name": "Netflix"}]}}},
  "release_dates": {"results": [
    {"iso_3166_1": "US", "release_dates": [{"type": 3, "release_date": "1994-10-14T00:00:00.000Z"}]},
    {"iso_3166_1": "FR", "release_dates": [
      {"type": 4, "release_date": "2001-01-01T00:00:00.000Z"},
      {"type": 3, "release_date": "1994-10-26T00:00:00.000Z"},
      {"type": 1, "release_date": "1994-05-21T00:00:00.000Z"}
    ]}
  ]}
}`

func testConfig(baseURL string) *config.CatalogConfig {
	return &config.CatalogConfig{
		BaseURL:      baseURL,
		APIToken:     "test-token",
		Language:     "fr-FR",
		Region:       "FR",
		ImageBaseURL: "https://img.test/w500",
		Timeout:      5 * time.Second,
		Retry: config.RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			Multiplier: 2,
			MaxDelay:   5 * time.Millisecond,
		},
	}
}

type mapCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestResolveReleaseDate(t *testing.T) {
	t.Parallel()

	fr := func(entries ...releaseEntryJSON) []releaseCountryJSON {
		return []releaseCountryJSON{
			{Country: "US", ReleaseDates: []releaseEntryJSON{{Type: ReleaseTheatrical, ReleaseDate: "1990-01-01T00:00:00.000Z"}}},
			{Country: "FR", ReleaseDates: entries},
		}
	}

	tests := []struct {
		name      string
		global    string
		countries []releaseCountryJSON
		want      string
	}{
		{
			name:   "regional theatrical wins",
			global: "1994-09-10",
			countries: fr(
				releaseEntryJSON{Type: ReleaseDigital, ReleaseDate: "1995-01-01T00:00:00.000Z"},
				releaseEntryJSON{Type: ReleaseTheatrical, ReleaseDate: "1994-10-26T00:00:00.000Z"},
			),
			want: "1994-10-26",
		},
		{
			name:   "earliest regional theatrical",
			global: "1994-09-10",
			countries: fr(
				releaseEntryJSON{Type: ReleaseTheatrical, ReleaseDate: "1996-02-02T00:00:00.000Z"},
				releaseEntryJSON{Type: ReleaseTheatrical, ReleaseDate: "1995-03-03T00:00:00.000Z"},
			),
			want: "1995-03-03",
		},
		{
			name:      "regional digital when no theatrical",
			global:    "2020-06-01",
			countries: fr(releaseEntryJSON{Type: ReleaseDigital, ReleaseDate: "2020-07-15T00:00:00.000Z"}),
			want:      "2020-07-15",
		},
		{
			name:      "global when region has neither",
			global:    "2020-06-01",
			countries: fr(releaseEntryJSON{Type: ReleasePremiere, ReleaseDate: "2020-05-01T00:00:00.000Z"}),
			want:      "2020-06-01",
		},
		{
			name:   "other region ignored",
			global: "1999-12-31",
			countries: []releaseCountryJSON{
				{Country: "US", ReleaseDates: []releaseEntryJSON{{Type: ReleaseTheatrical, ReleaseDate: "1990-01-01T00:00:00.000Z"}}},
			},
			want: "1999-12-31",
		},
		{
			name: "nothing known",
			want: "",
		},
	}

	for _, tt := range tests {
		got := resolveReleaseDate(tt.global, tt.countries, "FR")
		switch {
		case tt.want == "" && got != nil:
			t.Errorf("%s: got %v, want nil", tt.name, got)
		case tt.want != "" && (got == nil || !got.Equal(date(tt.want))):
			t.Errorf("%s: got %v, want %s", tt.name, got, tt.want)
		}
	}
}

func TestMovie(t *testing.T) {
	t.Parallel()

	var gotAuth, gotAppend, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/680" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		gotAppend = r.URL.Query().Get("append_to_response")
		gotLang = r.URL.Query().Get("language")
		_, _ = w.Write([]byte(movieFixture))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	m, err := c.Movie(context.Background(), 680)
	if err != nil {
		t.Fatalf("Movie() error = %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if !strings.Contains(gotAppend, "release_dates") || !strings.Contains(gotAppend, "credits") {
		t.Errorf("append_to_response = %q", gotAppend)
	}
	if gotLang != "fr-FR" {
		t.Errorf("language = %q, want fr-FR", gotLang)
	}

	if m.ReleaseDate == nil || !m.ReleaseDate.Equal(date("1994-10-26")) {
		t.Errorf("ReleaseDate = %v, want FR theatrical 1994-10-26", m.ReleaseDate)
	}
	if m.Poster != "https://img.test/w500/pulp.jpg" {
		t.Errorf("Poster = %q", m.Poster)
	}
	if len(m.Genres) != 2 || len(m.Companies) != 1 || m.Companies[0].Name != "Miramax" {
		t.Errorf("genres/companies = %+v %+v", m.Genres, m.Companies)
	}

	roles := make(map[models.Role][]int64)
	for _, cr := range m.Credits {
		roles[cr.Role] = append(roles[cr.Role], cr.Person.ID)
	}
	want := map[models.Role]int{
		models.RoleActor:           2,
		models.RoleDirector:        1,
		models.RoleWriter:          1,
		models.RoleProducer:        1,
		models.RoleExecProducer:    1,
		models.RoleCinematographer: 1,
	}
	for role, n := range want {
		if len(roles[role]) != n {
			t.Errorf("%s credits = %v, want %d", role, roles[role], n)
		}
	}
	if len(roles[models.RoleComposer]) != 0 {
		t.Errorf("composer credits = %v, want none", roles[models.RoleComposer])
	}

	if len(m.Keywords) != 1 || len(m.Recommendations) != 1 || m.Recommendations[0].Ref != models.MovieRef(500) {
		t.Errorf("keywords/recommendations = %+v %+v", m.Keywords, m.Recommendations)
	}
	if len(m.Providers) != 1 || m.Providers[0].Offer != "flatrate" || m.ProvidersLink == "" {
		t.Errorf("providers = %+v (%q)", m.Providers, m.ProvidersLink)
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).Movie(context.Background(), 1)
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (404 is not retried)", calls.Load())
	}
}

func TestRateLimitedRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"genres":[{"id":18,"name":"Drame"}]}`))
	}))
	defer srv.Close()

	genres, err := NewClient(testConfig(srv.URL), nil).Genres(context.Background(), models.KindMovie)
	if err != nil {
		t.Fatalf("Genres() error = %v", err)
	}
	if len(genres) != 1 || genres[0].Name != "Drame" {
		t.Errorf("genres = %+v", genres)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestRateLimitedExhausted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).Genres(context.Background(), models.KindTVShow)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusTooManyRequests {
		t.Errorf("error = %v, want *StatusError 429", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", calls.Load())
	}
}

func TestRateLimitedCarriesRetryAfter(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Retry.MaxRetries = 0
	_, err := NewClient(cfg, nil).Genres(context.Background(), models.KindMovie)

	var hinter retry.RetryHinter
	if !errors.As(err, &hinter) {
		t.Fatalf("error = %v, want a retry.RetryHinter", err)
	}
	if got := hinter.RetryDelay(); got != 7*time.Second {
		t.Errorf("RetryDelay() = %v, want 7s", got)
	}
}

func TestServerErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).Person(context.Background(), 138)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Errorf("error = %v, want *StatusError 502", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestBreakerOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	for i := 0; i < 10; i++ {
		_, _ = c.Genres(context.Background(), models.KindMovie)
	}
	_, err := c.Genres(context.Background(), models.KindMovie)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
	if calls.Load() != 10 {
		t.Errorf("calls = %d, want 10", calls.Load())
	}
	if c.BreakerState() != "open" {
		t.Errorf("BreakerState() = %q, want open", c.BreakerState())
	}
}

func TestCacheServesRepeatRequests(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"genres":[{"id":18,"name":"Drame"}]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), &mapCache{m: make(map[string][]byte)})
	for i := 0; i < 3; i++ {
		if _, err := c.Genres(context.Background(), models.KindMovie); err != nil {
			t.Fatalf("Genres() error = %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestSearchAndDiscover(t *testing.T) {
	t.Parallel()

	var paths []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"page":1,"total_pages":1,"total_results":2,"results":[
			{"id":1,"name":"Twin Peaks","first_air_date":"1990-04-08"},
			{"id":2,"name":"Someone","media_type":"person"}]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	ctx := context.Background()

	page, err := c.Search(ctx, models.KindTVShow, "twin peaks", 0, 1990)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].Ref != models.TVShowRef(1) || page.Results[0].Title != "Twin Peaks" {
		t.Errorf("Search() results = %+v", page.Results)
	}

	if _, err := c.Discover(ctx, models.KindMovie, DimensionNetwork, "49", 2); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	if !strings.HasPrefix(paths[0], "/search/tv?") || !strings.Contains(paths[0], "first_air_date_year=1990") || !strings.Contains(paths[0], "page=1") {
		t.Errorf("search request = %s", paths[0])
	}
	if !strings.HasPrefix(paths[1], "/discover/tv?") || !strings.Contains(paths[1], "with_networks=49") {
		t.Errorf("discover request = %s, want tv discover by network", paths[1])
	}
}

func TestInputValidation(t *testing.T) {
	t.Parallel()

	c := NewClient(testConfig("http://127.0.0.1:0"), nil)
	ctx := context.Background()

	if _, err := c.Search(ctx, models.KindMovie, "  ", 1, 0); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Search(blank) error = %v, want ErrValidation", err)
	}
	if _, err := c.Discover(ctx, models.KindMovie, "studio", "1", 1); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Discover(studio) error = %v, want ErrValidation", err)
	}
	if _, err := ParseDimension("Genre"); err != nil {
		t.Errorf("ParseDimension(Genre) error = %v", err)
	}
}

func TestUpstreamFailureClassification(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).Genres(context.Background(), models.KindMovie)
	if !errors.Is(err, ErrRequestFailed) || !IsUpstreamFailure(err) {
		t.Errorf("decode error = %v, want ErrRequestFailed", err)
	}

	tests := []struct {
		err  error
		want bool
	}{
		{&StatusError{StatusCode: http.StatusInternalServerError}, true},
		{&StatusError{StatusCode: http.StatusTooManyRequests}, true},
		{&StatusError{StatusCode: http.StatusNotFound}, false},
		{models.Invalid("query", "must not be empty"), false},
		{errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := IsUpstreamFailure(tt.err); got != tt.want {
			t.Errorf("IsUpstreamFailure(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
