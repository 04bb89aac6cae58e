// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/allscreen/internal/auth"
	"github.com/tomtom215/allscreen/internal/catalog"
	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/database"
	"github.com/tomtom215/allscreen/internal/importer"
	"github.com/tomtom215/allscreen/internal/media"
	"github.com/tomtom215/allscreen/internal/models"
	"github.com/tomtom215/allscreen/internal/stats"
)

type fakeCatalog struct {
	mu      sync.Mutex
	err     error
	breaker string
	movies  map[int64]*catalog.MovieDetails
}

func (f *fakeCatalog) failure() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeCatalog) Movie(_ context.Context, id int64) (*catalog.MovieDetails, error) {
	if err := f.failure(); err != nil {
		return nil, err
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, &catalog.StatusError{StatusCode: http.StatusNotFound, Path: "/movie"}
	}
	return m, nil
}

func (f *fakeCatalog) TVShow(_ context.Context, id int64) (*catalog.TVDetails, error) {
	if err := f.failure(); err != nil {
		return nil, err
	}
	return &catalog.TVDetails{TVShow: models.TVShow{ID: id, Title: "Show"}}, nil
}

func (f *fakeCatalog) Person(_ context.Context, id int64) (*catalog.PersonDetails, error) {
	if err := f.failure(); err != nil {
		return nil, err
	}
	return &catalog.PersonDetails{Person: models.Person{ID: id, Name: "Person"}}, nil
}

func (f *fakeCatalog) Search(_ context.Context, kind models.MediaKind, query string, page, _ int) (*catalog.ResultPage, error) {
	if err := f.failure(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, models.Invalid("query", "must not be empty")
	}
	var results []models.MediaSummary
	for _, m := range f.movies {
		if strings.Contains(strings.ToLower(m.Title), strings.ToLower(query)) {
			results = append(results, models.MediaSummary{Ref: models.MovieRef(m.ID), Title: m.Title})
		}
	}
	return &catalog.ResultPage{Page: page, TotalPages: 1, TotalResults: len(results), Results: results}, nil
}

func (f *fakeCatalog) Discover(_ context.Context, _ models.MediaKind, _ catalog.Dimension, _ string, page int) (*catalog.ResultPage, error) {
	if err := f.failure(); err != nil {
		return nil, err
	}
	return &catalog.ResultPage{Page: page}, nil
}

func (f *fakeCatalog) Genres(context.Context, models.MediaKind) ([]models.Genre, error) {
	return []models.Genre{{ID: 878, Name: "Science Fiction"}}, nil
}

func (f *fakeCatalog) BreakerState() string {
	if f.breaker == "" {
		return "closed"
	}
	return f.breaker
}

func movieDetails(id int64, title string, year int, genre models.Genre) *catalog.MovieDetails {
	released := time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)
	return &catalog.MovieDetails{Movie: models.Movie{
		ID:          id,
		Title:       title,
		ReleaseDate: &released,
		Genres:      []models.Genre{genre},
		Credits: []models.Credit{
			{Person: models.Person{ID: 1, Name: "Director One"}, Role: models.RoleDirector},
		},
	}}
}

type testServer struct {
	t       *testing.T
	srv     *httptest.Server
	catalog *fakeCatalog
	db      *database.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 1})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	scifi := models.Genre{ID: 878, Name: "Science Fiction"}
	drama := models.Genre{ID: 18, Name: "Drama"}
	fc := &fakeCatalog{movies: map[int64]*catalog.MovieDetails{
		603: movieDetails(603, "The Matrix", 1999, scifi),
		62:  movieDetails(62, "2001: A Space Odyssey", 1968, scifi),
		238: movieDetails(238, "The Godfather", 1972, drama),
	}}

	cfg := &config.Config{
		API:    config.APIConfig{WatchlistPageSize: 20, DefaultPageSize: 20, MaxPageSize: 100},
		Import: config.ImportConfig{BatchSize: 5, MaxRows: 100, MaxBodyBytes: 1 << 16},
		Security: config.SecurityConfig{
			JWTSecret:         "0123456789abcdef0123456789abcdef",
			TokenTTL:          time.Hour,
			CookieName:        "allscreen_session",
			BcryptCost:        bcrypt.MinCost,
			RateLimitDisabled: true,
		},
	}

	revoked, err := auth.OpenBadgerRevocationStore("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = revoked.Close() })
	tokens, err := auth.NewTokenManager(&cfg.Security, revoked)
	if err != nil {
		t.Fatal(err)
	}
	accounts, err := auth.NewService(db, tokens, cfg.Security.BcryptCost)
	if err != nil {
		t.Fatal(err)
	}

	mediaSvc := media.NewService(fc, db)
	h := NewHandler(Deps{
		DB:       db,
		Catalog:  fc,
		Media:    mediaSvc,
		Stats:    stats.NewService(db),
		Accounts: accounts,
		Importer: importer.New(&cfg.Import, fc, mediaSvc),
		Config:   cfg,
		Version:  "test",
	})
	authMW := auth.NewMiddleware(tokens, cfg.Security.CookieName, writeError)
	router := NewRouter(h, authMW, ChiMiddlewareFromSecurity(&cfg.Security))

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv, catalog: fc, db: db}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *models.APIError
	Meta    models.Meta `json:"meta"`
}

func (ts *testServer) do(method, path, token, contentType, body string) (*http.Response, envelope) {
	ts.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, rd)
	if err != nil {
		ts.t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ts.t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		ts.t.Fatal(err)
	}
	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") && len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			ts.t.Fatalf("%s %s: bad envelope %q: %v", method, path, raw, err)
		}
	} else {
		env.Data = raw
	}
	return resp, env
}

func (ts *testServer) json(method, path, token, body string) (*http.Response, envelope) {
	ts.t.Helper()
	return ts.do(method, path, token, "application/json", body)
}

func (ts *testServer) signup(name string) string {
	ts.t.Helper()
	resp, env := ts.json(http.MethodPost, "/api/v1/auth/signup", "",
		`{"name":"`+name+`","email":"`+name+`@example.com","password":"correct-horse"}`)
	if resp.StatusCode != http.StatusCreated {
		ts.t.Fatalf("signup status = %d, error = %+v", resp.StatusCode, env.Error)
	}
	var login models.LoginResponse
	if err := json.Unmarshal(env.Data, &login); err != nil {
		ts.t.Fatal(err)
	}
	return login.Token
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode %s: %v", env.Data, err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, env := ts.json(http.MethodGet, "/api/v1/health", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var hs models.HealthStatus
	decodeData(t, env, &hs)
	if hs.Status != "healthy" || !hs.Database || hs.Catalog != "closed" {
		t.Errorf("health = %+v", hs)
	}
	if resp.Header.Get("X-Request-ID") == "" || env.Meta.RequestID == "" {
		t.Error("missing request id")
	}

	ts.catalog.breaker = "open"
	_, env = ts.json(http.MethodGet, "/api/v1/health", "", "")
	decodeData(t, env, &hs)
	if hs.Status != "degraded" {
		t.Errorf("status with open breaker = %q, want degraded", hs.Status)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	resp, env := ts.json(http.MethodGet, "/api/v1/nope", "", "")
	if resp.StatusCode != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("status = %d, error = %+v", resp.StatusCode, env.Error)
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup("alice")

	resp, env := ts.json(http.MethodPost, "/api/v1/auth/signup", "",
		`{"name":"alice","email":"other@example.com","password":"correct-horse"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, error = %+v", resp.StatusCode, env.Error)
	}

	resp, _ = ts.json(http.MethodPost, "/api/v1/auth/login", "", `{"login":"alice","password":"wrong-password"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password status = %d", resp.StatusCode)
	}

	resp, env = ts.json(http.MethodPost, "/api/v1/auth/login", "", `{"login":"alice@example.com","password":"correct-horse"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, error = %+v", resp.StatusCode, env.Error)
	}
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "allscreen_session" {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.Value == "" {
		t.Errorf("session cookie = %+v", cookie)
	}

	resp, _ = ts.json(http.MethodGet, "/api/v1/me", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /me status = %d", resp.StatusCode)
	}

	resp, _ = ts.json(http.MethodPost, "/api/v1/auth/logout", token, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("logout status = %d", resp.StatusCode)
	}
	resp, _ = ts.json(http.MethodGet, "/api/v1/me", token, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", resp.StatusCode)
	}
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty body", ``, http.StatusBadRequest},
		{"malformed", `{"name":`, http.StatusBadRequest},
		{"short password", `{"name":"bob","email":"bob@example.com","password":"short"}`, http.StatusBadRequest},
		{"bad email", `{"name":"bob","email":"bob","password":"long-enough"}`, http.StatusBadRequest},
		{"too large", `{"name":"` + strings.Repeat("x", maxAuthBody) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := ts.json(http.MethodPost, "/api/v1/auth/signup", "", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (error %+v)", resp.StatusCode, tt.want, env.Error)
			}
		})
	}
}

func TestWritesRequireAuth(t *testing.T) {
	ts := newTestServer(t)
	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/me/watched"},
		{http.MethodPut, "/api/v1/me/reviews"},
		{http.MethodPost, "/api/v1/me/lists"},
		{http.MethodDelete, "/api/v1/lists/abc"},
		{http.MethodPost, "/api/v1/me/import/watched"},
	}
	for _, p := range paths {
		resp, env := ts.json(p.method, p.path, "", `{}`)
		if resp.StatusCode != http.StatusUnauthorized || env.Error == nil || env.Error.Code != ErrCodeUnauthorized {
			t.Errorf("%s %s status = %d, error = %+v", p.method, p.path, resp.StatusCode, env.Error)
		}
	}
}

func TestToggleWatched(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup("alice")

	want := []models.ToggleState{models.StatePresent, models.StateAbsent, models.StatePresent}
	for i, state := range want {
		resp, env := ts.json(http.MethodPost, "/api/v1/me/watched", token, `{"type":"MOVIE","id":603}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("toggle %d status = %d, error = %+v", i, resp.StatusCode, env.Error)
		}
		var result models.ToggleResult
		decodeData(t, env, &result)
		if result.State != state || result.Media != models.MovieRef(603) {
			t.Errorf("toggle %d = %+v, want %s", i, result, state)
		}
	}

	resp, env := ts.json(http.MethodPost, "/api/v1/me/watched", token, `{"type":"MOVIE","id":999}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown title status = %d, error = %+v", resp.StatusCode, env.Error)
	}
	resp, _ = ts.json(http.MethodPost, "/api/v1/me/watched", token, `{"type":"BOOK","id":1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad type status = %d", resp.StatusCode)
	}

	_, env = ts.json(http.MethodGet, "/api/v1/users/alice/watched", "", "")
	var page models.Page[models.Membership]
	decodeData(t, env, &page)
	if page.Total != 1 || page.Items[0].Title.Title != "The Matrix" {
		t.Errorf("watched page = %+v", page)
	}
}

func TestCatalogFailureMapping(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup("alice")

	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"breaker open", catalog.ErrUnavailable, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"upstream 500", &catalog.StatusError{StatusCode: 500, Path: "/movie"}, http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"rate limited", &catalog.StatusError{StatusCode: 429, Path: "/movie"}, http.StatusBadGateway, ErrCodeExternalServiceFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.catalog.mu.Lock()
			ts.catalog.err = tt.err
			ts.catalog.mu.Unlock()

			resp, env := ts.json(http.MethodPost, "/api/v1/me/watchlist", token, `{"type":"MOVIE","id":62}`)
			if resp.StatusCode != tt.want || env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("toggle status = %d, error = %+v", resp.StatusCode, env.Error)
			}
			resp, _ = ts.json(http.MethodGet, "/api/v1/catalog/movies/62", "", "")
			if resp.StatusCode != tt.want {
				t.Errorf("movie status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestReviews(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup("alice")

	resp, env := ts.json(http.MethodPut, "/api/v1/me/reviews", token, `{"type":"MOVIE","id":603,"rating":4.5,"comment":"great"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first review status = %d, error = %+v", resp.StatusCode, env.Error)
	}
	resp, env = ts.json(http.MethodPut, "/api/v1/me/reviews", token, `{"type":"MOVIE","id":603,"rating":5}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("replace status = %d, error = %+v", resp.StatusCode, env.Error)
	}
	var w models.ReviewWrite
	decodeData(t, env, &w)
	if w.Created || w.Review.Rating != 5 {
		t.Errorf("replace = %+v", w)
	}

	for _, bad := range []string{"0", "0.7", "5.5", "-1"} {
		resp, env = ts.json(http.MethodPut, "/api/v1/me/reviews", token, `{"type":"MOVIE","id":603,"rating":`+bad+`}`)
		if resp.StatusCode != http.StatusBadRequest || env.Error.Code != ErrCodeValidationFailed {
			t.Errorf("rating %s status = %d, error = %+v", bad, resp.StatusCode, env.Error)
		}
	}

	_, env = ts.json(http.MethodGet, "/api/v1/users/alice/reviews", "", "")
	var page models.Page[models.Review]
	decodeData(t, env, &page)
	if page.Total != 1 || page.Items[0].Rating != 5 {
		t.Errorf("reviews = %+v", page)
	}

	resp, _ = ts.json(http.MethodDelete, "/api/v1/me/reviews/MOVIE/603", token, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = ts.json(http.MethodDelete, "/api/v1/me/reviews/MOVIE/603", token, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestWatchlistFacets(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup("alice")
	for _, id := range []string{"603", "62", "238"} {
		if resp, env := ts.json(http.MethodPost, "/api/v1/me/watchlist", token, `{"type":"MOVIE","id":`+id+`}`); resp.StatusCode != http.StatusOK {
			t.Fatalf("add %s: %d %+v", id, resp.StatusCode, env.Error)
		}
	}

	_, env := ts.json(http.MethodGet, "/api/v1/users/alice/watchlist?genres=878", "", "")
	var page models.WatchlistPage
	decodeData(t, env, &page)
	if page.Pagination.TotalMovies != 2 {
		t.Errorf("sci-fi total = %d, want 2", page.Pagination.TotalMovies)
	}
	// The genre facet ignores its own selection.
	genres := map[int64]int{}
	for _, v := range page.Facets["genres"] {
		genres[v.ID] = v.Count
	}
	if genres[878] != 2 || genres[18] != 1 {
		t.Errorf("genre facet = %+v", page.Facets["genres"])
	}

	_, env = ts.json(http.MethodGet, "/api/v1/users/alice/watchlist?page=2", "", "")
	page = models.WatchlistPage{}
	decodeData(t, env, &page)
	if len(page.Movies) != 0 || page.Pagination.TotalMovies != 3 {
		t.Errorf("page 2 = %+v", page.Pagination)
	}

	for _, q := range []string{"page=0", "page=-4"} {
		_, env = ts.json(http.MethodGet, "/api/v1/users/alice/watchlist?"+q, "", "")
		page = models.WatchlistPage{}
		decodeData(t, env, &page)
		if page.Pagination.CurrentPage != 1 || len(page.Movies) != 3 {
			t.Errorf("%s current page = %v with %d movies, want 1 with 3", q, page.Pagination.CurrentPage, len(page.Movies))
		}
	}

	for _, q := range []string{"page=abc", "decade=1995", "sort=bogus", "genres=abc"} {
		resp, _ := ts.json(http.MethodGet, "/api/v1/users/alice/watchlist?"+q, "", "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", q, resp.StatusCode)
		}
	}

	resp, _ := ts.json(http.MethodGet, "/api/v1/users/nobody/watchlist", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown user status = %d", resp.StatusCode)
	}
}

func TestListOwnership(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.signup("alice")
	bob := ts.signup("bob")

	resp, env := ts.json(http.MethodPost, "/api/v1/me/lists", alice, `{"name":"Favourites"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, error = %+v", resp.StatusCode, env.Error)
	}
	var list models.List
	decodeData(t, env, &list)

	resp, _ = ts.json(http.MethodPost, "/api/v1/lists/"+list.ID+"/items", bob, `{"type":"MOVIE","id":603}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign toggle status = %d, want 403", resp.StatusCode)
	}
	resp, _ = ts.json(http.MethodDelete, "/api/v1/lists/"+list.ID, bob, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign delete status = %d, want 403", resp.StatusCode)
	}

	resp, _ = ts.json(http.MethodPost, "/api/v1/lists/"+list.ID+"/items", alice, `{"type":"MOVIE","id":603}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("owner toggle status = %d", resp.StatusCode)
	}
	resp, _ = ts.json(http.MethodPatch, "/api/v1/lists/"+list.ID, alice, `{"name":"Best"}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("rename status = %d", resp.StatusCode)
	}

	_, env = ts.json(http.MethodGet, "/api/v1/lists/"+list.ID, "", "")
	decodeData(t, env, &list)
	if list.Name != "Best" || list.ItemCount != 1 {
		t.Errorf("list = %+v", list)
	}

	resp, _ = ts.json(http.MethodDelete, "/api/v1/lists/"+list.ID, alice, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = ts.json(http.MethodGet, "/api/v1/lists/"+list.ID, "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted list status = %d", resp.StatusCode)
	}
}

func TestImportAndExport(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup("alice")

	csv := "Name,Year,Rating,TMDb ID\n" +
		"The Matrix,1999,4.5,603\n" +
		"\"2001: A Space Odyssey\",1968,5,62\n" +
		"Missing,2000,3,999\n" +
		"Bad,2000,7,238\n"
	resp, env := ts.do(http.MethodPost, "/api/v1/me/import/ratings?source=tmdb", token, "text/csv", csv)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d, error = %+v", resp.StatusCode, env.Error)
	}
	var summary importer.Summary
	decodeData(t, env, &summary)
	if summary.Total != 4 || summary.Added != 2 || len(summary.NotFound) != 1 || len(summary.Failed) != 1 {
		t.Errorf("summary = %+v", summary)
	}

	resp, env = ts.do(http.MethodGet, "/api/v1/users/alice/export/ratings", "", "", "")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv") {
		t.Fatalf("export status = %d, type = %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get("X-Export-Rows") != "2" || !strings.Contains(string(env.Data), "The Matrix") {
		t.Errorf("export rows = %s, body = %s", resp.Header.Get("X-Export-Rows"), env.Data)
	}

	resp, _ = ts.do(http.MethodPost, "/api/v1/me/import/likes", token, "text/csv", csv)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad kind status = %d", resp.StatusCode)
	}
	resp, _ = ts.do(http.MethodPost, "/api/v1/me/import/watched", token, "text/csv", "  ")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty body status = %d", resp.StatusCode)
	}
	resp, _ = ts.do(http.MethodPost, "/api/v1/me/import/watched", token, "text/csv", strings.Repeat("x", 1<<17))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body status = %d", resp.StatusCode)
	}
}

func TestStatsAndProfile(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup("alice")
	ts.json(http.MethodPut, "/api/v1/me/reviews", token, `{"type":"MOVIE","id":603,"rating":4}`)
	ts.json(http.MethodPut, "/api/v1/me/reviews", token, `{"type":"MOVIE","id":62,"rating":5}`)

	resp, env := ts.json(http.MethodGet, "/api/v1/users/alice/stats", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d, error = %+v", resp.StatusCode, env.Error)
	}
	var us models.UserStats
	decodeData(t, env, &us)
	directors := us.Collaborators.ByRole(models.RoleDirector)
	if len(directors) != 1 || directors[0].Count != 2 {
		t.Errorf("directors = %+v", directors)
	}

	resp, env = ts.json(http.MethodPatch, "/api/v1/me", token, `{"bio":"Film nerd"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d, error = %+v", resp.StatusCode, env.Error)
	}
	_, env = ts.json(http.MethodGet, "/api/v1/users/alice", "", "")
	var p models.Profile
	decodeData(t, env, &p)
	if p.User.Bio != "Film nerd" || p.ReviewCount != 2 {
		t.Errorf("profile = %+v", p)
	}

	resp, _ = ts.json(http.MethodPatch, "/api/v1/me", token, `{"image":"not a url"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad image status = %d", resp.StatusCode)
	}
}

func TestCatalogProxy(t *testing.T) {
	ts := newTestServer(t)

	resp, env := ts.json(http.MethodGet, "/api/v1/catalog/search?query=matrix", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}
	var rp catalog.ResultPage
	decodeData(t, env, &rp)
	if rp.TotalResults != 1 {
		t.Errorf("search = %+v", rp)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/catalog/search?query=", http.StatusBadRequest},
		{"/api/v1/catalog/search?query=x&type=BOOK", http.StatusBadRequest},
		{"/api/v1/catalog/discover/genre/878", http.StatusOK},
		{"/api/v1/catalog/discover/planet/1", http.StatusBadRequest},
		{"/api/v1/catalog/movies/abc", http.StatusBadRequest},
		{"/api/v1/catalog/movies/999", http.StatusNotFound},
		{"/api/v1/catalog/tv/1399", http.StatusOK},
		{"/api/v1/catalog/persons/1", http.StatusOK},
		{"/api/v1/catalog/genres?type=tv", http.StatusOK},
	}
	for _, tt := range tests {
		resp, _ := ts.json(http.MethodGet, tt.path, "", "")
		if resp.StatusCode != tt.want {
			t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.want)
		}
	}
}
