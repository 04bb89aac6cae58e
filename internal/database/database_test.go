// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/models"
)

// testDBSemaphore limits concurrent database creation to prevent resource exhaustion in CI.
// It is held for the whole test so only one in-memory DuckDB runs CGO work at a time.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   1,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func testUser(t *testing.T, db *DB, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.test", PasswordHash: "x"}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s) error = %v", name, err)
	}
	return u
}

func testMovie(id int64, title string, released *time.Time) *models.Movie {
	return &models.Movie{
		ID:          id,
		Title:       title,
		ReleaseDate: released,
		Runtime:     120,
		Genres:      []models.Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}},
		Companies:   []models.Company{{ID: 4, Name: "Paramount", Country: "US"}},
		Credits: []models.Credit{
			{Person: models.Person{ID: 1, Name: "Director One", Jobs: []string{"Directing"}}, Role: models.RoleDirector},
			{Person: models.Person{ID: 2, Name: "Actor Two"}, Role: models.RoleActor, Order: 0},
			{Person: models.Person{ID: 1, Name: "Director One", Jobs: []string{"Writing"}}, Role: models.RoleWriter},
		},
	}
}

func TestUpsertMovieConverges(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	m := testMovie(603, "The Matrix", date(1999, 3, 31))
	// Duplicate credit for the same person and role is collapsed.
	m.Credits = append(m.Credits, m.Credits[1])

	for i := 0; i < 3; i++ {
		if err := db.UpsertMovie(ctx, m); err != nil {
			t.Fatalf("UpsertMovie() attempt %d error = %v", i, err)
		}
	}

	got, err := db.Movie(ctx, 603)
	if err != nil {
		t.Fatalf("Movie() error = %v", err)
	}
	if got.Title != "The Matrix" || got.Year() != 1999 {
		t.Errorf("movie = %+v", got)
	}
	if len(got.Genres) != 2 || got.Genres[0].Name != "Drama" {
		t.Errorf("genres = %+v", got.Genres)
	}
	if len(got.Companies) != 1 {
		t.Errorf("companies = %+v", got.Companies)
	}
	if len(got.Credits) != 3 {
		t.Fatalf("credits = %+v, want 3", got.Credits)
	}
	if jobs := got.Credits[0].Person.Jobs; len(jobs) != 2 {
		t.Errorf("merged jobs = %v, want Directing and Writing", jobs)
	}

	counts, err := db.RecordCounts(ctx)
	if err != nil {
		t.Fatalf("RecordCounts() error = %v", err)
	}
	if counts["movies"] != 1 || counts["persons"] != 2 {
		t.Errorf("counts = %v", counts)
	}

	// A refresh with fewer credits replaces the links.
	m.Credits = m.Credits[:1]
	m.Title = "The Matrix (1999)"
	if err := db.UpsertMovie(ctx, m); err != nil {
		t.Fatal(err)
	}
	got, _ = db.Movie(ctx, 603)
	if len(got.Credits) != 1 || got.Title != "The Matrix (1999)" {
		t.Errorf("after refresh: title %q credits %+v", got.Title, got.Credits)
	}
}

func TestUpsertMovieConcurrentSharedPersons(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := int64(1); i <= 5; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			errs <- db.UpsertMovie(ctx, testMovie(id, "Movie", date(2000, 1, 1)))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("UpsertMovie() error = %v", err)
		}
	}
}

func TestMovieNotFound(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.Movie(context.Background(), 1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Movie() error = %v, want ErrNotFound", err)
	}
}

func TestToggleWatchlistPair(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := testUser(t, db, "alice")
	ref := models.MovieRef(603)
	if err := db.UpsertMovie(ctx, testMovie(603, "The Matrix", nil)); err != nil {
		t.Fatal(err)
	}

	want := []models.ToggleState{models.StatePresent, models.StateAbsent, models.StatePresent}
	for i, w := range want {
		got, err := db.ToggleWatchlist(ctx, u.ID, ref)
		if err != nil {
			t.Fatalf("toggle %d error = %v", i, err)
		}
		if got != w {
			t.Errorf("toggle %d = %s, want %s", i, got, w)
		}
	}

	items, err := db.WatchlistMovies(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Movie.ID != 603 || len(items[0].Movie.Credits) != 3 {
		t.Errorf("watchlist = %+v", items)
	}
}

func TestToggleKindsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := testUser(t, db, "bob")

	// Same id as a movie and as a show are different titles.
	if s, _ := db.ToggleWatched(ctx, u.ID, models.MovieRef(1399)); s != models.StatePresent {
		t.Errorf("movie toggle = %s", s)
	}
	if s, _ := db.ToggleWatched(ctx, u.ID, models.TVShowRef(1399)); s != models.StatePresent {
		t.Errorf("show toggle = %s", s)
	}
	page, err := db.WatchedByUser(ctx, u.ID, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Errorf("watched page = %+v", page)
	}
}

func TestConcurrentTogglesSerialize(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := testUser(t, db, "carol")
	ref := models.MovieRef(42)

	const n = 6
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.ToggleWatched(ctx, u.ID, ref); err != nil {
				t.Errorf("ToggleWatched() error = %v", err)
			}
		}()
	}
	wg.Wait()

	all, err := db.AllWatched(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	// An even number of toggles leaves nothing behind.
	if len(all) != 0 {
		t.Errorf("rows after %d toggles = %d, want 0", n, len(all))
	}
}

func TestKeyLocksStayBounded(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := testUser(t, db, "dana")

	const titles = 200
	for round := 0; round < 2; round++ {
		for id := int64(1); id <= titles; id++ {
			if _, err := db.ToggleWatched(ctx, u.ID, models.MovieRef(id)); err != nil {
				t.Fatalf("ToggleWatched(%d) error = %v", id, err)
			}
		}
	}
	if all, err := db.AllWatched(ctx, u.ID); err != nil || len(all) != 0 {
		t.Errorf("AllWatched() = %d rows, %v, want 0 rows", len(all), err)
	}

	stripes := make(map[*sync.Mutex]bool, keyLockStripes)
	for i := range db.keyLocks {
		stripes[&db.keyLocks[i]] = true
	}
	seen := make(map[*sync.Mutex]bool)
	for i := 0; i < 10*keyLockStripes; i++ {
		key := fmt.Sprintf("%s/%s/%s", tableWatched, u.ID, models.MovieRef(int64(i)))
		mu := db.lockKey(key)
		if !stripes[mu] {
			t.Fatalf("lockKey(%q) returned a mutex outside the stripe table", key)
		}
		if again := db.lockKey(key); again != mu {
			t.Errorf("lockKey(%q) = %p then %p, want the same mutex", key, mu, again)
		}
		seen[mu] = true
	}
	if got := len(seen); got > keyLockStripes {
		t.Errorf("distinct locks = %v, want at most %v", got, keyLockStripes)
	}
}

func TestSetWatchedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := testUser(t, db, "dave")

	added, err := db.SetWatched(ctx, u.ID, models.MovieRef(7))
	if err != nil || !added {
		t.Fatalf("first SetWatched() = %v, %v", added, err)
	}
	added, err = db.SetWatched(ctx, u.ID, models.MovieRef(7))
	if err != nil || added {
		t.Errorf("second SetWatched() = %v, %v, want false", added, err)
	}
}

func TestTitleReferenceConstraints(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
	}{
		{"both ids", `INSERT INTO watched VALUES ('a', 'u', 'MOVIE', 1, 1, 1, now())`},
		{"no id", `INSERT INTO watched VALUES ('b', 'u', 'MOVIE', NULL, NULL, 1, now())`},
		{"type mismatch", `INSERT INTO watched VALUES ('c', 'u', 'TVSHOW', 1, NULL, 1, now())`},
		{"media id mismatch", `INSERT INTO watched VALUES ('d', 'u', 'MOVIE', 1, NULL, 2, now())`},
		{"rating off grid", `INSERT INTO reviews VALUES ('e', 'u', 'MOVIE', 1, NULL, 1, 4.2, '', now(), now())`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.Conn().ExecContext(ctx, tt.query); err == nil {
				t.Error("insert succeeded, want CHECK violation")
			}
		})
	}

	if _, err := refColumns(models.MediaRef{Kind: "EPISODE", ID: 1}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("refColumns(bad kind) error = %v", err)
	}
}

func TestUpsertReview(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := testUser(t, db, "erin")
	ref := models.MovieRef(603)
	if err := db.UpsertMovie(ctx, testMovie(603, "The Matrix", date(1999, 3, 31))); err != nil {
		t.Fatal(err)
	}

	w, err := db.UpsertReview(ctx, u.ID, ref, 4.5, "great")
	if err != nil {
		t.Fatalf("UpsertReview() error = %v", err)
	}
	if !w.Created || w.Review.Rating != 4.5 || w.Review.Title.Title != "The Matrix" {
		t.Errorf("first write = %+v", w)
	}

	w, err = db.UpsertReview(ctx, u.ID, ref, 3, "rewatched")
	if err != nil {
		t.Fatal(err)
	}
	if w.Created || w.Review.Rating != 3 || w.Review.Comment != "rewatched" {
		t.Errorf("second write = %+v", w)
	}

	if _, err := db.UpsertReview(ctx, u.ID, ref, 3.3, ""); !errors.Is(err, models.ErrValidation) {
		t.Errorf("off-grid rating error = %v, want ErrValidation", err)
	}

	reviewed, err := db.ReviewedMovies(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(reviewed) != 1 || reviewed[0].Movie == nil || len(reviewed[0].Movie.Credits) != 3 {
		t.Errorf("ReviewedMovies() = %+v", reviewed)
	}

	if err := db.DeleteReview(ctx, u.ID, ref); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteReview(ctx, u.ID, ref); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second DeleteReview() error = %v, want ErrNotFound", err)
	}
}

func TestReviewedMoviesDanglingMovie(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := testUser(t, db, "frank")

	if _, err := db.UpsertReview(ctx, u.ID, models.MovieRef(999), 2, ""); err != nil {
		t.Fatal(err)
	}
	reviewed, err := db.ReviewedMovies(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(reviewed) != 1 || reviewed[0].Movie != nil {
		t.Errorf("ReviewedMovies() = %+v, want one entry with nil movie", reviewed)
	}
}

func TestUsersAndProfile(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := testUser(t, db, "gina")

	dup := &models.User{Name: "gina", Email: "other@example.test", PasswordHash: "x"}
	if err := db.CreateUser(ctx, dup); !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate name error = %v, want ErrConflict", err)
	}
	if _, err := db.UserByEmail(ctx, "GINA@example.test"); err != nil {
		t.Errorf("UserByEmail() is not case-insensitive: %v", err)
	}
	if _, err := db.UserByName(ctx, "nobody"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UserByName(nobody) error = %v", err)
	}

	bio := "films"
	updated, err := db.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Bio: &bio})
	if err != nil || updated.Bio != "films" {
		t.Fatalf("UpdateProfile() = %+v, %v", updated, err)
	}

	if _, err := db.ToggleWatched(ctx, u.ID, models.MovieRef(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := db.UpsertReview(ctx, u.ID, models.TVShowRef(2), 5, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateList(ctx, u.ID, "Favourites", ""); err != nil {
		t.Fatal(err)
	}

	p, err := db.Profile(ctx, "gina")
	if err != nil {
		t.Fatal(err)
	}
	if p.ReviewCount != 1 || p.WatchedCount != 1 || p.WatchlistCount != 0 || p.ListCount != 1 {
		t.Errorf("profile counts = %+v", p)
	}
}

func TestListOwnership(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := testUser(t, db, "hank")
	other := testUser(t, db, "ivy")

	l, err := db.CreateList(ctx, owner.ID, "Noir", "black and white")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateList(ctx, owner.ID, "  ", ""); !errors.Is(err, models.ErrValidation) {
		t.Errorf("blank name error = %v", err)
	}

	if s, err := db.ToggleListItem(ctx, owner.ID, l.ID, models.MovieRef(289)); err != nil || s != models.StatePresent {
		t.Fatalf("ToggleListItem() = %s, %v", s, err)
	}
	if _, err := db.ToggleListItem(ctx, other.ID, l.ID, models.MovieRef(289)); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("foreign toggle error = %v, want ErrForbidden", err)
	}

	name := "Film Noir"
	got, err := db.UpdateList(ctx, owner.ID, l.ID, &name, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Film Noir" || got.Description != "black and white" || got.ItemCount != 1 {
		t.Errorf("updated list = %+v", got)
	}

	lists, err := db.ListsByUser(ctx, owner.ID)
	if err != nil || len(lists) != 1 || lists[0].ItemCount != 1 {
		t.Errorf("ListsByUser() = %+v, %v", lists, err)
	}

	if err := db.DeleteList(ctx, other.ID, l.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("foreign delete error = %v, want ErrForbidden", err)
	}
	if err := db.DeleteList(ctx, owner.ID, l.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := db.List(ctx, l.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("List() after delete error = %v", err)
	}
}

func TestReviewsPagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := testUser(t, db, "jack")

	for id := int64(1); id <= 5; id++ {
		if _, err := db.UpsertReview(ctx, u.ID, models.MovieRef(id), 3, ""); err != nil {
			t.Fatal(err)
		}
	}

	page, err := db.ReviewsByUser(ctx, u.ID, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 5 || page.TotalPages != 3 || len(page.Items) != 2 || !page.HasNext || !page.HasPrev {
		t.Errorf("page 2 = %+v", page)
	}
	page, _ = db.ReviewsByUser(ctx, u.ID, 9, 2)
	if len(page.Items) != 0 || page.Total != 5 {
		t.Errorf("page past end = %+v", page)
	}

	all, err := db.AllReviews(ctx, u.ID)
	if err != nil || len(all) != 5 {
		t.Errorf("AllReviews() = %d, %v", len(all), err)
	}
}
