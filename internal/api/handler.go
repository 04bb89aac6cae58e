// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"context"
	"time"

	"github.com/tomtom215/allscreen/internal/auth"
	"github.com/tomtom215/allscreen/internal/catalog"
	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/database"
	"github.com/tomtom215/allscreen/internal/importer"
	"github.com/tomtom215/allscreen/internal/media"
	"github.com/tomtom215/allscreen/internal/middleware"
	"github.com/tomtom215/allscreen/internal/models"
	"github.com/tomtom215/allscreen/internal/stats"
)

// Catalog is the read-only catalog surface the browse endpoints proxy.
type Catalog interface {
	Movie(ctx context.Context, id int64) (*catalog.MovieDetails, error)
	TVShow(ctx context.Context, id int64) (*catalog.TVDetails, error)
	Person(ctx context.Context, id int64) (*catalog.PersonDetails, error)
	Search(ctx context.Context, kind models.MediaKind, query string, page, year int) (*catalog.ResultPage, error)
	Discover(ctx context.Context, kind models.MediaKind, dim catalog.Dimension, value string, page int) (*catalog.ResultPage, error)
	Genres(ctx context.Context, kind models.MediaKind) ([]models.Genre, error)
	BreakerState() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files by resource:
//   - handlers_health.go: health and performance
//   - handlers_auth.go: signup, login, logout
//   - handlers_catalog.go: catalog browsing
//   - handlers_users.go: public profiles, stats, watchlist, listings, export
//   - handlers_me.go: the caller's profile, toggles and reviews
//   - handlers_lists.go: lists
//   - handlers_import.go: CSV import
type Handler struct {
	db       *database.DB
	catalog  Catalog
	media    *media.Service
	stats    *stats.Service
	accounts *auth.Service
	importer *importer.Importer
	perf     *middleware.PerformanceMonitor
	config   *config.Config
	version  string

	// baseCtx outlives requests; imports are bound to it so a client
	// disconnect does not abort them but shutdown does.
	baseCtx   context.Context
	startTime time.Time
}

// Deps are the services a Handler serves.
type Deps struct {
	DB       *database.DB
	Catalog  Catalog
	Media    *media.Service
	Stats    *stats.Service
	Accounts *auth.Service
	Importer *importer.Importer
	Perf     *middleware.PerformanceMonitor
	Config   *config.Config
	Version  string
}

// NewHandler creates the API handler.
//
// Example:
//
//	handler := api.NewHandler(api.Deps{DB: db, Catalog: client, ...})
//	router := api.NewRouter(handler, authMW)
//	srv := &http.Server{Handler: router.Setup()}
func NewHandler(d Deps) *Handler {
	perf := d.Perf
	if perf == nil {
		perf = middleware.NewPerformanceMonitor(1000, time.Second)
	}
	return &Handler{
		db:        d.DB,
		catalog:   d.Catalog,
		media:     d.Media,
		stats:     d.Stats,
		accounts:  d.Accounts,
		importer:  d.Importer,
		perf:      perf,
		config:    d.Config,
		version:   d.Version,
		baseCtx:   context.Background(),
		startTime: time.Now(),
	}
}

// SetBaseContext binds long-running work (imports) to ctx, normally the
// supervisor's context.
func (h *Handler) SetBaseContext(ctx context.Context) {
	h.baseCtx = ctx
}
