// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/allscreen/internal/auth"
	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/middleware"
	"github.com/tomtom215/allscreen/internal/models"
)

// Router binds the handler to its routes.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil chiMW uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, authMW *auth.Middleware, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(DefaultChiMiddlewareConfig())
	}
	return &Router{handler: handler, middleware: authMW, chiMiddleware: chiMW}
}

// ChiMiddlewareFromSecurity builds the CORS and rate limit settings from
// the security config.
func ChiMiddlewareFromSecurity(cfg *config.SecurityConfig) *ChiMiddleware {
	mc := DefaultChiMiddlewareConfig()
	if len(cfg.CORSOrigins) > 0 {
		mc.CORSAllowedOrigins = cfg.CORSOrigins
	}
	mc.RateLimitRequests = cfg.RateLimitReqs
	mc.RateLimitWindow = cfg.RateLimitWindow
	mc.RateLimitDisabled = cfg.RateLimitDisabled
	mc.RateLimitOnLimit = rateLimited
	return NewChiMiddleware(mc)
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5, "application/json", "text/csv"))
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(h.perf.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, &models.APIError{Code: ErrCodeNotFound, Message: "no such route"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, &models.APIError{Code: ErrCodeMethodNotAllowed, Message: "method not allowed"})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/performance", h.Performance)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.With(router.middleware.Authenticate).Post("/logout", h.Logout)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		// Public reads
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/search", h.Search)
			r.Get("/discover/{dimension}/{value}", h.Discover)
			r.Get("/movies/{id}", h.Movie)
			r.Get("/tv/{id}", h.TVShow)
			r.Get("/persons/{id}", h.Person)
			r.Get("/genres", h.Genres)
		})
		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", h.Profile)
			r.Get("/stats", h.UserStats)
			r.Get("/watchlist", h.Watchlist)
			r.Get("/watched", h.Watched)
			r.Get("/reviews", h.Reviews)
			r.Get("/lists", h.UserLists)
			r.Get("/export/{kind}", h.Export)
		})
		r.Get("/lists/{id}", h.GetList)

		// Caller-scoped writes
		r.Group(func(r chi.Router) {
			r.Use(router.middleware.Authenticate)

			r.Get("/me", h.Me)
			r.Patch("/me", h.UpdateMe)
			r.Post("/me/watched", h.ToggleWatched)
			r.Post("/me/watchlist", h.ToggleWatchlist)
			r.Put("/me/reviews", h.PutReview)
			r.Delete("/me/reviews/{type}/{id}", h.DeleteReview)
			r.Post("/me/lists", h.CreateList)
			r.Post("/me/import/{kind}", h.ImportCSV)

			r.Patch("/lists/{id}", h.UpdateList)
			r.Delete("/lists/{id}", h.DeleteList)
			r.Post("/lists/{id}/items", h.ToggleListItem)
		})
	})

	return r
}
