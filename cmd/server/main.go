// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/allscreen/internal/api"
	"github.com/tomtom215/allscreen/internal/auth"
	"github.com/tomtom215/allscreen/internal/cache"
	"github.com/tomtom215/allscreen/internal/catalog"
	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/database"
	"github.com/tomtom215/allscreen/internal/importer"
	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/media"
	"github.com/tomtom215/allscreen/internal/metrics"
	"github.com/tomtom215/allscreen/internal/middleware"
	"github.com/tomtom215/allscreen/internal/stats"
	"github.com/tomtom215/allscreen/internal/supervisor"
	"github.com/tomtom215/allscreen/internal/supervisor/services"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("AllScreen stopped with an error")
	}
}

func run() error {
	started := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", Version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("cache", cfg.Cache.Backend).
		Msg("Starting AllScreen")
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	store, err := cache.New(ctx, &cfg.Cache)
	if err != nil {
		return fmt.Errorf("open catalog cache: %w", err)
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing catalog cache")
			}
		}()
	}

	// Interactive requests fail fast; imports wait out 429s.
	client := catalog.NewClient(&cfg.Catalog, store)
	importClient := client.WithRetryPolicy(cfg.Import.Retry.Policy("import"))

	mediaSvc := media.NewService(client, db)
	imports := importer.New(&cfg.Import, importClient, mediaSvc.WithCatalog(importClient))

	revoked, err := auth.OpenBadgerRevocationStore(cfg.Security.RevocationPath)
	if err != nil {
		return fmt.Errorf("open revocation store: %w", err)
	}
	defer func() {
		if err := revoked.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing revocation store")
		}
	}()

	tokens, err := auth.NewTokenManager(&cfg.Security, revoked)
	if err != nil {
		return fmt.Errorf("create token manager: %w", err)
	}
	accounts, err := auth.NewService(db, tokens, cfg.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("create account service: %w", err)
	}

	handler := api.NewHandler(api.Deps{
		DB:       db,
		Catalog:  client,
		Media:    mediaSvc,
		Stats:    stats.NewService(db),
		Accounts: accounts,
		Importer: imports,
		Perf:     middleware.NewPerformanceMonitor(1000, time.Second),
		Config:   cfg,
		Version:  Version,
	})
	router := api.NewRouter(
		handler,
		auth.NewMiddleware(tokens, cfg.Security.CookieName, nil),
		api.ChiMiddlewareFromSecurity(&cfg.Security),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Imports run longer than ordinary requests.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	metrics.SetAppInfo(Version, runtime.Version())

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(services.NewMaintenanceService(db, 0, started))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout).
		OnStart(handler.SetBaseContext))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Dur("uptime", time.Since(started)).Msg("AllScreen stopped")
	if len(unstopped) > 0 {
		return fmt.Errorf("%d services failed to stop", len(unstopped))
	}
	return nil
}
