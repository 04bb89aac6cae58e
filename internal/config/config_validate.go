// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if err := validateHTTPURL(c.Catalog.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.Catalog.ImageBaseURL, "TMDB_IMAGE_BASE_URL"); err != nil {
		return err
	}
	if c.Catalog.APIToken == "" && c.IsProduction() {
		return fmt.Errorf("TMDB_API_TOKEN is required when ENVIRONMENT=production")
	}
	if len(c.Catalog.Region) != 2 {
		return fmt.Errorf("TMDB_REGION must be a two-letter country code, got %q", c.Catalog.Region)
	}
	if c.Catalog.RateLimit < 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must not be negative")
	}
	return validateRetry(c.Catalog.Retry, "TMDB_RETRY")
}

func validateRetry(r RetryConfig, prefix string) error {
	if r.MaxRetries < 0 {
		return fmt.Errorf("%s_MAX must not be negative", prefix)
	}
	if r.BaseDelay <= 0 {
		return fmt.Errorf("%s_BASE_DELAY must be positive", prefix)
	}
	if r.Multiplier < 1 {
		return fmt.Errorf("%s_MULTIPLIER must be at least 1", prefix)
	}
	if r.MaxDelay < r.BaseDelay {
		return fmt.Errorf("%s_MAX_DELAY must not be below %s_BASE_DELAY", prefix, prefix)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "memory", "none":
		return nil
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
		return nil
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis, none")
	}
}

func (c *Config) validateImport() error {
	if c.Import.BatchSize < 1 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be at least 1")
	}
	if c.Import.BatchDelay < 0 {
		return fmt.Errorf("IMPORT_BATCH_DELAY must not be negative")
	}
	if c.Import.MaxRows < 1 {
		return fmt.Errorf("IMPORT_MAX_ROWS must be at least 1")
	}
	return validateRetry(c.Import.Retry, "IMPORT_RETRY")
}

func (c *Config) validateAPI() error {
	if c.API.WatchlistPageSize < 1 {
		return fmt.Errorf("WATCHLIST_PAGE_SIZE must be at least 1")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be between 1 and MAX_PAGE_SIZE (%d)", c.API.MaxPageSize)
	}
	return nil
}

// minJWTSecretLength is the shortest accepted signing secret.
const minJWTSecretLength = 32

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	s := c.Security
	switch {
	case s.JWTSecret == "" && c.IsProduction():
		return fmt.Errorf("JWT_SECRET is required when ENVIRONMENT=production")
	case s.JWTSecret != "" && len(s.JWTSecret) < minJWTSecretLength:
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if s.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if s.BcryptCost < 4 || s.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; set specific origins")
	}
	if s.RateLimitDisabled {
		return nil
	}
	if s.RateLimitReqs < minRateLimitRequests || s.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if s.RateLimitWindow < minRateLimitWindow || s.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if f := strings.ToLower(c.Logging.Format); f != "json" && f != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard CORS setting that is allowed but
// worth a startup warning.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}
