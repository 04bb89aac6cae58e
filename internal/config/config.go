// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package config

import (
	"time"

	"github.com/tomtom215/allscreen/internal/retry"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml)
//  3. Environment Variables: explicit mappings, see envTransformFunc
//
// A .env file in the working directory (or ENV_FILE) is read into the process
// environment before step 3 without overriding variables already set.
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Cache    CacheConfig    `koanf:"cache"`
	Import   ImportConfig   `koanf:"import"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging or production
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use NumCPU
}

// RetryConfig describes a backoff policy.
type RetryConfig struct {
	MaxRetries int           `koanf:"max_retries"`
	BaseDelay  time.Duration `koanf:"base_delay"`
	Multiplier float64       `koanf:"multiplier"`
	MaxDelay   time.Duration `koanf:"max_delay"`
}

// Policy converts the settings into a retry policy labelled name.
func (r RetryConfig) Policy(name string) retry.Policy {
	return retry.Policy{
		Name:       name,
		MaxRetries: r.MaxRetries,
		BaseDelay:  r.BaseDelay,
		Multiplier: r.Multiplier,
		MaxDelay:   r.MaxDelay,
	}
}

// CatalogConfig holds the external catalog (TMDB) client settings.
//
// Environment Variables:
//   - TMDB_API_TOKEN (or TMDB_API_KEY): v4 read access token
//   - TMDB_BASE_URL: API root (default: https://api.themoviedb.org/3)
//   - TMDB_LANGUAGE: response language (default: fr-FR)
//   - TMDB_REGION: region for release dates and providers (default: FR)
type CatalogConfig struct {
	BaseURL      string        `koanf:"base_url"`
	APIToken     string        `koanf:"api_token"`
	Language     string        `koanf:"language"`
	Region       string        `koanf:"region"`
	ImageBaseURL string        `koanf:"image_base_url"`
	Timeout      time.Duration `koanf:"timeout"`
	RateLimit    float64       `koanf:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst    int           `koanf:"rate_burst"`
	Retry        RetryConfig   `koanf:"retry"`
}

// RedisConfig holds the Redis cache connection.
type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	KeyPrefix   string        `koanf:"key_prefix"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// CacheConfig selects and tunes the catalog response cache.
type CacheConfig struct {
	Backend    string        `koanf:"backend"` // memory, redis or none
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`
	Redis      RedisConfig   `koanf:"redis"`
}

// ImportConfig holds CSV import pacing.
type ImportConfig struct {
	BatchSize    int           `koanf:"batch_size"`
	BatchDelay   time.Duration `koanf:"batch_delay"`
	MaxRows      int           `koanf:"max_rows"`
	MaxBodyBytes int64         `koanf:"max_body_bytes"`
	Retry        RetryConfig   `koanf:"retry"` // applied to catalog 429s during imports
}

// APIConfig holds API pagination settings
type APIConfig struct {
	WatchlistPageSize int `koanf:"watchlist_page_size"`
	DefaultPageSize   int `koanf:"default_page_size"`
	MaxPageSize       int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication and request limiting settings
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	CookieName        string        `koanf:"cookie_name"`
	CookieSecure      bool          `koanf:"cookie_secure"`
	BcryptCost        int           `koanf:"bcrypt_cost"`
	RevocationPath    string        `koanf:"revocation_path"` // badger directory, empty = in-memory
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the
// environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
