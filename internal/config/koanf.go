// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/allscreen/config.yaml",
	"/etc/allscreen/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvFileEnvVar overrides the .env file location.
const EnvFileEnvVar = "ENV_FILE"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3858,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/allscreen.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Catalog: CatalogConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			Language:     "fr-FR",
			Region:       "FR",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Timeout:      10 * time.Second,
			RateLimit:    40,
			RateBurst:    10,
			Retry: RetryConfig{
				MaxRetries: 2,
				BaseDelay:  time.Second,
				Multiplier: 2,
				MaxDelay:   10 * time.Second,
			},
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTL:        10 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:        "127.0.0.1:6379",
				KeyPrefix:   "allscreen:catalog:",
				DialTimeout: 5 * time.Second,
			},
		},
		Import: ImportConfig{
			BatchSize:    5,
			BatchDelay:   2 * time.Second,
			MaxRows:      5000,
			MaxBodyBytes: 5 << 20,
			Retry: RetryConfig{
				MaxRetries: 3,
				BaseDelay:  60 * time.Second,
				Multiplier: 1.5,
				MaxDelay:   300 * time.Second,
			},
		},
		API: APIConfig{
			WatchlistPageSize: 20,
			DefaultPageSize:   20,
			MaxPageSize:       100,
		},
		Security: SecurityConfig{
			TokenTTL:        7 * 24 * time.Hour,
			CookieName:      "allscreen_session",
			CookieSecure:    true,
			BcryptCost:      12,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads .env (or ENV_FILE) into the process environment.
// Variables that are already set win. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(EnvFileEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Catalog
	"tmdb_api_token":        "catalog.api_token",
	"tmdb_api_key":          "catalog.api_token",
	"tmdb_base_url":         "catalog.base_url",
	"tmdb_language":         "catalog.language",
	"tmdb_region":           "catalog.region",
	"tmdb_image_base_url":   "catalog.image_base_url",
	"tmdb_timeout":          "catalog.timeout",
	"tmdb_rate_limit":       "catalog.rate_limit",
	"tmdb_rate_burst":       "catalog.rate_burst",
	"tmdb_retry_max":        "catalog.retry.max_retries",
	"tmdb_retry_base_delay": "catalog.retry.base_delay",
	"tmdb_retry_multiplier": "catalog.retry.multiplier",
	"tmdb_retry_max_delay":  "catalog.retry.max_delay",

	// Cache
	"cache_backend":     "cache.backend",
	"cache_ttl":         "cache.ttl",
	"cache_max_entries": "cache.max_entries",
	"redis_addr":        "cache.redis.addr",
	"redis_password":    "cache.redis.password",
	"redis_db":          "cache.redis.db",
	"redis_key_prefix":  "cache.redis.key_prefix",

	// Import
	"import_batch_size":       "import.batch_size",
	"import_batch_delay":      "import.batch_delay",
	"import_max_rows":         "import.max_rows",
	"import_max_body_bytes":   "import.max_body_bytes",
	"import_retry_max":        "import.retry.max_retries",
	"import_retry_base_delay": "import.retry.base_delay",
	"import_retry_multiplier": "import.retry.multiplier",
	"import_retry_max_delay":  "import.retry.max_delay",

	// API
	"watchlist_page_size": "api.watchlist_page_size",
	"default_page_size":   "api.default_page_size",
	"max_page_size":       "api.max_page_size",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"token_ttl":           "security.token_ttl",
	"cookie_name":         "security.cookie_name",
	"cookie_secure":       "security.cookie_secure",
	"bcrypt_cost":         "security.bcrypt_cost",
	"revocation_path":     "security.revocation_path",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"rate_limit_disabled": "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_TOKEN -> catalog.api_token
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped variables are skipped so unrelated environment does not
	// pollute the config.
	return ""
}
