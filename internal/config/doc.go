// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package config loads AllScreen configuration with Koanf v2.

Sources, lowest priority first:
  - built-in defaults (defaultConfig)
  - an optional YAML file: CONFIG_PATH, config.yaml, config.yml,
    /etc/allscreen/config.yaml
  - mapped environment variables (envMappings), after a .env file has been
    read into the environment with godotenv

Sections: server, database, catalog, cache, import, api, security, logging.
Load validates the result; a production environment additionally requires
JWT_SECRET, TMDB_API_TOKEN and explicit CORS origins.

Example:

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load config")
	}
	client := catalog.NewClient(&cfg.Catalog, store)
*/
package config
