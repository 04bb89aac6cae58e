// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Command allscreenctl runs imports, exports and stats against the AllScreen
// database without going through the HTTP API. Stop the server first: DuckDB
// allows one writer process.
//
//	allscreenctl import --user alice --kind ratings letterboxd-ratings.csv
//	allscreenctl export --user alice --kind watchlist --out watchlist.csv
//	allscreenctl stats --user alice
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/goccy/go-json"

	"github.com/tomtom215/allscreen/internal/cache"
	"github.com/tomtom215/allscreen/internal/catalog"
	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/database"
	"github.com/tomtom215/allscreen/internal/importer"
	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/media"
	"github.com/tomtom215/allscreen/internal/stats"
)

var kinds = []string{string(importer.KindRatings), string(importer.KindWatched), string(importer.KindWatchlist)}

func main() {
	app := kingpin.New("allscreenctl", "AllScreen maintenance commands.")
	logLevel := app.Flag("log-level", "log level").Default("info").Enum("trace", "debug", "info", "warn", "error")

	importCmd := app.Command("import", "Import a Letterboxd or IMDb CSV export for a user.")
	importUser := importCmd.Flag("user", "username to import into").Required().String()
	importKind := importCmd.Flag("kind", "what the file holds").Default("ratings").Enum(kinds...)
	importSource := importCmd.Flag("source", "how rows are matched to catalog titles").Default("search").Enum("search", "tmdb")
	importFile := importCmd.Arg("file", "CSV file, - for stdin").Required().String()

	exportCmd := app.Command("export", "Export a user's ratings, watched or watchlist as CSV.")
	exportUser := exportCmd.Flag("user", "username to export").Required().String()
	exportKind := exportCmd.Flag("kind", "what to export").Default("ratings").Enum(kinds...)
	exportOut := exportCmd.Flag("out", "output file, - for stdout").Default("-").String()

	statsCmd := app.Command("stats", "Print a user's rating rollups and top collaborators as JSON.")
	statsUser := statsCmd.Flag("user", "username").Required().String()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load()
	app.FatalIfError(err, "load configuration")

	logging.Init(logging.Config{Level: *logLevel, Format: "console"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	app.FatalIfError(err, "open database")
	defer func() { _ = db.Close() }()

	switch command {
	case importCmd.FullCommand():
		err = runImport(ctx, cfg, db, *importUser, *importKind, *importSource, *importFile)
	case exportCmd.FullCommand():
		err = runExport(ctx, db, *exportUser, *exportKind, *exportOut)
	case statsCmd.FullCommand():
		err = runStats(ctx, db, *statsUser)
	}
	if err != nil {
		_ = db.Close()
		app.Fatalf("%s: %v", command, err)
	}
}

func runImport(ctx context.Context, cfg *config.Config, db *database.DB, username, kindName, sourceName, path string) error {
	kind, err := importer.ParseKind(kindName)
	if err != nil {
		return err
	}
	source, err := importer.ParseSource(sourceName)
	if err != nil {
		return err
	}
	user, err := db.UserByName(ctx, username)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(path)
	if err != nil {
		return err
	}
	defer closeIn()

	store, err := cache.New(ctx, &cfg.Cache)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}
	client := catalog.NewClient(&cfg.Catalog, store).WithRetryPolicy(cfg.Import.Retry.Policy("import"))
	imports := importer.New(&cfg.Import, client, media.NewService(client, db))

	summary, err := imports.ImportCSV(ctx, user.ID, kind, source, in)
	if err != nil {
		return err
	}
	logging.Info().
		Int("added", summary.Added).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("not_found", len(summary.NotFound)).
		Int("failed", len(summary.Failed)).
		Dur("duration", summary.Duration()).
		Msg("Import finished")
	return printJSON(os.Stdout, summary)
}

func runExport(ctx context.Context, db *database.DB, username, kindName, path string) error {
	kind, err := importer.ParseKind(kindName)
	if err != nil {
		return err
	}
	user, err := db.UserByName(ctx, username)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if path != "-" {
		f, err := os.Create(path) //nolint:gosec // operator-supplied path
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	n, err := importer.Export(ctx, db, user.ID, kind, out)
	if err != nil {
		return err
	}
	logging.Info().Int("rows", n).Str("kind", string(kind)).Msg("Export written")
	return nil
}

func runStats(ctx context.Context, db *database.DB, username string) error {
	st, err := stats.NewService(db).ForUser(ctx, username)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, st)
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
