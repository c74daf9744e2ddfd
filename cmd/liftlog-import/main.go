package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/alpha"
	"github.com/claude/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	login := flag.String("user", "local", "archive login the workouts belong to")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import -config config.yaml [-user login] export.csv...\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	archive, closeArchive, err := storage.Open(ctx, cfg.Database, "migrations")
	if err != nil {
		log.Error("failed to open archive", "error", err)
		os.Exit(1)
	}
	defer closeArchive()

	userID, err := archive.GetOrCreateUser(ctx, *login, "")
	if err != nil {
		log.Error("failed to resolve user", "login", *login, "error", err)
		os.Exit(1)
	}

	provider := alpha.NewProvider(archive, log)
	var total ingest.Result
	failed := false
	for _, path := range files {
		result, err := importFile(ctx, provider, path, userID)
		if err != nil {
			log.Error("import failed", "file", path, "error", err)
			failed = true
			continue
		}
		total.SessionsReceived += result.SessionsReceived
		total.SessionsImported += result.SessionsImported
		total.SetsImported += result.SetsImported
		total.WarmupsSkipped += result.WarmupsSkipped
	}

	log.Info("import stats",
		"files", len(files),
		"sessions_received", total.SessionsReceived,
		"sessions_imported", total.SessionsImported,
		"sets_imported", total.SetsImported,
		"warmups_skipped", total.WarmupsSkipped,
	)
	if failed {
		os.Exit(1)
	}
}

func importFile(ctx context.Context, p *alpha.Provider, path string, userID int) (*ingest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Ingest(ctx, f, userID)
}
