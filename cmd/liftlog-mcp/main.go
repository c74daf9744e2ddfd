package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/config"
	liftmcp "github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	remote := flag.String("remote", "", "LiftLog server URL (e.g. http://liftlog.tail1234.ts.net); read history over its API instead of the database")
	login := flag.String("user", "local", "archive login to act as when reading the database directly")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-mcp", Version)
		return
	}

	// stdout carries the protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ds, userID, cleanup, err := dataSource(context.Background(), *configPath, *remote, *login)
	if err != nil {
		log.Error("failed to open data source", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	s := liftmcp.New(ds, Version, log)
	err = mcpserver.ServeStdio(s, mcpserver.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return liftmcp.WithUserID(ctx, userID)
	}))
	if err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

// dataSource returns the remote API client when remote is set, otherwise the
// configured archive and the ID of login within it. The server owns
// migrations, so the database is only connected here.
func dataSource(ctx context.Context, configPath, remote, login string) (liftmcp.DataSource, int, func(), error) {
	if remote != "" {
		return liftmcp.NewHTTPClient(remote), 1, func() {}, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, 0, nil, err
	}

	archive, cleanup, err := storage.Open(ctx, cfg.Database, "")
	if err != nil {
		return nil, 0, nil, err
	}

	userID, err := archive.GetOrCreateUser(ctx, login, "")
	if err != nil {
		cleanup()
		return nil, 0, nil, fmt.Errorf("resolving user %q: %w", login, err)
	}
	return archive, userID, cleanup, nil
}
