package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/claude/liftlog/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "LiftLog server URL (e.g. http://liftlog.tail1234.ts.net)")
	exportDir := flag.String("path", "", "directory holding Alpha Progression CSV exports")
	dryRun := flag.Bool("dry-run", false, "parse exports but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-upload -server <URL> -path <export dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
		os.Exit(1)
	}

	info, err := os.Stat(*exportDir)
	if err != nil || !info.IsDir() {
		log.Error("export directory not found", "path", *exportDir)
		os.Exit(1)
	}

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	state, err := upload.OpenStateDB(filepath.Join(homeDir, ".liftlog-upload"))
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Create client (nil in dry-run mode)
	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(*serverURL)
	} else {
		log.Info("DRY RUN mode: exports will be parsed but not sent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := upload.New(client, state, *exportDir, *dryRun, log).Run(ctx)
	printStats(stats)
	if totals, terr := state.Totals(); terr == nil {
		printTotals(totals)
	} else {
		log.Warn("failed to read upload history", "error", terr)
	}
	if err != nil {
		log.Error("upload failed", "error", err)
		os.Exit(1)
	}
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Sessions:         %d\n", stats.SessionsSent)
	fmt.Printf("  Sets:             %d\n", stats.SetsSent)
	fmt.Println()
}

func printTotals(t upload.Totals) {
	fmt.Println("=== Upload History ===")
	fmt.Printf("  Exports:          %d\n", t.Exports)
	fmt.Printf("  Sessions:         %d\n", t.Sessions)
	fmt.Printf("  Sets:             %d\n", t.Sets)
	fmt.Printf("  Warmups skipped:  %d\n", t.Warmups)
	if t.Last != nil {
		fmt.Printf("  Last upload:      %s\n", t.Last.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println()
}
