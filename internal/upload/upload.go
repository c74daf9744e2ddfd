package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/claude/liftlog/internal/ingest/alpha"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	SessionsSent int
	SetsSent     int
}

// Uploader sends every Alpha Progression export (*.csv) in a directory to
// the server, skipping files that were already uploaded unchanged.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run uploads the directory. A file that fails is logged and counted; Run
// only returns an error when the directory cannot be listed.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(u.dir, "*.csv"))
	if err != nil {
		return &u.stats, fmt.Errorf("listing %s: %w", u.dir, err)
	}
	slices.Sort(files)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++
		if err := u.processFile(ctx, f); err != nil {
			u.log.Warn("upload failed", "file", f, "error", err)
			u.stats.FilesErrored++
		}
	}
	return &u.stats, nil
}

func (u *Uploader) processFile(ctx context.Context, path string) error {
	relPath, err := filepath.Rel(u.dir, path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	seen, err := u.state.Seen(relPath, info.Size(), hash)
	if err != nil {
		return err
	}
	if seen {
		u.stats.FilesSkipped++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if u.dryRun {
		sessions, err := alpha.Parse(bytes.NewReader(data))
		if err != nil {
			return err
		}
		for _, s := range sessions {
			for _, ex := range s.Exercises {
				for _, set := range ex.Sets {
					if !set.Warmup {
						u.stats.SetsSent++
					}
				}
			}
		}
		u.stats.SessionsSent += len(sessions)
		u.log.Info("dry run", "file", relPath, "sessions", len(sessions))
		return nil
	}

	result, err := u.client.SendExport(ctx, data)
	if err != nil {
		return err
	}
	if err := u.state.Record(relPath, info.Size(), hash, result); err != nil {
		return err
	}
	u.stats.FilesUploaded++
	u.stats.SessionsSent += result.SessionsImported
	u.stats.SetsSent += result.SetsImported
	u.log.Info("uploaded", "file", relPath, "sessions", result.SessionsImported, "sets", result.SetsImported)
	return nil
}
