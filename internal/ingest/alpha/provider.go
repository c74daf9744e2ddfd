package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/storage"
)

// Provider imports Alpha Progression CSV exports into the workout archive.
type Provider struct {
	archive storage.Archive
	log     *slog.Logger
}

// NewProvider creates a new Alpha Progression import provider.
func NewProvider(archive storage.Archive, log *slog.Logger) *Provider {
	return &Provider{archive: archive, log: log}
}

// Ingest parses a CSV export and archives every session in it. Sessions
// imported before are replaced.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	for _, s := range sessions {
		session, skipped, err := ToSession(userID, s)
		if err != nil {
			return result, fmt.Errorf("converting session %s: %w", s.Start.Format("2006-01-02"), err)
		}
		if err := p.archive.SaveWorkout(ctx, userID, session); err != nil {
			return result, fmt.Errorf("archiving session %s: %w", s.Start.Format("2006-01-02"), err)
		}
		result.SessionsImported++
		result.WarmupsSkipped += skipped
		for _, ex := range session.Exercises {
			result.SetsImported += len(ex.Sets)
		}
	}

	p.log.Info("alpha import complete",
		"user_id", userID,
		"sessions", result.SessionsImported,
		"sets", result.SetsImported,
		"warmups_skipped", result.WarmupsSkipped,
	)
	return result, nil
}
