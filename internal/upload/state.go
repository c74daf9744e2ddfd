package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftlog/internal/ingest"
	_ "modernc.org/sqlite"
)

const stateSchema = `CREATE TABLE IF NOT EXISTS uploaded_exports (
	path         TEXT PRIMARY KEY,
	size         INTEGER NOT NULL,
	sha256       TEXT NOT NULL,
	sessions     INTEGER NOT NULL,
	sets         INTEGER NOT NULL,
	warmups      INTEGER NOT NULL,
	uploaded_ms  INTEGER NOT NULL
)`

// StateDB is the uploader's ledger of Alpha Progression exports the server
// has imported, keyed by path relative to the export folder. An export
// counts as imported only while its size and SHA-256 still match.
type StateDB struct {
	db  *sql.DB
	now func() time.Time
}

// Totals sums what every recorded export contributed.
type Totals struct {
	Exports  int
	Sessions int
	Sets     int
	Warmups  int
	Last     *time.Time
}

// OpenStateDB opens the ledger at dir/state.db, creating dir if needed.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	if _, err := db.Exec(stateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}
	return &StateDB{db: db, now: time.Now}, nil
}

// Seen reports whether the export at relPath was imported with this exact
// content.
func (s *StateDB) Seen(relPath string, size int64, hash string) (bool, error) {
	var stored string
	err := s.db.QueryRow(`SELECT sha256 FROM uploaded_exports WHERE path = ? AND size = ?`, relPath, size).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("looking up export %s: %w", relPath, err)
	}
	return stored == hash, nil
}

// Record stores what the server imported from an export. A re-export under
// the same path replaces the earlier entry.
func (s *StateDB) Record(relPath string, size int64, hash string, result *ingest.Result) error {
	_, err := s.db.Exec(
		`INSERT INTO uploaded_exports (path, size, sha256, sessions, sets, warmups, uploaded_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			size = excluded.size, sha256 = excluded.sha256, sessions = excluded.sessions,
			sets = excluded.sets, warmups = excluded.warmups, uploaded_ms = excluded.uploaded_ms`,
		relPath, size, hash, result.SessionsImported, result.SetsImported, result.WarmupsSkipped,
		s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("recording export %s: %w", relPath, err)
	}
	return nil
}

// Totals reports the ledger's lifetime counts.
func (s *StateDB) Totals() (Totals, error) {
	var (
		t    Totals
		last sql.NullInt64
	)
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(sessions), 0), COALESCE(SUM(sets), 0), COALESCE(SUM(warmups), 0),
		 MAX(uploaded_ms) FROM uploaded_exports`,
	).Scan(&t.Exports, &t.Sessions, &t.Sets, &t.Warmups, &last)
	if err != nil {
		return Totals{}, fmt.Errorf("summing uploaded exports: %w", err)
	}
	if last.Valid {
		ts := time.UnixMilli(last.Int64).UTC()
		t.Last = &ts
	}
	return t, nil
}

func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile returns the hex SHA-256 of an export file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
