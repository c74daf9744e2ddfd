package upload

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/ingest"
)

const pushCSV = `"Push";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;100;6;0
`

func writeExport(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// importServer answers the import endpoint and counts requests.
func importServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/import/alpha" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "Bench Press") {
			t.Errorf("body = %q", body)
		}
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sessions_received":1,"sessions_imported":1,"sets_imported":2,"warmups_skipped":1}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

// TestStateDB verifies a file is only seen with the same size and hash.
func TestStateDB(t *testing.T) {
	state, err := OpenStateDB(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	if seen, err := state.Seen("a.csv", 10, "abc"); err != nil || seen {
		t.Fatalf("Seen before Record = %v, %v", seen, err)
	}
	state.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	if err := state.Record("a.csv", 10, "abc", &ingest.Result{SessionsImported: 2, SetsImported: 20, WarmupsSkipped: 8}); err != nil {
		t.Fatal(err)
	}
	if seen, _ := state.Seen("a.csv", 10, "abc"); !seen {
		t.Error("recorded file not seen")
	}
	if seen, _ := state.Seen("a.csv", 12, "abd"); seen {
		t.Error("changed file reported as seen")
	}
	if seen, _ := state.Seen("a.csv", 10, "abd"); seen {
		t.Error("same size with new content reported as seen")
	}

	// A re-export of the same path replaces its totals.
	if err := state.Record("a.csv", 12, "abd", &ingest.Result{SessionsImported: 3, SetsImported: 25}); err != nil {
		t.Fatal(err)
	}
	if err := state.Record("b.csv", 5, "def", &ingest.Result{SessionsImported: 1, SetsImported: 4, WarmupsSkipped: 1}); err != nil {
		t.Fatal(err)
	}
	totals, err := state.Totals()
	if err != nil {
		t.Fatal(err)
	}
	if totals.Exports != 2 || totals.Sessions != 4 || totals.Sets != 29 || totals.Warmups != 1 {
		t.Errorf("totals = %+v", totals)
	}
	if totals.Last == nil || !totals.Last.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("last upload = %v", totals.Last)
	}
}

// TestUploaderSkipsUploaded verifies a second run sends nothing unless a file changes.
func TestUploaderSkipsUploaded(t *testing.T) {
	var calls atomic.Int32
	ts := importServer(t, &calls)
	dir := t.TempDir()
	writeExport(t, dir, "2026-02.csv", pushCSV)
	writeExport(t, dir, "2026-03.csv", pushCSV)
	writeExport(t, dir, "notes.txt", "not an export")

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()
	log := slog.New(slog.DiscardHandler)

	stats, err := New(NewClient(ts.URL+"/"), state, dir, false, log).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesTotal != 2 || stats.FilesUploaded != 2 || stats.SessionsSent != 2 || stats.SetsSent != 4 {
		t.Errorf("first run stats = %+v", stats)
	}

	stats, _ = New(NewClient(ts.URL), state, dir, false, log).Run(context.Background())
	if stats.FilesSkipped != 2 || stats.FilesUploaded != 0 {
		t.Errorf("second run stats = %+v", stats)
	}

	writeExport(t, dir, "2026-03.csv", pushCSV+"\n")
	stats, _ = New(NewClient(ts.URL), state, dir, false, log).Run(context.Background())
	if stats.FilesUploaded != 1 || stats.FilesSkipped != 1 {
		t.Errorf("changed file stats = %+v", stats)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
}

// TestUploaderDryRun verifies a dry run parses locally and records nothing.
func TestUploaderDryRun(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "push.csv", pushCSV)
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	stats, err := New(nil, state, dir, true, slog.New(slog.DiscardHandler)).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.SessionsSent != 1 || stats.SetsSent != 2 || stats.FilesUploaded != 0 {
		t.Errorf("stats = %+v", stats)
	}
	hash, _ := HashFile(filepath.Join(dir, "push.csv"))
	if seen, _ := state.Seen("push.csv", int64(len(pushCSV)), hash); seen {
		t.Error("dry run recorded the file")
	}
}

// TestSendExportRetries verifies server errors are retried and a 400 is not.
func TestSendExportRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"error":"busy"}`, http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"sessions_imported":1}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.retryWait = time.Millisecond
	result, err := c.SendExport(context.Background(), []byte(pushCSV))
	if err != nil {
		t.Fatal(err)
	}
	if result.SessionsImported != 1 || calls.Load() != 2 {
		t.Errorf("result = %+v after %d calls", result, calls.Load())
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"set without exercise"}`, http.StatusBadRequest)
	}))
	defer bad.Close()
	calls.Store(0)
	c = NewClient(bad.URL)
	c.retryWait = time.Millisecond
	if _, err := c.SendExport(context.Background(), []byte("1;1;1;1")); err == nil {
		t.Error("expected error for rejected export")
	}
	if calls.Load() != 1 {
		t.Errorf("rejected export sent %d times, want 1", calls.Load())
	}
}
