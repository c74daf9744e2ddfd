package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/weights"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
)

func openTestDB(t *testing.T) *LocalDB {
	t.Helper()
	db, err := OpenLocalDB(filepath.Join(t.TempDir(), "data", "liftlog.db"))
	if err != nil {
		t.Fatalf("OpenLocalDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// endedSession builds a 30 minute squat session starting at start.
func endedSession(t *testing.T, start time.Time, perSide float64) workout.Session {
	t.Helper()
	now := start
	ed := workout.NewEditor(workout.WithClock(func() time.Time { return now }))
	s := ed.Start(weights.Pounds)
	s, exID := ed.AddExercise(s, workout.ExerciseDef{Name: "Back Squat", Equipment: weights.Barbell})
	s, _, err := ed.AddSet(s, exID, workout.SetDraft{WeightPerSide: perSide, Reps: 5})
	if err != nil {
		t.Fatal(err)
	}
	now = start.Add(30 * time.Minute)
	return ed.End(s)
}

// TestLocalUsers verifies users are created once per login and keep their display name.
func TestLocalUsers(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id1, err := db.GetOrCreateUser(ctx, "alice@example.com", "Alice")
	if err != nil {
		t.Fatal(err)
	}
	id2, err := db.GetOrCreateUser(ctx, "alice@example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Errorf("same login got ids %d and %d", id1, id2)
	}
	other, err := db.GetOrCreateUser(ctx, "bob@example.com", "Bob")
	if err != nil {
		t.Fatal(err)
	}
	if other == id1 {
		t.Error("different logins share an id")
	}
}

// TestLocalSaveAndGet verifies an archived session round trips with derived totals.
func TestLocalSaveAndGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user, _ := db.GetOrCreateUser(ctx, "u", "")

	s := endedSession(t, time.Date(2026, 5, 4, 17, 0, 0, 0, time.UTC), 135)
	if err := db.SaveWorkout(ctx, user, s); err != nil {
		t.Fatalf("SaveWorkout: %v", err)
	}

	got, err := db.GetWorkout(ctx, s.ID, user)
	if err != nil {
		t.Fatalf("GetWorkout: %v", err)
	}
	if got.Status() != workout.StatusEnded || *got.Duration != 30 {
		t.Errorf("status %s duration %v", got.Status(), got.Duration)
	}
	if total := got.Exercises[0].Sets[1].TotalWeight(); total != 315 {
		t.Errorf("total = %v, want 315", total)
	}

	if _, err := db.GetWorkout(ctx, s.ID, user+1); !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("other user GetWorkout err = %v", err)
	}
	if _, err := db.GetWorkout(ctx, uuid.New(), user); !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("missing GetWorkout err = %v", err)
	}
}

// TestLocalSaveReplaces verifies re-archiving a session replaces its rows.
func TestLocalSaveReplaces(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user, _ := db.GetOrCreateUser(ctx, "u", "")
	start := time.Date(2026, 5, 4, 17, 0, 0, 0, time.UTC)

	s := endedSession(t, start, 135)
	if err := db.SaveWorkout(ctx, user, s); err != nil {
		t.Fatal(err)
	}
	ed := workout.NewEditor()
	s, _ = ed.RemoveExercise(s, s.Exercises[0].ID)
	if err := db.SaveWorkout(ctx, user, s); err != nil {
		t.Fatal(err)
	}

	rows, err := db.QueryWorkouts(ctx, start.Add(-time.Hour), start.Add(time.Hour), user)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ExerciseCount != 0 {
		t.Fatalf("rows = %+v, want one empty workout", rows)
	}
	sets, err := db.QueryExerciseSets(ctx, start.Add(-time.Hour), start.Add(time.Hour), user, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 0 {
		t.Errorf("stale set rows = %d", len(sets))
	}
}

// TestLocalSaveOtherUser verifies a workout ID archived for one user cannot be
// taken over or cleared by another.
func TestLocalSaveOtherUser(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice, _ := db.GetOrCreateUser(ctx, "alice", "")
	bob, _ := db.GetOrCreateUser(ctx, "bob", "")
	start := time.Date(2026, 5, 4, 17, 0, 0, 0, time.UTC)

	s := endedSession(t, start, 135)
	if err := db.SaveWorkout(ctx, alice, s); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveWorkout(ctx, bob, s); !errors.Is(err, ErrWorkoutOwned) {
		t.Fatalf("bob SaveWorkout err = %v, want ErrWorkoutOwned", err)
	}

	got, err := db.GetWorkout(ctx, s.ID, alice)
	if err != nil {
		t.Fatalf("alice GetWorkout: %v", err)
	}
	if total := got.Exercises[0].Sets[1].TotalWeight(); total != 315 {
		t.Errorf("total = %v, want 315", total)
	}
	sets, err := db.QueryExerciseSets(ctx, start.Add(-time.Hour), start.Add(time.Hour), alice, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 {
		t.Errorf("alice sets = %d, want 2", len(sets))
	}
	if _, err := db.GetWorkout(ctx, s.ID, bob); !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("bob GetWorkout err = %v, want ErrWorkoutNotFound", err)
	}

	// The owner can still replace it.
	if err := db.SaveWorkout(ctx, alice, s); err != nil {
		t.Errorf("alice re-save: %v", err)
	}
}

// TestLocalQueries verifies time range filtering, ordering and the exercise filter.
func TestLocalQueries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user, _ := db.GetOrCreateUser(ctx, "u", "")

	day := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	older := endedSession(t, day, 100)
	newer := endedSession(t, day.Add(48*time.Hour), 120)
	outside := endedSession(t, day.Add(-30*24*time.Hour), 80)
	for _, s := range []workout.Session{older, newer, outside} {
		if err := db.SaveWorkout(ctx, user, s); err != nil {
			t.Fatal(err)
		}
	}

	from, to := day.Add(-24*time.Hour), day.Add(7*24*time.Hour)
	rows, err := db.QueryWorkouts(ctx, from, to, user)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].ID != newer.ID || rows[1].ID != older.ID {
		t.Fatalf("workouts = %+v", rows)
	}
	if !rows[1].StartTime.Equal(day) || rows[1].DurationMin == nil || *rows[1].DurationMin != 30 {
		t.Errorf("row = %+v", rows[1])
	}

	sets, err := db.QueryExerciseSets(ctx, from, to, user, "squat")
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 4 {
		t.Fatalf("sets = %d, want 4", len(sets))
	}
	if sets[1].TotalWeight != 285 || sets[1].SetNumber != 2 {
		t.Errorf("newest working set = %+v", sets[1])
	}
	none, err := db.QueryExerciseSets(ctx, from, to, user, "deadlift")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("deadlift sets = %d, want 0", len(none))
	}
}

// TestLocalStats verifies aggregate counts per user.
func TestLocalStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user, _ := db.GetOrCreateUser(ctx, "u", "")

	empty, err := db.GetDataStats(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if empty.TotalWorkouts != 0 || empty.EarliestData != nil {
		t.Errorf("empty stats = %+v", empty)
	}

	day := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, perSide := range []float64{100, 140} {
		s := endedSession(t, day.Add(time.Duration(i)*24*time.Hour), perSide)
		if err := db.SaveWorkout(ctx, user, s); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := db.GetDataStats(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalWorkouts != 2 || stats.TotalSets != 4 || stats.TotalReps != 10 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.Exercises) != 1 || stats.Exercises[0].MaxTotal != 325 {
		t.Errorf("exercise stats = %+v", stats.Exercises)
	}
	if !stats.EarliestData.Equal(day) {
		t.Errorf("earliest = %v, want %v", stats.EarliestData, day)
	}
}

// TestOpenSQLite verifies Open selects the SQLite archive.
func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	archive, closeArchive, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeArchive()
	if _, ok := archive.(*LocalDB); !ok {
		t.Errorf("archive = %T, want *LocalDB", archive)
	}
}
