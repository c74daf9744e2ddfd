package sessions

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/plates"
	"github.com/claude/liftlog/internal/weights"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
)

// TestOwnership verifies a session is only visible to the user who started it.
func TestOwnership(t *testing.T) {
	r := New(weights.Pounds, 0)
	ed := workout.NewEditor()
	s := ed.Start(weights.Pounds)
	r.Put("alice@example.com", s)

	if _, err := r.Get("alice@example.com", s.ID); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
	if _, err := r.Get("bob@example.com", s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("other user Get err = %v, want ErrSessionNotFound", err)
	}
	if err := r.Delete("bob@example.com", s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("other user Delete err = %v", err)
	}
	if got := r.List("bob@example.com"); len(got) != 0 {
		t.Errorf("bob sees %d sessions", len(got))
	}
}

// TestUpdateKeepsSnapshotOnError verifies a failed command leaves the stored
// session unchanged.
func TestUpdateKeepsSnapshotOnError(t *testing.T) {
	r := New(weights.Pounds, 0)
	ed := workout.NewEditor()
	s := ed.Start(weights.Pounds)
	s, exID := ed.AddExercise(s, workout.ExerciseDef{Name: "Squat", Equipment: weights.Barbell})
	r.Put("u", s)

	_, err := r.Update("u", s.ID, func(cur workout.Session) (workout.Session, error) {
		return ed.RemoveSet(cur, exID, uuid.New())
	})
	if !errors.Is(err, workout.ErrSetNotFound) {
		t.Fatalf("err = %v, want ErrSetNotFound", err)
	}

	next, err := r.Update("u", s.ID, func(cur workout.Session) (workout.Session, error) {
		cur, _, err := ed.AddSet(cur, exID, workout.SetDraft{WeightPerSide: 100, Reps: 5})
		return cur, err
	})
	if err != nil {
		t.Fatal(err)
	}
	stored, _ := r.Get("u", s.ID)
	ex, _ := stored.Exercise(exID)
	if len(ex.Sets) != 2 {
		t.Errorf("stored sets = %d, want 2", len(ex.Sets))
	}
	if next.ID != stored.ID {
		t.Error("Update returned a different session")
	}
}

// TestListOrder verifies sessions are listed newest first.
func TestListOrder(t *testing.T) {
	r := New(weights.Kilograms, 0)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	ed := workout.NewEditor(workout.WithClock(func() time.Time { return now }))

	first := ed.Start(weights.Kilograms)
	now = now.Add(24 * time.Hour)
	second := ed.Start(weights.Kilograms)
	r.Put("u", first)
	r.Put("u", second)

	got := r.List("u")
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("List order wrong: %v", got)
	}
}

// TestCalculatorDefaults verifies lazily created calculators honour the
// configured unit and bar weight.
func TestCalculatorDefaults(t *testing.T) {
	r := New(weights.Kilograms, 15)
	c := r.Calculator("u")
	if c.Unit != weights.Kilograms || c.BarWeight != 15 || !c.Doubled || !c.IncludeBarWeight {
		t.Errorf("calculator = %+v", c)
	}

	c = r.UpdateCalculator("u", func(c plates.Calculator) plates.Calculator {
		return c.AddPlate(20).AddPlate(20)
	})
	if c.Total() != 95 {
		t.Errorf("total = %v, want 95", c.Total())
	}
	if other := r.Calculator("v"); other.Rack.Len() != 0 {
		t.Error("calculators shared between users")
	}
}

// TestConcurrentUpdates verifies concurrent commands are serialised.
func TestConcurrentUpdates(t *testing.T) {
	r := New(weights.Pounds, 0)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.UpdateCalculator("u", func(c plates.Calculator) plates.Calculator {
				return c.AddPlate(45)
			})
		}()
	}
	wg.Wait()
	if got := r.Calculator("u").Rack.Count(45); got != 50 {
		t.Errorf("count = %d, want 50", got)
	}
}

// TestPutDropsArchivedSessions verifies archived sessions that ended long ago
// are dropped on the owner's next Put while unarchived or recent ones stay.
func TestPutDropsArchivedSessions(t *testing.T) {
	r := New(weights.Pounds, 0)
	now := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	ed := workout.NewEditor(workout.WithClock(func() time.Time { return now }))

	old := ed.End(ed.Start(weights.Pounds))
	unsaved := ed.End(ed.Start(weights.Pounds))
	other := ed.End(ed.Start(weights.Pounds))
	r.Put("alice", old)
	r.Put("alice", unsaved)
	r.Put("bob", other)
	for _, e := range []struct {
		user string
		id   uuid.UUID
	}{{"alice", old.ID}, {"bob", other.ID}} {
		if err := r.MarkArchived(e.user, e.id); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.MarkArchived("bob", old.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("other user MarkArchived err = %v, want ErrSessionNotFound", err)
	}

	now = now.Add(EndedRetention / 2)
	r.Put("alice", ed.Start(weights.Pounds))
	if _, err := r.Get("alice", old.ID); err != nil {
		t.Errorf("recently archived session dropped: %v", err)
	}

	now = now.Add(EndedRetention)
	r.Put("alice", ed.Start(weights.Pounds))
	if _, err := r.Get("alice", old.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("old archived session err = %v, want ErrSessionNotFound", err)
	}
	if _, err := r.Get("alice", unsaved.ID); err != nil {
		t.Errorf("unarchived session dropped: %v", err)
	}
	if _, err := r.Get("bob", other.ID); err != nil {
		t.Errorf("other user's session dropped: %v", err)
	}
	if got := len(r.List("alice")); got != 3 {
		t.Errorf("alice sessions = %d, want 3", got)
	}
}
