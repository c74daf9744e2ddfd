package models

import (
	"testing"
	"time"

	"github.com/claude/liftlog/internal/weights"
	"github.com/claude/liftlog/internal/workout"
)

// TestNewWorkoutRows verifies a session flattens into one summary row and one
// set row per logged set, numbered by exercise position.
func TestNewWorkoutRows(t *testing.T) {
	now := time.Date(2026, 4, 1, 7, 0, 0, 0, time.UTC)
	ed := workout.NewEditor(workout.WithClock(func() time.Time { return now }))
	s := ed.Start(weights.Pounds)
	s, squat := ed.AddExercise(s, workout.ExerciseDef{Name: "Back Squat", Equipment: weights.Barbell})
	s, _, _ = ed.AddSet(s, squat, workout.SetDraft{WeightPerSide: 135, Reps: 5})
	s, _ = ed.AddExercise(s, workout.ExerciseDef{Name: "Swing", Equipment: weights.Kettlebell, Series: workout.SeriesB})
	now = now.Add(45 * time.Minute)
	s = ed.End(s)

	row, sets, err := NewWorkoutRows(7, s)
	if err != nil {
		t.Fatal(err)
	}
	if row.ID != s.ID || row.UserID != 7 {
		t.Errorf("row ids = %v/%d", row.ID, row.UserID)
	}
	if row.ExerciseCount != 2 || row.SetCount != 3 || row.TotalReps != 5 {
		t.Errorf("counts = %d/%d/%d, want 2/3/5", row.ExerciseCount, row.SetCount, row.TotalReps)
	}
	if row.Tonnage != 1575 {
		t.Errorf("tonnage = %v, want 1575", row.Tonnage)
	}
	if row.DurationMin == nil || *row.DurationMin != 45 {
		t.Errorf("duration = %v, want 45", row.DurationMin)
	}
	if len(sets) != 3 {
		t.Fatalf("set rows = %d, want 3", len(sets))
	}
	if sets[1].TotalWeight != 315 || sets[1].SetNumber != 2 || sets[1].ExerciseNumber != 1 {
		t.Errorf("squat set row = %+v", sets[1])
	}
	if sets[2].ExerciseNumber != 2 || sets[2].Series != "B" || sets[2].Equipment != "kettlebell" {
		t.Errorf("swing set row = %+v", sets[2])
	}
}

// TestDecodeSessionRebuildsTotals verifies totals come back derived from the
// archived per-side weights, ignoring the encoded totals.
func TestDecodeSessionRebuildsTotals(t *testing.T) {
	raw := []byte(`{
		"id": "6f1c3c1e-8a7b-4a43-9d55-3b3a2e1d0c01",
		"start_time": "2026-04-01T07:00:00Z",
		"unit": "kg",
		"exercises": [{
			"id": "0b8e8f4e-5c1a-4f63-a7a0-4b1c1b7d9e02",
			"name": "Deadlift",
			"equipment": "barbell",
			"series": "A",
			"sets": [
				{"id": "a1c8e6a4-2e3b-4d0e-8f5c-7a6b5c4d3e03", "set_number": 4, "weight_per_side": 60, "equipment": "barbell", "unit": "kg", "reps": 3, "total_weight": 9999}
			]
		}]
	}`)
	s, err := DecodeSession(raw)
	if err != nil {
		t.Fatal(err)
	}
	set := s.Exercises[0].Sets[0]
	if set.TotalWeight() != 140 {
		t.Errorf("total = %v, want 140", set.TotalWeight())
	}
	if set.Number != 1 {
		t.Errorf("set number = %d, want 1", set.Number)
	}
}

// TestDecodeSessionInvalid verifies malformed JSON is reported.
func TestDecodeSessionInvalid(t *testing.T) {
	if _, err := DecodeSession([]byte("{")); err == nil {
		t.Fatal("expected error")
	}
}
