package alpha

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/weights"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Reverse Lunges · Dumbbells · 10 reps"
#;KG;REPS;RIR
1;10;10;1
2;10;10;1
3;10;10;0
"5. Standing Calf Raises · Machine · 12 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;157,5;11;1
2;157,5;11;0
3;157,5;10;0
"6. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;1
3;+0;12;0

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps<br>WU3 · 77,5 kg · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

// TestParseSessions verifies a multi-session export is split into sessions,
// exercises and sets, warmups included.
func TestParseSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	s1 := sessions[0]
	if s1.Name != "Legs · Day 2 · Week 4 · Push-Pull-Legs" {
		t.Errorf("s1.Name = %q", s1.Name)
	}
	if want := time.Date(2026, 2, 19, 4, 54, 0, 0, time.UTC); !s1.Start.Equal(want) {
		t.Errorf("s1.Start = %v, want %v", s1.Start, want)
	}
	if s1.Duration != 62*time.Minute {
		t.Errorf("s1.Duration = %v, want 1h2m", s1.Duration)
	}
	if len(s1.Exercises) != 6 {
		t.Fatalf("s1 exercises = %d, want 6", len(s1.Exercises))
	}

	tests := []struct {
		name      string
		equipment string
		target    int
		sets      int
	}{
		{"Hack Squats", "Machine", 8, 5},
		{"Sumo Squats", "Smith machine", 10, 3},
		{"Hyperextensions on Roman Chair", "Bodyweight", 10, 4},
		{"Reverse Lunges", "Dumbbells", 10, 3},
		{"Standing Calf Raises", "Machine", 12, 4},
		{"Hanging Leg Raises", "Bodyweight", 12, 3},
	}
	for i, tt := range tests {
		ex := s1.Exercises[i]
		if ex.Name != tt.name || ex.Equipment != tt.equipment || ex.TargetReps != tt.target || len(ex.Sets) != tt.sets {
			t.Errorf("exercise %d = %q/%q target %d sets %d, want %q/%q target %d sets %d",
				i+1, ex.Name, ex.Equipment, ex.TargetReps, len(ex.Sets), tt.name, tt.equipment, tt.target, tt.sets)
		}
	}

	hack := s1.Exercises[0].Sets
	if !hack[0].Warmup || hack[0].Load != 37.5 || hack[0].Reps != 9 {
		t.Errorf("first warmup = %+v", hack[0])
	}
	if hack[2].Warmup || hack[2].Load != 115 || hack[2].RIR != 1 {
		t.Errorf("first working set = %+v", hack[2])
	}
	if bw := s1.Exercises[2].Sets[1]; !bw.Bodyweight || bw.Load != 35 {
		t.Errorf("bodyweight-plus set = %+v", bw)
	}
	if sessions[1].Duration != 72*time.Minute {
		t.Errorf("s2.Duration = %v, want 1h12m", sessions[1].Duration)
	}
}

// TestParseLoad verifies decimal commas and the bodyweight-plus prefix.
func TestParseLoad(t *testing.T) {
	tests := []struct {
		in   string
		load float64
		bw   bool
	}{
		{"102,5", 102.5, false},
		{"115", 115, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{"0,5", 0.5, false},
	}
	for _, tt := range tests {
		load, bw := parseLoad(tt.in)
		if load != tt.load || bw != tt.bw {
			t.Errorf("parseLoad(%q) = %v, %v, want %v, %v", tt.in, load, bw, tt.load, tt.bw)
		}
	}
}

// TestParseDuration verifies both duration spellings.
func TestParseDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"1:02 hr": 62 * time.Minute,
		"0:45 hr": 45 * time.Minute,
		"48 min":  48 * time.Minute,
		"unknown": 0,
	}
	for in, want := range tests {
		if got := parseDuration(in); got != want {
			t.Errorf("parseDuration(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestParseErrors verifies sets and exercises outside a session are rejected.
func TestParseErrors(t *testing.T) {
	if _, err := Parse(strings.NewReader("1;100;5;1\n")); err == nil {
		t.Error("expected error for set without exercise")
	}
	if _, err := Parse(strings.NewReader(`"1. Bench Press · Barbell · 6 reps"` + "\n")); err == nil {
		t.Error("expected error for exercise without session")
	}
	sessions, err := Parse(strings.NewReader(""))
	if err != nil || len(sessions) != 0 {
		t.Errorf("empty input = %d sessions, %v", len(sessions), err)
	}
}

// TestEquipment verifies app labels map onto equipment categories.
func TestEquipment(t *testing.T) {
	tests := map[string]weights.Equipment{
		"Barbell":       weights.Barbell,
		"Dumbbells":     weights.Dumbbell,
		"Smith machine": weights.Machine,
		"Machine":       weights.Machine,
		"Cable":         weights.Cable,
		"Bodyweight":    weights.Bodyweight,
		"Trap bar":      weights.TrapBar,
		"Bands":         weights.Other,
	}
	for label, want := range tests {
		if got := Equipment(label); got != want {
			t.Errorf("Equipment(%q) = %s, want %s", label, got, want)
		}
	}
}

// TestToSession verifies loads land on the right side of the weight formula.
func TestToSession(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	push, skipped, err := ToSession(1, sessions[1])
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	if push.Unit != weights.Kilograms || push.TemplateName != sessions[1].Name {
		t.Errorf("session = %s %q", push.Unit, push.TemplateName)
	}
	if push.Duration == nil || *push.Duration != 72 {
		t.Errorf("duration = %v, want 72", push.Duration)
	}
	bench := push.Exercises[0]
	if bench.Equipment != weights.Barbell || len(bench.Sets) != 3 {
		t.Fatalf("bench = %s with %d sets", bench.Equipment, len(bench.Sets))
	}
	for i, want := range []struct{ perSide, total float64 }{{41.25, 102.5}, {41.25, 102.5}, {40, 100}} {
		set := bench.Sets[i]
		if set.Number != i+1 || set.WeightPerSide != want.perSide || set.TotalWeight() != want.total {
			t.Errorf("set %d = #%d %v/%v, want %v/%v", i, set.Number, set.WeightPerSide, set.TotalWeight(), want.perSide, want.total)
		}
	}

	legs, _, err := ToSession(1, sessions[0])
	if err != nil {
		t.Fatal(err)
	}
	if lunge := legs.Exercises[3].Sets[0]; lunge.WeightPerSide != 10 || lunge.TotalWeight() != 20 {
		t.Errorf("dumbbell set = %v/%v, want 10/20", lunge.WeightPerSide, lunge.TotalWeight())
	}
	if again, _, _ := ToSession(1, sessions[0]); again.ID != legs.ID {
		t.Error("session ID is not stable across imports")
	}
	if SessionID(2, sessions[0]) == legs.ID {
		t.Error("two users share an imported session ID")
	}
}

// TestIngest verifies sessions are archived and a second import replaces them.
func TestIngest(t *testing.T) {
	db, err := storage.OpenLocalDB(filepath.Join(t.TempDir(), "liftlog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	user, err := db.GetOrCreateUser(ctx, "local", "")
	if err != nil {
		t.Fatal(err)
	}

	p := NewProvider(db, slog.New(slog.DiscardHandler))
	for range 2 {
		result, err := p.Ingest(ctx, strings.NewReader(sampleCSV), user)
		if err != nil {
			t.Fatalf("Ingest: %v", err)
		}
		if result.SessionsImported != 2 || result.SetsImported != 20 || result.WarmupsSkipped != 8 {
			t.Errorf("result = %+v", result)
		}
	}

	rows, err := db.QueryWorkouts(ctx, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), user)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("archived workouts = %d, want 2", len(rows))
	}
}

// TestIngestTwoUsers verifies the same export imported by two users keeps
// both archives intact.
func TestIngestTwoUsers(t *testing.T) {
	db, err := storage.OpenLocalDB(filepath.Join(t.TempDir(), "liftlog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	alice, _ := db.GetOrCreateUser(ctx, "alice", "")
	bob, _ := db.GetOrCreateUser(ctx, "bob", "")

	p := NewProvider(db, slog.New(slog.DiscardHandler))
	for _, user := range []int{alice, bob} {
		if _, err := p.Ingest(ctx, strings.NewReader(sampleCSV), user); err != nil {
			t.Fatalf("Ingest for user %d: %v", user, err)
		}
	}

	from, to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, user := range []int{alice, bob} {
		rows, err := db.QueryWorkouts(ctx, from, to, user)
		if err != nil {
			t.Fatal(err)
		}
		sets, err := db.QueryExerciseSets(ctx, from, to, user, "")
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 || len(sets) != 20 {
			t.Errorf("user %d: workouts = %d, sets = %d, want 2 and 20", user, len(rows), len(sets))
		}
	}
}
