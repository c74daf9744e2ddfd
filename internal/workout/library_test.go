package workout

import (
	"math"
	"testing"

	"github.com/claude/liftlog/internal/weights"
)

// TestLibrary verifies template IDs are unique and every template uses a
// known equipment category.
func TestLibrary(t *testing.T) {
	seen := map[string]bool{}
	for _, tmpl := range Templates() {
		if seen[tmpl.ID] {
			t.Errorf("duplicate template ID %q", tmpl.ID)
		}
		seen[tmpl.ID] = true
		if !tmpl.DefaultEquipment.Valid() {
			t.Errorf("%s: equipment %q is not valid", tmpl.ID, tmpl.DefaultEquipment)
		}
		if tmpl.Name == "" {
			t.Errorf("%s: empty name", tmpl.ID)
		}
	}
}

// TestTemplateDef verifies a template becomes an exercise on its default equipment.
func TestTemplateDef(t *testing.T) {
	tmpl, ok := LookupTemplate("deadlift-trap-bar")
	if !ok {
		t.Fatal("deadlift-trap-bar not found")
	}
	ed := NewEditor()
	s, id := ed.AddExercise(ed.Start(weights.Pounds), tmpl.Def(SeriesC))
	ex, _ := s.Exercise(id)
	if ex.Equipment != weights.TrapBar || ex.Series != SeriesC || ex.Name != "Deadlift (Trap Bar)" {
		t.Errorf("exercise = %s %s %q", ex.Equipment, ex.Series, ex.Name)
	}

	if _, ok := LookupTemplate("nope"); ok {
		t.Error("unknown template found")
	}
}

// TestTemplatesCopy verifies callers cannot modify the library.
func TestTemplatesCopy(t *testing.T) {
	list := Templates()
	list[0].Name = "changed"
	if Templates()[0].Name == "changed" {
		t.Error("Templates returned the library itself")
	}
}

// TestCatalog verifies the catalog carries plates, units and the library.
func TestCatalog(t *testing.T) {
	c := NewCatalog()
	if len(c.Plates) != 9 || c.Plates[0].Weight != 55 || c.Plates[0].Colour != "red" {
		t.Errorf("plates = %+v", c.Plates)
	}
	if kg := c.Units[weights.Kilograms]; kg.DefaultBarWeight != 20 || kg.Increment != 0.25 {
		t.Errorf("kg = %+v", kg)
	}
	if lbs := c.Units[weights.Pounds]; len(lbs.BarWeightOptions) != 5 {
		t.Errorf("lbs bar options = %v", lbs.BarWeightOptions)
	}
	if len(c.Series) != 5 || len(c.Exercises) != len(Templates()) {
		t.Errorf("series %d exercises %d", len(c.Series), len(c.Exercises))
	}
}

// TestSummarizeMixedUnits verifies tonnage is expressed in the session unit.
func TestSummarizeMixedUnits(t *testing.T) {
	ed := NewEditor()
	s := ed.Start(weights.Pounds)
	kg := weights.Kilograms
	s, id := ed.AddExercise(s, ExerciseDef{Name: "Bench", Equipment: weights.Kettlebell, Unit: &kg})
	ex, _ := s.Exercise(id)
	s, err := ed.UpdateSet(s, id, ex.Sets[0].ID, SetPatch{WeightPerSide: ptr(10.0), Reps: ptr(10)})
	if err != nil {
		t.Fatal(err)
	}

	sum := Summarize(s)
	if sum.Sets != 1 || sum.Reps != 10 || sum.Unit != weights.Pounds {
		t.Errorf("summary = %+v", sum)
	}
	if want := 100 * weights.KilogramsToPounds; math.Abs(sum.Tonnage-want) > 1e-9 {
		t.Errorf("tonnage = %v, want %v", sum.Tonnage, want)
	}
}
