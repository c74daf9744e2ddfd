package workout

import "github.com/claude/liftlog/internal/weights"

// Template is an exercise from the library that can be added to a session.
type Template struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Category         string            `json:"category"`
	MuscleGroups     []string          `json:"muscle_groups"`
	DefaultEquipment weights.Equipment `json:"default_equipment"`
	Instructions     string            `json:"instructions,omitempty"`
}

var (
	legs      = []string{"Quadriceps", "Glutes", "Hamstrings"}
	pressing  = []string{"Chest", "Triceps", "Shoulders"}
	posterior = []string{"Hamstrings", "Glutes", "Lower Back"}
	pulling   = []string{"Lats", "Upper Back", "Biceps"}
	overhead  = []string{"Shoulders", "Triceps"}
)

const (
	squatCue = "Descend until thighs are parallel to floor, drive up through heels"
	benchCue = "Lower bar to chest, pause briefly, press up until arms are fully extended"
)

var library = []Template{
	{ID: "back-squat", Name: "Back Squat", Category: "Compound", MuscleGroups: legs, DefaultEquipment: weights.Barbell,
		Instructions: "Place barbell on upper back. " + squatCue},
	{ID: "front-squat", Name: "Front Squat", Category: "Compound", MuscleGroups: legs, DefaultEquipment: weights.Barbell,
		Instructions: "Rack the bar on the front delts. " + squatCue},
	{ID: "goblet-squat-dumbbell", Name: "Goblet Squat (Dumbbell)", Category: "Compound", MuscleGroups: legs, DefaultEquipment: weights.Dumbbell,
		Instructions: "Hold the dumbbell at the chest. " + squatCue},
	{ID: "goblet-squat-kettlebell", Name: "Goblet Squat (Kettlebell)", Category: "Compound", MuscleGroups: legs, DefaultEquipment: weights.Kettlebell,
		Instructions: "Hold the kettlebell by the horns at the chest. " + squatCue},
	{ID: "bench-press", Name: "Bench Press (Barbell)", Category: "Compound", MuscleGroups: pressing, DefaultEquipment: weights.Barbell,
		Instructions: benchCue},
	{ID: "bench-press-incline", Name: "Bench Press (Barbell, Incline)", Category: "Compound", MuscleGroups: pressing, DefaultEquipment: weights.Barbell,
		Instructions: benchCue},
	{ID: "bench-press-decline", Name: "Bench Press (Barbell, Decline)", Category: "Compound", MuscleGroups: pressing, DefaultEquipment: weights.Barbell,
		Instructions: benchCue},
	{ID: "bench-press-dumbbell", Name: "Bench Press (Dumbbell)", Category: "Compound", MuscleGroups: pressing, DefaultEquipment: weights.Dumbbell,
		Instructions: "Lower dumbbells to chest level, press up until arms are fully extended"},
	{ID: "deadlift", Name: "Deadlift (Barbell)", Category: "Compound", MuscleGroups: posterior, DefaultEquipment: weights.Barbell,
		Instructions: "Hinge at the hips, grip the bar, drive through the floor until standing tall"},
	{ID: "deadlift-trap-bar", Name: "Deadlift (Trap Bar)", Category: "Compound", MuscleGroups: posterior, DefaultEquipment: weights.TrapBar,
		Instructions: "Stand inside the bar, grip the handles, drive through the floor until standing tall"},
	{ID: "romanian-deadlift", Name: "Romanian Deadlift", Category: "Compound", MuscleGroups: posterior, DefaultEquipment: weights.Barbell},
	{ID: "overhead-press", Name: "Overhead Press (Barbell)", Category: "Compound", MuscleGroups: overhead, DefaultEquipment: weights.Barbell,
		Instructions: "Press the bar from the front rack to lockout overhead"},
	{ID: "landmine-press", Name: "Landmine Press", Category: "Compound", MuscleGroups: overhead, DefaultEquipment: weights.Landmine},
	{ID: "barbell-row", Name: "Bent Over Row (Barbell)", Category: "Compound", MuscleGroups: pulling, DefaultEquipment: weights.Barbell},
	{ID: "dumbbell-row", Name: "Row (Dumbbell)", Category: "Compound", MuscleGroups: pulling, DefaultEquipment: weights.Dumbbell},
	{ID: "lat-pulldown", Name: "Lat Pulldown (Cable)", Category: "Compound", MuscleGroups: pulling, DefaultEquipment: weights.Cable},
	{ID: "pull-up", Name: "Pull Up", Category: "Compound", MuscleGroups: pulling, DefaultEquipment: weights.Bodyweight},
	{ID: "leg-press", Name: "Leg Press (Machine)", Category: "Compound", MuscleGroups: legs, DefaultEquipment: weights.Machine},
	{ID: "kettlebell-swing", Name: "Kettlebell Swing", Category: "Compound", MuscleGroups: posterior, DefaultEquipment: weights.Kettlebell},
	{ID: "tricep-pushdown", Name: "Tricep Pushdown (Cable)", Category: "Isolation", MuscleGroups: []string{"Triceps"}, DefaultEquipment: weights.Cable},
}

// Templates returns the exercise library.
func Templates() []Template {
	return append([]Template(nil), library...)
}

// LookupTemplate finds a library exercise by ID.
func LookupTemplate(id string) (Template, bool) {
	for _, t := range library {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Def turns a template into an ExerciseDef in the given series.
func (t Template) Def(series Series) ExerciseDef {
	return ExerciseDef{
		Name:         t.Name,
		Category:     t.Category,
		MuscleGroups: t.MuscleGroups,
		Equipment:    t.DefaultEquipment,
		Series:       series,
		Instructions: t.Instructions,
	}
}
