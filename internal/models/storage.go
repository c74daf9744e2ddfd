package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutRow is a row of the workouts table: the summary columns of an
// archived session plus its full JSON snapshot.
type WorkoutRow struct {
	ID            uuid.UUID  `json:"id"`
	UserID        int        `json:"-"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	DurationMin   *int       `json:"duration_minutes,omitempty"`
	Unit          string     `json:"unit"`
	TemplateName  string     `json:"template_name,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ExerciseCount int        `json:"exercise_count"`
	SetCount      int        `json:"set_count"`
	TotalReps     int        `json:"total_reps"`
	Tonnage       float64    `json:"tonnage"`
	RawJSON       []byte     `json:"-"`
}

// WorkoutSetRow is a row of the workout_sets table, one per logged set.
type WorkoutSetRow struct {
	WorkoutID      uuid.UUID `json:"workout_id"`
	UserID         int       `json:"-"`
	SessionDate    time.Time `json:"session_date"`
	ExerciseNumber int       `json:"exercise_number"`
	ExerciseID     uuid.UUID `json:"exercise_id"`
	ExerciseName   string    `json:"exercise_name"`
	Equipment      string    `json:"equipment"`
	Series         string    `json:"series"`
	SetNumber      int       `json:"set_number"`
	WeightPerSide  float64   `json:"weight_per_side"`
	TotalWeight    float64   `json:"total_weight"`
	Unit           string    `json:"unit"`
	Reps           int       `json:"reps"`
}
