package models

import (
	"encoding/json"
	"fmt"

	"github.com/claude/liftlog/internal/workout"
)

// NewWorkoutRows flattens a session into its archive rows.
func NewWorkoutRows(userID int, s workout.Session) (WorkoutRow, []WorkoutSetRow, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return WorkoutRow{}, nil, fmt.Errorf("encoding session: %w", err)
	}
	sum := workout.Summarize(s)
	row := WorkoutRow{
		ID:            s.ID,
		UserID:        userID,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		DurationMin:   s.Duration,
		Unit:          string(s.Unit),
		TemplateName:  s.TemplateName,
		Notes:         s.Notes,
		ExerciseCount: sum.Exercises,
		SetCount:      sum.Sets,
		TotalReps:     sum.Reps,
		Tonnage:       sum.Tonnage,
		RawJSON:       raw,
	}

	sets := make([]WorkoutSetRow, 0, sum.Sets)
	for i, ex := range s.Exercises {
		for _, set := range ex.Sets {
			sets = append(sets, WorkoutSetRow{
				WorkoutID:      s.ID,
				UserID:         userID,
				SessionDate:    s.StartTime,
				ExerciseNumber: i + 1,
				ExerciseID:     ex.ID,
				ExerciseName:   ex.Name,
				Equipment:      string(set.Equipment),
				Series:         string(ex.Series),
				SetNumber:      set.Number,
				WeightPerSide:  set.WeightPerSide,
				TotalWeight:    set.TotalWeight(),
				Unit:           string(set.Unit),
				Reps:           set.Reps,
			})
		}
	}
	return row, sets, nil
}

// DecodeSession restores a session from its archived JSON. Totals are
// recomputed, never read back.
func DecodeSession(raw []byte) (workout.Session, error) {
	var s workout.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return workout.Session{}, fmt.Errorf("decoding session: %w", err)
	}
	return workout.Rebuild(s), nil
}
