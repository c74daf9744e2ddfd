package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveWorkout archives a session. Saving the same session again replaces the
// summary and all of its set rows.
func (db *DB) SaveWorkout(ctx context.Context, userID int, s workout.Session) error {
	row, sets, err := models.NewWorkoutRows(userID, s)
	if err != nil {
		return err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO workouts (id, user_id, start_time, end_time, duration_min, unit, template_name, notes,
		 exercise_count, set_count, total_reps, tonnage, raw_json)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 ON CONFLICT (id) DO UPDATE SET
			end_time = EXCLUDED.end_time, duration_min = EXCLUDED.duration_min,
			unit = EXCLUDED.unit, template_name = EXCLUDED.template_name, notes = EXCLUDED.notes,
			exercise_count = EXCLUDED.exercise_count, set_count = EXCLUDED.set_count,
			total_reps = EXCLUDED.total_reps, tonnage = EXCLUDED.tonnage,
			raw_json = EXCLUDED.raw_json, updated_at = NOW()
		 WHERE workouts.user_id = EXCLUDED.user_id`,
		row.ID, row.UserID, row.StartTime, row.EndTime, row.DurationMin, row.Unit, row.TemplateName, row.Notes,
		row.ExerciseCount, row.SetCount, row.TotalReps, row.Tonnage, row.RawJSON)
	if err != nil {
		return fmt.Errorf("upserting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutOwned
	}

	if _, err := tx.Exec(ctx, `DELETE FROM workout_sets WHERE workout_id = $1 AND user_id = $2`, row.ID, userID); err != nil {
		return fmt.Errorf("clearing workout sets: %w", err)
	}

	if len(sets) > 0 {
		query := `INSERT INTO workout_sets (workout_id, user_id, session_date, exercise_number, exercise_id,
			exercise_name, equipment, series, set_number, weight_per_side, total_weight, unit, reps) VALUES `
		args := make([]any, 0, len(sets)*13)
		valueStrings := make([]string, 0, len(sets))

		for i, r := range sets {
			base := i * 13
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7,
				base+8, base+9, base+10, base+11, base+12, base+13,
			))
			args = append(args, r.WorkoutID, r.UserID, r.SessionDate, r.ExerciseNumber, r.ExerciseID,
				r.ExerciseName, r.Equipment, r.Series, r.SetNumber, r.WeightPerSide, r.TotalWeight, r.Unit, r.Reps)
		}

		query += strings.Join(valueStrings, ",")
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting workout sets: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing workout: %w", err)
	}
	return nil
}

// QueryWorkouts retrieves workout summaries in a time range, newest first.
func (db *DB) QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, start_time, end_time, duration_min, unit, template_name, notes,
		 exercise_count, set_count, total_reps, tonnage
		 FROM workouts
		 WHERE start_time >= $1 AND start_time < $2 AND user_id = $3
		 ORDER BY start_time DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRow
	for rows.Next() {
		var w models.WorkoutRow
		if err := rows.Scan(&w.ID, &w.UserID, &w.StartTime, &w.EndTime, &w.DurationMin, &w.Unit,
			&w.TemplateName, &w.Notes, &w.ExerciseCount, &w.SetCount, &w.TotalReps, &w.Tonnage); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkout retrieves an archived session with its totals rebuilt.
func (db *DB) GetWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (workout.Session, error) {
	var raw []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT raw_json FROM workouts WHERE id = $1 AND user_id = $2`,
		workoutID, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return workout.Session{}, ErrWorkoutNotFound
	}
	if err != nil {
		return workout.Session{}, fmt.Errorf("querying workout: %w", err)
	}
	return models.DecodeSession(raw)
}

// QueryExerciseSets retrieves logged sets in a date range. A non-empty
// exercise filters by case-insensitive substring of the exercise name.
func (db *DB) QueryExerciseSets(ctx context.Context, start, end time.Time, userID int, exercise string) ([]models.WorkoutSetRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT workout_id, user_id, session_date, exercise_number, exercise_id, exercise_name,
		 equipment, series, set_number, weight_per_side, total_weight, unit, reps
		 FROM workout_sets
		 WHERE session_date >= $1 AND session_date < $2 AND user_id = $3
		   AND ($4 = '' OR exercise_name ILIKE '%' || $4 || '%')
		 ORDER BY session_date DESC, exercise_number ASC, set_number ASC`,
		start, end, userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSetRow
	for rows.Next() {
		var r models.WorkoutSetRow
		if err := rows.Scan(&r.WorkoutID, &r.UserID, &r.SessionDate, &r.ExerciseNumber, &r.ExerciseID,
			&r.ExerciseName, &r.Equipment, &r.Series, &r.SetNumber, &r.WeightPerSide, &r.TotalWeight,
			&r.Unit, &r.Reps); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
