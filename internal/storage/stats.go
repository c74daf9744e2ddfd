package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's archived workouts.
type DataStats struct {
	TotalWorkouts int64          `json:"total_workouts"`
	TotalSets     int64          `json:"total_sets"`
	TotalReps     int64          `json:"total_reps"`
	EarliestData  *time.Time     `json:"earliest_data"`
	LatestData    *time.Time     `json:"latest_data"`
	Exercises     []ExerciseStat `json:"exercises"`
}

// ExerciseStat summarises one exercise in one unit.
type ExerciseStat struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Sets     int64   `json:"sets"`
	Reps     int64   `json:"reps"`
	MaxTotal float64 `json:"max_total_weight"`
}

// GetDataStats returns aggregate statistics for a user's archived workouts.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(start_time), MAX(start_time) FROM workouts WHERE user_id = $1`, userID,
	).Scan(&stats.TotalWorkouts, &stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(reps), 0) FROM workout_sets WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSets, &stats.TotalReps)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_name, unit, COUNT(*), COALESCE(SUM(reps), 0), COALESCE(MAX(total_weight), 0)
		 FROM workout_sets
		 WHERE user_id = $1
		 GROUP BY exercise_name, unit
		 ORDER BY COUNT(*) DESC, exercise_name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s ExerciseStat
		if err := rows.Scan(&s.Name, &s.Unit, &s.Sets, &s.Reps, &s.MaxTotal); err != nil {
			return nil, fmt.Errorf("scanning exercise stat: %w", err)
		}
		stats.Exercises = append(stats.Exercises, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
