package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// LocalDB is a single-file SQLite archive with the same methods as DB.
// Timestamps are stored as Unix milliseconds.
type LocalDB struct {
	db *sql.DB
}

const localSchema = `
CREATE TABLE IF NOT EXISTS users (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	login        TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	last_seen    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS workouts (
	id             TEXT PRIMARY KEY,
	user_id        INTEGER NOT NULL,
	start_time     INTEGER NOT NULL,
	end_time       INTEGER,
	duration_min   INTEGER,
	unit           TEXT NOT NULL,
	template_name  TEXT NOT NULL DEFAULT '',
	notes          TEXT NOT NULL DEFAULT '',
	exercise_count INTEGER NOT NULL DEFAULT 0,
	set_count      INTEGER NOT NULL DEFAULT 0,
	total_reps     INTEGER NOT NULL DEFAULT 0,
	tonnage        REAL NOT NULL DEFAULT 0,
	raw_json       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_workouts_user_start ON workouts (user_id, start_time);
CREATE TABLE IF NOT EXISTS workout_sets (
	workout_id      TEXT NOT NULL,
	user_id         INTEGER NOT NULL,
	session_date    INTEGER NOT NULL,
	exercise_number INTEGER NOT NULL,
	exercise_id     TEXT NOT NULL,
	exercise_name   TEXT NOT NULL,
	equipment       TEXT NOT NULL,
	series          TEXT NOT NULL,
	set_number      INTEGER NOT NULL,
	weight_per_side REAL NOT NULL,
	total_weight    REAL NOT NULL,
	unit            TEXT NOT NULL,
	reps            INTEGER NOT NULL,
	PRIMARY KEY (workout_id, exercise_number, set_number)
);
CREATE INDEX IF NOT EXISTS idx_workout_sets_user_date ON workout_sets (user_id, session_date);
`

// OpenLocalDB opens (or creates) the SQLite archive at path.
func OpenLocalDB(path string) (*LocalDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening local db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(localSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating local schema: %w", err)
	}

	return &LocalDB{db: db}, nil
}

// Close closes the database.
func (l *LocalDB) Close() error {
	return l.db.Close()
}

func (l *LocalDB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := l.db.QueryRowContext(ctx, `
		INSERT INTO users (login, display_name)
		VALUES (?, ?)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = CURRENT_TIMESTAMP,
			    display_name = COALESCE(NULLIF(excluded.display_name, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting user: %w", err)
	}
	return id, nil
}

func (l *LocalDB) SaveWorkout(ctx context.Context, userID int, s workout.Session) error {
	row, sets, err := models.NewWorkoutRows(userID, s)
	if err != nil {
		return err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO workouts (id, user_id, start_time, end_time, duration_min, unit, template_name,
		 notes, exercise_count, set_count, total_reps, tonnage, raw_json)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
			start_time = excluded.start_time, end_time = excluded.end_time, duration_min = excluded.duration_min,
			unit = excluded.unit, template_name = excluded.template_name, notes = excluded.notes,
			exercise_count = excluded.exercise_count, set_count = excluded.set_count,
			total_reps = excluded.total_reps, tonnage = excluded.tonnage, raw_json = excluded.raw_json
		 WHERE workouts.user_id = excluded.user_id`,
		row.ID.String(), row.UserID, row.StartTime.UnixMilli(), unixMilli(row.EndTime), row.DurationMin,
		row.Unit, row.TemplateName, row.Notes, row.ExerciseCount, row.SetCount, row.TotalReps, row.Tonnage,
		string(row.RawJSON))
	if err != nil {
		return fmt.Errorf("upserting workout: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("upserting workout: %w", err)
	} else if n == 0 {
		return ErrWorkoutOwned
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM workout_sets WHERE workout_id = ? AND user_id = ?`,
		row.ID.String(), userID); err != nil {
		return fmt.Errorf("clearing workout sets: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO workout_sets (workout_id, user_id, session_date, exercise_number, exercise_id,
		 exercise_name, equipment, series, set_number, weight_per_side, total_weight, unit, reps)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("preparing set insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range sets {
		if _, err := stmt.ExecContext(ctx, r.WorkoutID.String(), r.UserID, r.SessionDate.UnixMilli(),
			r.ExerciseNumber, r.ExerciseID.String(), r.ExerciseName, r.Equipment, r.Series, r.SetNumber,
			r.WeightPerSide, r.TotalWeight, r.Unit, r.Reps); err != nil {
			return fmt.Errorf("inserting workout set: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing workout: %w", err)
	}
	return nil
}

func (l *LocalDB) QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRow, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, user_id, start_time, end_time, duration_min, unit, template_name, notes,
		 exercise_count, set_count, total_reps, tonnage
		 FROM workouts
		 WHERE start_time >= ? AND start_time < ? AND user_id = ?
		 ORDER BY start_time DESC`,
		start.UnixMilli(), end.UnixMilli(), userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRow
	for rows.Next() {
		var (
			w        models.WorkoutRow
			id       string
			startMs  int64
			endMs    sql.NullInt64
			duration sql.NullInt64
		)
		if err := rows.Scan(&id, &w.UserID, &startMs, &endMs, &duration, &w.Unit, &w.TemplateName, &w.Notes,
			&w.ExerciseCount, &w.SetCount, &w.TotalReps, &w.Tonnage); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		if w.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing workout id: %w", err)
		}
		w.StartTime = time.UnixMilli(startMs).UTC()
		if endMs.Valid {
			t := time.UnixMilli(endMs.Int64).UTC()
			w.EndTime = &t
		}
		if duration.Valid {
			d := int(duration.Int64)
			w.DurationMin = &d
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func (l *LocalDB) GetWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (workout.Session, error) {
	var raw string
	err := l.db.QueryRowContext(ctx,
		`SELECT raw_json FROM workouts WHERE id = ? AND user_id = ?`,
		workoutID.String(), userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return workout.Session{}, ErrWorkoutNotFound
	}
	if err != nil {
		return workout.Session{}, fmt.Errorf("querying workout: %w", err)
	}
	return models.DecodeSession([]byte(raw))
}

func (l *LocalDB) QueryExerciseSets(ctx context.Context, start, end time.Time, userID int, exercise string) ([]models.WorkoutSetRow, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT workout_id, user_id, session_date, exercise_number, exercise_id, exercise_name,
		 equipment, series, set_number, weight_per_side, total_weight, unit, reps
		 FROM workout_sets
		 WHERE session_date >= ? AND session_date < ? AND user_id = ?
		   AND (? = '' OR LOWER(exercise_name) LIKE '%' || LOWER(?) || '%')
		 ORDER BY session_date DESC, exercise_number ASC, set_number ASC`,
		start.UnixMilli(), end.UnixMilli(), userID, exercise, exercise)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSetRow
	for rows.Next() {
		var (
			r                     models.WorkoutSetRow
			workoutID, exerciseID string
			dateMs                int64
		)
		if err := rows.Scan(&workoutID, &r.UserID, &dateMs, &r.ExerciseNumber, &exerciseID, &r.ExerciseName,
			&r.Equipment, &r.Series, &r.SetNumber, &r.WeightPerSide, &r.TotalWeight, &r.Unit, &r.Reps); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		if r.WorkoutID, err = uuid.Parse(workoutID); err != nil {
			return nil, fmt.Errorf("parsing workout id: %w", err)
		}
		if r.ExerciseID, err = uuid.Parse(exerciseID); err != nil {
			return nil, fmt.Errorf("parsing exercise id: %w", err)
		}
		r.SessionDate = time.UnixMilli(dateMs).UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}

func (l *LocalDB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	var earliest, latest sql.NullInt64
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(start_time), MAX(start_time) FROM workouts WHERE user_id = ?`, userID,
	).Scan(&stats.TotalWorkouts, &earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}
	if earliest.Valid {
		t := time.UnixMilli(earliest.Int64).UTC()
		stats.EarliestData = &t
	}
	if latest.Valid {
		t := time.UnixMilli(latest.Int64).UTC()
		stats.LatestData = &t
	}

	err = l.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(reps), 0) FROM workout_sets WHERE user_id = ?`, userID,
	).Scan(&stats.TotalSets, &stats.TotalReps)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT exercise_name, unit, COUNT(*), COALESCE(SUM(reps), 0), COALESCE(MAX(total_weight), 0)
		 FROM workout_sets
		 WHERE user_id = ?
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

func unixMilli(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
