package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/workout"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrWorkoutNotFound is returned when no archived workout matches the ID and user.
var ErrWorkoutNotFound = errors.New("workout not found")

// ErrWorkoutOwned is returned when saving a workout whose ID is archived for another user.
var ErrWorkoutOwned = errors.New("workout belongs to another user")

// Archive stores ended workouts. DB (Postgres) and LocalDB (SQLite)
// implement it.
type Archive interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	SaveWorkout(ctx context.Context, userID int, s workout.Session) error
	QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRow, error)
	GetWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (workout.Session, error)
	QueryExerciseSets(ctx context.Context, start, end time.Time, userID int, exercise string) ([]models.WorkoutSetRow, error)
	GetDataStats(ctx context.Context, userID int) (*DataStats, error)
}

var (
	_ Archive = (*DB)(nil)
	_ Archive = (*LocalDB)(nil)
)

// DB wraps a pgxpool.Pool and provides repository methods.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new DB with a connection pool.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
