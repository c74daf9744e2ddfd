package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
)

// DataSource abstracts the workout archive for MCP tools. Both storage
// archives (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRow, error)
	GetWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (workout.Session, error)
	QueryExerciseSets(ctx context.Context, start, end time.Time, userID int, exercise string) ([]models.WorkoutSetRow, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// Compile-time checks: both archives satisfy DataSource.
var (
	_ DataSource = (*storage.DB)(nil)
	_ DataSource = (*storage.LocalDB)(nil)
)
