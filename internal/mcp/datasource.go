package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/models"
	"github.com/meltforce/ironcoach/internal/storage"
)

// DataSource abstracts the data layer for MCP tools, so the server can run
// against the local database or a remote instance.
type DataSource interface {
	ListMeasurements(ctx context.Context, subjectID uuid.UUID, from, to time.Time) ([]models.Measurement, error)
	ListSessions(ctx context.Context, athleteID uuid.UUID, limit int) ([]models.WorkoutSession, error)
	ListCompletedSets(ctx context.Context, sessionID uuid.UUID) ([]models.CompletedSet, error)
	Workout(ctx context.Context, id uuid.UUID) (*models.Workout, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
