package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/models"
)

// Store is the persistence collaborator the manager writes through. Every
// durable mutation is one call; the manager only applies the matching
// in-memory change after the call succeeds, so memory and storage never
// disagree silently.
type Store interface {
	CreateSession(ctx context.Context, s models.WorkoutSession) error
	CompleteSession(ctx context.Context, id uuid.UUID, end time.Time, durationSec int) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteSessionSets(ctx context.Context, id uuid.UUID) error

	// UpsertCompletedSet keys on (session, instance, set order): completing
	// an already-completed set overwrites in place.
	UpsertCompletedSet(ctx context.Context, set models.CompletedSet) error
	DeleteCompletedSet(ctx context.Context, sessionID, instanceID uuid.UUID, setOrder int) error
	ListCompletedSets(ctx context.Context, sessionID uuid.UUID) ([]models.CompletedSet, error)

	// FindOpenSession returns the newest session with a nil end time for
	// the pair, or nil when none exists.
	FindOpenSession(ctx context.Context, workoutID, athleteID uuid.UUID) (*models.WorkoutSession, error)

	UpsertFeedback(ctx context.Context, fb models.ExerciseFeedback) error
}

// WorkoutSource supplies the static prescription. The manager never
// writes through it.
type WorkoutSource interface {
	Workout(ctx context.Context, id uuid.UUID) (*models.Workout, error)
}
