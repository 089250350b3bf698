package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/ironcoach/internal/models"
	"github.com/meltforce/ironcoach/internal/session"
)

// Compile-time checks: DB is the session manager's persistence
// collaborator and its prescription source.
var (
	_ session.Store         = (*DB)(nil)
	_ session.WorkoutSource = (*DB)(nil)
)

// CreateSession inserts a new open workout session.
func (db *DB) CreateSession(ctx context.Context, s models.WorkoutSession) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_sessions (id, workout_id, athlete_id, start_time)
		 VALUES ($1, $2, $3, $4)`,
		s.ID, s.WorkoutID, s.AthleteID, s.StartTime)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// CompleteSession stamps end time and duration on an open session.
func (db *DB) CompleteSession(ctx context.Context, id uuid.UUID, end time.Time, durationSec int) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_sessions SET end_time = $2, duration_sec = $3
		 WHERE id = $1 AND end_time IS NULL`,
		id, end, durationSec)
	if err != nil {
		return fmt.Errorf("completing session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("completing session %s: no open session", id)
	}
	return nil
}

// DeleteSession removes the session row. Its completed sets are deleted
// separately, first — the two statements are deliberately not wrapped in
// a transaction (see the recovery handling of empty open sessions).
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteSessionSets removes every completed set of a session.
func (db *DB) DeleteSessionSets(ctx context.Context, id uuid.UUID) error {
	if _, err := db.Pool.Exec(ctx,
		`DELETE FROM completed_sets WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("deleting session sets: %w", err)
	}
	return nil
}

// FindOpenSession returns the newest open session for the pair, or nil.
// More than one open session should never happen, but the recovery flow
// is the enforcement point, so the query tolerates it by taking the
// newest.
func (db *DB) FindOpenSession(ctx context.Context, workoutID, athleteID uuid.UUID) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := db.Pool.QueryRow(ctx,
		`SELECT id, workout_id, athlete_id, start_time
		 FROM workout_sessions
		 WHERE workout_id = $1 AND athlete_id = $2 AND end_time IS NULL
		 ORDER BY start_time DESC
		 LIMIT 1`,
		workoutID, athleteID).Scan(&s.ID, &s.WorkoutID, &s.AthleteID, &s.StartTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding open session: %w", err)
	}
	return &s, nil
}

// ListSessions returns an athlete's finished sessions, newest first.
func (db *DB) ListSessions(ctx context.Context, athleteID uuid.UUID, limit int) ([]models.WorkoutSession, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, workout_id, athlete_id, start_time, end_time, duration_sec
		 FROM workout_sessions
		 WHERE athlete_id = $1 AND end_time IS NOT NULL
		 ORDER BY start_time DESC
		 LIMIT $2`,
		athleteID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.WorkoutID, &s.AthleteID, &s.StartTime, &s.EndTime, &s.DurationSec); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
