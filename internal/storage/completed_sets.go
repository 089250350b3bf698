package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/models"
)

// UpsertCompletedSet writes one set outcome, keyed on (session, instance,
// set order) — re-completing a set overwrites in place so the triple can
// never hold two rows.
func (db *DB) UpsertCompletedSet(ctx context.Context, set models.CompletedSet) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO completed_sets (session_id, instance_id, set_order, weight_kg, reps, done_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (session_id, instance_id, set_order)
		 DO UPDATE SET weight_kg = EXCLUDED.weight_kg, reps = EXCLUDED.reps, done_at = EXCLUDED.done_at`,
		set.SessionID, set.InstanceID, set.SetOrder, set.WeightKg, set.Reps, set.DoneAt)
	if err != nil {
		return fmt.Errorf("upserting completed set: %w", err)
	}
	return nil
}

// DeleteCompletedSet unmarks one set.
func (db *DB) DeleteCompletedSet(ctx context.Context, sessionID, instanceID uuid.UUID, setOrder int) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM completed_sets
		 WHERE session_id = $1 AND instance_id = $2 AND set_order = $3`,
		sessionID, instanceID, setOrder)
	if err != nil {
		return fmt.Errorf("deleting completed set: %w", err)
	}
	return nil
}

// ListCompletedSets returns every recorded set of a session in exercise
// order.
func (db *DB) ListCompletedSets(ctx context.Context, sessionID uuid.UUID) ([]models.CompletedSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT session_id, instance_id, set_order, weight_kg, reps, done_at
		 FROM completed_sets
		 WHERE session_id = $1
		 ORDER BY instance_id, set_order`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying completed sets: %w", err)
	}
	defer rows.Close()

	var out []models.CompletedSet
	for rows.Next() {
		var s models.CompletedSet
		if err := rows.Scan(&s.SessionID, &s.InstanceID, &s.SetOrder, &s.WeightKg, &s.Reps, &s.DoneAt); err != nil {
			return nil, fmt.Errorf("scanning completed set: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertFeedback writes the subjective rating for one (session, instance)
// pair, overwriting any previous rating.
func (db *DB) UpsertFeedback(ctx context.Context, fb models.ExerciseFeedback) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercise_feedback (session_id, instance_id, pain, pump, workload, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (session_id, instance_id)
		 DO UPDATE SET pain = EXCLUDED.pain, pump = EXCLUDED.pump,
		               workload = EXCLUDED.workload, notes = EXCLUDED.notes`,
		fb.SessionID, fb.InstanceID, fb.Pain, fb.Pump, fb.Workload, fb.Notes)
	if err != nil {
		return fmt.Errorf("upserting feedback: %w", err)
	}
	return nil
}
