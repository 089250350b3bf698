package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/ironcoach/internal/models"
)

// ErrNotFound marks lookups and deletes that matched no row.
var ErrNotFound = errors.New("not found")

// ErrWorkoutNotFound is returned when a prescription id does not exist.
var ErrWorkoutNotFound = fmt.Errorf("workout %w", ErrNotFound)

// Workout fetches one prescription with its exercise instances in
// declared order. This is the read-only side the session manager
// consumes.
func (db *DB) Workout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	var w models.Workout
	err := db.Pool.QueryRow(ctx,
		`SELECT id, program_id, name, position
		 FROM workouts WHERE id = $1`, id).
		Scan(&w.ID, &w.ProgramID, &w.Name, &w.Order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT id, workout_id, exercise_id, name, position, sets, rep_target,
		        rest_seconds, bodyweight, fixed_weight, group_id, group_type, group_order
		 FROM exercise_instances
		 WHERE workout_id = $1
		 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying exercise instances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var in models.ExerciseInstance
		var groupType *string
		if err := rows.Scan(&in.ID, &in.WorkoutID, &in.ExerciseID, &in.Name, &in.Order,
			&in.Sets, &in.RepTarget, &in.RestSeconds, &in.Bodyweight, &in.FixedWeight,
			&in.GroupID, &groupType, &in.GroupOrder); err != nil {
			return nil, fmt.Errorf("scanning exercise instance: %w", err)
		}
		if groupType != nil {
			in.GroupType = models.GroupType(*groupType)
		}
		w.Instances = append(w.Instances, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &w, nil
}

// InsertWorkout writes a prescription and its instances. Used by the
// importer; the authoring surface itself lives outside this service.
func (db *DB) InsertWorkout(ctx context.Context, w models.Workout) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO workouts (id, program_id, name, position)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, position = EXCLUDED.position`,
		w.ID, w.ProgramID, w.Name, w.Order); err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}

	for _, in := range w.Instances {
		var groupType *string
		if in.GroupType != "" {
			gt := string(in.GroupType)
			groupType = &gt
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO exercise_instances
			   (id, workout_id, exercise_id, name, position, sets, rep_target,
			    rest_seconds, bodyweight, fixed_weight, group_id, group_type, group_order)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			 ON CONFLICT (id) DO UPDATE SET
			   name = EXCLUDED.name, position = EXCLUDED.position, sets = EXCLUDED.sets,
			   rep_target = EXCLUDED.rep_target, rest_seconds = EXCLUDED.rest_seconds,
			   bodyweight = EXCLUDED.bodyweight, fixed_weight = EXCLUDED.fixed_weight,
			   group_id = EXCLUDED.group_id, group_type = EXCLUDED.group_type,
			   group_order = EXCLUDED.group_order`,
			in.ID, w.ID, in.ExerciseID, in.Name, in.Order, in.Sets, in.RepTarget,
			in.RestSeconds, in.Bodyweight, in.FixedWeight, in.GroupID, groupType,
			in.GroupOrder); err != nil {
			return fmt.Errorf("inserting exercise instance: %w", err)
		}
	}
	return tx.Commit(ctx)
}
