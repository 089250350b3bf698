package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupType labels exercise instances performed back-to-back with no rest
// between members.
type GroupType string

const (
	GroupSuperset GroupType = "superset"
	GroupBiSet    GroupType = "bi-set"
	GroupTriSet   GroupType = "tri-set"
	GroupGiantSet GroupType = "giant-set"
)

// Workout is one prescribed training day inside a program. The session
// manager treats prescriptions as read-only input.
type Workout struct {
	ID        uuid.UUID          `json:"id"`
	ProgramID uuid.UUID          `json:"program_id"`
	Name      string             `json:"name"`
	Order     int                `json:"order"`
	Instances []ExerciseInstance `json:"instances"`
}

// ExerciseInstance is one prescribed exercise slot inside a workout.
// Instances sharing a non-nil GroupID (two or more of them) form one
// superset-style group ordered by GroupOrder.
type ExerciseInstance struct {
	ID          uuid.UUID  `json:"id"`
	WorkoutID   uuid.UUID  `json:"workout_id"`
	ExerciseID  string     `json:"exercise_id"`
	Name        string     `json:"name"`
	Order       int        `json:"order"`
	Sets        int        `json:"sets"`
	RepTarget   string     `json:"rep_target"`
	RestSeconds int        `json:"rest_seconds"`
	Bodyweight  bool       `json:"bodyweight"`
	FixedWeight *float64   `json:"fixed_weight,omitempty"`
	GroupID     *uuid.UUID `json:"group_id,omitempty"`
	GroupType   GroupType  `json:"group_type,omitempty"`
	GroupOrder  int        `json:"group_order,omitempty"`
}

// WorkoutSession is one in-progress or finished attempt at a workout by
// one athlete. EndTime is nil while the session is open; at most one open
// session per (workout, athlete) is ever reconciled by the recovery flow.
type WorkoutSession struct {
	ID          uuid.UUID  `json:"id"`
	WorkoutID   uuid.UUID  `json:"workout_id"`
	AthleteID   uuid.UUID  `json:"athlete_id"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	DurationSec *int       `json:"duration_sec,omitempty"`
}

// CompletedSet records one outcome for a (session, instance, set order)
// triple. WeightKg nil means bodyweight. At most one row per triple;
// re-completing overwrites in place, uncompleting deletes the row.
type CompletedSet struct {
	SessionID  uuid.UUID `json:"session_id"`
	InstanceID uuid.UUID `json:"instance_id"`
	SetOrder   int       `json:"set_order"`
	WeightKg   *float64  `json:"weight_kg,omitempty"`
	Reps       int       `json:"reps"`
	DoneAt     time.Time `json:"done_at"`
}

// ExerciseFeedback is an optional subjective rating per (session,
// instance) pair, upserted with the same semantics as CompletedSet.
type ExerciseFeedback struct {
	SessionID  uuid.UUID `json:"session_id"`
	InstanceID uuid.UUID `json:"instance_id"`
	Pain       int       `json:"pain"`
	Pump       int       `json:"pump"`
	Workload   int       `json:"workload"`
	Notes      string    `json:"notes,omitempty"`
}
