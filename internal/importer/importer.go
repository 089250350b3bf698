// Package importer loads coaching exports: workout prescriptions and
// measurement history from the JSON files the desktop app produces.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/models"
)

// Stats tracks import progress.
type Stats struct {
	WorkoutsImported     int
	InstancesImported    int
	MeasurementsImported int
	Skipped              int
}

// Store is the write surface the importer needs.
type Store interface {
	InsertWorkout(ctx context.Context, w models.Workout) error
	UpsertMeasurement(ctx context.Context, m models.Measurement) error
}

// Export is the top-level shape of an export file.
type Export struct {
	Workouts     []exportWorkout     `json:"workouts"`
	Measurements []exportMeasurement `json:"measurements"`
}

type exportWorkout struct {
	ID        uuid.UUID        `json:"id"`
	ProgramID uuid.UUID        `json:"program_id"`
	Name      string           `json:"name"`
	Order     int              `json:"order"`
	Instances []exportInstance `json:"instances"`
}

type exportInstance struct {
	ID          uuid.UUID  `json:"id"`
	ExerciseID  string     `json:"exercise_id"`
	Name        string     `json:"name"`
	Order       int        `json:"order"`
	Sets        int        `json:"sets"`
	RepTarget   string     `json:"rep_target"`
	RestSeconds int        `json:"rest_seconds"`
	Bodyweight  bool       `json:"bodyweight"`
	FixedWeight *float64   `json:"fixed_weight,omitempty"`
	GroupID     *uuid.UUID `json:"group_id,omitempty"`
	GroupType   string     `json:"group_type,omitempty"`
	GroupOrder  int        `json:"group_order,omitempty"`
}

type exportMeasurement struct {
	ID              uuid.UUID             `json:"id"`
	SubjectID       uuid.UUID             `json:"subject_id"`
	MeasuredOn      string                `json:"measured_on"`
	WeightKg        float64               `json:"weight_kg"`
	HeightCm        *float64              `json:"height_cm,omitempty"`
	Age             *int                  `json:"age,omitempty"`
	Sex             models.Sex            `json:"sex"`
	Circumferences  models.Circumferences `json:"circumferences"`
	Skinfolds       models.Skinfolds      `json:"skinfolds"`
	Method          string                `json:"method"`
	BodyFatPercent  *float64              `json:"body_fat_percent,omitempty"`
	BodyFatOverride *float64              `json:"body_fat_override,omitempty"`
	LeanMassKg      *float64              `json:"lean_mass_kg,omitempty"`
	FatMassKg       *float64              `json:"fat_mass_kg,omitempty"`
	BMRKcal         *int                  `json:"bmr_kcal,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	CoachID         *uuid.UUID            `json:"coach_id,omitempty"`
}

// Importer reads an export file and writes its contents through Store.
type Importer struct {
	store  Store
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. With dryRun set, files are parsed and
// validated but nothing is written.
func New(store Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, log: log, dryRun: dryRun}
}

// ImportFile processes one export file.
func (imp *Importer) ImportFile(ctx context.Context, path string) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &imp.stats, fmt.Errorf("reading %s: %w", path, err)
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return &imp.stats, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := imp.importWorkouts(ctx, export.Workouts); err != nil {
		return &imp.stats, err
	}
	if err := imp.importMeasurements(ctx, export.Measurements); err != nil {
		return &imp.stats, err
	}

	return &imp.stats, nil
}

func (imp *Importer) importWorkouts(ctx context.Context, workouts []exportWorkout) error {
	for _, ew := range workouts {
		w, err := convertWorkout(ew)
		if err != nil {
			imp.log.Warn("skipping workout", "name", ew.Name, "error", err)
			imp.stats.Skipped++
			continue
		}

		if !imp.dryRun {
			if err := imp.store.InsertWorkout(ctx, w); err != nil {
				return fmt.Errorf("inserting workout %s: %w", w.Name, err)
			}
		}
		imp.stats.WorkoutsImported++
		imp.stats.InstancesImported += len(w.Instances)
	}
	return nil
}

func (imp *Importer) importMeasurements(ctx context.Context, measurements []exportMeasurement) error {
	for _, em := range measurements {
		m, err := convertMeasurement(em)
		if err != nil {
			imp.log.Warn("skipping measurement", "subject", em.SubjectID, "error", err)
			imp.stats.Skipped++
			continue
		}

		if !imp.dryRun {
			if err := imp.store.UpsertMeasurement(ctx, m); err != nil {
				return fmt.Errorf("upserting measurement %s/%s: %w", m.SubjectID, em.MeasuredOn, err)
			}
		}
		imp.stats.MeasurementsImported++
	}
	return nil
}

func convertWorkout(ew exportWorkout) (models.Workout, error) {
	if ew.ID == uuid.Nil {
		return models.Workout{}, fmt.Errorf("workout id missing")
	}
	if ew.Name == "" {
		return models.Workout{}, fmt.Errorf("workout name missing")
	}

	w := models.Workout{
		ID:        ew.ID,
		ProgramID: ew.ProgramID,
		Name:      ew.Name,
		Order:     ew.Order,
	}
	for _, ei := range ew.Instances {
		if ei.ID == uuid.Nil || ei.Sets <= 0 {
			return models.Workout{}, fmt.Errorf("instance %q invalid", ei.Name)
		}
		w.Instances = append(w.Instances, models.ExerciseInstance{
			ID:          ei.ID,
			WorkoutID:   ew.ID,
			ExerciseID:  ei.ExerciseID,
			Name:        ei.Name,
			Order:       ei.Order,
			Sets:        ei.Sets,
			RepTarget:   ei.RepTarget,
			RestSeconds: ei.RestSeconds,
			Bodyweight:  ei.Bodyweight,
			FixedWeight: ei.FixedWeight,
			GroupID:     ei.GroupID,
			GroupType:   models.GroupType(ei.GroupType),
			GroupOrder:  ei.GroupOrder,
		})
	}
	return w, nil
}

func convertMeasurement(em exportMeasurement) (models.Measurement, error) {
	if em.SubjectID == uuid.Nil {
		return models.Measurement{}, fmt.Errorf("subject id missing")
	}
	measuredOn, err := time.Parse("2006-01-02", em.MeasuredOn)
	if err != nil {
		return models.Measurement{}, fmt.Errorf("measured_on %q: %w", em.MeasuredOn, err)
	}

	m := models.Measurement{
		ID:              em.ID,
		SubjectID:       em.SubjectID,
		MeasuredOn:      measuredOn,
		WeightKg:        em.WeightKg,
		HeightCm:        em.HeightCm,
		Age:             em.Age,
		Sex:             em.Sex,
		Circumferences:  em.Circumferences,
		Skinfolds:       em.Skinfolds,
		Method:          em.Method,
		BodyFatPercent:  em.BodyFatPercent,
		BodyFatOverride: em.BodyFatOverride,
		LeanMassKg:      em.LeanMassKg,
		FatMassKg:       em.FatMassKg,
		BMRKcal:         em.BMRKcal,
		Notes:           em.Notes,
		CoachID:         em.CoachID,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return m, nil
}
