package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/models"
)

const measurementCols = `id, subject_id, measured_on, weight_kg, height_cm, age, sex,
	waist_cm, neck_cm, hip_cm,
	sf_chest, sf_abdomen, sf_thigh, sf_tricep, sf_subscapular,
	sf_suprailiac, sf_midaxillary, sf_bicep, sf_lower_back, sf_calf,
	method, body_fat_percent, body_fat_override, lean_mass_kg, fat_mass_kg,
	bmr_kcal, notes, coach_id`

// UpsertMeasurement writes one snapshot, keyed on (subject, date) — a
// second save for the same day overwrites the first.
func (db *DB) UpsertMeasurement(ctx context.Context, m models.Measurement) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO measurements (`+measurementCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		         $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		         $21, $22, $23, $24, $25, $26, $27, $28)
		 ON CONFLICT (subject_id, measured_on) DO UPDATE SET
		   weight_kg = EXCLUDED.weight_kg, height_cm = EXCLUDED.height_cm,
		   age = EXCLUDED.age, sex = EXCLUDED.sex,
		   waist_cm = EXCLUDED.waist_cm, neck_cm = EXCLUDED.neck_cm, hip_cm = EXCLUDED.hip_cm,
		   sf_chest = EXCLUDED.sf_chest, sf_abdomen = EXCLUDED.sf_abdomen,
		   sf_thigh = EXCLUDED.sf_thigh, sf_tricep = EXCLUDED.sf_tricep,
		   sf_subscapular = EXCLUDED.sf_subscapular, sf_suprailiac = EXCLUDED.sf_suprailiac,
		   sf_midaxillary = EXCLUDED.sf_midaxillary, sf_bicep = EXCLUDED.sf_bicep,
		   sf_lower_back = EXCLUDED.sf_lower_back, sf_calf = EXCLUDED.sf_calf,
		   method = EXCLUDED.method, body_fat_percent = EXCLUDED.body_fat_percent,
		   body_fat_override = EXCLUDED.body_fat_override,
		   lean_mass_kg = EXCLUDED.lean_mass_kg, fat_mass_kg = EXCLUDED.fat_mass_kg,
		   bmr_kcal = EXCLUDED.bmr_kcal, notes = EXCLUDED.notes, coach_id = EXCLUDED.coach_id`,
		m.ID, m.SubjectID, m.MeasuredOn, m.WeightKg, m.HeightCm, m.Age, m.Sex,
		m.Circumferences.Waist, m.Circumferences.Neck, m.Circumferences.Hip,
		m.Skinfolds.Chest, m.Skinfolds.Abdomen, m.Skinfolds.Thigh, m.Skinfolds.Tricep,
		m.Skinfolds.Subscapular, m.Skinfolds.Suprailiac, m.Skinfolds.Midaxillary,
		m.Skinfolds.Bicep, m.Skinfolds.LowerBack, m.Skinfolds.Calf,
		m.Method, m.BodyFatPercent, m.BodyFatOverride, m.LeanMassKg, m.FatMassKg,
		m.BMRKcal, m.Notes, m.CoachID)
	if err != nil {
		return fmt.Errorf("upserting measurement: %w", err)
	}
	return nil
}

// ListMeasurements returns a subject's measurement history in a date
// range, newest first.
func (db *DB) ListMeasurements(ctx context.Context, subjectID uuid.UUID, from, to time.Time) ([]models.Measurement, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+measurementCols+`
		 FROM measurements
		 WHERE subject_id = $1 AND measured_on >= $2 AND measured_on < $3
		 ORDER BY measured_on DESC`,
		subjectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}
	defer rows.Close()

	var out []models.Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeasurement(row rowScanner) (models.Measurement, error) {
	var m models.Measurement
	err := row.Scan(
		&m.ID, &m.SubjectID, &m.MeasuredOn, &m.WeightKg, &m.HeightCm, &m.Age, &m.Sex,
		&m.Circumferences.Waist, &m.Circumferences.Neck, &m.Circumferences.Hip,
		&m.Skinfolds.Chest, &m.Skinfolds.Abdomen, &m.Skinfolds.Thigh, &m.Skinfolds.Tricep,
		&m.Skinfolds.Subscapular, &m.Skinfolds.Suprailiac, &m.Skinfolds.Midaxillary,
		&m.Skinfolds.Bicep, &m.Skinfolds.LowerBack, &m.Skinfolds.Calf,
		&m.Method, &m.BodyFatPercent, &m.BodyFatOverride, &m.LeanMassKg, &m.FatMassKg,
		&m.BMRKcal, &m.Notes, &m.CoachID)
	if err != nil {
		return models.Measurement{}, fmt.Errorf("scanning measurement: %w", err)
	}
	return m, nil
}

// DeleteMeasurement removes one snapshot by id. Measurements are deleted
// explicitly, independent of everything else.
func (db *DB) DeleteMeasurement(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM measurements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting measurement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting measurement %s: %w", id, ErrNotFound)
	}
	return nil
}
