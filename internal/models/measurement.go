package models

import (
	"time"

	"github.com/google/uuid"
)

// Sex is the subject's sex category as carried by the measurement forms.
// The skinfold formulas are only defined for these two categories.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Skinfolds holds caliper readings in millimeters. A nil field means the
// site was not measured.
type Skinfolds struct {
	Chest       *float64 `json:"chest,omitempty"`
	Abdomen     *float64 `json:"abdomen,omitempty"`
	Thigh       *float64 `json:"thigh,omitempty"`
	Tricep      *float64 `json:"tricep,omitempty"`
	Subscapular *float64 `json:"subscapular,omitempty"`
	Suprailiac  *float64 `json:"suprailiac,omitempty"`
	Midaxillary *float64 `json:"midaxillary,omitempty"`
	Bicep       *float64 `json:"bicep,omitempty"`
	LowerBack   *float64 `json:"lower_back,omitempty"`
	Calf        *float64 `json:"calf,omitempty"`
}

// Circumferences holds tape measurements in centimeters.
type Circumferences struct {
	Waist *float64 `json:"waist,omitempty"`
	Neck  *float64 `json:"neck,omitempty"`
	Hip   *float64 `json:"hip,omitempty"`
}

// Measurement is one anthropometric snapshot for an athlete on a date.
// At most one row exists per (subject, date) — writes go through an upsert
// on that key.
type Measurement struct {
	ID         uuid.UUID `json:"id"`
	SubjectID  uuid.UUID `json:"subject_id"`
	MeasuredOn time.Time `json:"measured_on"`
	WeightKg   float64   `json:"weight_kg"`
	HeightCm   *float64  `json:"height_cm,omitempty"`
	Age        *int      `json:"age,omitempty"`
	Sex        Sex       `json:"sex"`

	Circumferences Circumferences `json:"circumferences"`
	Skinfolds      Skinfolds      `json:"skinfolds"`

	// Computed outputs. BodyFatOverride, when set, wins over the formula
	// result for the lean/fat decomposition.
	Method          string   `json:"method"`
	BodyFatPercent  *float64 `json:"body_fat_percent,omitempty"`
	BodyFatOverride *float64 `json:"body_fat_override,omitempty"`
	LeanMassKg      *float64 `json:"lean_mass_kg,omitempty"`
	FatMassKg       *float64 `json:"fat_mass_kg,omitempty"`
	BMRKcal         *int     `json:"bmr_kcal,omitempty"`

	Notes   string     `json:"notes,omitempty"`
	CoachID *uuid.UUID `json:"coach_id,omitempty"`
}
