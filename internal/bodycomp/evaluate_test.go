package bodycomp

import (
	"errors"
	"testing"

	"github.com/meltforce/ironcoach/internal/models"
)

// TestEvaluateOverrideWins verifies that a manual body-fat override
// drives the lean/fat decomposition even when the formula produced a
// different percentage. The formula output is still reported.
func TestEvaluateOverrideWins(t *testing.T) {
	res, err := Evaluate(MethodJP3, Input{
		Sex: models.SexMale, Age: 30, WeightKg: 80,
		Skinfolds: models.Skinfolds{
			Chest: fp(10), Abdomen: fp(15), Thigh: fp(12),
		},
		BodyFatOverride: fp(25),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BodyFatPercent != 11.2 {
		t.Errorf("formula percent = %.1f, want 11.2", res.BodyFatPercent)
	}
	// Decomposition from the override: fat = 80·25/100 = 20.
	if res.FatMassKg != 20.0 || res.LeanMassKg != 60.0 {
		t.Errorf("masses = %.1f/%.1f, want 60.0/20.0", res.LeanMassKg, res.FatMassKg)
	}
}

// TestEvaluateManualRequiresOverride verifies the manual method cannot be
// selected without a percentage.
func TestEvaluateManualRequiresOverride(t *testing.T) {
	_, err := Evaluate(MethodManual, Input{Sex: models.SexFemale, WeightKg: 60})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestEvaluateBMROnlyWithHeight verifies BMR is attached only when height
// is known.
func TestEvaluateBMROnlyWithHeight(t *testing.T) {
	in := Input{
		Sex: models.SexMale, Age: 30, WeightKg: 80,
		BodyFatOverride: fp(15),
	}
	res, err := Evaluate(MethodManual, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BMRKcal != nil {
		t.Errorf("BMR = %v, want nil without height", *res.BMRKcal)
	}

	in.HeightCm = fp(180)
	res, err = Evaluate(MethodManual, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BMRKcal == nil || *res.BMRKcal != 1780 {
		t.Errorf("BMR = %v, want 1780", res.BMRKcal)
	}
}

// TestEvaluatePropagatesValidation verifies formula validation failures
// surface before any partial result is produced.
func TestEvaluatePropagatesValidation(t *testing.T) {
	_, err := Evaluate(MethodNavyTape, Input{
		Sex: models.SexFemale, Age: 25, WeightKg: 60, HeightCm: fp(165),
		Circumferences: models.Circumferences{Waist: fp(70), Neck: fp(32)},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestEvaluateRejectsOutOfRangeOverride verifies an override outside
// 0–100 is refused rather than producing negative lean mass.
func TestEvaluateRejectsOutOfRangeOverride(t *testing.T) {
	_, err := Evaluate(MethodManual, Input{
		Sex: models.SexMale, WeightKg: 80, BodyFatOverride: fp(140),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
