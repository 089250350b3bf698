package bodycomp

import (
	"errors"
	"math"
	"testing"

	"github.com/meltforce/ironcoach/internal/models"
)

func fp(v float64) *float64 { return &v }

// TestSiriMonotonic verifies the Siri conversion is monotonic: lower body
// density always means higher body fat. Every skinfold method funnels
// through this conversion.
func TestSiriMonotonic(t *testing.T) {
	prev := math.Inf(-1)
	for d := 1.09; d >= 1.02; d -= 0.01 {
		pct := SiriBodyFat(d)
		if pct <= prev {
			t.Fatalf("SiriBodyFat(%f) = %f, not greater than %f", d, pct, prev)
		}
		prev = pct
	}
}

// TestSiriKnownValue pins the conversion at density 1.0: 495/1.0 − 450 = 45.
func TestSiriKnownValue(t *testing.T) {
	if got := SiriBodyFat(1.0); got != 45.0 {
		t.Errorf("SiriBodyFat(1.0) = %f, want 45.0", got)
	}
}

// TestBodyCompositionSums verifies lean + fat equals total weight within
// one decimal place of rounding for the whole percentage domain.
func TestBodyCompositionSums(t *testing.T) {
	const weight = 82.4
	for pct := 0.0; pct <= 100.0; pct += 2.5 {
		lean, fat := BodyComposition(weight, pct)
		if diff := math.Abs(lean + fat - weight); diff > 0.1 {
			t.Errorf("pct=%.1f: lean %.1f + fat %.1f differs from %.1f by %.3f",
				pct, lean, fat, weight, diff)
		}
	}
}

// TestBMR checks the Mifflin-St Jeor equation for both sexes.
func TestBMR(t *testing.T) {
	// 10·80 + 6.25·180 − 5·30 = 1775, +5 male / −161 female.
	if got := BMR(models.SexMale, 80, 180, 30); got != 1780 {
		t.Errorf("male BMR = %d, want 1780", got)
	}
	if got := BMR(models.SexFemale, 80, 180, 30); got != 1614 {
		t.Errorf("female BMR = %d, want 1614", got)
	}
}

// TestNavyTapeMale checks the male tape formula against a hand-computed
// value and verifies hip is never required for men.
func TestNavyTapeMale(t *testing.T) {
	got, err := NavyTape(models.SexMale, 180, models.Circumferences{
		Waist: fp(85), Neck: fp(38),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 16.1 {
		t.Errorf("NavyTape male = %.1f, want 16.1", got)
	}
}

// TestNavyTapeFemaleRequiresHip verifies the female branch fails with a
// ValidationError naming the hip site instead of computing without it.
func TestNavyTapeFemaleRequiresHip(t *testing.T) {
	_, err := NavyTape(models.SexFemale, 165, models.Circumferences{
		Waist: fp(70), Neck: fp(32),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Missing) != 1 || verr.Missing[0] != "hip" {
		t.Errorf("missing = %v, want [hip]", verr.Missing)
	}
}

// TestNavyTapeWaistNotGreaterThanNeck verifies the non-positive log
// argument is rejected up front.
func TestNavyTapeWaistNotGreaterThanNeck(t *testing.T) {
	_, err := NavyTape(models.SexMale, 180, models.Circumferences{
		Waist: fp(38), Neck: fp(38),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestNavyTapeFemale computes a female value end to end to cover the hip
// branch.
func TestNavyTapeFemale(t *testing.T) {
	got, err := NavyTape(models.SexFemale, 165, models.Circumferences{
		Waist: fp(70), Neck: fp(32), Hip: fp(95),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got <= 0 || got >= 60 {
		t.Errorf("NavyTape female = %.1f, out of plausible range", got)
	}
}
