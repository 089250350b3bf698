package bodycomp

import (
	"errors"
	"strings"
	"testing"

	"github.com/meltforce/ironcoach/internal/models"
)

// TestJacksonPollock3Male pins the 3-site male path to a hand-computed
// value: chest 10 + abdomen 15 + thigh 12 = 37 mm at age 30 gives density
// 1.10938 − 0.0008267·37 + 0.0000016·37² − 0.0002574·30 ≈ 1.07326,
// which Siri converts to 11.2%.
func TestJacksonPollock3Male(t *testing.T) {
	got, err := JacksonPollock3(models.SexMale, 30, models.Skinfolds{
		Chest: fp(10), Abdomen: fp(15), Thigh: fp(12),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 11.2 {
		t.Errorf("JacksonPollock3 male = %.1f, want 11.2", got)
	}

	lean, fat := BodyComposition(80, got)
	if lean != 71.0 || fat != 9.0 {
		t.Errorf("composition = %.1f/%.1f, want 71.0/9.0", lean, fat)
	}
}

// TestJacksonPollock3FemaleRejectsMaleSites verifies the female branch
// fails validation when its sites (tricep, suprailiac) are absent, even
// if male-only sites are present — the engine must reject, never
// substitute zeros for missing sex-specific inputs.
func TestJacksonPollock3FemaleRejectsMaleSites(t *testing.T) {
	_, err := JacksonPollock3(models.SexFemale, 28, models.Skinfolds{
		Chest: fp(8), Abdomen: fp(12), Thigh: fp(14),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	msg := verr.Error()
	for _, want := range []string{"tricep", "suprailiac"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not name missing site %q", msg, want)
		}
	}
}

// TestJacksonPollock4 checks the direct-percentage 4-site formula for
// both sexes with the same sum.
func TestJacksonPollock4(t *testing.T) {
	sf := models.Skinfolds{
		Abdomen: fp(20), Suprailiac: fp(10), Tricep: fp(10), Thigh: fp(20),
	}
	male, err := JacksonPollock4(models.SexMale, 30, sf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.29288·60 − 0.0005·3600 + 0.15845·30 − 5.76377 ≈ 14.76
	if male != 14.8 {
		t.Errorf("JP4 male = %.1f, want 14.8", male)
	}

	female, err := JacksonPollock4(models.SexFemale, 30, sf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.29669·60 − 0.00043·3600 + 0.02963·30 + 1.4072 ≈ 18.55
	if female != 18.5 {
		t.Errorf("JP4 female = %.1f, want 18.5", female)
	}
}

// TestJacksonPollock7MissingSites verifies the 7-site method reports
// every absent site at once.
func TestJacksonPollock7MissingSites(t *testing.T) {
	_, err := JacksonPollock7(models.SexMale, 30, models.Skinfolds{
		Chest: fp(10), Abdomen: fp(12), Thigh: fp(11),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Missing) != 4 {
		t.Errorf("missing = %v, want the 4 absent sites", verr.Missing)
	}
}

// TestJacksonPollock7Computes covers the happy path for both sexes.
func TestJacksonPollock7Computes(t *testing.T) {
	sf := models.Skinfolds{
		Chest: fp(8), Midaxillary: fp(10), Tricep: fp(9), Subscapular: fp(11),
		Abdomen: fp(14), Suprailiac: fp(10), Thigh: fp(12),
	}
	for _, sex := range []models.Sex{models.SexMale, models.SexFemale} {
		got, err := JacksonPollock7(sex, 35, sf)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", sex, err)
		}
		if got <= 0 || got >= 60 {
			t.Errorf("%s: JP7 = %.1f, out of plausible range", sex, got)
		}
	}
}

// TestDurninWomersleyBrackets verifies each of the six age brackets
// selects the documented (c, m) regression pair for both sexes — twelve
// fixed-point checks over the bracket boundaries 17, 20, 30, 40, 50.
func TestDurninWomersleyBrackets(t *testing.T) {
	cases := []struct {
		sex  models.Sex
		age  int
		want dwPair
	}{
		{models.SexMale, 16, dwPair{1.1533, 0.0643}},
		{models.SexMale, 17, dwPair{1.1620, 0.0630}},
		{models.SexMale, 20, dwPair{1.1631, 0.0632}},
		{models.SexMale, 30, dwPair{1.1422, 0.0544}},
		{models.SexMale, 40, dwPair{1.1620, 0.0700}},
		{models.SexMale, 50, dwPair{1.1715, 0.0779}},
		{models.SexFemale, 16, dwPair{1.1369, 0.0598}},
		{models.SexFemale, 17, dwPair{1.1549, 0.0678}},
		{models.SexFemale, 20, dwPair{1.1599, 0.0717}},
		{models.SexFemale, 30, dwPair{1.1423, 0.0632}},
		{models.SexFemale, 40, dwPair{1.1333, 0.0612}},
		{models.SexFemale, 50, dwPair{1.1339, 0.0645}},
	}
	for _, tc := range cases {
		got := dwLookup(tc.sex, tc.age)
		if got != tc.want {
			t.Errorf("dwLookup(%s, %d) = %+v, want %+v", tc.sex, tc.age, got, tc.want)
		}
	}
}

// TestDurninWomersleyComputes pins one full computation: male age 25,
// four sites of 10 mm each (sum 40), density 1.1631 − 0.0632·log10(40).
func TestDurninWomersleyComputes(t *testing.T) {
	got, err := DurninWomersley(models.SexMale, 25, models.Skinfolds{
		Bicep: fp(10), Tricep: fp(10), Subscapular: fp(10), Suprailiac: fp(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 16.2 {
		t.Errorf("DurninWomersley = %.1f, want 16.2", got)
	}
}

// TestParrillo verifies the 9-site sum times 0.27, and that the female
// offset constant is applied as configured.
func TestParrillo(t *testing.T) {
	sf := models.Skinfolds{
		Chest: fp(10), Abdomen: fp(10), Thigh: fp(10), Bicep: fp(10),
		Tricep: fp(10), Subscapular: fp(10), Suprailiac: fp(10),
		LowerBack: fp(10), Calf: fp(10),
	}
	male, err := Parrillo(models.SexMale, sf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if male != 24.3 {
		t.Errorf("Parrillo male = %.1f, want 24.3 (90 × 0.27)", male)
	}

	female, err := Parrillo(models.SexFemale, sf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := round1(24.3 + ParrilloFemaleOffset); female != want {
		t.Errorf("Parrillo female = %.1f, want %.1f", female, want)
	}
}

// TestParrilloMissingSite verifies a single absent site fails fast.
func TestParrilloMissingSite(t *testing.T) {
	_, err := Parrillo(models.SexMale, models.Skinfolds{
		Chest: fp(10), Abdomen: fp(10), Thigh: fp(10), Bicep: fp(10),
		Tricep: fp(10), Subscapular: fp(10), Suprailiac: fp(10),
		LowerBack: fp(10),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Missing) != 1 || verr.Missing[0] != "calf" {
		t.Errorf("missing = %v, want [calf]", verr.Missing)
	}
}
