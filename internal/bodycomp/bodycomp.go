// Package bodycomp implements the body-composition formulas used by the
// measurement form: skinfold methods (Jackson-Pollock 3/4/7-site,
// Durnin-Womersley, Parrillo), the Navy tape-measure method, the Siri
// density conversion, lean/fat mass decomposition and Mifflin-St Jeor BMR.
//
// Everything in this package is pure: validated numeric inputs in,
// a rounded percentage or mass out. Percentages and masses are rounded to
// one decimal place, BMR to the nearest whole kcal.
package bodycomp

import (
	"math"

	"github.com/meltforce/ironcoach/internal/models"
)

// round1 rounds to one decimal place, the precision the measurement
// tables store.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// SiriBodyFat converts body density (g/cm³) to body-fat percent using the
// Siri equation. Every skinfold method funnels through this conversion,
// so lower density always means higher body fat.
func SiriBodyFat(density float64) float64 {
	return round1(495/density - 450)
}

// BodyComposition splits total weight into lean and fat mass from a
// body-fat percentage. leanKg + fatKg equals weightKg up to rounding.
func BodyComposition(weightKg, bodyFatPercent float64) (leanKg, fatKg float64) {
	fat := weightKg * bodyFatPercent / 100
	return round1(weightKg - fat), round1(fat)
}

// BMR estimates basal metabolic rate (kcal/day) with the Mifflin-St Jeor
// equation.
func BMR(sex models.Sex, weightKg, heightCm float64, age int) int {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == models.SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return int(math.Round(bmr))
}
