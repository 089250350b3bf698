package bodycomp

import (
	"math"

	"github.com/meltforce/ironcoach/internal/models"
)

// NavyTape computes body-fat percent from tape-measure circumferences.
// Men need height, neck and waist; women additionally need hip. The log
// arguments must be positive, so waist must exceed neck (and
// waist+hip−neck must be positive for women).
func NavyTape(sex models.Sex, heightCm float64, c models.Circumferences) (float64, error) {
	var missing []string
	if c.Waist == nil {
		missing = append(missing, "waist")
	}
	if c.Neck == nil {
		missing = append(missing, "neck")
	}
	if sex == models.SexFemale && c.Hip == nil {
		missing = append(missing, "hip")
	}
	if len(missing) > 0 {
		return 0, missingErr(MethodNavyTape, missing...)
	}
	if heightCm <= 0 {
		return 0, invalidErr(MethodNavyTape, "height must be positive")
	}

	waist, neck := *c.Waist, *c.Neck

	if sex == models.SexMale {
		if waist <= neck {
			return 0, invalidErr(MethodNavyTape, "waist must be greater than neck")
		}
		d := 1.0324 - 0.19077*math.Log10(waist-neck) + 0.15456*math.Log10(heightCm)
		return round1(495/d - 450), nil
	}

	girth := waist + *c.Hip - neck
	if girth <= 0 {
		return 0, invalidErr(MethodNavyTape, "waist + hip must be greater than neck")
	}
	d := 1.29579 - 0.35004*math.Log10(girth) + 0.22100*math.Log10(heightCm)
	return round1(495/d - 450), nil
}
