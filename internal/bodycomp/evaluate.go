package bodycomp

import "github.com/meltforce/ironcoach/internal/models"

// Method identifies which formula a measurement was evaluated with. The
// values are what the measurements table stores.
type Method string

const (
	MethodJP3             Method = "jackson_pollock_3"
	MethodJP4             Method = "jackson_pollock_4"
	MethodJP7             Method = "jackson_pollock_7"
	MethodDurninWomersley Method = "durnin_womersley"
	MethodParrillo        Method = "parrillo"
	MethodNavyTape        Method = "navy_tape"
	MethodManual          Method = "manual"
)

// Input carries everything a measurement form collects that the engine
// can consume. Pointer fields are optional; each method validates the
// subset it needs.
type Input struct {
	Sex            models.Sex
	Age            int
	WeightKg       float64
	HeightCm       *float64
	Skinfolds      models.Skinfolds
	Circumferences models.Circumferences

	// BodyFatOverride is the coach's manual percentage. When present it
	// wins over the formula output for the lean/fat decomposition.
	BodyFatOverride *float64
}

// Result is what Evaluate hands back for storage verbatim.
type Result struct {
	BodyFatPercent float64  `json:"body_fat_percent"`
	LeanMassKg     float64  `json:"lean_mass_kg"`
	FatMassKg      float64  `json:"fat_mass_kg"`
	BMRKcal        *int     `json:"bmr_kcal,omitempty"`
	Density        *float64 `json:"-"`
}

// Evaluate runs the selected method over the input and derives lean/fat
// mass and BMR. If in.BodyFatOverride is set, the decomposition uses the
// override, never the formula output. MethodManual requires the override.
func Evaluate(method Method, in Input) (Result, error) {
	var pct float64
	var err error

	switch method {
	case MethodJP3:
		pct, err = JacksonPollock3(in.Sex, in.Age, in.Skinfolds)
	case MethodJP4:
		pct, err = JacksonPollock4(in.Sex, in.Age, in.Skinfolds)
	case MethodJP7:
		pct, err = JacksonPollock7(in.Sex, in.Age, in.Skinfolds)
	case MethodDurninWomersley:
		pct, err = DurninWomersley(in.Sex, in.Age, in.Skinfolds)
	case MethodParrillo:
		pct, err = Parrillo(in.Sex, in.Skinfolds)
	case MethodNavyTape:
		if in.HeightCm == nil {
			return Result{}, missingErr(MethodNavyTape, "height")
		}
		pct, err = NavyTape(in.Sex, *in.HeightCm, in.Circumferences)
	case MethodManual:
		if in.BodyFatOverride == nil {
			return Result{}, invalidErr(MethodManual, "manual method requires a body-fat percentage")
		}
		pct = round1(*in.BodyFatOverride)
	default:
		return Result{}, invalidErr(method, "unknown method")
	}
	if err != nil {
		return Result{}, err
	}

	effective := pct
	if in.BodyFatOverride != nil {
		effective = round1(*in.BodyFatOverride)
	}
	if effective < 0 || effective > 100 {
		return Result{}, invalidErr(method, "body-fat percent out of range")
	}

	lean, fat := BodyComposition(in.WeightKg, effective)
	res := Result{
		BodyFatPercent: pct,
		LeanMassKg:     lean,
		FatMassKg:      fat,
	}
	if in.HeightCm != nil {
		bmr := BMR(in.Sex, in.WeightKg, *in.HeightCm, in.Age)
		res.BMRKcal = &bmr
	}
	return res, nil
}
