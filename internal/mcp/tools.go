package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/ironcoach/internal/bodycomp"
	"github.com/meltforce/ironcoach/internal/models"
)

// defaultDateRange returns start/end defaulting to the trailing year.
func defaultDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(-1, 0, 0)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// optFloat returns a pointer when the parameter was supplied with a
// positive value. All the measurement inputs are physical quantities
// where zero never occurs.
func optFloat(req mcp.CallToolRequest, key string) *float64 {
	v := req.GetFloat(key, 0)
	if v <= 0 {
		return nil
	}
	return &v
}

// --- Tool definitions ---

var toolGetMeasurements = mcp.NewTool("get_measurements",
	mcp.WithDescription("Retrieve body composition measurement history for an athlete. Returns weight, skinfold and tape readings, and the computed body fat, lean mass, and BMR per snapshot."),
	mcp.WithString("subject_id", mcp.Required(), mcp.Description("Athlete UUID")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to one year ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolComputeBodyComposition = mcp.NewTool("compute_body_composition",
	mcp.WithDescription("Compute body fat percentage, lean/fat mass, and BMR from raw measurements without storing anything. Skinfolds are millimeters, circumferences and height are centimeters, weight is kilograms."),
	mcp.WithString("method", mcp.Required(),
		mcp.Description("Estimation method"),
		mcp.Enum("jackson_pollock_3", "jackson_pollock_4", "jackson_pollock_7", "durnin_womersley", "parrillo", "navy_tape", "manual")),
	mcp.WithString("sex", mcp.Required(), mcp.Enum("male", "female")),
	mcp.WithNumber("weight_kg", mcp.Required(), mcp.Description("Body weight in kilograms")),
	mcp.WithNumber("age", mcp.Description("Age in years; required by the skinfold methods")),
	mcp.WithNumber("height_cm", mcp.Description("Height in centimeters; required by navy_tape, enables BMR elsewhere")),
	mcp.WithNumber("chest", mcp.Description("Chest skinfold, mm")),
	mcp.WithNumber("abdomen", mcp.Description("Abdomen skinfold, mm")),
	mcp.WithNumber("thigh", mcp.Description("Thigh skinfold, mm")),
	mcp.WithNumber("tricep", mcp.Description("Tricep skinfold, mm")),
	mcp.WithNumber("subscapular", mcp.Description("Subscapular skinfold, mm")),
	mcp.WithNumber("suprailiac", mcp.Description("Suprailiac skinfold, mm")),
	mcp.WithNumber("midaxillary", mcp.Description("Midaxillary skinfold, mm")),
	mcp.WithNumber("bicep", mcp.Description("Bicep skinfold, mm")),
	mcp.WithNumber("lower_back", mcp.Description("Lower back skinfold, mm")),
	mcp.WithNumber("calf", mcp.Description("Calf skinfold, mm")),
	mcp.WithNumber("waist", mcp.Description("Waist circumference, cm")),
	mcp.WithNumber("neck", mcp.Description("Neck circumference, cm")),
	mcp.WithNumber("hip", mcp.Description("Hip circumference, cm")),
	mcp.WithNumber("body_fat_override", mcp.Description("Manual body fat percentage; wins over the formula when set")),
)

var toolGetSessionHistory = mcp.NewTool("get_session_history",
	mcp.WithDescription("List recent workout sessions for an athlete, newest first, with start/end times and durations."),
	mcp.WithString("athlete_id", mcp.Required(), mcp.Description("Athlete UUID")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 20.")),
)

var toolGetCompletedSets = mcp.NewTool("get_completed_sets",
	mcp.WithDescription("List the completed sets of one workout session: exercise instance, set order, weight (absent for bodyweight work), and reps."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
)

// --- Tool handlers ---

func (h *handlers) getMeasurements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjectStr, err := req.RequireString("subject_id")
	if err != nil {
		return mcp.NewToolResultError("subject_id parameter is required"), nil
	}
	subjectID, err := uuid.Parse(subjectStr)
	if err != nil {
		return mcp.NewToolResultError("subject_id must be a UUID"), nil
	}

	start, end, err := defaultDateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	rows, err := h.ds.ListMeasurements(ctx, subjectID, start, end)
	if err != nil {
		h.log.Error("mcp get_measurements", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) computeBodyComposition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	methodStr, err := req.RequireString("method")
	if err != nil {
		return mcp.NewToolResultError("method parameter is required"), nil
	}
	sexStr, err := req.RequireString("sex")
	if err != nil {
		return mcp.NewToolResultError("sex parameter is required"), nil
	}
	weight, err := req.RequireFloat("weight_kg")
	if err != nil {
		return mcp.NewToolResultError("weight_kg parameter is required"), nil
	}

	in := bodycomp.Input{
		Sex:      models.Sex(sexStr),
		Age:      req.GetInt("age", 0),
		WeightKg: weight,
		HeightCm: optFloat(req, "height_cm"),
		Skinfolds: models.Skinfolds{
			Chest:       optFloat(req, "chest"),
			Abdomen:     optFloat(req, "abdomen"),
			Thigh:       optFloat(req, "thigh"),
			Tricep:      optFloat(req, "tricep"),
			Subscapular: optFloat(req, "subscapular"),
			Suprailiac:  optFloat(req, "suprailiac"),
			Midaxillary: optFloat(req, "midaxillary"),
			Bicep:       optFloat(req, "bicep"),
			LowerBack:   optFloat(req, "lower_back"),
			Calf:        optFloat(req, "calf"),
		},
		Circumferences: models.Circumferences{
			Waist: optFloat(req, "waist"),
			Neck:  optFloat(req, "neck"),
			Hip:   optFloat(req, "hip"),
		},
		BodyFatOverride: optFloat(req, "body_fat_override"),
	}

	out, err := bodycomp.Evaluate(bodycomp.Method(methodStr), in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	athleteStr, err := req.RequireString("athlete_id")
	if err != nil {
		return mcp.NewToolResultError("athlete_id parameter is required"), nil
	}
	athleteID, err := uuid.Parse(athleteStr)
	if err != nil {
		return mcp.NewToolResultError("athlete_id must be a UUID"), nil
	}

	limit := req.GetInt("limit", 20)

	sessions, err := h.ds.ListSessions(ctx, athleteID, limit)
	if err != nil {
		h.log.Error("mcp get_session_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCompletedSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionStr, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	sessionID, err := uuid.Parse(sessionStr)
	if err != nil {
		return mcp.NewToolResultError("session_id must be a UUID"), nil
	}

	sets, err := h.ds.ListCompletedSets(ctx, sessionID)
	if err != nil {
		h.log.Error("mcp get_completed_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
