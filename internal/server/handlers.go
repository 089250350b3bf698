package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/bodycomp"
	"github.com/meltforce/ironcoach/internal/models"
	"github.com/meltforce/ironcoach/internal/storage"
)

// measurementRequest is the write payload for a measurement. The server
// recomputes body composition from the raw inputs before storing, so
// derived fields in the payload are ignored.
type measurementRequest struct {
	SubjectID       uuid.UUID             `json:"subject_id"`
	MeasuredOn      string                `json:"measured_on"`
	WeightKg        float64               `json:"weight_kg"`
	HeightCm        *float64              `json:"height_cm,omitempty"`
	Age             *int                  `json:"age,omitempty"`
	Sex             models.Sex            `json:"sex"`
	Method          bodycomp.Method       `json:"method"`
	Skinfolds       models.Skinfolds      `json:"skinfolds"`
	Circumferences  models.Circumferences `json:"circumferences"`
	BodyFatOverride *float64              `json:"body_fat_override,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	CoachID         *uuid.UUID            `json:"coach_id,omitempty"`
}

func (s *Server) handleUpsertMeasurement(w http.ResponseWriter, r *http.Request) {
	var req measurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	measuredOn, err := time.Parse("2006-01-02", req.MeasuredOn)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "measured_on must be YYYY-MM-DD"})
		return
	}
	if req.SubjectID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject_id required"})
		return
	}

	m := models.Measurement{
		ID:              uuid.New(),
		SubjectID:       req.SubjectID,
		MeasuredOn:      measuredOn,
		WeightKg:        req.WeightKg,
		HeightCm:        req.HeightCm,
		Age:             req.Age,
		Sex:             req.Sex,
		Circumferences:  req.Circumferences,
		Skinfolds:       req.Skinfolds,
		Method:          string(req.Method),
		BodyFatOverride: req.BodyFatOverride,
		Notes:           req.Notes,
		CoachID:         req.CoachID,
	}

	if req.Method != "" {
		age := 0
		if req.Age != nil {
			age = *req.Age
		}
		result, err := bodycomp.Evaluate(req.Method, bodycomp.Input{
			Sex:             req.Sex,
			Age:             age,
			WeightKg:        req.WeightKg,
			HeightCm:        req.HeightCm,
			Skinfolds:       req.Skinfolds,
			Circumferences:  req.Circumferences,
			BodyFatOverride: req.BodyFatOverride,
		})
		var verr *bodycomp.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   verr.Error(),
				"missing": verr.Missing,
			})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		m.BodyFatPercent = &result.BodyFatPercent
		m.LeanMassKg = &result.LeanMassKg
		m.FatMassKg = &result.FatMassKg
		m.BMRKcal = result.BMRKcal
	}

	if err := s.db.UpsertMeasurement(r.Context(), m); err != nil {
		s.log.Error("measurement upsert failed", "subject", req.SubjectID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(r.URL.Query().Get("subject_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject_id parameter required"})
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.db.ListMeasurements(r.Context(), subjectID, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleDeleteMeasurement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid measurement ID"})
		return
	}

	if err := s.db.DeleteMeasurement(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "measurement not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// evaluateRequest computes body composition without persisting anything.
type evaluateRequest struct {
	Sex             models.Sex            `json:"sex"`
	Age             int                   `json:"age"`
	WeightKg        float64               `json:"weight_kg"`
	HeightCm        *float64              `json:"height_cm,omitempty"`
	Method          bodycomp.Method       `json:"method"`
	Skinfolds       models.Skinfolds      `json:"skinfolds"`
	Circumferences  models.Circumferences `json:"circumferences"`
	BodyFatOverride *float64              `json:"body_fat_override,omitempty"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result, err := bodycomp.Evaluate(req.Method, bodycomp.Input{
		Sex:             req.Sex,
		Age:             req.Age,
		WeightKg:        req.WeightKg,
		HeightCm:        req.HeightCm,
		Skinfolds:       req.Skinfolds,
		Circumferences:  req.Circumferences,
		BodyFatOverride: req.BodyFatOverride,
	})
	var verr *bodycomp.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   verr.Error(),
			"missing": verr.Missing,
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseDateRange reads start/end query params as YYYY-MM-DD or RFC3339,
// defaulting to the trailing year.
func parseDateRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		end = time.Now()
		start = end.AddDate(-1, 0, 0)
		return
	}

	start, err = parseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endStr == "" {
		end = time.Now()
		return
	}
	end, err = parseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
