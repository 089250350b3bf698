package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/session"
	"github.com/meltforce/ironcoach/internal/storage"
)

// sessionSnapshot is the client-facing view of a manager.
type sessionSnapshot struct {
	State            session.State           `json:"state"`
	SessionID        *uuid.UUID              `json:"session_id,omitempty"`
	WorkoutName      string                  `json:"workout_name"`
	Groups           []session.InstanceGroup `json:"groups"`
	CompletedSets    int                     `json:"completed_sets"`
	PendingSets      int                     `json:"pending_sets,omitempty"`
	ElapsedSeconds   int                     `json:"elapsed_seconds"`
	RestSeconds      float64                 `json:"rest_seconds_remaining"`
	CountdownSeconds float64                 `json:"countdown_seconds_remaining"`
}

func snapshot(m *session.Manager) sessionSnapshot {
	snap := sessionSnapshot{
		State:            m.State(),
		WorkoutName:      m.Workout().Name,
		Groups:           m.Groups(),
		CompletedSets:    m.CompletedCount(),
		PendingSets:      m.PendingSets(),
		ElapsedSeconds:   int(m.Elapsed().Seconds()),
		RestSeconds:      m.RestRemaining().Seconds(),
		CountdownSeconds: m.CountdownRemaining().Seconds(),
	}
	if id, ok := m.SessionID(); ok {
		snap.SessionID = &id
	}
	return snap
}

// sessionKey pulls the (workout, athlete) pair addressing a manager.
func sessionKey(r *http.Request) (workoutID, athleteID uuid.UUID, err error) {
	workoutID, err = uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("invalid workout ID")
	}
	athleteID, err = uuid.Parse(r.URL.Query().Get("athlete_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("athlete_id parameter required")
	}
	return workoutID, athleteID, nil
}

// manager resolves a hydrated manager or writes the error response.
func (s *Server) manager(w http.ResponseWriter, r *http.Request) *session.Manager {
	workoutID, athleteID, err := sessionKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil
	}
	m, ok := s.sessions.Get(workoutID, athleteID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not loaded"})
		return nil
	}
	return m
}

// writeSessionError maps manager errors onto HTTP statuses.
func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	var serr *session.StateError
	switch {
	case errors.As(err, &serr):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrSetBusy), errors.Is(err, session.ErrSessionBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidRating):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.log.Error("session operation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (s *Server) handleSessionLoad(w http.ResponseWriter, r *http.Request) {
	workoutID, athleteID, err := sessionKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	m, err := s.sessions.Load(r.Context(), workoutID, athleteID)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(m))
}

func (s *Server) handleSessionSnapshot(w http.ResponseWriter, r *http.Request) {
	m := s.manager(w, r)
	if m == nil {
		return
	}
	writeJSON(w, http.StatusOK, snapshot(m))
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	m := s.manager(w, r)
	if m == nil {
		return
	}
	if err := m.Start(r.Context()); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(m))
}

// toggleRequest carries the set address plus the athlete's form inputs.
type toggleRequest struct {
	InstanceID  uuid.UUID `json:"instance_id"`
	SetIndex    int       `json:"set_index"`
	Weight      *string   `json:"weight,omitempty"`
	Reps        *string   `json:"reps,omitempty"`
	RestSeconds int       `json:"rest_seconds"`
}

func (s *Server) handleSessionToggle(w http.ResponseWriter, r *http.Request) {
	m := s.manager(w, r)
	if m == nil {
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if req.Weight != nil {
		m.SetWeightInput(req.InstanceID, req.SetIndex, *req.Weight)
	}
	if req.Reps != nil {
		m.SetRepsInput(req.InstanceID, req.SetIndex, *req.Reps)
	}

	completed, err := m.ToggleSet(r.Context(), req.InstanceID, req.SetIndex, req.RestSeconds)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"completed": completed,
		"snapshot":  snapshot(m),
	})
}

func (s *Server) handleSessionCancel(w http.ResponseWriter, r *http.Request) {
	m := s.manager(w, r)
	if m == nil {
		return
	}
	if err := m.Cancel(r.Context()); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(m))
}

func (s *Server) handleSessionComplete(w http.ResponseWriter, r *http.Request) {
	m := s.manager(w, r)
	if m == nil {
		return
	}
	if err := m.Complete(r.Context(), int(m.Elapsed().Seconds())); err != nil {
		s.writeSessionError(w, err)
		return
	}
	snap := snapshot(m)

	// The completed manager has nothing left to drive; drop it so the
	// next visit hydrates fresh.
	if workoutID, athleteID, err := sessionKey(r); err == nil {
		s.sessions.Release(workoutID, athleteID)
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePendingResume(w http.ResponseWriter, r *http.Request) {
	m := s.manager(w, r)
	if m == nil {
		return
	}
	if err := m.ResumePending(r.Context()); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(m))
}

func (s *Server) handlePendingDiscard(w http.ResponseWriter, r *http.Request) {
	m := s.manager(w, r)
	if m == nil {
		return
	}
	if err := m.DiscardPending(r.Context()); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(m))
}

func (s *Server) handlePendingFinish(w http.ResponseWriter, r *http.Request) {
	m := s.manager(w, r)
	if m == nil {
		return
	}
	if err := m.FinishPending(r.Context()); err != nil {
		s.writeSessionError(w, err)
		return
	}
	snap := snapshot(m)
	if workoutID, athleteID, err := sessionKey(r); err == nil {
		s.sessions.Release(workoutID, athleteID)
	}
	writeJSON(w, http.StatusOK, snap)
}

// feedbackRequest carries per-exercise subjective ratings (1-5).
type feedbackRequest struct {
	InstanceID uuid.UUID `json:"instance_id"`
	Pain       int       `json:"pain"`
	Pump       int       `json:"pump"`
	Workload   int       `json:"workload"`
	Notes      string    `json:"notes,omitempty"`
}

func (s *Server) handleSessionFeedback(w http.ResponseWriter, r *http.Request) {
	m := s.manager(w, r)
	if m == nil {
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := m.RecordFeedback(r.Context(), req.InstanceID, req.Pain, req.Pump, req.Workload, req.Notes); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
