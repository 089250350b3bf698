// Package session drives a single athlete's live workout: per-set
// completion, rest and countdown timers, and recovery of an interrupted
// session on re-entry. Prescriptions are read-only input; every durable
// mutation goes through the Store one call at a time, and in-memory state
// changes only after the call succeeds.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/models"
)

// State is where the manager's state machine currently sits.
type State string

const (
	StateNoSession       State = "no_session"
	StatePendingRecovery State = "pending_recovery"
	StateStarted         State = "started"
	StateCompleted       State = "completed"
)

// BodyweightMarker is the weight-input text for bodyweight sets; it maps
// to a NULL weight column on the completed-set row.
const BodyweightMarker = "BW"

type setKey struct {
	Instance uuid.UUID
	Set      int
}

// SetInput is the editable weight/reps text for one prescribed set.
type SetInput struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

// Manager owns the session state for one (athlete, workout) screen visit.
// Methods are safe for concurrent use; durable writes are issued outside
// the lock with a per-set in-flight guard so overlapping toggles for the
// same set are rejected instead of racing.
type Manager struct {
	store Store
	log   *slog.Logger
	now   func() time.Time

	athleteID uuid.UUID
	workout   *models.Workout
	instances map[uuid.UUID]*models.ExerciseInstance

	mu        sync.Mutex
	state     State
	session   *models.WorkoutSession
	pending   *models.WorkoutSession
	pendingN  int
	inputs    map[setKey]*SetInput
	completed map[setKey]models.CompletedSet
	inFlight  map[setKey]struct{}
	busy      bool // a lifecycle write is outstanding

	startedAt   time.Time
	elapsedBase time.Duration

	rest      *Countdown
	countdown *Countdown

	// defaultRest, when positive, overrides each instance's prescribed
	// rest seconds for the whole session.
	defaultRest int
}

// Option tweaks manager construction.
type Option func(*Manager)

// WithClock injects the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.now = clock }
}

// WithDefaultRest sets a session-wide rest override in seconds.
func WithDefaultRest(seconds int) Option {
	return func(m *Manager) { m.defaultRest = seconds }
}

// LoadWorkout fetches the prescription, initializes one input slot per
// declared set per instance, and probes for a leftover open session. If
// one exists the manager starts in PendingRecovery and nothing is mutated
// until the caller resolves it; otherwise it starts in NoSession.
func LoadWorkout(ctx context.Context, store Store, source WorkoutSource, workoutID, athleteID uuid.UUID, log *slog.Logger, opts ...Option) (*Manager, error) {
	w, err := source.Workout(ctx, workoutID)
	if err != nil {
		return nil, fmt.Errorf("load workout %s: %w", workoutID, err)
	}

	m := &Manager{
		store:     store,
		log:       log,
		now:       time.Now,
		athleteID: athleteID,
		workout:   w,
		state:     StateNoSession,
		instances: make(map[uuid.UUID]*models.ExerciseInstance),
		inputs:    make(map[setKey]*SetInput),
		completed: make(map[setKey]models.CompletedSet),
		inFlight:  make(map[setKey]struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	m.rest = newCountdown(m.now)
	m.countdown = newCountdown(m.now)

	for i := range w.Instances {
		in := &w.Instances[i]
		m.instances[in.ID] = in
		for s := 0; s < in.Sets; s++ {
			m.inputs[setKey{in.ID, s}] = defaultInput(in)
		}
	}

	open, err := store.FindOpenSession(ctx, workoutID, athleteID)
	if err != nil {
		return nil, fmt.Errorf("find open session: %w", err)
	}
	if open != nil {
		sets, err := store.ListCompletedSets(ctx, open.ID)
		if err != nil {
			return nil, fmt.Errorf("count pending sets: %w", err)
		}
		m.pending = open
		m.pendingN = len(sets)
		m.state = StatePendingRecovery
	}
	return m, nil
}

func defaultInput(in *models.ExerciseInstance) *SetInput {
	input := &SetInput{Reps: in.RepTarget}
	switch {
	case in.Bodyweight:
		input.Weight = BodyweightMarker
	case in.FixedWeight != nil:
		input.Weight = strconv.FormatFloat(*in.FixedWeight, 'f', -1, 64)
	}
	return input
}

// State returns the current machine state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Workout returns the read-only prescription the manager was loaded with.
func (m *Manager) Workout() *models.Workout { return m.workout }

// Groups returns the prescription's display partition.
func (m *Manager) Groups() []InstanceGroup {
	return GroupInstances(m.workout.Instances)
}

// PendingSets reports how many sets the unresolved open session already
// has, for the resume/discard/finish prompt.
func (m *Manager) PendingSets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingN
}

// SessionID returns the active (or pending) session id, if any.
func (m *Manager) SessionID() (uuid.UUID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.session != nil:
		return m.session.ID, true
	case m.pending != nil:
		return m.pending.ID, true
	}
	return uuid.UUID{}, false
}

// Start creates a new session record and moves to Started. Only valid
// from NoSession — an unresolved pending session must be dealt with
// first.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateNoSession {
		defer m.mu.Unlock()
		return stateErr("start", m.state)
	}
	if m.busy {
		defer m.mu.Unlock()
		return ErrSessionBusy
	}
	m.busy = true
	s := models.WorkoutSession{
		ID:        uuid.New(),
		WorkoutID: m.workout.ID,
		AthleteID: m.athleteID,
		StartTime: m.now(),
	}
	m.mu.Unlock()

	err := m.store.CreateSession(ctx, s)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	m.session = &s
	m.state = StateStarted
	m.startedAt = s.StartTime
	m.elapsedBase = 0
	return nil
}

// SetWeightInput edits the weight text for one set slot.
func (m *Manager) SetWeightInput(instanceID uuid.UUID, setIndex int, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in, ok := m.inputs[setKey{instanceID, setIndex}]; ok {
		in.Weight = text
	}
}

// SetRepsInput edits the reps text for one set slot.
func (m *Manager) SetRepsInput(instanceID uuid.UUID, setIndex int, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in, ok := m.inputs[setKey{instanceID, setIndex}]; ok {
		in.Reps = text
	}
}

// Input returns the current editable text for a set slot.
func (m *Manager) Input(instanceID uuid.UUID, setIndex int) (SetInput, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.inputs[setKey{instanceID, setIndex}]
	if !ok {
		return SetInput{}, false
	}
	return *in, true
}

// IsSetCompleted reports whether the (instance, set) slot holds a
// persisted completed set.
func (m *Manager) IsSetCompleted(instanceID uuid.UUID, setIndex int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.completed[setKey{instanceID, setIndex}]
	return ok
}

// CompletedCount returns the number of completed sets in memory.
func (m *Manager) CompletedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.completed)
}

// ToggleSet flips one set between complete and incomplete. Completing
// requires reps (and, unless the set is bodyweight, a weight) to be
// filled in — otherwise the call is a no-op, matching the form's gating.
// Completing upserts the row and arms the rest slot when restSeconds (or
// the session-wide override) is positive; uncompleting deletes the row
// and stops the rest slot. The returned bool is the slot's state after
// the call. A toggle for a set whose previous write is still in flight
// fails with ErrSetBusy.
func (m *Manager) ToggleSet(ctx context.Context, instanceID uuid.UUID, setIndex int, restSeconds int) (bool, error) {
	m.mu.Lock()
	if m.state != StateStarted {
		m.mu.Unlock()
		return false, stateErr("toggle set", m.state)
	}
	in, ok := m.instances[instanceID]
	if !ok || setIndex < 0 || setIndex >= in.Sets {
		m.mu.Unlock()
		return false, fmt.Errorf("unknown set %s/%d", instanceID, setIndex)
	}

	key := setKey{instanceID, setIndex}
	if _, busy := m.inFlight[key]; busy {
		m.mu.Unlock()
		return false, ErrSetBusy
	}

	_, wasComplete := m.completed[key]
	var row models.CompletedSet
	if !wasComplete {
		input := m.inputs[key]
		parsed, ok := parseSet(in, input)
		if !ok {
			// Incomplete input is a UI-level gate, not an error.
			m.mu.Unlock()
			m.log.Debug("toggle ignored, set input incomplete",
				"instance", instanceID, "set", setIndex)
			return false, nil
		}
		row = parsed
		row.SessionID = m.session.ID
		row.InstanceID = instanceID
		row.SetOrder = setIndex
		row.DoneAt = m.now()
	}
	sessionID := m.session.ID
	m.inFlight[key] = struct{}{}
	m.mu.Unlock()

	var err error
	if wasComplete {
		err = m.store.DeleteCompletedSet(ctx, sessionID, instanceID, setIndex)
	} else {
		err = m.store.UpsertCompletedSet(ctx, row)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, key)
	if err != nil {
		// Memory stays as it was: storage and memory must not disagree.
		return wasComplete, fmt.Errorf("persist set %s/%d: %w", instanceID, setIndex, err)
	}

	if wasComplete {
		delete(m.completed, key)
		m.rest.Stop()
		return false, nil
	}

	m.completed[key] = row
	rest := restSeconds
	if m.defaultRest > 0 {
		rest = m.defaultRest
	}
	if rest > 0 {
		// Rest replaces a running exercise countdown: it is always the
		// consequence of the most recent user action.
		m.countdown.Stop()
		m.rest.Start(time.Duration(rest) * time.Second)
	}
	return true, nil
}

// parseSet validates the slot's input text. Bodyweight sets persist a nil
// weight; anything else needs a parseable positive weight.
func parseSet(in *models.ExerciseInstance, input *SetInput) (models.CompletedSet, bool) {
	reps, err := strconv.Atoi(input.Reps)
	if err != nil || reps <= 0 {
		return models.CompletedSet{}, false
	}
	set := models.CompletedSet{Reps: reps}
	if in.Bodyweight || input.Weight == BodyweightMarker {
		return set, true
	}
	w, err := strconv.ParseFloat(input.Weight, 64)
	if err != nil || w < 0 {
		return models.CompletedSet{}, false
	}
	set.WeightKg = &w
	return set, true
}

// Cancel deletes every completed set and then the session row itself,
// returning to NoSession. Destructive and irreversible; the caller is
// responsible for confirming with the user first.
func (m *Manager) Cancel(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateStarted {
		defer m.mu.Unlock()
		return stateErr("cancel", m.state)
	}
	if m.busy {
		defer m.mu.Unlock()
		return ErrSessionBusy
	}
	m.busy = true
	sessionID := m.session.ID
	m.mu.Unlock()

	err := m.deleteSessionRows(ctx, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		return err
	}
	m.resetLocked()
	return nil
}

// deleteSessionRows removes sets first, then the session. The two calls
// are not transactional: an interruption in between leaves an open
// session with no sets, which recovery treats as an abandoned empty
// session.
func (m *Manager) deleteSessionRows(ctx context.Context, sessionID uuid.UUID) error {
	if err := m.store.DeleteSessionSets(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session sets: %w", err)
	}
	if err := m.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (m *Manager) resetLocked() {
	m.session = nil
	m.pending = nil
	m.pendingN = 0
	m.state = StateNoSession
	m.completed = make(map[setKey]models.CompletedSet)
	m.rest.Stop()
	m.countdown.Stop()
	for id, in := range m.instances {
		for s := 0; s < in.Sets; s++ {
			m.inputs[setKey{id, s}] = defaultInput(in)
		}
	}
}

// Complete stamps the session's end time and duration and moves to
// Completed. Completed sets are kept as the historical record.
func (m *Manager) Complete(ctx context.Context, elapsedSeconds int) error {
	m.mu.Lock()
	if m.state != StateStarted {
		defer m.mu.Unlock()
		return stateErr("complete", m.state)
	}
	if m.busy {
		defer m.mu.Unlock()
		return ErrSessionBusy
	}
	m.busy = true
	sessionID := m.session.ID
	end := m.now()
	if elapsedSeconds <= 0 {
		elapsedSeconds = int(m.elapsedLocked().Seconds())
	}
	m.mu.Unlock()

	err := m.store.CompleteSession(ctx, sessionID, end, elapsedSeconds)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	m.session.EndTime = &end
	m.session.DurationSec = &elapsedSeconds
	m.state = StateCompleted
	m.rest.Stop()
	m.countdown.Stop()
	return nil
}

// ResumePending re-hydrates completion and input state from the stored
// rows of the pending session and moves to Started. The visible clock is
// reconstructed from the original start time rather than restarting at
// zero.
func (m *Manager) ResumePending(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StatePendingRecovery {
		defer m.mu.Unlock()
		return stateErr("resume pending", m.state)
	}
	if m.busy {
		defer m.mu.Unlock()
		return ErrSessionBusy
	}
	m.busy = true
	pending := m.pending
	m.mu.Unlock()

	sets, err := m.store.ListCompletedSets(ctx, pending.ID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		return fmt.Errorf("load pending sets: %w", err)
	}
	m.completed = make(map[setKey]models.CompletedSet)
	for _, set := range sets {
		key := setKey{set.InstanceID, set.SetOrder}
		m.completed[key] = set
		if input, ok := m.inputs[key]; ok {
			input.Reps = strconv.Itoa(set.Reps)
			if set.WeightKg != nil {
				input.Weight = strconv.FormatFloat(*set.WeightKg, 'f', -1, 64)
			} else {
				input.Weight = BodyweightMarker
			}
		}
	}
	m.session = pending
	m.pending = nil
	m.pendingN = 0
	m.state = StateStarted
	m.startedAt = m.now()
	m.elapsedBase = m.now().Sub(pending.StartTime)
	return nil
}

// DiscardPending cancels the pending session (sets first, then the
// session row) and returns to NoSession.
func (m *Manager) DiscardPending(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StatePendingRecovery {
		defer m.mu.Unlock()
		return stateErr("discard pending", m.state)
	}
	if m.busy {
		defer m.mu.Unlock()
		return ErrSessionBusy
	}
	m.busy = true
	sessionID := m.pending.ID
	m.mu.Unlock()

	err := m.deleteSessionRows(ctx, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		return err
	}
	m.resetLocked()
	return nil
}

// FinishPending completes the pending session as-is, with duration
// computed from its original start time.
func (m *Manager) FinishPending(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StatePendingRecovery {
		defer m.mu.Unlock()
		return stateErr("finish pending", m.state)
	}
	if m.busy {
		defer m.mu.Unlock()
		return ErrSessionBusy
	}
	m.busy = true
	pending := m.pending
	end := m.now()
	duration := int(end.Sub(pending.StartTime).Seconds())
	m.mu.Unlock()

	err := m.store.CompleteSession(ctx, pending.ID, end, duration)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		return fmt.Errorf("finish pending session: %w", err)
	}
	pending.EndTime = &end
	pending.DurationSec = &duration
	m.session = pending
	m.pending = nil
	m.pendingN = 0
	m.state = StateCompleted
	return nil
}

// RecordFeedback upserts the subjective rating for one exercise instance
// of the active session. Ratings are 1–5.
func (m *Manager) RecordFeedback(ctx context.Context, instanceID uuid.UUID, pain, pump, workload int, notes string) error {
	m.mu.Lock()
	if m.state != StateStarted {
		m.mu.Unlock()
		return stateErr("record feedback", m.state)
	}
	if _, ok := m.instances[instanceID]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown instance %s", instanceID)
	}
	sessionID := m.session.ID
	m.mu.Unlock()

	for _, rating := range []int{pain, pump, workload} {
		if rating < 1 || rating > 5 {
			return fmt.Errorf("%w, got %d", ErrInvalidRating, rating)
		}
	}

	return m.store.UpsertFeedback(ctx, models.ExerciseFeedback{
		SessionID:  sessionID,
		InstanceID: instanceID,
		Pain:       pain,
		Pump:       pump,
		Workload:   workload,
		Notes:      notes,
	})
}

// Elapsed is the session stopwatch: time since start, plus the
// reconstructed base when the session was resumed.
func (m *Manager) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elapsedLocked()
}

func (m *Manager) elapsedLocked() time.Duration {
	if m.state != StateStarted {
		return 0
	}
	return m.elapsedBase + m.now().Sub(m.startedAt)
}

// StartExerciseCountdown arms the athlete-initiated countdown slot for
// timed exercises. It replaces whatever previously occupied the slot and
// leaves an active rest timer alone.
func (m *Manager) StartExerciseCountdown(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countdown.Start(d)
}

// RestRemaining is the rest slot's remaining time.
func (m *Manager) RestRemaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rest.Remaining()
}

// CountdownRemaining is the exercise-countdown slot's remaining time.
func (m *Manager) CountdownRemaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countdown.Remaining()
}

// SkipRest clears the rest slot; a no-op if nothing is running.
func (m *Manager) SkipRest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rest.Skip()
}

// PauseCountdown / ResumeCountdown control the exercise-countdown slot.
func (m *Manager) PauseCountdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countdown.Pause()
}

func (m *Manager) ResumeCountdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countdown.Resume()
}

// Close tears the manager down on navigation away: both timer slots stop.
// Safe to call more than once. Durable state is untouched.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rest.Stop()
	m.countdown.Stop()
}
