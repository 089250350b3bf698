package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type regKey struct {
	Workout uuid.UUID
	Athlete uuid.UUID
}

// Registry holds at most one live Manager per (workout, athlete) pair —
// the session-screen lifetime. Loading a pair again replaces and tears
// down the previous manager.
type Registry struct {
	store  Store
	source WorkoutSource
	log    *slog.Logger
	opts   []Option

	mu       sync.Mutex
	managers map[regKey]*Manager
}

// NewRegistry creates an empty registry over the given collaborators.
// The options are applied to every manager it loads.
func NewRegistry(store Store, source WorkoutSource, log *slog.Logger, opts ...Option) *Registry {
	return &Registry{
		store:    store,
		source:   source,
		log:      log,
		opts:     opts,
		managers: make(map[regKey]*Manager),
	}
}

// Load builds a fresh manager for the pair (the screen-entry moment),
// closing any previous one.
func (r *Registry) Load(ctx context.Context, workoutID, athleteID uuid.UUID, opts ...Option) (*Manager, error) {
	m, err := LoadWorkout(ctx, r.store, r.source, workoutID, athleteID, r.log, append(r.opts, opts...)...)
	if err != nil {
		return nil, err
	}

	key := regKey{workoutID, athleteID}
	r.mu.Lock()
	if prev, ok := r.managers[key]; ok {
		prev.Close()
	}
	r.managers[key] = m
	r.mu.Unlock()
	return m, nil
}

// Get returns the live manager for the pair, if one was loaded.
func (r *Registry) Get(workoutID, athleteID uuid.UUID) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[regKey{workoutID, athleteID}]
	return m, ok
}

// Release tears down and forgets the pair's manager (navigation away).
func (r *Registry) Release(workoutID, athleteID uuid.UUID) {
	key := regKey{workoutID, athleteID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.managers[key]; ok {
		m.Close()
		delete(r.managers, key)
	}
}
