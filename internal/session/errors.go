package session

import (
	"errors"
	"fmt"
)

// ErrSetBusy is returned when a toggle arrives for a set whose previous
// durable write has not settled yet. The UI is expected to disable the
// button while a write is in flight; this guard catches double taps that
// slip through anyway.
var ErrSetBusy = errors.New("set write already in flight")

// ErrSessionBusy is returned when a lifecycle operation (start, cancel,
// complete, pending resolution) arrives while another one's durable write
// is still outstanding.
var ErrSessionBusy = errors.New("session operation already in flight")

// ErrInvalidRating is returned for feedback ratings outside 1-5.
var ErrInvalidRating = errors.New("feedback ratings must be 1-5")

// StateError reports an operation invoked from a state it is not valid
// in. It indicates a sequencing bug in the calling surface, not a
// user-recoverable condition.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("session: %s not valid in state %q", e.Op, e.State)
}

func stateErr(op string, s State) error {
	return &StateError{Op: op, State: s}
}
