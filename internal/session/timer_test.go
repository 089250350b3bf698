package session

import (
	"testing"
	"time"
)

// TestCountdownDrains verifies the slot counts down against the clock
// and reads zero once elapsed.
func TestCountdownDrains(t *testing.T) {
	clock := newFakeClock()
	c := newCountdown(clock.Now)

	c.Start(90 * time.Second)
	if got := c.Remaining(); got != 90*time.Second {
		t.Errorf("remaining = %v, want 90s", got)
	}
	clock.Advance(time.Minute)
	if got := c.Remaining(); got != 30*time.Second {
		t.Errorf("remaining = %v, want 30s", got)
	}
	clock.Advance(time.Minute)
	if got := c.Remaining(); got != 0 {
		t.Errorf("remaining = %v, want 0 after deadline", got)
	}
	if c.Active() {
		t.Error("slot still active after deadline")
	}
}

// TestCountdownReplace verifies starting the slot again replaces the
// previous countdown rather than stacking.
func TestCountdownReplace(t *testing.T) {
	clock := newFakeClock()
	c := newCountdown(clock.Now)

	c.Start(90 * time.Second)
	clock.Advance(10 * time.Second)
	c.Start(30 * time.Second)
	if got := c.Remaining(); got != 30*time.Second {
		t.Errorf("remaining = %v, want replaced 30s", got)
	}
}

// TestCountdownStopIdempotent verifies stop (and skip) on an already
// stopped slot is a no-op, not an error.
func TestCountdownStopIdempotent(t *testing.T) {
	clock := newFakeClock()
	c := newCountdown(clock.Now)

	c.Stop()
	c.Skip()
	c.Start(time.Minute)
	c.Stop()
	c.Stop()
	if got := c.Remaining(); got != 0 {
		t.Errorf("remaining = %v after stop, want 0", got)
	}
}

// TestCountdownPauseResume verifies pausing freezes the remainder and
// resuming re-arms from it.
func TestCountdownPauseResume(t *testing.T) {
	clock := newFakeClock()
	c := newCountdown(clock.Now)

	c.Start(time.Minute)
	clock.Advance(20 * time.Second)
	c.Pause()
	clock.Advance(time.Hour)
	if got := c.Remaining(); got != 40*time.Second {
		t.Errorf("remaining = %v while paused, want frozen 40s", got)
	}

	c.Resume()
	clock.Advance(15 * time.Second)
	if got := c.Remaining(); got != 25*time.Second {
		t.Errorf("remaining = %v after resume, want 25s", got)
	}

	// Pause twice, resume twice: second calls are no-ops.
	c.Pause()
	c.Pause()
	c.Resume()
	c.Resume()
	if got := c.Remaining(); got != 25*time.Second {
		t.Errorf("remaining = %v, want 25s", got)
	}
}
