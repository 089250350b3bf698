package session

import "time"

// Countdown is a single-slot advisory timer: rest-after-set and the
// athlete-initiated exercise countdown each occupy one slot on the
// manager. Starting a slot atomically replaces whatever occupied it.
// Nothing here is persisted — a restart loses timer state but never
// completion state.
type Countdown struct {
	clock    func() time.Time
	deadline time.Time
	frozen   time.Duration // remaining while paused
	paused   bool
	active   bool
}

func newCountdown(clock func() time.Time) *Countdown {
	return &Countdown{clock: clock}
}

// Start arms the slot for d, replacing any previous countdown in it.
func (c *Countdown) Start(d time.Duration) {
	c.active = d > 0
	c.paused = false
	c.deadline = c.clock().Add(d)
}

// Pause freezes the remaining time. Pausing an inactive or already
// paused slot is a no-op.
func (c *Countdown) Pause() {
	if !c.active || c.paused {
		return
	}
	c.frozen = c.remaining()
	c.paused = true
}

// Resume re-arms a paused slot from its frozen remainder.
func (c *Countdown) Resume() {
	if !c.active || !c.paused {
		return
	}
	c.deadline = c.clock().Add(c.frozen)
	c.paused = false
}

// Stop clears the slot. Stopping an already stopped slot is a no-op,
// not an error.
func (c *Countdown) Stop() {
	c.active = false
	c.paused = false
}

// Skip is Stop under the name the UI uses.
func (c *Countdown) Skip() { c.Stop() }

// Active reports whether the slot holds a countdown with time left.
func (c *Countdown) Active() bool {
	return c.active && (c.paused || c.remaining() > 0)
}

// Remaining returns the time left, zero once elapsed or stopped.
func (c *Countdown) Remaining() time.Duration {
	if !c.active {
		return 0
	}
	if c.paused {
		return c.frozen
	}
	return c.remaining()
}

func (c *Countdown) remaining() time.Duration {
	if d := c.deadline.Sub(c.clock()); d > 0 {
		return d
	}
	return 0
}
