// Package gameclock implements the chess-style time budget the agent
// driver is bound by: a total time bank, a per-move increment, and a
// per-move delay that is free time not deducted from the bank.
package gameclock

import "time"

// state is the clock's internal lifecycle: Arm moves it to Running and
// Stop moves it back to Stopped.
type state uint8

const (
	stateStopped state = iota
	stateArmed
	stateRunning
)

// Clock is a single chess-style game clock. The zero value is a clock
// with no time at all (TotalTime, Increment and Delay all zero), which is
// valid: it permits zero search iterations, never an error.
type Clock struct {
	TotalTime time.Duration
	Increment time.Duration
	Delay     time.Duration

	state   state
	armedAt time.Time
	now     func() time.Time // overridable for tests; defaults to time.Now
}

// New returns a Clock configured from cfg, not yet armed.
func New(cfg Config) *Clock {
	return &Clock{
		TotalTime: cfg.TotalTime,
		Increment: cfg.Increment,
		Delay:     cfg.Delay,
		now:       time.Now,
	}
}

// Arm records the wall-clock start of a move and transitions to Running.
func (c *Clock) Arm() {
	if c.now == nil {
		c.now = time.Now
	}
	c.armedAt = c.now()
	c.state = stateRunning
}

// IsExpired reports whether the accumulated elapsed time since the last
// Arm exceeds TotalTime + Delay. A clock that was never armed, or that has
// already been stopped, is never considered expired by this check alone;
// callers only consult it between Arm and Stop.
func (c *Clock) IsExpired() bool {
	if c.state != stateRunning {
		return false
	}
	elapsed := c.now().Sub(c.armedAt)
	return elapsed > c.TotalTime+c.Delay
}

// Stop ends the current move. If the elapsed time was within Delay, no
// time is deducted from TotalTime. Otherwise TotalTime is reduced by
// (elapsed - Delay) and then Increment is credited back. TotalTime never
// goes negative; a move that overruns its budget simply zeroes the bank
// rather than going into debt.
func (c *Clock) Stop() {
	elapsed := c.now().Sub(c.armedAt)
	if elapsed > c.Delay {
		spent := elapsed - c.Delay
		if spent > c.TotalTime {
			c.TotalTime = 0
		} else {
			c.TotalTime -= spent
		}
	}
	c.TotalTime += c.Increment
	c.state = stateStopped
}

// Remaining returns the time left in the bank, not counting the delay.
func (c *Clock) Remaining() time.Duration {
	return c.TotalTime
}
