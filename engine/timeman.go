package engine

import "time"

// timeControl tracks the search deadline. The stop flag is cooperative:
// the search polls it every few thousand nodes and unwinds cleanly, so
// running out of time is a normal termination, not an error.
type timeControl struct {
	deadline time.Time
	stopped  bool
	// softStop blocks aborts until the first depth has completed, which
	// guarantees a legal best move even under a sub-millisecond budget.
	softStop bool
}

func (tc *timeControl) start(budget time.Duration) {
	if budget <= 0 {
		budget = time.Millisecond
	}
	tc.deadline = time.Now().Add(budget)
	tc.stopped = false
	tc.softStop = true
}

// allowStop is flipped once a full depth has been committed.
func (tc *timeControl) allowStop() { tc.softStop = false }

// check polls the clock and latches the stop flag on expiry.
func (tc *timeControl) check() bool {
	if tc.stopped {
		return true
	}
	if tc.softStop {
		return false
	}
	if time.Now().After(tc.deadline) {
		tc.stopped = true
	}
	return tc.stopped
}

// remaining reports time left until the deadline.
func (tc *timeControl) remaining() time.Duration {
	return time.Until(tc.deadline)
}

// elapsedSince is a convenience for logging.
func elapsedSince(t time.Time) time.Duration { return time.Since(t) }
