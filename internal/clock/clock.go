// Package clock provides the time source and cancellable timers used by the
// editor's transient state (pending-delete window, save-status flicker).
//
// Production code uses Real. Tests use testutil.ManualClock, which fires
// timers only when the test advances time.
package clock

import "time"

// Clock is a source of wall time and one-shot timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the call stopped the timer
	// before it fired.
	Stop() bool
}

// Real is the system clock.
type Real struct{}

// Now returns the current local time.
func (Real) Now() time.Time { return time.Now() }

// AfterFunc schedules f on its own goroutine after d.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Slot holds at most one active timer for a single concern. Arming a slot
// cancels whatever it held before.
type Slot struct {
	timer Timer
	gen   uint64
}

// Arm cancels the previous timer (if any) and schedules f after d. The
// returned generation identifies this arming; the callback passes it to
// Release to ignore a fire that raced with a re-arm.
func (s *Slot) Arm(c Clock, d time.Duration, f func(gen uint64)) uint64 {
	s.Stop()
	s.gen++
	gen := s.gen
	s.timer = c.AfterFunc(d, func() { f(gen) })
	return gen
}

// Stop cancels the active timer and invalidates its generation.
func (s *Slot) Stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Release forgets the timer after it fired, without bumping the generation.
func (s *Slot) Release(gen uint64) bool {
	if gen != s.gen {
		return false
	}
	s.timer = nil
	return true
}
