// Package cancel provides a cooperative stop switch that a blocking waiter
// can observe.
//
// A Signal is level-triggered: once Trigger has been called every future
// Wait returns immediately and IsTriggered reports true. There is no way
// to reset it; create a new Signal for the next run.
package cancel

import (
	"sync"
	"time"
)

// Signal is a one-shot cancellation token. The zero value is not usable;
// create one with New.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

// New returns an untriggered Signal.
func New() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Trigger sets the signal. It is safe to call multiple times and from
// multiple goroutines.
func (s *Signal) Trigger() {
	s.once.Do(func() { close(s.ch) })
}

// IsTriggered reports whether Trigger has been called. It never blocks.
func (s *Signal) IsTriggered() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the signal is triggered.
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}

// Wait blocks for up to d, returning early as soon as the signal is
// triggered. It reports whether the signal was triggered before d elapsed.
// A non-positive d does not block.
func (s *Signal) Wait(d time.Duration) bool {
	if d <= 0 {
		return s.IsTriggered()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-s.ch:
		return true
	case <-timer.C:
		// Both may be ready at once; a trigger always wins.
		return s.IsTriggered()
	}
}
