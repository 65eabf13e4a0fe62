// Package testutil holds deterministic stand-ins for the engine's time and
// session dependencies.
package testutil

import (
	"sync"
	"time"
)

// ManualTimer replaces the simulated submission delay with one that
// elapses only when Fire is called.
//
// Pass m.After to engine.WithTimer. The requested durations are recorded
// so tests can check the configured delay.
//
// Thread-safety: All methods are safe for concurrent use.
type ManualTimer struct {
	mu        sync.Mutex
	ch        chan time.Time
	requested []time.Duration
}

// NewManualTimer creates a timer with nothing pending.
func NewManualTimer() *ManualTimer {
	return &ManualTimer{ch: make(chan time.Time, 1)}
}

// After records d and returns the shared release channel.
func (m *ManualTimer) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, d)
	return m.ch
}

// Fire releases one pending wait. It reports false if a release is already
// queued and not yet consumed.
func (m *ManualTimer) Fire() bool {
	select {
	case m.ch <- time.Time{}:
		return true
	default:
		return false
	}
}

// Requested returns the durations passed to After, in call order.
func (m *ManualTimer) Requested() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.requested...)
}
