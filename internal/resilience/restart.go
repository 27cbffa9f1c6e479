package resilience

import (
	"sync"
	"time"
)

// RestartScheduler schedules at most one pending restart attempt after a
// fixed backoff. The recognition stream may end or error while the user
// still wants to listen; the session schedules exactly one restart and the
// scheduler guarantees there is never more than one timer outstanding.
type RestartScheduler struct {
	backoff time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewRestartScheduler creates a scheduler with the given fixed backoff.
func NewRestartScheduler(backoff time.Duration) *RestartScheduler {
	return &RestartScheduler{backoff: backoff}
}

// Schedule arms the restart timer. It reports false, and does nothing,
// when a restart is already pending.
func (s *RestartScheduler) Schedule(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		return false
	}
	s.timer = time.AfterFunc(s.backoff, func() {
		s.mu.Lock()
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
	return true
}

// Cancel drops any pending restart. Safe to call when none is pending.
func (s *RestartScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Pending reports whether a restart is currently scheduled.
func (s *RestartScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
