package hub

import (
	"sync"
	"time"
)

// scheduler owns the deferred AI-move timers, one slot per game.
// Scheduling replaces any pending timer for the same game, and Cancel
// deterministically drops a pending move so it can never fire against a
// finished or torn-down game.
type scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[string]*time.Timer)}
}

// Schedule runs fn after delay, replacing any timer already pending for
// the game.
func (s *scheduler) Schedule(gameID string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[gameID]; ok {
		t.Stop()
	}

	s.timers[gameID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, gameID)
		s.mu.Unlock()
		fn()
	})
}

// Cancel stops the pending timer for the game, if any.
func (s *scheduler) Cancel(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[gameID]; ok {
		t.Stop()
		delete(s.timers, gameID)
	}
}

// Pending reports whether a timer is scheduled for the game.
func (s *scheduler) Pending(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[gameID]
	return ok
}
