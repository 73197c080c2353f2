package memory

import (
	"sync"
	"time"
)

// Sessions is a registry of per-session windows. Context is always owned
// by a session ID and handed to the prompt composer explicitly; there is
// no process-wide shared window. Callers that want to continue a
// conversation reuse the same session ID.
type Sessions struct {
	mu       sync.Mutex
	windows  map[string]*entry
	capacity int
	now      func() time.Time
}

type entry struct {
	window   *Window
	lastSeen time.Time
}

// NewSessions creates a registry whose windows hold capacity exchanges.
func NewSessions(capacity int) *Sessions {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Sessions{
		windows:  make(map[string]*entry),
		capacity: capacity,
		now:      time.Now,
	}
}

// Window returns the window for the given session ID, creating it on
// first use. Every access refreshes the session's idle clock.
func (s *Sessions) Window(id string) *Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.windows[id]
	if !ok {
		e = &entry{window: NewWindow(s.capacity)}
		s.windows[id] = e
	}
	e.lastSeen = s.now()
	return e.window
}

// Reset removes the session's window entirely. The next access starts a
// fresh conversation.
func (s *Sessions) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, id)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// PruneIdle drops sessions that have not been touched for at least
// maxIdle and reports how many were removed.
func (s *Sessions) PruneIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	var pruned int
	for id, e := range s.windows {
		if e.lastSeen.Before(cutoff) {
			delete(s.windows, id)
			pruned++
		}
	}
	return pruned
}
