package memory

import "sync"

// DefaultCapacity is the number of exchanges a window retains.
const DefaultCapacity = 5

// Exchange is one completed turn: the user's message paired with the raw
// model reply as returned by the provider, before any parsing.
type Exchange struct {
	Message string
	Reply   string
}

// Window is a bounded FIFO of recent exchanges. It gives the model
// short-term context for follow-up questions. Appending beyond capacity
// evicts the oldest entries synchronously, so the window never grows
// past its capacity.
type Window struct {
	mu       sync.Mutex
	entries  []Exchange
	capacity int
}

// NewWindow creates a Window with the given capacity.
// Capacity values below 1 fall back to DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Window{capacity: capacity}
}

// Append adds an exchange to the tail, evicting from the head until the
// window is back at capacity.
func (w *Window) Append(e Exchange) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.entries = append(w.entries, e)
	for len(w.entries) > w.capacity {
		w.entries = w.entries[1:]
	}
}

// Recent returns a copy of the current exchanges, oldest first.
func (w *Window) Recent() []Exchange {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Exchange, len(w.entries))
	copy(out, w.entries)
	return out
}

// Len returns the number of exchanges currently held.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Clear drops all exchanges.
func (w *Window) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = nil
}
