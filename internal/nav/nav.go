// Package nav manages the stack of full-screen views in the terminal UI.
package nav

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sensei/internal/ui/layout"
)

// Screen is one full-screen view in the application.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen plus a command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header and footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider lets a screen supply its own footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen put live state in the header's right slot.
type StatusProvider interface {
	StatusText() string
}

// PushScreenMsg requests pushing a new screen onto the stack.
type PushScreenMsg struct {
	Screen Screen
}

// PopScreenMsg requests popping the current screen off the stack.
type PopScreenMsg struct{}

// ReplaceScreenMsg requests swapping the current screen in place.
type ReplaceScreenMsg struct {
	Screen Screen
}

// Router manages a stack of screens.
type Router struct {
	stack []Screen
}

// New creates a Router with the given initial screen.
func New(initial Screen) *Router {
	return &Router{
		stack: []Screen{initial},
	}
}

// Push adds a screen on top of the stack and calls its Init().
func (r *Router) Push(s Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen. No-op if stack depth would become 0.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Replace swaps the top screen in place and calls its Init(). The stack
// depth is unchanged.
func (r *Router) Replace(s Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Active returns the top screen on the stack.
func (r *Router) Active() Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update forwards a message to the active screen and handles navigation messages.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}

	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
