// Package chat is the conversational screen where questions are asked
// and answers rendered. Each visit starts a fresh conversation window;
// context carries across turns until the screen is left or cleared.
package chat

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/google/uuid"

	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/memory"
	"github.com/abhisek/sensei/internal/nav"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/tutor"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
)

const spinnerInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// entry is one exchange in the visible transcript.
type entry struct {
	question string
	answer   *tutor.Answer
	err      error
}

// ChatScreen drives one conversation with the tutor.
type ChatScreen struct {
	svc       *tutor.Service
	svcErr    error
	events    store.EventRepo
	window    *memory.Window
	sessionID string

	input   components.TextInput
	entries []entry
	mode    tutor.Mode
	roadmap bool
	waiting bool
	spinner int
}

var _ nav.Screen = (*ChatScreen)(nil)
var _ nav.KeyHintProvider = (*ChatScreen)(nil)
var _ nav.StatusProvider = (*ChatScreen)(nil)

// New creates a ChatScreen. svc may be nil when the provider is not
// configured; questions then answer with svcErr instead of calling out.
func New(svc *tutor.Service, svcErr error, events store.EventRepo) *ChatScreen {
	return &ChatScreen{
		svc:       svc,
		svcErr:    svcErr,
		events:    events,
		window:    memory.NewWindow(memory.DefaultCapacity),
		sessionID: uuid.NewString(),
		input:     components.NewTextInput("Ask anything...", 500),
		mode:      tutor.ModeNormal,
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "Chat"
}

// StatusText shows the active mode in the header.
func (s *ChatScreen) StatusText() string {
	status := string(s.mode)
	if s.roadmap {
		status += " +roadmap"
	}
	return status
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "Tab", Description: "Mode"},
		{Key: "Ctrl+R", Description: "Roadmap"},
		{Key: "Ctrl+L", Description: "Clear"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		return s.handleAnswer(msg)

	case spinnerTickMsg:
		if !s.waiting {
			return s, nil
		}
		s.spinner = (s.spinner + 1) % len(spinnerFrames)
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.waiting {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ChatScreen) handleKey(msg tea.KeyMsg) (nav.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s.submit()

	case "tab":
		s.mode = nextMode(s.mode)
		return s, nil

	case "ctrl+r":
		s.roadmap = !s.roadmap
		return s, nil

	case "ctrl+l":
		s.entries = nil
		s.window.Clear()
		return s, nil
	}

	if !s.waiting {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ChatScreen) submit() (nav.Screen, tea.Cmd) {
	if s.waiting {
		return s, nil
	}
	text := strings.TrimSpace(s.input.Value())
	if text == "" {
		return s, nil
	}

	s.input.Reset()

	if s.svc == nil {
		s.entries = append(s.entries, entry{question: text, err: s.svcErr})
		return s, nil
	}

	s.entries = append(s.entries, entry{question: text})
	s.waiting = true
	s.spinner = 0

	req := tutor.AskRequest{
		Message:     text,
		Mode:        string(s.mode),
		WantRoadmap: s.roadmap,
	}
	return s, tea.Batch(s.ask(req), spinnerTick())
}

// ask calls the tutor off the UI loop and reports back as a message.
func (s *ChatScreen) ask(req tutor.AskRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := llm.WithPurpose(context.Background(), "chat")

		start := time.Now()
		ans, err := s.svc.Ask(ctx, s.window, req)
		if err != nil {
			return answerMsg{Err: err}
		}

		s.recordAsk(ctx, req, ans, time.Since(start))
		return answerMsg{Answer: ans}
	}
}

func (s *ChatScreen) recordAsk(ctx context.Context, req tutor.AskRequest, ans *tutor.Answer, elapsed time.Duration) {
	if s.events == nil {
		return
	}
	_ = s.events.AppendAsk(ctx, store.AskEventData{
		SessionID:    s.sessionID,
		Mode:         req.Mode,
		WantRoadmap:  req.WantRoadmap,
		Degraded:     ans.Degraded,
		RoadmapSteps: len(ans.Roadmap),
		LatencyMs:    elapsed.Milliseconds(),
	})
}

func (s *ChatScreen) handleAnswer(msg answerMsg) (nav.Screen, tea.Cmd) {
	s.waiting = false

	last := len(s.entries) - 1
	if last < 0 {
		return s, nil
	}
	if msg.Err != nil {
		s.entries[last].err = msg.Err
	} else {
		s.entries[last].answer = msg.Answer
	}
	return s, nil
}

func nextMode(m tutor.Mode) tutor.Mode {
	switch m {
	case tutor.ModeELI5:
		return tutor.ModeNormal
	case tutor.ModeNormal:
		return tutor.ModeExpert
	default:
		return tutor.ModeELI5
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
