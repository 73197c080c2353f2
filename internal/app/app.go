// Package app assembles the terminal UI.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/nav"
	"github.com/abhisek/sensei/internal/screens/home"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/tutor"
	"github.com/abhisek/sensei/internal/ui/layout"
)

// Options carries the services the UI runs on.
type Options struct {
	// Tutor answers questions. Nil when the LLM provider is not
	// configured; TutorErr then explains what is missing and the UI
	// stays usable for everything that does not need the model.
	Tutor    *tutor.Service
	TutorErr error

	// EventRepo feeds the usage screen and ask telemetry.
	EventRepo store.EventRepo
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *nav.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Tutor, opts.TutorErr, opts.EventRepo)
	return AppModel{
		router: nav.New(homeScreen),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return nav.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	status := ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(nav.StatusProvider); ok {
			status = sp.StatusText()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(nav.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if len(footerHints) == 0 {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
