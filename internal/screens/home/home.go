// Package home is the entry screen with top-level navigation.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/nav"
	"github.com/abhisek/sensei/internal/screens/chat"
	"github.com/abhisek/sensei/internal/screens/usage"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/tutor"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/theme"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu    components.Menu
	modelID string
	svcErr  error
}

var _ nav.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. svc may be nil when the LLM provider is
// not configured; svcErr then explains what is missing.
func New(svc *tutor.Service, svcErr error, events store.EventRepo) *HomeScreen {
	items := []components.MenuItem{
		{Label: "CHAT", Action: func() tea.Cmd {
			return func() tea.Msg {
				return nav.PushScreenMsg{Screen: chat.New(svc, svcErr, events)}
			}
		}},
		{Label: "USAGE", Action: func() tea.Cmd {
			return func() tea.Msg {
				return nav.PushScreenMsg{Screen: usage.New(events)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	var modelID string
	if svc != nil {
		modelID = svc.ModelID()
	}

	return &HomeScreen{
		menu:    components.NewMenu(items),
		modelID: modelID,
		svcErr:  svcErr,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := width - 8
	if cw > 64 {
		cw = 64
	}
	if cw < 24 {
		cw = 24
	}

	var sections []string
	sections = append(sections, renderTitle(cw))
	sections = append(sections, renderStatus(h.modelID, h.svcErr, cw))
	sections = append(sections, renderMenuBox(h.menu, cw))

	content := strings.Join(sections, "\n\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func renderTitle(cw int) string {
	name := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("S E N S E I")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Padding(1, 6).
		Render(name)

	tagline := theme.Subtitle.Render("ask anything, learn anything")

	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(box + "\n" + tagline)
}

// renderStatus shows the active model, or what is missing when no
// provider is configured.
func renderStatus(modelID string, svcErr error, cw int) string {
	var line string
	if svcErr != nil {
		line = lipgloss.NewStyle().Foreground(theme.Error).Render(svcErr.Error())
	} else if modelID != "" {
		line = theme.Hint.Render("model: " + modelID)
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(line)
}

func renderMenuBox(menu components.Menu, cw int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 4).
		Render(menu.View())

	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(box)
}
