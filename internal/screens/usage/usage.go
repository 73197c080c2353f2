// Package usage shows recorded LLM consumption and ask telemetry.
package usage

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/nav"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

type usageLoadedMsg struct {
	Purposes []store.LLMPurposeUsage
	Models   []store.LLMModelUsage
	Asks     []store.AskModeStats
	Err      error
}

// UsageScreen displays token usage, estimated cost, and ask stats.
type UsageScreen struct {
	events   store.EventRepo
	purposes []store.LLMPurposeUsage
	models   []store.LLMModelUsage
	asks     []store.AskModeStats
	loaded   bool
	errMsg   string
}

var _ nav.Screen = (*UsageScreen)(nil)
var _ nav.KeyHintProvider = (*UsageScreen)(nil)

// New creates a new UsageScreen.
func New(events store.EventRepo) *UsageScreen {
	return &UsageScreen{events: events}
}

func (s *UsageScreen) Init() tea.Cmd {
	return func() tea.Msg {
		if s.events == nil {
			return usageLoadedMsg{Err: fmt.Errorf("no event store available")}
		}
		ctx := context.Background()

		purposes, err := s.events.LLMUsageByPurpose(ctx)
		if err != nil {
			return usageLoadedMsg{Err: err}
		}
		models, err := s.events.LLMUsageByModel(ctx)
		if err != nil {
			return usageLoadedMsg{Err: err}
		}
		asks, err := s.events.AskStatsByMode(ctx)
		if err != nil {
			return usageLoadedMsg{Err: err}
		}

		return usageLoadedMsg{Purposes: purposes, Models: models, Asks: asks}
	}
}

func (s *UsageScreen) Title() string {
	return "Usage"
}

func (s *UsageScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *UsageScreen) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	if m, ok := msg.(usageLoadedMsg); ok {
		if m.Err != nil {
			s.errMsg = m.Err.Error()
		} else {
			s.purposes = m.Purposes
			s.models = m.Models
			s.asks = m.Asks
		}
		s.loaded = true
	}
	return s, nil
}

func (s *UsageScreen) View(width, height int) string {
	if s.errMsg != "" {
		return centered(width, height,
			lipgloss.NewStyle().Foreground(theme.Error).Render("Could not load usage: "+s.errMsg))
	}
	if !s.loaded {
		return centered(width, height, theme.Hint.Render("Loading..."))
	}
	if len(s.purposes) == 0 && len(s.asks) == 0 {
		return centered(width, height,
			theme.Hint.Render("Nothing recorded yet.\nAsk a question first!"))
	}

	var b strings.Builder

	if len(s.asks) > 0 {
		b.WriteString(sectionHeader("Questions by Mode"))
		b.WriteString(tableRow("Mode", "Asks", "Degraded", "Roadmaps", "Avg Ms"))
		b.WriteString(tableRule())
		for _, st := range s.asks {
			b.WriteString(tableRow(
				st.Mode,
				fmt.Sprintf("%d", st.Count),
				fmt.Sprintf("%d", st.Degraded),
				fmt.Sprintf("%d", st.WithRoadmap),
				fmt.Sprintf("%d", st.AvgLatencyMs),
			))
		}
		b.WriteString("\n")
	}

	if len(s.purposes) > 0 {
		b.WriteString(sectionHeader("LLM Calls by Surface"))
		b.WriteString(tableRow("Surface", "Calls", "Input", "Output", "Avg Ms"))
		b.WriteString(tableRule())
		for _, st := range s.purposes {
			b.WriteString(tableRow(
				st.Purpose,
				fmt.Sprintf("%d", st.Calls),
				fmt.Sprintf("%d", st.InputTokens),
				fmt.Sprintf("%d", st.OutputTokens),
				fmt.Sprintf("%d", st.AvgLatencyMs),
			))
		}
		b.WriteString("\n")
	}

	if len(s.models) > 0 {
		b.WriteString(sectionHeader("Estimated Cost"))
		b.WriteString(tableRow("Model", "Calls", "Input", "Output", "USD"))
		b.WriteString(tableRule())
		for _, mu := range s.models {
			costStr := "?"
			if cost := llm.LookupCost(mu.Model); cost != nil {
				costStr = fmt.Sprintf("$%.4f", cost.Cost(mu.InputTokens, mu.OutputTokens))
			}
			b.WriteString(tableRow(
				clip(mu.Model, 24),
				fmt.Sprintf("%d", mu.Calls),
				fmt.Sprintf("%d", mu.InputTokens),
				fmt.Sprintf("%d", mu.OutputTokens),
				costStr,
			))
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.String())
}

func sectionHeader(title string) string {
	return lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(title) + "\n"
}

func tableRow(cols ...string) string {
	widths := []int{24, 8, 10, 10, 10}
	var parts []string
	for i, c := range cols {
		w := 10
		if i < len(widths) {
			w = widths[i]
		}
		parts = append(parts, fmt.Sprintf("%-*s", w, c))
	}
	return theme.Body.Render(strings.Join(parts, "")) + "\n"
}

func tableRule() string {
	return lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.Repeat("─", 62)) + "\n"
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func centered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
