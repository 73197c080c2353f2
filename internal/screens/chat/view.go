package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/tutor"
	"github.com/abhisek/sensei/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	inputView := s.renderInput(width)

	inputHeight := lipgloss.Height(inputView)
	transcriptHeight := height - inputHeight - 1
	if transcriptHeight < 0 {
		transcriptHeight = 0
	}

	transcript := s.renderTranscript(width, transcriptHeight)

	return transcript + "\n" + inputView
}

// renderTranscript renders the conversation, keeping the most recent
// lines when the history outgrows the viewport.
func (s *ChatScreen) renderTranscript(width, height int) string {
	tw := width - 4
	if tw < 20 {
		tw = 20
	}

	if len(s.entries) == 0 {
		return s.renderGreeting(width, height)
	}

	var b strings.Builder
	for i, e := range s.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderEntry(e, tw))
	}
	if s.waiting {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(
			fmt.Sprintf("  %s thinking...", spinnerFrames[s.spinner])))
	}

	lines := strings.Split(b.String(), "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}

func (s *ChatScreen) renderGreeting(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Render("What would you like to learn today?"))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Tab cycles the depth: eli5 for playful analogies,\nnormal for clear explanations, expert for full technical depth.\nCtrl+R asks for a learning roadmap with your next answer."))

	if s.svcErr != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.svcErr.Error()))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.String())
}

func renderEntry(e entry, width int) string {
	var b strings.Builder

	youLabel := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  You")
	b.WriteString(youLabel)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(2).Foreground(theme.Text).Render(e.question))
	b.WriteString("\n")

	switch {
	case e.err != nil:
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Foreground(theme.Error).Render("error: " + e.err.Error()))
		b.WriteString("\n")

	case e.answer != nil:
		b.WriteString("\n")
		senseiLabel := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  Sensei")
		b.WriteString(senseiLabel)
		b.WriteString("\n")

		if e.answer.Summary != "" {
			b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(2).Foreground(theme.Accent).Italic(true).Render(e.answer.Summary))
			b.WriteString("\n")
		}
		b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(2).Foreground(theme.Text).Render(e.answer.Explanation))
		b.WriteString("\n")

		if len(e.answer.Roadmap) > 0 {
			b.WriteString(renderRoadmap(e.answer, width))
		}
	}

	return b.String()
}

func renderRoadmap(ans *tutor.Answer, width int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Foreground(theme.Accent).Bold(true).Render("Roadmap"))
	b.WriteString("\n")

	for i, step := range ans.Roadmap {
		head := fmt.Sprintf("%d. %s", i+1, step.StepName)
		if step.TimeEstimate != "" {
			head += theme.Hint.Render("  (" + step.TimeEstimate + ")")
		}
		b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(2).Foreground(theme.Text).Bold(true).Render(head))
		b.WriteString("\n")

		if step.Action != "" {
			b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(5).Foreground(theme.Text).Render(step.Action))
			b.WriteString("\n")
		}
		for _, res := range step.Resources {
			line := "• " + res.Title
			if res.URL != "" {
				line += "  " + res.URL
			}
			b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(5).Foreground(theme.TextDim).Render(line))
			b.WriteString("\n")
		}
		if step.Exercise != "" {
			b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(5).Foreground(theme.Secondary).Render("Try: " + step.Exercise))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (s *ChatScreen) renderInput(width int) string {
	iw := width - 6
	if iw < 20 {
		iw = 20
	}

	var inner string
	if s.waiting {
		inner = theme.Hint.Render(fmt.Sprintf("%s waiting for Sensei...", spinnerFrames[s.spinner]))
	} else {
		inner = s.input.View()
	}

	return lipgloss.NewStyle().
		Width(iw).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}
