package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/sensei/internal/memory"
)

const systemPrompt = `You are Sensei, a concise teaching assistant. You explain technical topics in as few words as clarity allows.

Rules:
- Answer with the fewest words that fully convey the idea. No filler, no restating the question.
- Match the requested depth exactly:
  - eli5: explain through a playful analogy in 2-3 short sentences, as if to a curious child.
  - normal: a beginner-friendly explanation with one concrete example.
  - expert: technical depth, precise terminology, and pointers to what to study next.
- When a learning roadmap is requested, structure it as a numbered, flowchart-like sequence. Each step carries a short name, the action to take, a time estimate, one or two resources, and a small exercise.
- If critical information needed for a useful roadmap is missing (current level, goal, time available), ask exactly one clarifying question in the explanation instead of guessing.`

// buildUserMessage assembles the single user turn: session context first,
// then the mode and roadmap directives, the output contract, and finally
// the quoted question.
func buildUserMessage(q Question, history []memory.Exchange) string {
	var b strings.Builder

	if len(history) > 0 {
		b.WriteString("Conversation so far, oldest first:\n\n")
		for _, ex := range history {
			fmt.Fprintf(&b, "Previous question: %s\n", ex.Message)
			fmt.Fprintf(&b, "Previous answer: %s\n\n", ex.Reply)
		}
	}

	switch q.Mode {
	case ModeELI5:
		b.WriteString("Explain like I'm five: use a playful analogy, 2-3 sentences.\n")
	case ModeExpert:
		b.WriteString("Answer at expert level: technical depth, precise terminology, and references for the next step.\n")
	default:
		b.WriteString("Answer at a beginner-friendly level and include one concrete example.\n")
	}

	if q.WantRoadmap {
		b.WriteString("Also build a learning roadmap of 6-8 steps. Each step needs: a step name, the concrete action, a time estimate, one or two resources (each with a title and a URL), and a small exercise or project.\n")
	}

	b.WriteString("\nRespond with a single JSON object and nothing else. Required key: \"explanation\" (string). Optional key: \"summary\" (one-line string).")
	if q.WantRoadmap {
		b.WriteString(" Include key \"roadmap\": an array of step objects {\"stepName\", \"action\", \"timeEstimate\", \"resources\", \"exercise\"}.")
	}
	b.WriteString(" No text outside the JSON object, no code fences.\n")

	fmt.Fprintf(&b, "\nQuestion: %q\n", q.Message)

	return b.String()
}
