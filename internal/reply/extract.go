package reply

import "strings"

// extractJSON returns the most plausible JSON object embedded in a
// completion: code fences stripped, then the span from the first '{'
// through the last '}'. This is a permissive heuristic, not a brace
// matcher; the strict pass decides whether the span actually parses.
// Returns "" when no object-shaped span exists.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	content = stripFences(content)

	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(content, "}")
	if end <= start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}

// stripFences removes a surrounding Markdown code fence, including a
// language tag on the opening fence ("```json").
func stripFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}

	if idx := strings.Index(content, "\n"); idx != -1 {
		content = content[idx+1:]
	} else {
		content = strings.TrimPrefix(content, "```")
	}

	if idx := strings.LastIndex(content, "```"); idx != -1 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}
