package tutor

import (
	"fmt"
	"strings"
)

// ValidationError reports a rejected ask request. Raised before any
// external call is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validate checks a raw request and produces a Question. The message is
// trimmed first; an absent wantRoadmap stays false.
func Validate(raw AskRequest) (Question, error) {
	msg := strings.TrimSpace(raw.Message)
	if msg == "" {
		return Question{}, &ValidationError{Msg: "missing message"}
	}

	mode, ok := ParseMode(raw.Mode)
	if !ok {
		return Question{}, &ValidationError{
			Msg: fmt.Sprintf("invalid mode %q: must be one of %s, %s, %s", raw.Mode, ModeELI5, ModeNormal, ModeExpert),
		}
	}

	return Question{
		Message:     msg,
		Mode:        mode,
		WantRoadmap: raw.WantRoadmap,
	}, nil
}
