// Package tutor runs the ask pipeline: validate the request, compose the
// prompt with session context, call the model, and normalize the answer.
package tutor

import (
	"github.com/abhisek/sensei/internal/reply"
)

// Mode selects the explanation depth.
type Mode string

const (
	ModeELI5   Mode = "eli5"
	ModeNormal Mode = "normal"
	ModeExpert Mode = "expert"
)

// ParseMode maps a raw mode string to a Mode. Returns false for anything
// outside the closed set.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeELI5, ModeNormal, ModeExpert:
		return Mode(s), true
	}
	return "", false
}

// AskRequest is the raw inbound ask payload before validation.
type AskRequest struct {
	Message     string `json:"message"`
	Mode        string `json:"mode"`
	WantRoadmap bool   `json:"wantRoadmap"`
}

// Question is a validated ask request. Message is trimmed and non-empty,
// Mode is inside the closed set.
type Question struct {
	Message     string
	Mode        Mode
	WantRoadmap bool
}

// Answer is the normalized pipeline result.
type Answer struct {
	Explanation string
	Summary     string
	Roadmap     []reply.RoadmapStep
	Degraded    bool
	Model       string
}
