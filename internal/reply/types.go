// Package reply turns untrusted model output into the canonical
// structured answer. Extraction is lenient, validation is strict, and
// every failure degrades to a raw-text reply instead of an error.
package reply

// Resource is a single learning resource reference.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// RoadmapStep is one step of a learning roadmap.
type RoadmapStep struct {
	StepName     string     `json:"stepName"`
	Action       string     `json:"action"`
	TimeEstimate string     `json:"timeEstimate"`
	Resources    []Resource `json:"resources"`
	Exercise     string     `json:"exercise"`
}

// BotReply is the normalized answer produced by the pipeline.
type BotReply struct {
	Summary     string        `json:"summary,omitempty"`
	Explanation string        `json:"explanation"`
	Roadmap     []RoadmapStep `json:"roadmap,omitempty"`
}

// Status tags a parse outcome.
type Status string

const (
	// StatusParsed means the reply contained a JSON object that passed
	// the contract check.
	StatusParsed Status = "parsed"

	// StatusDegraded means no conforming JSON object was found and the
	// entire raw text became the explanation.
	StatusDegraded Status = "degraded"
)

// Outcome is the result of parsing a completion. Construction never
// fails: a degraded outcome is still a usable reply.
type Outcome struct {
	Status Status
	Reply  BotReply

	// Raw is the original completion text.
	Raw string

	// Reason records why the strict pass failed. Nil unless degraded.
	Reason error
}

// Degraded reports whether the outcome fell back to raw text.
func (o Outcome) Degraded() bool {
	return o.Status == StatusDegraded
}
