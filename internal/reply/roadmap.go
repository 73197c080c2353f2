package reply

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NormalizeRoadmap coerces the loosely-typed roadmap field into
// canonical steps. The mapping is total: absent, null or non-array
// input yields an empty sequence, non-object entries become zero
// steps, and missing scalar fields default to empty text.
func NormalizeRoadmap(raw json.RawMessage) []RoadmapStep {
	if len(raw) == 0 {
		return nil
	}

	var steps []rawStep
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil
	}
	if len(steps) == 0 {
		return nil
	}

	out := make([]RoadmapStep, 0, len(steps))
	for _, s := range steps {
		out = append(out, RoadmapStep{
			StepName:     string(s.StepName),
			Action:       string(s.Action),
			TimeEstimate: string(s.TimeEstimate),
			Resources:    normalizeResources(s.Resources),
			Exercise:     string(s.Exercise),
		})
	}
	return out
}

// rawStep tolerates whatever shape the model emitted for a step.
type rawStep struct {
	StepName     looseString     `json:"stepName"`
	Action       looseString     `json:"action"`
	TimeEstimate looseString     `json:"timeEstimate"`
	Resources    json.RawMessage `json:"resources"`
	Exercise     looseString     `json:"exercise"`
}

func (s *rawStep) UnmarshalJSON(data []byte) error {
	type plain rawStep
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		// Non-object entries normalize to a zero step.
		*s = rawStep{}
		return nil
	}
	*s = rawStep(p)
	return nil
}

// looseString decodes string, number and bool scalars as text and
// renders everything else as empty text.
type looseString string

func (l *looseString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*l = ""
		return nil
	}
	switch t := v.(type) {
	case string:
		*l = looseString(t)
	case float64:
		*l = looseString(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*l = looseString(strconv.FormatBool(t))
	default:
		*l = ""
	}
	return nil
}

// RawResource is a resource entry as the model produced it: either a
// bare string like "MDN Docs, https://developer.mozilla.org" or a
// {title, url} object. The two forms are kept distinct so the mapping
// to Resource is explicit and total.
type RawResource struct {
	form  resourceForm
	str   string
	title string
	url   string
}

type resourceForm int

const (
	objectForm resourceForm = iota
	stringForm
)

func (r *RawResource) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RawResource{form: stringForm, str: s}
		return nil
	}

	var obj struct {
		Title looseString `json:"title"`
		URL   looseString `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*r = RawResource{form: objectForm, title: string(obj.Title), url: string(obj.URL)}
		return nil
	}

	// Anything else (number, nested array, null) becomes an empty
	// object form.
	*r = RawResource{form: objectForm}
	return nil
}

// Normalize maps either form onto the canonical Resource shape.
// Object entries pass through with missing fields defaulted; string
// entries are split on the first comma that introduces a URL.
func (r RawResource) Normalize() Resource {
	if r.form == stringForm {
		return splitResourceString(r.str)
	}
	return Resource{Title: r.title, URL: r.url}
}

// splitResourceString splits "Title, https://..." at the first comma
// followed by optional whitespace and an http(s) URL. Without such a
// comma the entire string is the title and the URL is empty.
func splitResourceString(s string) Resource {
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		rest := strings.TrimLeft(s[i+1:], " \t")
		if strings.HasPrefix(rest, "http://") || strings.HasPrefix(rest, "https://") {
			return Resource{
				Title: strings.TrimSpace(s[:i]),
				URL:   strings.TrimSpace(rest),
			}
		}
	}
	return Resource{Title: s}
}

func normalizeResources(raw json.RawMessage) []Resource {
	out := []Resource{}
	if len(raw) == 0 {
		return out
	}

	var entries []RawResource
	if err := json.Unmarshal(raw, &entries); err != nil {
		return out
	}
	for _, e := range entries {
		out = append(out, e.Normalize())
	}
	return out
}
