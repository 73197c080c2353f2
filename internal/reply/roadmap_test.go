package reply

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeRoadmap_FullSteps(t *testing.T) {
	raw := json.RawMessage(`[
		{"stepName": "HTML", "action": "Learn tags", "timeEstimate": "1 week",
		 "resources": [{"title": "MDN", "url": "https://developer.mozilla.org"}],
		 "exercise": "Build a page"},
		{"stepName": "CSS", "action": "Learn selectors", "timeEstimate": "2 weeks",
		 "resources": [], "exercise": "Style it"}
	]`)

	steps := NormalizeRoadmap(raw)
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	want := RoadmapStep{
		StepName:     "HTML",
		Action:       "Learn tags",
		TimeEstimate: "1 week",
		Resources:    []Resource{{Title: "MDN", URL: "https://developer.mozilla.org"}},
		Exercise:     "Build a page",
	}
	if !reflect.DeepEqual(steps[0], want) {
		t.Errorf("step[0] = %+v, want %+v", steps[0], want)
	}
	if steps[1].Resources == nil || len(steps[1].Resources) != 0 {
		t.Errorf("empty resources should stay an empty slice, got %v", steps[1].Resources)
	}
}

func TestNormalizeRoadmap_NonArray(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{"absent", nil},
		{"object", json.RawMessage(`{"stepName": "x"}`)},
		{"string", json.RawMessage(`"not a roadmap"`)},
		{"number", json.RawMessage(`7`)},
		{"null", json.RawMessage(`null`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if steps := NormalizeRoadmap(tt.raw); steps != nil {
				t.Errorf("expected nil steps, got %v", steps)
			}
		})
	}
}

func TestNormalizeRoadmap_MissingFieldsDefaultEmpty(t *testing.T) {
	steps := NormalizeRoadmap(json.RawMessage(`[{"stepName": "only name"}]`))
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	s := steps[0]
	if s.StepName != "only name" || s.Action != "" || s.TimeEstimate != "" || s.Exercise != "" {
		t.Errorf("unexpected step %+v", s)
	}
	if s.Resources == nil || len(s.Resources) != 0 {
		t.Errorf("missing resources should normalize to an empty slice, got %v", s.Resources)
	}
}

func TestNormalizeRoadmap_ScalarCoercion(t *testing.T) {
	steps := NormalizeRoadmap(json.RawMessage(`[
		{"stepName": 3, "action": true, "timeEstimate": {"weeks": 2}, "exercise": ["a"]}
	]`))
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	s := steps[0]
	if s.StepName != "3" {
		t.Errorf("numeric stepName = %q, want %q", s.StepName, "3")
	}
	if s.Action != "true" {
		t.Errorf("boolean action = %q, want %q", s.Action, "true")
	}
	if s.TimeEstimate != "" {
		t.Errorf("object timeEstimate = %q, want empty", s.TimeEstimate)
	}
	if s.Exercise != "" {
		t.Errorf("array exercise = %q, want empty", s.Exercise)
	}
}

func TestNormalizeRoadmap_NonObjectEntries(t *testing.T) {
	steps := NormalizeRoadmap(json.RawMessage(`["just a string", 42, {"stepName": "real"}]`))
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[0].StepName != "" || steps[1].StepName != "" {
		t.Errorf("non-object entries should map to empty steps, got %+v and %+v", steps[0], steps[1])
	}
	if steps[2].StepName != "real" {
		t.Errorf("step[2].StepName = %q", steps[2].StepName)
	}
}

func TestRawResource_StringWithURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Resource
	}{
		{
			name:  "title comma url",
			input: `"MDN Docs, https://developer.mozilla.org"`,
			want:  Resource{Title: "MDN Docs", URL: "https://developer.mozilla.org"},
		},
		{
			name:  "no space after comma",
			input: `"Go Tour,https://go.dev/tour"`,
			want:  Resource{Title: "Go Tour", URL: "https://go.dev/tour"},
		},
		{
			name:  "plain http",
			input: `"Example, http://example.com"`,
			want:  Resource{Title: "Example", URL: "http://example.com"},
		},
		{
			name:  "no url",
			input: `"no url here"`,
			want:  Resource{Title: "no url here", URL: ""},
		},
		{
			name:  "comma without url",
			input: `"first, second"`,
			want:  Resource{Title: "first, second", URL: ""},
		},
		{
			name:  "title itself contains a comma",
			input: `"Hands-on, practical guide, https://example.com/guide"`,
			want:  Resource{Title: "Hands-on, practical guide", URL: "https://example.com/guide"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rr RawResource
			if err := json.Unmarshal([]byte(tt.input), &rr); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := rr.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRawResource_ObjectPassthrough(t *testing.T) {
	var rr RawResource
	if err := json.Unmarshal([]byte(`{"title": "MDN", "url": "https://developer.mozilla.org"}`), &rr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := rr.Normalize()
	want := Resource{Title: "MDN", URL: "https://developer.mozilla.org"}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestRawResource_ObjectWithMissingFields(t *testing.T) {
	var rr RawResource
	if err := json.Unmarshal([]byte(`{"title": "only title"}`), &rr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := rr.Normalize()
	if got.Title != "only title" || got.URL != "" {
		t.Errorf("Normalize() = %+v", got)
	}
}

func TestRawResource_UnhandledShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"number", `42`},
		{"array", `["a", "b"]`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rr RawResource
			if err := json.Unmarshal([]byte(tt.input), &rr); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := rr.Normalize(); got != (Resource{}) {
				t.Errorf("Normalize() = %+v, want zero resource", got)
			}
		})
	}
}

func TestNormalizeRoadmap_ResourcesNonArray(t *testing.T) {
	steps := NormalizeRoadmap(json.RawMessage(`[{"stepName": "x", "resources": "MDN"}]`))
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	if steps[0].Resources == nil || len(steps[0].Resources) != 0 {
		t.Errorf("non-array resources should normalize to an empty slice, got %v", steps[0].Resources)
	}
}
