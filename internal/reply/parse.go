package reply

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var errNoJSON = errors.New("no JSON object found in completion")

// replyContract is the schema for the core answer shape. The roadmap
// field is deliberately unconstrained: heterogeneous roadmap shapes are
// the normalizer's job, not a reason to degrade the whole reply.
func replyContract() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string"},
			"summary":     map[string]any{"type": "string"},
		},
		"required": []any{"explanation"},
	}
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledContract() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		const url = "schema://bot-reply.json"
		c := jsonschema.NewCompiler()
		if schemaErr = c.AddResource(url, replyContract()); schemaErr != nil {
			return
		}
		schema, schemaErr = c.Compile(url)
	})
	return schema, schemaErr
}

// Parse extracts and validates the structured reply embedded in raw
// completion text. It never returns an error: any failure yields a
// degraded outcome whose explanation is the entire raw text, so
// malformed model output downgrades instead of failing the request.
// Empty input degrades to an empty explanation.
func Parse(raw string) Outcome {
	candidate := extractJSON(raw)
	if candidate == "" {
		return degrade(raw, errNoJSON)
	}

	var parsed any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return degrade(raw, fmt.Errorf("invalid JSON: %w", err))
	}

	contract, err := compiledContract()
	if err != nil {
		return degrade(raw, fmt.Errorf("compile reply contract: %w", err))
	}
	if err := contract.Validate(parsed); err != nil {
		return degrade(raw, fmt.Errorf("reply contract violated: %w", err))
	}

	var carrier struct {
		Summary     string          `json:"summary"`
		Explanation string          `json:"explanation"`
		Roadmap     json.RawMessage `json:"roadmap"`
	}
	if err := json.Unmarshal([]byte(candidate), &carrier); err != nil {
		return degrade(raw, fmt.Errorf("decode reply: %w", err))
	}

	return Outcome{
		Status: StatusParsed,
		Raw:    raw,
		Reply: BotReply{
			Summary:     carrier.Summary,
			Explanation: carrier.Explanation,
			Roadmap:     NormalizeRoadmap(carrier.Roadmap),
		},
	}
}

func degrade(raw string, reason error) Outcome {
	return Outcome{
		Status: StatusDegraded,
		Raw:    raw,
		Reason: reason,
		Reply:  BotReply{Explanation: raw},
	}
}
