package tutor

import (
	"context"
	"fmt"

	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/memory"
	"github.com/abhisek/sensei/internal/reply"
)

// Service answers questions through the configured LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates an ask service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Ask runs the pipeline for one question: validate, compose with the
// window's recent exchanges as context, call the model, parse and
// normalize the reply. The exchange is appended to the window after the
// call completes, degraded parses included, so follow-up questions see
// the raw reply text. Callers tag the context with llm.WithPurpose.
func (s *Service) Ask(ctx context.Context, window *memory.Window, raw AskRequest) (*Answer, error) {
	q, err := Validate(raw)
	if err != nil {
		return nil, err
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(q, window.Recent())},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		TopP:        s.cfg.TopP,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ask generation: %w", err)
	}

	// A successful call with no usable text degrades like any other
	// unparseable reply.
	rawText := string(resp.Content)

	outcome := reply.Parse(rawText)

	window.Append(memory.Exchange{Message: q.Message, Reply: rawText})

	model := s.provider.ModelID()
	if resp.Model != "" {
		model = resp.Model
	}

	ans := &Answer{
		Explanation: outcome.Reply.Explanation,
		Summary:     outcome.Reply.Summary,
		Degraded:    outcome.Degraded(),
		Model:       model,
	}
	if q.WantRoadmap {
		ans.Roadmap = outcome.Reply.Roadmap
	}
	return ans, nil
}

// ModelID reports the provider's configured model.
func (s *Service) ModelID() string {
	return s.provider.ModelID()
}
