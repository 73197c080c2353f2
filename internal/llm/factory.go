package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/sensei/internal/store"
)

// NewProvider creates a Provider from configuration. The provider is
// validated first, so a missing API key surfaces as *ErrNotConfigured
// before any network call. The returned provider is wrapped with the
// event-logging middleware when eventRepo is non-nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if eventRepo == nil {
		return base, nil
	}
	return WithLogging(base, eventRepo, LoggingOptions{
		Provider:      cfg.Provider,
		CaptureBodies: cfg.CaptureBodies,
	}), nil
}

// NewProviderFromEnv builds a provider from SENSEI_* environment
// variables, falling back to discovery of the standard API key vars
// (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY)
// when no explicit provider is selected. Returns *ErrNotConfigured when
// no credential is found anywhere.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg := ConfigFromEnv()

	// An explicit provider selection must validate on its own terms.
	if os.Getenv("SENSEI_LLM_PROVIDER") != "" {
		return NewProvider(ctx, cfg, eventRepo)
	}

	if verr := cfg.Validate(); verr != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, verr
		}
		discovered.CaptureBodies = cfg.CaptureBodies
		cfg = discovered
	}
	return NewProvider(ctx, cfg, eventRepo)
}
