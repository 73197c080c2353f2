package tutor

// Config holds answer generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// DefaultConfig returns sensible defaults for answer generation.
// Temperature and TopP sit in the creative-but-controlled range so eli5
// analogies stay varied without the JSON contract drifting.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1500,
		Temperature: 0.7,
		TopP:        0.9,
	}
}
