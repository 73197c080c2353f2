package httpapi

import (
	"os"
	"strings"
	"time"
)

// Config holds HTTP server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Debug enables gin debug mode and verbose logging.
	Debug bool

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string

	// SessionTTL is how long an idle session window survives before the
	// janitor prunes it. Zero disables pruning.
	SessionTTL time.Duration
}

// DefaultConfig returns sensible defaults for local use.
func DefaultConfig() Config {
	return Config{
		Addr: ":8080",
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		SessionTTL: 30 * time.Minute,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if a := os.Getenv("SENSEI_ADDR"); a != "" {
		cfg.Addr = a
	}
	if d := os.Getenv("SENSEI_DEBUG"); d == "1" || d == "true" {
		cfg.Debug = true
	}
	if o := os.Getenv("SENSEI_CORS_ORIGINS"); o != "" {
		var origins []string
		for _, part := range strings.Split(o, ",") {
			if p := strings.TrimSpace(part); p != "" {
				origins = append(origins, p)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}
	if t := os.Getenv("SENSEI_SESSION_TTL"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.SessionTTL = d
		}
	}

	return cfg
}
