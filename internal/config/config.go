package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all client configuration.
type Config struct {
	// APIBaseURL is the ComplyX backend base URL, e.g. "https://api.complyx.io".
	APIBaseURL string

	// Timeout is the maximum duration for a single API request. Default: 30s.
	Timeout time.Duration

	// AutoSaveInterval is how often an active assessment is persisted to the
	// backend. Default: 30s.
	AutoSaveInterval time.Duration

	RAG RAGConfig
}

// RAGConfig tunes retrieval-augmented chat completion requests.
type RAGConfig struct {
	// Enabled toggles RAG context retrieval on /api/chat.
	Enabled bool

	// TopK is the number of retrieved passages sent with a chat request.
	TopK int

	// MinScore is the minimum similarity score for retrieved passages.
	MinScore float64
}

// Default returns a Config with sensible defaults. The API base URL has no
// default; it must come from the environment or a flag.
func Default() Config {
	return Config{
		Timeout:          30 * time.Second,
		AutoSaveInterval: 30 * time.Second,
		RAG: RAGConfig{
			Enabled:  true,
			TopK:     5,
			MinScore: 0.35,
		},
	}
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() Config {
	cfg := Default()

	if u := os.Getenv("COMPLYX_API_URL"); u != "" {
		cfg.APIBaseURL = u
	}
	if t := os.Getenv("COMPLYX_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}
	if t := os.Getenv("COMPLYX_AUTOSAVE_INTERVAL"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.AutoSaveInterval = d
		}
	}
	if v := os.Getenv("COMPLYX_RAG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RAG.Enabled = b
		}
	}
	if v := os.Getenv("COMPLYX_RAG_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RAG.TopK = n
		}
	}
	if v := os.Getenv("COMPLYX_RAG_MIN_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RAG.MinScore = f
		}
	}

	return cfg
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("COMPLYX_API_URL is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.APIBaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.AutoSaveInterval <= 0 {
		return fmt.Errorf("auto-save interval must be positive")
	}
	return nil
}
