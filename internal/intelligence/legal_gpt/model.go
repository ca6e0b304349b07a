// Package legal_gpt wraps the optional generative collaborator used to draft
// negotiation e-mails, enrich an analysis with legal citations and translate
// plain-language summaries. Every entry point degrades to a typed error the
// analysis service converts into a deterministic fallback.
package legal_gpt

import (
	"time"

	"github.com/turtacn/SynthLaw/pkg/errors"
)

// Status is the lazily-initialised state of the collaborator.
type Status string

const (
	StatusReady        Status = "ready"
	StatusUnconfigured Status = "unconfigured"
	StatusFailed       Status = "failed"
)

// GenerationConfig holds sampling settings for one kind of call.
type GenerationConfig struct {
	Model       string  `mapstructure:"model" json:"model"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
}

// Config holds configuration for the collaborator.
type Config struct {
	APIKey string `mapstructure:"api_key" json:"-"`
	// BaseURL points at any OpenAI-compatible endpoint. Empty means the
	// OpenAI default.
	BaseURL string        `mapstructure:"base_url" json:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`

	Enrichment  GenerationConfig `mapstructure:"enrichment" json:"enrichment"`
	Negotiation GenerationConfig `mapstructure:"negotiation" json:"negotiation"`
	Translation GenerationConfig `mapstructure:"translation" json:"translation"`

	// RequestsPerSecond and Burst bound outbound calls. Zero disables the limiter.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" json:"requests_per_second"`
	Burst             int     `mapstructure:"burst" json:"burst"`

	// CacheTTL is how long enrichment payloads stay cached.
	CacheTTL time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
}

// NewConfig creates a new configuration with defaults.
func NewConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
		Enrichment: GenerationConfig{
			Model:       "gemini-1.5-flash",
			Temperature: 0.3,
			MaxTokens:   4000,
		},
		Negotiation: GenerationConfig{
			Model:       "gemini-1.5-flash",
			Temperature: 0.5,
			MaxTokens:   2000,
		},
		Translation: GenerationConfig{
			Model:       "gemini-1.5-pro",
			Temperature: 0.3,
			MaxTokens:   1500,
		},
		RequestsPerSecond: 2,
		Burst:             4,
		CacheTTL:          24 * time.Hour,
	}
}

// ApplyDefaults fills zero values from NewConfig.
func (c *Config) ApplyDefaults() {
	d := NewConfig()
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	c.Enrichment.applyDefaults(d.Enrichment)
	c.Negotiation.applyDefaults(d.Negotiation)
	c.Translation.applyDefaults(d.Translation)
	if c.Burst == 0 && c.RequestsPerSecond > 0 {
		c.Burst = max(1, int(c.RequestsPerSecond))
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = d.CacheTTL
	}
}

func (g *GenerationConfig) applyDefaults(d GenerationConfig) {
	if g.Model == "" {
		g.Model = d.Model
	}
	if g.Temperature == 0 {
		g.Temperature = d.Temperature
	}
	if g.MaxTokens == 0 {
		g.MaxTokens = d.MaxTokens
	}
}

// Configured reports whether an API key is present.
func (c Config) Configured() bool { return c.APIKey != "" }

// Validate checks if the configuration is valid. A missing API key is not an
// error; the collaborator then reports StatusUnconfigured.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.New(errors.ErrCodeValidation, "legal_gpt timeout must be positive")
	}
	for name, g := range map[string]GenerationConfig{
		"enrichment":  c.Enrichment,
		"negotiation": c.Negotiation,
		"translation": c.Translation,
	} {
		if g.Model == "" {
			return errors.New(errors.ErrCodeValidation, "legal_gpt model is required").WithDetail(name)
		}
		if g.Temperature < 0 || g.Temperature > 2.0 {
			return errors.New(errors.ErrCodeValidation, "temperature must be between 0 and 2.0").WithDetail(name)
		}
		if g.MaxTokens <= 0 {
			return errors.New(errors.ErrCodeValidation, "max_tokens must be positive").WithDetail(name)
		}
	}
	if c.RequestsPerSecond < 0 || c.Burst < 0 {
		return errors.New(errors.ErrCodeValidation, "rate limit must not be negative")
	}
	return nil
}
