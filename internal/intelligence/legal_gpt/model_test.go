package legal_gpt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SynthLaw/pkg/errors"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, float32(0.3), cfg.Enrichment.Temperature)
	assert.Equal(t, 4000, cfg.Enrichment.MaxTokens)
	assert.Equal(t, float32(0.5), cfg.Negotiation.Temperature)
	assert.Equal(t, 2000, cfg.Negotiation.MaxTokens)
	assert.Equal(t, 1500, cfg.Translation.MaxTokens)
	assert.False(t, cfg.Configured())
	require.NoError(t, cfg.Validate())
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{
		APIKey:            "k",
		Negotiation:       GenerationConfig{Model: "custom"},
		RequestsPerSecond: 5,
	}
	cfg.ApplyDefaults()

	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "custom", cfg.Negotiation.Model)
	assert.Equal(t, 2000, cfg.Negotiation.MaxTokens)
	assert.Equal(t, "gemini-1.5-flash", cfg.Enrichment.Model)
	assert.Equal(t, 5, cfg.Burst)
	assert.True(t, cfg.Configured())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"missing model", func(c *Config) { c.Translation.Model = "" }},
		{"temperature too high", func(c *Config) { c.Enrichment.Temperature = 2.5 }},
		{"zero tokens", func(c *Config) { c.Negotiation.MaxTokens = 0 }},
		{"negative rate", func(c *Config) { c.RequestsPerSecond = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
		})
	}
}
