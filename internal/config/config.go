// Package config defines the SynthLaw configuration tree. Each section is the
// configuration type of the component it drives, so no I/O or parsing logic
// lives here beyond validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/SynthLaw/internal/application/analysis"
	"github.com/turtacn/SynthLaw/internal/infrastructure/database/redis"
	"github.com/turtacn/SynthLaw/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SynthLaw/internal/infrastructure/storage/minio"
	"github.com/turtacn/SynthLaw/internal/intelligence/legal_gpt"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxUploadBytes caps request bodies, including multipart uploads.
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	SlowThreshold  time.Duration `mapstructure:"slow_threshold"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RateLimitConfig bounds inbound API calls per client address.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig               `mapstructure:"server"`
	Log       logging.LogConfig          `mapstructure:"log"`
	Analysis  analysis.Config            `mapstructure:"analysis"`
	LegalGPT  legal_gpt.Config           `mapstructure:"legal_gpt"`
	Redis     redis.RedisConfig          `mapstructure:"redis"`
	Kafka     kafka.ProducerConfig       `mapstructure:"kafka"`
	Archive   minio.Config               `mapstructure:"archive"`
	Metrics   prometheus.CollectorConfig `mapstructure:"metrics"`
	RateLimit RateLimitConfig            `mapstructure:"rate_limit"`
}

// Validate performs semantic validation of a defaulted Config. Optional
// backends are only checked when enabled.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: server.max_upload_bytes must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Analysis.MaxTextBytes <= 0 || c.Analysis.EnrichmentExcerpt <= 0 {
		return fmt.Errorf("config: analysis limits must be positive")
	}
	if err := c.Analysis.Catalog.Validate(); err != nil {
		return fmt.Errorf("config: analysis.catalog: %w", err)
	}
	if err := c.LegalGPT.Validate(); err != nil {
		return fmt.Errorf("config: legal_gpt: %w", err)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled {
		if err := kafka.ValidateProducerConfig(c.Kafka); err != nil {
			return fmt.Errorf("config: kafka: %w", err)
		}
	}
	if c.Archive.Enabled {
		if err := c.Archive.Validate(); err != nil {
			return fmt.Errorf("config: archive: %w", err)
		}
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("config: rate_limit requires requests_per_second > 0 and burst >= 1")
	}
	return nil
}
