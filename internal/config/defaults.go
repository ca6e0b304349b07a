package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/turtacn/SynthLaw/internal/application/analysis"
	"github.com/turtacn/SynthLaw/internal/intelligence/legal_gpt"
)

const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 4000

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "synthlaw"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults fills every zero-value field with its default. Values set by
// the caller always win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Server
	if s.Host == "" {
		s.Host = DefaultServerHost
	}
	if s.Port == 0 {
		s.Port = DefaultServerPort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 120 * time.Second
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 15 * time.Second
	}
	if s.MaxUploadBytes == 0 {
		s.MaxUploadBytes = 10 << 20
	}
	if s.SlowThreshold == 0 {
		s.SlowThreshold = 5 * time.Second
	}
	if len(s.CORSOrigins) == 0 {
		s.CORSOrigins = []string{"*"}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.Service == "" {
		cfg.Log.Service = "synthlaw"
	}

	a := &cfg.Analysis
	d := analysis.DefaultConfig()
	if a.MaxTextBytes == 0 {
		a.MaxTextBytes = d.MaxTextBytes
	}
	if a.EnrichmentExcerpt == 0 {
		a.EnrichmentExcerpt = d.EnrichmentExcerpt
	}
	if a.MaxEmailRisks == 0 {
		a.MaxEmailRisks = d.MaxEmailRisks
	}
	a.Catalog = a.Catalog.WithDefaults()

	cfg.LegalGPT.ApplyDefaults()
	cfg.Redis.ApplyDefaults()
	cfg.Kafka.ApplyDefaults()
	cfg.Archive.ApplyDefaults()

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 5
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
}

// registerDefaults seeds viper with every key so that SYNTHLAW_* variables
// bind even when no config file mentions the key.
func registerDefaults(v *viper.Viper) {
	gpt := legal_gpt.NewConfig()
	an := analysis.DefaultConfig()
	defaults := map[string]interface{}{
		"server.host":             DefaultServerHost,
		"server.port":             DefaultServerPort,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "120s",
		"server.shutdown_timeout": "15s",
		"server.max_upload_bytes": 10 << 20,
		"server.slow_threshold":   "5s",
		"server.cors_origins":     []string{"*"},

		"log.level":  DefaultLogLevel,
		"log.format": DefaultLogFormat,

		"analysis.max_text_bytes":     an.MaxTextBytes,
		"analysis.enrichment_excerpt": an.EnrichmentExcerpt,
		"analysis.max_email_risks":    an.MaxEmailRisks,

		"analysis.catalog.thresholds.payment_high_days":    an.Catalog.Thresholds.PaymentHighDays,
		"analysis.catalog.thresholds.payment_medium_days":  an.Catalog.Thresholds.PaymentMediumDays,
		"analysis.catalog.thresholds.termination_gap_days": an.Catalog.Thresholds.TerminationGapDays,

		"legal_gpt.api_key":             "",
		"legal_gpt.base_url":            "",
		"legal_gpt.timeout":             gpt.Timeout.String(),
		"legal_gpt.requests_per_second": gpt.RequestsPerSecond,
		"legal_gpt.burst":               gpt.Burst,
		"legal_gpt.cache_ttl":           gpt.CacheTTL.String(),
		"legal_gpt.enrichment.model":    gpt.Enrichment.Model,
		"legal_gpt.negotiation.model":   gpt.Negotiation.Model,
		"legal_gpt.translation.model":   gpt.Translation.Model,

		"redis.enabled":  false,
		"redis.addr":     "localhost:6379",
		"redis.password": "",
		"redis.db":       0,

		"kafka.enabled": false,
		"kafka.brokers": []string{"localhost:9092"},
		"kafka.topic":   "",

		"archive.enabled":           false,
		"archive.endpoint":          "localhost:9000",
		"archive.access_key_id":     "",
		"archive.secret_access_key": "",
		"archive.use_ssl":           false,
		"archive.bucket":            "",
		"archive.retention_days":    0,

		"metrics.enabled":   true,
		"metrics.namespace": DefaultMetricsNamespace,
		"metrics.path":      DefaultMetricsPath,

		"rate_limit.enabled":             true,
		"rate_limit.requests_per_second": 5,
		"rate_limit.burst":               10,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}
