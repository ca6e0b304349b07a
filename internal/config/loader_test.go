package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  host: "127.0.0.1"
  port: 8088
  max_upload_bytes: 2097152
log:
  level: debug
  format: console
analysis:
  catalog:
    thresholds:
      payment_high_days: 90
      payment_medium_days: 30
legal_gpt:
  api_key: "file-key"
  timeout: 10s
redis:
  enabled: true
  addr: "redis:6379"
kafka:
  enabled: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
archive:
  enabled: true
  endpoint: "minio:9000"
  retention_days: 30
rate_limit:
  requests_per_second: 2
  burst: 4
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// clearFallbackEnv keeps the host environment out of the assertions.
func clearFallbackEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GENKIT_PORT", "")
	t.Setenv("SYNTHLAW_SERVER_PORT", "")
}

func TestLoad_ValidFile(t *testing.T) {
	clearFallbackEnv(t)
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8088", cfg.Server.Addr())
	assert.Equal(t, int64(2<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 90, cfg.Analysis.Catalog.Thresholds.PaymentHighDays)
	assert.Equal(t, 30, cfg.Analysis.Catalog.Thresholds.PaymentMediumDays)
	assert.Equal(t, "file-key", cfg.LegalGPT.APIKey)
	assert.Equal(t, 10*time.Second, cfg.LegalGPT.Timeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30, cfg.Archive.RetentionDays)
	assert.Equal(t, "synthlaw-reports", cfg.Archive.Bucket)
	assert.Equal(t, 2.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 4, cfg.RateLimit.Burst)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearFallbackEnv(t)
	t.Setenv("SYNTHLAW_SERVER_PORT", "9191")
	t.Setenv("SYNTHLAW_REDIS_ADDR", "cache:6380")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearFallbackEnv(t)
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"bad log level", "log:\n  level: loud\n", "log.level"},
		{"inverted thresholds", "analysis:\n  catalog:\n    thresholds:\n      payment_high_days: 10\n      payment_medium_days: 20\n", "analysis.catalog"},
		{"kafka retries", "kafka:\n  enabled: true\n  max_retries: -1\n", "kafka"},
		{"archive retention", "archive:\n  enabled: true\n  retention_days: -1\n", "archive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(createTempConfigFile(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearFallbackEnv(t)
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Archive.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)
	assert.Empty(t, cfg.LegalGPT.APIKey)
}

func TestLoadFromEnv_APIKeyFallback(t *testing.T) {
	clearFallbackEnv(t)
	t.Setenv("OPENAI_API_KEY", "openai")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LegalGPT.APIKey)

	t.Setenv("GOOGLE_API_KEY", "google")
	cfg, err = LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "google", cfg.LegalGPT.APIKey)

	t.Setenv("SYNTHLAW_LEGAL_GPT_API_KEY", "explicit")
	cfg, err = LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LegalGPT.APIKey)
}

func TestLoad_LegacyPort(t *testing.T) {
	clearFallbackEnv(t)
	t.Setenv("GENKIT_PORT", "4100")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4100, cfg.Server.Port)

	// The config file wins over the legacy variable.
	cfg, err = Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.Server.Port)

	t.Setenv("GENKIT_PORT", "http")
	_, err = LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SYNTHLAW_DOTENV_PROBE"
	t.Cleanup(func() { os.Unsetenv(key) })

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))

	t.Setenv(key, "from-env")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv(key))
}

func TestWatch_Reload(t *testing.T) {
	clearFallbackEnv(t)
	path := createTempConfigFile(t, validConfigYAML)

	changed := make(chan *Config, 4)
	require.NoError(t, Watch(path, func(c *Config) { changed <- c }, nil))

	updated := validConfigYAML + "\nmetrics:\n  namespace: reloaded\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	select {
	case cfg := <-changed:
		assert.Equal(t, "reloaded", cfg.Metrics.Namespace)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}
