package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SynthLaw/internal/application/analysis"
	"github.com/turtacn/SynthLaw/internal/config"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/SynthLaw/internal/interfaces/http"
	"github.com/turtacn/SynthLaw/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	for _, k := range []string{"GOOGLE_API_KEY", "OPENAI_API_KEY", "GENKIT_PORT", "SYNTHLAW_LEGAL_GPT_API_KEY"} {
		t.Setenv(k, "")
	}
	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	return cfg
}

func TestNewMetrics(t *testing.T) {
	m, h, err := newMetrics(prometheus.CollectorConfig{}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Nil(t, h)

	m, h, err = newMetrics(prometheus.CollectorConfig{Enabled: true, Namespace: "synthlaw"}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.NotNil(t, h)

	_, _, err = newMetrics(prometheus.CollectorConfig{Enabled: true}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestBuildComponents_DefaultsNeedNoBackends(t *testing.T) {
	cfg := testConfig(t)
	comp, err := buildComponents(context.Background(), cfg, logging.NewNopLogger(), prometheus.NewNoopMetrics())
	require.NoError(t, err)
	defer comp.Close(logging.NewNopLogger())

	assert.Empty(t, comp.checkers)
	assert.Empty(t, comp.closers)
	res, err := comp.service.Analyze(context.Background(), analysis.SampleContract, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, res.RiskScore)
}

func TestBuildComponents_UnconfiguredWarnsOnce(t *testing.T) {
	cfg := testConfig(t)
	logger := testutil.NewMockLogger()
	comp, err := buildComponents(context.Background(), cfg, logger, prometheus.NewNoopMetrics())
	require.NoError(t, err)
	defer comp.Close(logging.NewNopLogger())

	for i := 0; i < 2; i++ {
		_, err = comp.service.Analyze(context.Background(), analysis.SampleContract, nil)
		require.NoError(t, err)
	}

	warnings := 0
	for _, m := range logger.GetMessages() {
		if m.Level == "warn" && m.Message == "no API key configured, AI features use fallback mode" {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestComponents_CloseReverseOrder(t *testing.T) {
	var order []string
	comp := &components{}
	comp.onClose("a", func() error { order = append(order, "a"); return nil })
	comp.onClose("b", func() error { order = append(order, "b"); return assert.AnError })
	comp.Close(logging.NewNopLogger())
	assert.Equal(t, []string{"b", "a"}, order)
}

func TestRouterConfig_ServesAnalysis(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 1

	metrics, handler, err := newMetrics(prometheus.CollectorConfig{Enabled: true, Namespace: "synthlaw"}, logging.NewNopLogger())
	require.NoError(t, err)
	comp, err := buildComponents(context.Background(), cfg, logging.NewNopLogger(), metrics)
	require.NoError(t, err)

	rc := routerConfig(cfg, comp, metrics, handler, newRateLimiter(cfg.RateLimit), logging.NewNopLogger())
	require.NotNil(t, rc.RateLimit)
	router := httpserver.NewRouter(rc)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"text":"Payment within 90 days."}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}
	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusTooManyRequests, post().Code)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Synth-Law API is running")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, cfg.Metrics.Path, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_rate_limited_total")
}
