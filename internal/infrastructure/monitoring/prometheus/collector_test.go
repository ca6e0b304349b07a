package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SynthLaw/internal/testutil"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, testutil.NewMockLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, h http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

// metricValue returns the sample value of the line starting with series.
func metricValue(t *testing.T, output, series string) float64 {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, series+" ") {
			v, err := strconv.ParseFloat(strings.Fields(line)[1], 64)
			require.NoError(t, err)
			return v
		}
	}
	t.Fatalf("series %s not found in:\n%s", series, output)
	return 0
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, nil)
	assert.Error(t, err)
}

func TestNewMetricsCollector_ProcessMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableProcessMetrics: true, EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	out := scrapeMetrics(t, c.Handler())
	assert.Contains(t, out, "go_goroutines")
}

func TestRegisterCounter_WithLabels(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("requests_total", "requests", "method").WithLabelValues("GET").Add(5)

	out := scrapeMetrics(t, c.Handler())
	assert.Equal(t, 5.0, metricValue(t, out, `test_unit_requests_total{method="GET"}`))
}

func TestRegisterCounter_DuplicateSharesVector(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup_total", "help").WithLabelValues().Inc()
	c.RegisterCounter("dup_total", "help").WithLabelValues().Inc()

	assert.Equal(t, 2.0, metricValue(t, scrapeMetrics(t, c.Handler()), "test_unit_dup_total"))
}

func TestRegister_TypeMismatchFallsBackToNoop(t *testing.T) {
	logger := testutil.NewMockLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, logger)
	require.NoError(t, err)

	c.RegisterCounter("shared", "help")
	g := c.RegisterGauge("shared", "help")
	assert.IsType(t, noopGaugeVec{}, g)
	g.WithLabelValues().Set(3)
	assert.True(t, logger.HasMessage("warn", "metric type mismatch"))
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterGauge("inflight", "help").WithLabelValues().Set(7)
	c.RegisterHistogram("latency_seconds", "help", nil).WithLabelValues().Observe(0.2)

	out := scrapeMetrics(t, c.Handler())
	assert.Equal(t, 7.0, metricValue(t, out, "test_unit_inflight"))
	assert.Equal(t, 1.0, metricValue(t, out, "test_unit_latency_seconds_count"))
}
