package prometheus

import (
	"net/http"
	"strconv"
	"time"

	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

var (
	HTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	AnalysisDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60}
	LLMDurationBuckets      = []float64{.5, 1, 2, 5, 10, 20, 30, 60}
	RiskScoreBuckets        = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// AppMetrics holds every SynthLaw metric. Its methods satisfy the observer
// interfaces of the analysis service, the generative collaborator, the
// enrichment cache, the event publisher and the HTTP middleware.
type AppMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec
	HTTPRateLimited     CounterVec

	AnalysesTotal     CounterVec
	AnalysisDuration  HistogramVec
	AnalysisRiskScore HistogramVec
	RisksDetected     CounterVec
	FallbacksTotal    CounterVec

	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec

	CacheRequestsTotal CounterVec
	EventsTotal        CounterVec

	handler http.Handler
}

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:   collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", HTTPDurationBuckets, "method", "route"),
		HTTPActiveRequests:  collector.RegisterGauge("http_active_requests", "In-flight HTTP requests"),
		HTTPRateLimited:     collector.RegisterCounter("http_rate_limited_total", "Requests rejected by the rate limiter", "route"),

		AnalysesTotal:     collector.RegisterCounter("analyses_total", "Completed contract analyses", "band"),
		AnalysisDuration:  collector.RegisterHistogram("analysis_duration_seconds", "Contract analysis duration", AnalysisDurationBuckets),
		AnalysisRiskScore: collector.RegisterHistogram("analysis_risk_score", "Distribution of risk scores", RiskScoreBuckets),
		RisksDetected:     collector.RegisterCounter("risks_detected_total", "Detected risks by clause", "clause", "severity"),
		FallbacksTotal:    collector.RegisterCounter("fallbacks_total", "Generative paths that fell back to deterministic output", "path", "reason"),

		LLMRequestsTotal:   collector.RegisterCounter("llm_requests_total", "Generative collaborator calls", "operation", "outcome"),
		LLMRequestDuration: collector.RegisterHistogram("llm_request_duration_seconds", "Generative collaborator latency", LLMDurationBuckets, "operation"),

		CacheRequestsTotal: collector.RegisterCounter("cache_requests_total", "Enrichment cache lookups", "result"),
		EventsTotal:        collector.RegisterCounter("events_total", "Published domain events", "event_type", "outcome"),

		handler: collector.Handler(),
	}
}

// NewNoopMetrics returns metrics that record nothing.
func NewNoopMetrics() *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:   noopCounterVec{},
		HTTPRequestDuration: noopHistogramVec{},
		HTTPActiveRequests:  noopGaugeVec{},
		HTTPRateLimited:     noopCounterVec{},
		AnalysesTotal:       noopCounterVec{},
		AnalysisDuration:    noopHistogramVec{},
		AnalysisRiskScore:   noopHistogramVec{},
		RisksDetected:       noopCounterVec{},
		FallbacksTotal:      noopCounterVec{},
		LLMRequestsTotal:    noopCounterVec{},
		LLMRequestDuration:  noopHistogramVec{},
		CacheRequestsTotal:  noopCounterVec{},
		EventsTotal:         noopCounterVec{},
		handler:             http.NotFoundHandler(),
	}
}

// Handler serves the exposition format.
func (m *AppMetrics) Handler() http.Handler { return m.handler }

func (m *AppMetrics) ObserveAnalysis(score int, risks []types.RiskInsight, took time.Duration) {
	m.AnalysesTotal.WithLabelValues(string(types.RiskBand(score))).Inc()
	m.AnalysisDuration.WithLabelValues().Observe(took.Seconds())
	m.AnalysisRiskScore.WithLabelValues().Observe(float64(score))
	for _, r := range risks {
		m.RisksDetected.WithLabelValues(r.ID, string(r.Severity)).Inc()
	}
}

func (m *AppMetrics) IncFallback(path, reason string) {
	m.FallbacksTotal.WithLabelValues(path, reason).Inc()
}

func (m *AppMetrics) ObserveLLMCall(operation, outcome string, took time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(operation, outcome).Inc()
	if took > 0 {
		m.LLMRequestDuration.WithLabelValues(operation).Observe(took.Seconds())
	}
}

func (m *AppMetrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}

func (m *AppMetrics) IncEvent(eventType, outcome string) {
	m.EventsTotal.WithLabelValues(eventType, outcome).Inc()
}

func (m *AppMetrics) ObserveHTTPRequest(method, route string, status int, took time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

func (m *AppMetrics) RequestStarted()  { m.HTTPActiveRequests.WithLabelValues().Inc() }
func (m *AppMetrics) RequestFinished() { m.HTTPActiveRequests.WithLabelValues().Dec() }

func (m *AppMetrics) IncRateLimited(route string) {
	m.HTTPRateLimited.WithLabelValues(route).Inc()
}
