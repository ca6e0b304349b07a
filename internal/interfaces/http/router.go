package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/internal/interfaces/http/handlers"
	"github.com/turtacn/SynthLaw/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware of the route tree.
// Nil entries disable the corresponding routes or middleware.
type RouterConfig struct {
	AnalysisHandler *handlers.AnalysisHandler
	HealthHandler   *handlers.HealthHandler

	CORS      *middleware.CORSConfig
	Logging   *middleware.LoggingConfig
	RateLimit func(http.Handler) http.Handler
	Metrics   middleware.HTTPObserver

	// MetricsHandler is mounted at MetricsPath when set.
	MetricsHandler http.Handler
	MetricsPath    string

	Logger logging.Logger
}

// NewRouter builds the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logging != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, *cfg.Logging))
	}

	if h := cfg.HealthHandler; h != nil {
		r.Get("/healthz", h.Liveness)
		r.Get("/readyz", h.Readiness)
		r.Get("/api/health", h.APIHealth)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	limited := r.With()
	if cfg.RateLimit != nil {
		limited = r.With(cfg.RateLimit)
	}
	registerAnalysisRoutes(r, limited, cfg.AnalysisHandler)

	return r
}

// registerAnalysisRoutes mounts the contract API. Expensive endpoints go
// through the rate-limited router.
func registerAnalysisRoutes(r, limited chi.Router, h *handlers.AnalysisHandler) {
	if h == nil {
		return
	}
	r.Get("/api/v1/patterns", h.Patterns)
	r.Get("/api/v1/analyses/{id}", h.GetAnalysis)

	limited.Post("/api/v1/analyze", h.Analyze)
	limited.Post("/api/v1/translate", h.Translate)
	// Path used by the original upload UI.
	limited.Post("/api/analyze", h.Analyze)
}
