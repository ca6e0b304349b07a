// Command apiserver serves the SynthLaw contract analysis API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/SynthLaw/internal/config"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/SynthLaw/internal/interfaces/http"
	"github.com/turtacn/SynthLaw/internal/interfaces/http/handlers"
	"github.com/turtacn/SynthLaw/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, cfg, logger); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, cfg *config.Config, logger logging.Logger) error {
	logger.Info("starting SynthLaw API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("ai_configured", cfg.LegalGPT.Configured()))

	metrics, metricsHandler, err := newMetrics(cfg.Metrics, logger)
	if err != nil {
		return err
	}

	comp, err := buildComponents(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer comp.Close(logger)

	limiter := newRateLimiter(cfg.RateLimit)
	router := httpserver.NewRouter(routerConfig(cfg, comp, metrics, metricsHandler, limiter, logger))
	if configPath != "" {
		r := &reloader{logger: logger, limiter: limiter}
		if err := config.Watch(configPath, r.apply, r.reject); err != nil {
			return fmt.Errorf("watch configuration: %w", err)
		}
	}
	srv := httpserver.NewServer(httpserver.ServerOptions{
		Addr:            cfg.Server.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newMetrics returns the Prometheus-backed metrics, or no-op metrics and a nil
// handler when disabled.
func newMetrics(cfg prometheus.CollectorConfig, logger logging.Logger) (*prometheus.AppMetrics, http.Handler, error) {
	if !cfg.Enabled {
		return prometheus.NewNoopMetrics(), nil, nil
	}
	collector, err := prometheus.NewMetricsCollector(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create metrics collector: %w", err)
	}
	m := prometheus.NewAppMetrics(collector)
	return m, m.Handler(), nil
}

// newRateLimiter returns nil when inbound rate limiting is disabled.
func newRateLimiter(cfg config.RateLimitConfig) *middleware.KeyedLimiter {
	if !cfg.Enabled {
		return nil
	}
	return middleware.NewKeyedLimiter(cfg.RequestsPerSecond, cfg.Burst, middleware.DefaultRateLimitConfig().IdleTTL)
}

func routerConfig(cfg *config.Config, comp *components, metrics *prometheus.AppMetrics, metricsHandler http.Handler, limiter *middleware.KeyedLimiter, logger logging.Logger) httpserver.RouterConfig {
	cors := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		cors.AllowedOrigins = cfg.Server.CORSOrigins
	}
	logCfg := middleware.DefaultLoggingConfig()
	if cfg.Server.SlowThreshold > 0 {
		logCfg.SlowThreshold = cfg.Server.SlowThreshold
	}

	rc := httpserver.RouterConfig{
		AnalysisHandler: handlers.NewAnalysisHandler(comp.service, logger, cfg.Server.MaxUploadBytes),
		HealthHandler:   handlers.NewHealthHandler(version, comp.checkers...),
		CORS:            &cors,
		Logging:         &logCfg,
		Metrics:         metrics,
		MetricsHandler:  metricsHandler,
		MetricsPath:     cfg.Metrics.Path,
		Logger:          logger,
	}
	if limiter != nil {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		rl.OnLimited = metrics.IncRateLimited
		rc.RateLimit = middleware.RateLimit(limiter, rl)
	}
	return rc
}
