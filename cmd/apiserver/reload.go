package main

import (
	"github.com/turtacn/SynthLaw/internal/config"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/internal/interfaces/http/middleware"
)

// reloader applies the settings that take effect without a restart: the log
// level and the inbound rate limit. Everything else needs a restart.
type reloader struct {
	logger  logging.Logger
	limiter *middleware.KeyedLimiter
}

func (r *reloader) apply(cfg *config.Config) {
	if s, ok := r.logger.(logging.LevelSetter); ok {
		s.SetLevel(cfg.Log.Level)
	}
	if r.limiter != nil && cfg.RateLimit.Enabled {
		r.limiter.SetLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	r.logger.Info("configuration reloaded",
		logging.String("log_level", cfg.Log.Level),
		logging.Float64("rate_limit_rps", cfg.RateLimit.RequestsPerSecond),
		logging.Int("rate_limit_burst", cfg.RateLimit.Burst))
}

func (r *reloader) reject(err error) {
	r.logger.Warn("ignoring invalid configuration change", logging.Err(err))
}
