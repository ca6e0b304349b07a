package legal_gpt

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/pkg/errors"
)

// Operation labels used for logging and metrics.
const (
	OpEnrich    = "enrich"
	OpNegotiate = "negotiate"
	OpTranslate = "translate"
)

// Cache is the subset of the redis cache used for enrichment payloads.
type Cache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// CallObserver records the outcome of each outbound call.
type CallObserver interface {
	ObserveLLMCall(operation, outcome string, took time.Duration)
}

// Option configures a Collaborator.
type Option func(*Collaborator)

// WithBackend injects a ready backend, bypassing the API key check.
func WithBackend(b ChatBackend) Option {
	return func(c *Collaborator) { c.factory = func(Config) (ChatBackend, error) { return b, nil } }
}

// WithBackendFactory replaces NewOpenAIBackend.
func WithBackendFactory(f BackendFactory) Option {
	return func(c *Collaborator) { c.factory = f }
}

func WithCache(cache Cache) Option {
	return func(c *Collaborator) { c.cache = cache }
}

func WithObserver(o CallObserver) Option {
	return func(c *Collaborator) { c.observer = o }
}

// Collaborator is the generative AI client. The backend is created on first
// use; later calls reuse the outcome of that single attempt.
type Collaborator struct {
	cfg      Config
	logger   logging.Logger
	factory  BackendFactory
	cache    Cache
	observer CallObserver
	limiter  *rate.Limiter

	once    sync.Once
	backend ChatBackend
	status  Status
	initErr error
}

// NewCollaborator creates a collaborator. It never fails; configuration
// problems surface through Status and the errors of each call.
func NewCollaborator(cfg Config, logger logging.Logger, opts ...Option) *Collaborator {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Collaborator{
		cfg:     cfg,
		logger:  logger.Named("legal_gpt"),
		factory: NewOpenAIBackend,
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	return c
}

func (c *Collaborator) init() {
	c.once.Do(func() {
		b, err := c.factory(c.cfg)
		switch {
		case err == nil && b != nil:
			c.backend = b
			c.status = StatusReady
			c.logger.Info("generative collaborator ready", logging.String("base_url", c.cfg.BaseURL))
		case err != nil && errors.IsCode(err, errors.ErrCodeAIUnconfigured):
			c.status = StatusUnconfigured
			c.initErr = err
			c.logger.Warn("no API key configured, AI features use fallback mode")
		default:
			if err == nil {
				err = errors.New(errors.ErrCodeAIUnconfigured, "backend factory returned nil")
			}
			c.status = StatusFailed
			c.initErr = err
			c.logger.Error("failed to initialise generative collaborator", logging.Err(err))
		}
	})
}

// Status reports the collaborator state, initialising it if needed.
func (c *Collaborator) Status() Status {
	c.init()
	return c.status
}

// Config returns the effective configuration.
func (c *Collaborator) Config() Config { return c.cfg }

func (c *Collaborator) ready() error {
	c.init()
	if c.backend != nil {
		return nil
	}
	return errors.Wrap(c.initErr, errors.ErrCodeAIUnconfigured, "generative collaborator unavailable").
		WithDetail(string(c.status))
}

// complete makes one rate-limited, time-bounded call.
func (c *Collaborator) complete(ctx context.Context, op string, gen GenerationConfig, prompt string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.observe(op, string(errors.ErrCodeAIRateLimited), 0)
		return "", errors.New(errors.ErrCodeAIRateLimited, "outbound call budget exhausted").WithDetail(op)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	out, err := c.backend.Complete(ctx, ChatRequest{
		Model:       gen.Model,
		Prompt:      prompt,
		Temperature: gen.Temperature,
		MaxTokens:   gen.MaxTokens,
	})
	took := time.Since(start)
	if err != nil {
		if errors.GetCode(err) == errors.CodeUnknown {
			err = errors.Wrap(err, errors.ErrCodeAIInferenceFailed, "completion failed").WithDetail(op)
		}
		c.observe(op, string(errors.GetCode(err)), took)
		c.logger.Warn("generative call failed",
			logging.String("operation", op),
			logging.String("model", gen.Model),
			logging.Duration("took", took),
			logging.Err(err))
		return "", err
	}
	c.observe(op, "ok", took)
	c.logger.Debug("generative call completed",
		logging.String("operation", op),
		logging.Duration("took", took),
		logging.Int("chars", len(out)))
	return out, nil
}

func (c *Collaborator) observe(op, outcome string, took time.Duration) {
	if c.observer != nil {
		c.observer.ObserveLLMCall(op, outcome, took)
	}
}
