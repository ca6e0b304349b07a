package main

import (
	"context"
	"fmt"

	"github.com/turtacn/SynthLaw/internal/application/analysis"
	"github.com/turtacn/SynthLaw/internal/config"
	"github.com/turtacn/SynthLaw/internal/domain/contract"
	"github.com/turtacn/SynthLaw/internal/infrastructure/database/redis"
	"github.com/turtacn/SynthLaw/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SynthLaw/internal/infrastructure/storage/minio"
	"github.com/turtacn/SynthLaw/internal/intelligence/legal_gpt"
	"github.com/turtacn/SynthLaw/internal/interfaces/http/handlers"
)

// components holds the wired service and everything that must be probed
// or closed with it.
type components struct {
	service  *analysis.Service
	checkers []handlers.HealthChecker
	closers  []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

func (c *components) onClose(name string, fn func() error) {
	c.closers = append(c.closers, namedCloser{name: name, close: fn})
}

// Close releases backends in reverse order of creation.
func (c *components) Close(logger logging.Logger) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		nc := c.closers[i]
		if err := nc.close(); err != nil {
			logger.Warn("failed to close backend", logging.String("backend", nc.name), logging.Err(err))
		}
	}
}

// buildComponents wires the analysis service from cfg. Optional backends are
// connected only when enabled; a failure to reach an enabled backend aborts
// startup.
func buildComponents(ctx context.Context, cfg *config.Config, logger logging.Logger, metrics *prometheus.AppMetrics) (*components, error) {
	comp := &components{}
	ok := false
	defer func() {
		if !ok {
			comp.Close(logger)
		}
	}()

	catalog, err := contract.NewCatalog(cfg.Analysis.Catalog)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	opts := []analysis.Option{
		analysis.WithConfig(cfg.Analysis),
		analysis.WithMetrics(metrics),
	}

	collabOpts := []legal_gpt.Option{legal_gpt.WithObserver(metrics)}
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		comp.onClose("redis", client.Close)
		comp.checkers = append(comp.checkers, handlers.CheckerFunc("redis", client.Ping))
		cache := redis.NewRedisCache(client, logger,
			redis.WithPrefix("synthlaw:"),
			redis.WithDefaultTTL(cfg.LegalGPT.CacheTTL),
			redis.WithCacheObserver(metrics))
		collabOpts = append(collabOpts, legal_gpt.WithCache(cache))
	}

	// An unconfigured collaborator still answers: drafting and enrichment
	// fall back and translation returns fixed placeholder strings. It logs
	// its own state on first use.
	collab := legal_gpt.NewCollaborator(cfg.LegalGPT, logger, collabOpts...)
	opts = append(opts,
		analysis.WithEmailDrafter(collab),
		analysis.WithEnricher(collab),
		analysis.WithTranslator(collab),
	)
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			return nil, fmt.Errorf("create kafka producer: %w", err)
		}
		comp.onClose("kafka", producer.Close)
		comp.checkers = append(comp.checkers, handlers.CheckerFunc("kafka", producer.Ping))
		ensureTopic(ctx, cfg.Kafka, logger)
		opts = append(opts, analysis.WithPublisher(kafka.NewAnalysisEventPublisher(producer, cfg.Kafka, metrics)))
	}

	if cfg.Archive.Enabled {
		client, err := minio.NewClient(ctx, cfg.Archive, logger)
		if err != nil {
			return nil, fmt.Errorf("connect archive: %w", err)
		}
		comp.onClose("minio", client.Close)
		comp.checkers = append(comp.checkers, handlers.CheckerFunc("minio", client.Ping))
		opts = append(opts, analysis.WithArchive(minio.NewReportArchive(client)))
	}

	comp.service = analysis.NewService(contract.NewDetector(catalog), logger, opts...)
	ok = true
	return comp, nil
}

// ensureTopic creates the event topic when the broker allows it. Failures are
// logged because topics are often provisioned out of band.
func ensureTopic(ctx context.Context, cfg kafka.ProducerConfig, logger logging.Logger) {
	cfg.ApplyDefaults()
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		logger.Warn("cannot reach kafka to ensure topic", logging.String("topic", cfg.Topic), logging.Err(err))
		return
	}
	defer tm.Close()
	if err := tm.EnsureTopic(ctx, kafka.DefaultTopicConfig(cfg.Topic)); err != nil {
		logger.Warn("failed to ensure kafka topic", logging.String("topic", cfg.Topic), logging.Err(err))
	}
}
