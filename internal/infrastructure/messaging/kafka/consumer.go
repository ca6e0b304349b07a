package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers         []string
	GroupID         string
	Topic           string
	AutoOffsetReset string
	MaxWait         time.Duration
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EnvelopeHandler handles one decoded event.
type EnvelopeHandler func(ctx context.Context, env *EventEnvelope) error

// Consumer reads event envelopes from one topic.
type Consumer struct {
	reader  ReaderInterface
	logger  logging.Logger
	commit  bool
	running atomic.Bool

	processed atomic.Int64
	failed    atomic.Int64
}

func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.Topic == "" {
		cfg.Topic = TopicAnalysisCompleted
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = time.Second
	}
	readerCfg := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MaxWait:     cfg.MaxWait,
		StartOffset: kafka.FirstOffset,
	}
	if cfg.AutoOffsetReset == "latest" {
		readerCfg.StartOffset = kafka.LastOffset
	}
	// kafka-go rejects commits from readers without a group.
	return NewConsumerWithReader(kafka.NewReader(readerCfg), logger, WithCommits(cfg.GroupID != "")), nil
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithCommits controls whether offsets are committed after each message.
// Commits are on by default.
func WithCommits(enabled bool) ConsumerOption {
	return func(c *Consumer) { c.commit = enabled }
}

func NewConsumerWithReader(r ReaderInterface, logger logging.Logger, opts ...ConsumerOption) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Consumer{reader: r, logger: logger.Named("kafka"), commit: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run fetches until ctx is done or the reader fails. Messages that cannot be
// decoded or handled are logged and, when commits are on, committed so one
// bad record never blocks the partition.
func (c *Consumer) Run(ctx context.Context, handle EnvelopeHandler) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "fetch failed")
		}

		if err := c.dispatch(ctx, msg, handle); err != nil {
			c.failed.Add(1)
			c.logger.Warn("skipping event",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
		} else {
			c.processed.Add(1)
		}

		if !c.commit {
			continue
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Warn("commit failed", logging.Int64("offset", msg.Offset), logging.Err(err))
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg kafka.Message, handle EnvelopeHandler) error {
	env, err := EnvelopeFromMessage(msg)
	if err != nil {
		return err
	}
	return handle(ctx, env)
}

func (c *Consumer) Processed() int64 { return c.processed.Load() }
func (c *Consumer) Failed() int64    { return c.failed.Load() }

func (c *Consumer) Close() error {
	return c.reader.Close()
}
