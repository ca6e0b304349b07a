package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

const (
	TopicAnalysisCompleted = "contract.analysis.completed"

	EventTypeAnalysisCompleted = "contract.analysis.completed"
	DefaultSource              = "synthlaw-apiserver"
	SchemaVersion              = "v1"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEventEnvelope marshals payload into a fresh envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Payload:       data,
	}, nil
}

func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeSerialization, "envelope has no payload").WithDetail(e.EventID)
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode payload").WithDetail(e.EventType)
	}
	return nil
}

// ToMessage serialises the envelope for topic. The key routes all events of
// one analysis to the same partition.
func (e *EventEnvelope) ToMessage(topic string, key string) (*Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	return &Message{
		Topic: topic,
		Key:   []byte(key),
		Value: val,
		Headers: map[string]string{
			"event_type":     e.EventType,
			"source_service": e.Source,
			"schema_version": e.SchemaVersion,
		},
		Timestamp: e.Timestamp,
	}, nil
}

func EnvelopeFromMessage(msg kafka.Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

// Publisher is the slice of Producer the event publisher needs.
type Publisher interface {
	Publish(ctx context.Context, msg *Message) error
}

// EventCounter observes published events by type and outcome.
type EventCounter interface {
	IncEvent(eventType, outcome string)
}

// AnalysisEventPublisher announces completed analyses.
type AnalysisEventPublisher struct {
	producer Publisher
	topic    string
	source   string
	counter  EventCounter
}

func NewAnalysisEventPublisher(p Publisher, cfg ProducerConfig, counter EventCounter) *AnalysisEventPublisher {
	cfg.ApplyDefaults()
	return &AnalysisEventPublisher{producer: p, topic: cfg.Topic, source: cfg.Source, counter: counter}
}

// PublishAnalysisCompleted wraps event in an envelope keyed by analysis id.
// The envelope reuses the event id so consumers can deduplicate.
func (p *AnalysisEventPublisher) PublishAnalysisCompleted(ctx context.Context, event *types.AnalysisCompletedEvent) error {
	if event == nil || event.AnalysisID == "" {
		return errors.InvalidParam("analysis id required")
	}
	env, err := NewEventEnvelope(EventTypeAnalysisCompleted, p.source, event)
	if err != nil {
		return err
	}
	if event.EventID != "" {
		env.EventID = event.EventID
	}
	if !event.OccurredAt.IsZero() {
		env.Timestamp = event.OccurredAt.UTC()
	}
	env.Metadata = map[string]string{"risk_score": strconv.Itoa(event.RiskScore)}

	msg, err := env.ToMessage(p.topic, event.AnalysisID)
	if err != nil {
		return err
	}
	err = p.producer.Publish(ctx, msg)
	p.count(err)
	return err
}

func (p *AnalysisEventPublisher) count(err error) {
	if p.counter == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(errors.GetCode(err))
	}
	p.counter.IncEvent(EventTypeAnalysisCompleted, outcome)
}

// TopicConfig describes a topic to create.
type TopicConfig struct {
	Name              string `mapstructure:"name"`
	NumPartitions     int    `mapstructure:"partitions"`
	ReplicationFactor int    `mapstructure:"replication_factor"`
	RetentionMs       int64  `mapstructure:"retention_ms"`
}

// DefaultTopicConfig is used when topics are auto-created.
func DefaultTopicConfig(name string) TopicConfig {
	return TopicConfig{Name: name, NumPartitions: 3, ReplicationFactor: 1, RetentionMs: 7 * 24 * 3600 * 1000}
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates topics on a broker.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMessagingError, "failed to dial kafka")
	}
	return NewTopicManagerWithConn(conn, logger), nil
}

func NewTopicManagerWithConn(conn ConnInterface, logger logging.Logger) *TopicManager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TopicManager{conn: conn, logger: logger}
}

// EnsureTopic creates the topic unless it already has partitions.
func (m *TopicManager) EnsureTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}
	if cfg.NumPartitions <= 0 || cfg.ReplicationFactor <= 0 {
		return errors.New(errors.ErrCodeValidation, "partitions and replication factor must be > 0").WithDetail(cfg.Name)
	}
	if exists, _ := m.TopicExists(ctx, cfg.Name); exists {
		return nil
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{
			ConfigName:  "retention.ms",
			ConfigValue: strconv.FormatInt(cfg.RetentionMs, 10),
		})
	}
	if err := m.conn.CreateTopics(kCfg); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to create topic").WithDetail(cfg.Name)
	}
	m.logger.Info("topic created", logging.String("topic", cfg.Name))
	return nil
}

func (m *TopicManager) TopicExists(_ context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

func (m *TopicManager) Close() error {
	return m.conn.Close()
}
