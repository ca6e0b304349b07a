package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

type recordingPublisher struct {
	msgs []*Message
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, msg *Message) error {
	r.msgs = append(r.msgs, msg)
	return r.err
}

type countingEvents map[string]int

func (c countingEvents) IncEvent(eventType, outcome string) { c[eventType+"/"+outcome]++ }

func sampleEvent() *types.AnalysisCompletedEvent {
	return &types.AnalysisCompletedEvent{
		EventID:    "evt-1",
		AnalysisID: "3f1c2a4e-0000-4000-8000-000000000001",
		FileName:   "nda.txt",
		RiskScore:  72,
		ClauseIDs:  []string{"ip_transfer", "non_compete"},
		Severities: map[string]int{"high": 2},
		OccurredAt: time.Date(2026, 1, 16, 23, 30, 0, 0, time.UTC),
	}
}

func TestNewEventEnvelope(t *testing.T) {
	env, err := NewEventEnvelope("x.y", "svc", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, SchemaVersion, env.SchemaVersion)

	var out map[string]int
	require.NoError(t, env.DecodePayload(&out))
	assert.Equal(t, 1, out["a"])

	_, err = NewEventEnvelope("x.y", "svc", make(chan int))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))
}

func TestDecodePayload_Empty(t *testing.T) {
	env := &EventEnvelope{EventID: "e"}
	var out map[string]int
	assert.Error(t, env.DecodePayload(&out))
}

func TestPublishAnalysisCompleted(t *testing.T) {
	pub := &recordingPublisher{}
	counts := countingEvents{}
	p := NewAnalysisEventPublisher(pub, ProducerConfig{}, counts)

	require.NoError(t, p.PublishAnalysisCompleted(context.Background(), sampleEvent()))
	require.Len(t, pub.msgs, 1)

	msg := pub.msgs[0]
	assert.Equal(t, TopicAnalysisCompleted, msg.Topic)
	assert.Equal(t, "3f1c2a4e-0000-4000-8000-000000000001", string(msg.Key))
	assert.Equal(t, EventTypeAnalysisCompleted, msg.Headers["event_type"])
	assert.Equal(t, DefaultSource, msg.Headers["source_service"])

	env, err := EnvelopeFromMessage(kafka.Message{Value: msg.Value})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", env.EventID)
	assert.Equal(t, "72", env.Metadata["risk_score"])
	assert.True(t, env.Timestamp.Equal(sampleEvent().OccurredAt))

	var got types.AnalysisCompletedEvent
	require.NoError(t, env.DecodePayload(&got))
	assert.Equal(t, []string{"ip_transfer", "non_compete"}, got.ClauseIDs)
	assert.Equal(t, 1, counts[EventTypeAnalysisCompleted+"/ok"])
}

func TestPublishAnalysisCompleted_Failures(t *testing.T) {
	pub := &recordingPublisher{err: apperrors.New(apperrors.ErrCodeMessagingError, "down")}
	counts := countingEvents{}
	p := NewAnalysisEventPublisher(pub, ProducerConfig{Topic: "custom"}, counts)

	err := p.PublishAnalysisCompleted(context.Background(), sampleEvent())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMessagingError))
	assert.Equal(t, "custom", pub.msgs[0].Topic)
	assert.Equal(t, 1, counts[EventTypeAnalysisCompleted+"/"+string(apperrors.ErrCodeMessagingError)])

	err = p.PublishAnalysisCompleted(context.Background(), &types.AnalysisCompletedEvent{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))
}

func TestEnvelopeFromMessage_Invalid(t *testing.T) {
	_, err := EnvelopeFromMessage(kafka.Message{})
	assert.Error(t, err)
	_, err = EnvelopeFromMessage(kafka.Message{Value: []byte("{")})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))
}

type mockKafkaConn struct {
	createFunc func(topics ...kafka.TopicConfig) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		return m.createFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func TestEnsureTopic_Creates(t *testing.T) {
	var created []kafka.TopicConfig
	m := NewTopicManagerWithConn(&mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error { created = topics; return nil },
	}, nil)

	require.NoError(t, m.EnsureTopic(context.Background(), DefaultTopicConfig(TopicAnalysisCompleted)))
	require.Len(t, created, 1)
	assert.Equal(t, TopicAnalysisCompleted, created[0].Topic)
	assert.Equal(t, "retention.ms", created[0].ConfigEntries[0].ConfigName)
}

func TestEnsureTopic_Existing(t *testing.T) {
	m := NewTopicManagerWithConn(&mockKafkaConn{
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			return []kafka.Partition{{Topic: topics[0]}}, nil
		},
		createFunc: func(topics ...kafka.TopicConfig) error { return errors.New("should not create") },
	}, nil)
	assert.NoError(t, m.EnsureTopic(context.Background(), DefaultTopicConfig("t")))
}

func TestEnsureTopic_Invalid(t *testing.T) {
	m := NewTopicManagerWithConn(&mockKafkaConn{}, nil)
	assert.Error(t, m.EnsureTopic(context.Background(), TopicConfig{}))
	assert.Error(t, m.EnsureTopic(context.Background(), TopicConfig{Name: "t"}))
}

func TestEnvelopeJSONFieldNames(t *testing.T) {
	env, err := NewEventEnvelope("a", "b", 1)
	require.NoError(t, err)
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	for _, k := range []string{"event_id", "event_type", "source", "timestamp", "schema_version", "payload"} {
		assert.Contains(t, string(raw), `"`+k+`"`)
	}
}
