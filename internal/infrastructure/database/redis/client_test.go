package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/pkg/errors"
)

func TestRedisConfig_ApplyDefaults(t *testing.T) {
	cfg := &RedisConfig{}
	cfg.ApplyDefaults()
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, "synthlaw:", cfg.KeyPrefix)
}

func TestNewClient_ConnectionFailed(t *testing.T) {
	cfg := &RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond}

	client, err := NewClient(cfg, logging.NewNopLogger())
	assert.Nil(t, client)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestClient_PingAndClose(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewClientFromUniversal(db, nil, nil)

	mock.ExpectPing().SetVal("PONG")
	require.NoError(t, client.Ping(context.Background()))

	require.NoError(t, client.Close())
	require.NoError(t, client.Close(), "second close is a no-op")

	assert.Equal(t, ErrClientClosed, client.Ping(context.Background()))
	assert.Equal(t, ErrClientClosed, client.Get(context.Background(), "k").Err())
	assert.Equal(t, ErrClientClosed, client.Set(context.Background(), "k", "v", 0).Err())
	assert.Equal(t, ErrClientClosed, client.Del(context.Background(), "k").Err())
	assert.NoError(t, mock.ExpectationsWereMet())
}
