package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{ n int }

func (l *testLogger) Debugf(string, ...interface{}) { l.n++ }
func (l *testLogger) Infof(string, ...interface{})  { l.n++ }
func (l *testLogger) Errorf(string, ...interface{}) { l.n++ }

func TestOptions(t *testing.T) {
	hc := &http.Client{}
	logger := &testLogger{}
	c, err := NewClient("http://localhost:4000",
		WithHTTPClient(hc),
		WithTimeout(5*time.Second),
		WithLogger(logger),
		WithRetryMax(0),
		WithRetryWait(time.Second, 2*time.Second),
		WithMaxRetryAfter(time.Minute),
		WithUserAgent("cli/1"),
	)
	require.NoError(t, err)

	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, 5*time.Second, hc.Timeout)
	assert.Same(t, logger, c.logger)
	assert.Equal(t, 0, c.retryMax)
	assert.Equal(t, time.Second, c.retryWaitMin)
	assert.Equal(t, 2*time.Second, c.retryWaitMax)
	assert.Equal(t, time.Minute, c.maxRetryWait)
	assert.Equal(t, "cli/1", c.userAgent)
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	c, err := NewClient("http://localhost:4000",
		WithHTTPClient(nil),
		WithRetryMax(-1),
		WithRetryWait(2*time.Second, time.Second),
		WithUserAgent(""),
	)
	require.NoError(t, err)

	assert.NotNil(t, c.httpClient)
	assert.Equal(t, 3, c.retryMax)
	assert.Equal(t, 2*time.Second, c.retryWaitMin)
	assert.Equal(t, 5*time.Second, c.retryWaitMax)
	assert.Contains(t, c.userAgent, "synthlaw-go-sdk/")
}

func TestCalculateBackoff(t *testing.T) {
	c, err := NewClient("http://localhost:4000", WithRetryWait(100*time.Millisecond, 300*time.Millisecond))
	require.NoError(t, err)

	for attempt := 1; attempt <= 5; attempt++ {
		d := c.calculateBackoff(attempt)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 300*time.Millisecond+75*time.Millisecond)
	}
}
