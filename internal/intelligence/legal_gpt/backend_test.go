package legal_gpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SynthLaw/pkg/errors"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

func testBackendConfig(baseURL string) Config {
	cfg := NewConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = baseURL + "/"
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestNewOpenAIBackend_RequiresKey(t *testing.T) {
	_, err := NewOpenAIBackend(NewConfig())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAIUnconfigured))
}

func TestOpenAIBackend_Complete(t *testing.T) {
	srv, received := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "drafted"}, "finish_reason": "stop"}]
	}`)

	b, err := NewOpenAIBackend(testBackendConfig(srv.URL))
	require.NoError(t, err)

	out, err := b.Complete(context.Background(), ChatRequest{
		Model:       "gemini-1.5-flash",
		Prompt:      "write",
		Temperature: 0.5,
		MaxTokens:   2000,
	})
	require.NoError(t, err)
	assert.Equal(t, "drafted", out)
	assert.Equal(t, "gemini-1.5-flash", (*received)["model"])
	assert.EqualValues(t, 2000, (*received)["max_tokens"])
}

func TestOpenAIBackend_ModelNotFound(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound,
		`{"error": {"message": "model not found", "type": "invalid_request_error"}}`)

	b, err := NewOpenAIBackend(testBackendConfig(srv.URL))
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), ChatRequest{Model: "missing", Prompt: "x"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAIModelUnavailable))
}

func TestOpenAIBackend_ServerError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError,
		`{"error": {"message": "overloaded", "type": "server_error"}}`)

	b, err := NewOpenAIBackend(testBackendConfig(srv.URL))
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), ChatRequest{Model: "m", Prompt: "x"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeAIInferenceFailed))
}

func TestOpenAIBackend_NoChoices(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"id": "x", "choices": []}`)

	b, err := NewOpenAIBackend(testBackendConfig(srv.URL))
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), ChatRequest{Model: "m", Prompt: "x"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeAIMalformedOutput))
}
