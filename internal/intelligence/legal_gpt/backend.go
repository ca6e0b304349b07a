package legal_gpt

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/turtacn/SynthLaw/pkg/errors"
)

// ChatRequest is a single-turn completion request.
type ChatRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// ChatBackend performs one completion call.
type ChatBackend interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// BackendFactory builds a backend from configuration.
type BackendFactory func(cfg Config) (ChatBackend, error)

type openAIBackend struct {
	client *openai.Client
}

// NewOpenAIBackend returns a backend talking to an OpenAI-compatible API.
func NewOpenAIBackend(cfg Config) (ChatBackend, error) {
	if !cfg.Configured() {
		return nil, errors.New(errors.ErrCodeAIUnconfigured, "no API key configured")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &openAIBackend{client: openai.NewClientWithConfig(oc)}, nil
}

func (b *openAIBackend) Complete(ctx context.Context, req ChatRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", classifyError(req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.ErrCodeAIMalformedOutput, "completion returned no choices").WithDetail(req.Model)
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError maps transport failures to AI error codes. A 404 means the
// model is not served by the endpoint.
func classifyError(model string, err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case stderrors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case stderrors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusNotFound:
		return errors.Wrap(err, errors.ErrCodeAIModelUnavailable, "model not available").WithDetail(model)
	case http.StatusTooManyRequests:
		return errors.Wrap(err, errors.ErrCodeAIRateLimited, "upstream rate limit").WithDetail(model)
	default:
		return errors.Wrap(err, errors.ErrCodeAIInferenceFailed, "completion failed").WithDetail(model)
	}
}
