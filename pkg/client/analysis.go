package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// Analyze submits contract text for analysis.
func (c *Client) Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	var out types.AnalyzeResponse
	if err := c.postJSON(ctx, "/api/v1/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeFile uploads a plain-text contract as multipart field "contract".
func (c *Client) AnalyzeFile(ctx context.Context, fileName string, r io.Reader, userGoals []string) (*types.AnalyzeResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("contract", filepath.Base(fileName))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to build upload")
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read contract")
	}
	for _, g := range userGoals {
		if err := mw.WriteField("userGoals", g); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to build upload")
		}
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to build upload")
	}

	var out types.AnalyzeResponse
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/v1/analyze",
		contentType: mw.FormDataContentType(),
		body:        buf.Bytes(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAnalysis fetches an archived analysis by id.
func (c *Client) GetAnalysis(ctx context.Context, id string) (*types.AnalyzeResponse, error) {
	if id == "" {
		return nil, errors.InvalidParam("analysis id required")
	}
	var out types.AnalyzeResponse
	if err := c.getJSON(ctx, "/api/v1/analyses/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Patterns lists the server's clause catalog.
func (c *Client) Patterns(ctx context.Context) (*types.PatternsResponse, error) {
	var out types.PatternsResponse
	if err := c.getJSON(ctx, "/api/v1/patterns", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Translate renders text into the requested regional languages.
func (c *Client) Translate(ctx context.Context, req types.TranslateRequest) (*types.TranslateResponse, error) {
	var out types.TranslateResponse
	if err := c.postJSON(ctx, "/api/v1/translate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health calls GET /api/health. It does not retry.
func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	probe := *c
	probe.retryMax = 0

	var out types.HealthResponse
	if err := probe.getJSON(ctx, "/api/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
