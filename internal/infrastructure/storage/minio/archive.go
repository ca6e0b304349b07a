package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// ReportArchive stores analysis responses as JSON objects named
// <prefix><analysis id>.json.
type ReportArchive struct {
	client *Client
}

func NewReportArchive(client *Client) *ReportArchive {
	return &ReportArchive{client: client}
}

// ObjectKey returns the object name for an analysis id.
func (a *ReportArchive) ObjectKey(id string) string {
	return a.client.config.Prefix + id + ".json"
}

func (a *ReportArchive) Save(ctx context.Context, resp *types.AnalyzeResponse) error {
	if resp == nil || resp.AnalysisID == "" {
		return errors.InvalidParam("analysis id required")
	}
	if a.client.closed.Load() {
		return ErrClientClosed
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode report")
	}

	key := a.ObjectKey(resp.AnalysisID)
	_, err = a.client.api.PutObject(ctx, a.client.config.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"risk-score": strconv.Itoa(resp.RiskScore),
			"risk-count": strconv.Itoa(len(resp.Risks)),
		},
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to store report").WithDetail(key)
	}
	a.client.logger.Debug("report archived", logging.String("key", key), logging.Int("bytes", len(data)))
	return nil
}

// Load fetches an archived response. Unknown ids yield ErrCodeAnalysisNotFound.
func (a *ReportArchive) Load(ctx context.Context, id string) (*types.AnalyzeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found").WithDetail(id)
	}
	if a.client.closed.Load() {
		return nil, ErrClientClosed
	}

	key := a.ObjectKey(id)
	obj, err := a.client.api.GetObject(ctx, a.client.config.Bucket, key)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found").WithDetail(id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to fetch report").WithDetail(key)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, a.client.config.MaxObjectSize+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to read report").WithDetail(key)
	}
	if int64(len(data)) > a.client.config.MaxObjectSize {
		return nil, errors.New(errors.ErrCodeStorageError, "report exceeds size limit").WithDetail(key)
	}

	var resp types.AnalyzeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode report").WithDetail(key)
	}
	return &resp, nil
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchObject"
}
