package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SynthLaw/internal/testutil"
	apperrors "github.com/turtacn/SynthLaw/pkg/errors"
)

type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

func (m *MockObjectAPI) SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error {
	return m.Called(ctx, bucketName, config).Error(0)
}

func (m *MockObjectAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, _ := io.ReadAll(reader)
	args := m.Called(ctx, bucketName, objectName, data, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockObjectAPI) GetObject(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucketName, objectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return io.NopCloser(bytes.NewReader(args.Get(0).([]byte))), args.Error(1)
}

func newTestClient(api ObjectAPI, cfg Config) *Client {
	return NewClientWithAPI(api, cfg, testutil.NewMockLogger())
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Prefix: "archive"}
	cfg.ApplyDefaults()
	assert.Equal(t, "synthlaw-reports", cfg.Bucket)
	assert.Equal(t, "archive/", cfg.Prefix)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, int64(32<<20), cfg.MaxObjectSize)
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{Endpoint: "localhost:9000", RetentionDays: -1}.Validate())
	assert.NoError(t, Config{Endpoint: "localhost:9000"}.Validate())
}

func TestEnsureBucket_CreatesMissing(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("BucketExists", mock.Anything, "synthlaw-reports").Return(false, nil)
	api.On("MakeBucket", mock.Anything, "synthlaw-reports", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)

	c := newTestClient(api, Config{})
	require.NoError(t, c.EnsureBucket(context.Background()))
	api.AssertExpectations(t)
	api.AssertNotCalled(t, "SetBucketLifecycle", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureBucket_RetentionIsBestEffort(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("BucketExists", mock.Anything, "synthlaw-reports").Return(true, nil)
	api.On("SetBucketLifecycle", mock.Anything, "synthlaw-reports", mock.MatchedBy(func(cfg *lifecycle.Configuration) bool {
		return len(cfg.Rules) == 1 && cfg.Rules[0].Expiration.Days == 30 && cfg.Rules[0].RuleFilter.Prefix == "reports/"
	})).Return(errors.New("not implemented"))

	logger := testutil.NewMockLogger()
	c := NewClientWithAPI(api, Config{RetentionDays: 30}, logger)
	require.NoError(t, c.EnsureBucket(context.Background()))
	assert.True(t, logger.HasMessage("warn", "failed to set report retention"))
	api.AssertExpectations(t)
}

func TestEnsureBucket_Unreachable(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("BucketExists", mock.Anything, "synthlaw-reports").Return(false, errors.New("dial tcp"))

	err := newTestClient(api, Config{}).EnsureBucket(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeServiceUnavailable))
}

func TestPing(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("BucketExists", mock.Anything, "synthlaw-reports").Return(true, nil).Once()
	api.On("BucketExists", mock.Anything, "synthlaw-reports").Return(false, nil).Once()

	c := newTestClient(api, Config{})
	assert.NoError(t, c.Ping(context.Background()))
	assert.True(t, apperrors.IsCode(c.Ping(context.Background()), apperrors.ErrCodeStorageError))

	require.NoError(t, c.Close())
	assert.Equal(t, ErrClientClosed, c.Ping(context.Background()))
}
