package minio

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

const testID = "0b9c6a52-8f0e-4d47-9a55-3b8f2f8d7c11"

func sampleResponse() *types.AnalyzeResponse {
	return &types.AnalyzeResponse{
		AnalysisID: testID,
		FileName:   "agreement.txt",
		AnalyzedAt: time.Date(2026, 1, 16, 23, 30, 0, 0, time.UTC),
		AnalysisResult: types.AnalysisResult{
			RiskScore: 40,
			Risks: []types.RiskInsight{
				{ID: "ip_transfer", Clause: "Intellectual Property Transfer", Severity: types.SeverityHigh},
			},
		},
	}
}

func TestReportArchive_ObjectKey(t *testing.T) {
	a := NewReportArchive(newTestClient(new(MockObjectAPI), Config{}))
	assert.Equal(t, "reports/"+testID+".json", a.ObjectKey(testID))
}

func TestReportArchive_Save(t *testing.T) {
	api := new(MockObjectAPI)
	resp := sampleResponse()
	want, err := json.Marshal(resp)
	require.NoError(t, err)

	api.On("PutObject", mock.Anything, "synthlaw-reports", "reports/"+testID+".json", want, int64(len(want)),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool {
			return o.ContentType == "application/json" && o.UserMetadata["risk-score"] == "40"
		})).Return(minio.UploadInfo{}, nil)

	a := NewReportArchive(newTestClient(api, Config{}))
	require.NoError(t, a.Save(context.Background(), resp))
	api.AssertExpectations(t)
}

func TestReportArchive_SaveErrors(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))
	a := NewReportArchive(newTestClient(api, Config{}))

	assert.True(t, apperrors.IsCode(a.Save(context.Background(), sampleResponse()), apperrors.ErrCodeStorageError))
	assert.True(t, apperrors.IsCode(a.Save(context.Background(), &types.AnalyzeResponse{}), apperrors.CodeInvalidParam))
}

func TestReportArchive_LoadRoundTrip(t *testing.T) {
	api := new(MockObjectAPI)
	data, err := json.Marshal(sampleResponse())
	require.NoError(t, err)
	api.On("GetObject", mock.Anything, "synthlaw-reports", "reports/"+testID+".json").Return(data, nil)

	got, err := NewReportArchive(newTestClient(api, Config{})).Load(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, testID, got.AnalysisID)
	assert.Equal(t, 40, got.RiskScore)
	assert.Equal(t, "ip_transfer", got.Risks[0].ID)
}

func TestReportArchive_LoadNotFound(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("GetObject", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})
	a := NewReportArchive(newTestClient(api, Config{}))

	_, err := a.Load(context.Background(), testID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAnalysisNotFound))

	_, err = a.Load(context.Background(), "../etc/passwd")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAnalysisNotFound))
	api.AssertNumberOfCalls(t, "GetObject", 1)
}

func TestReportArchive_LoadCorrupt(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("GetObject", mock.Anything, mock.Anything, mock.Anything).Return([]byte("{"), nil)

	_, err := NewReportArchive(newTestClient(api, Config{})).Load(context.Background(), testID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))
}

func TestReportArchive_LoadTooLarge(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("GetObject", mock.Anything, mock.Anything, mock.Anything).Return([]byte(`{"analysisId":"x"}`), nil)

	_, err := NewReportArchive(newTestClient(api, Config{MaxObjectSize: 4})).Load(context.Background(), testID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStorageError))
}
