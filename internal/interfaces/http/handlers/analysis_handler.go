package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// UploadField is the multipart field carrying the contract file.
const UploadField = "contract"

// AnalysisService is the slice of analysis.Service the handler needs.
type AnalysisService interface {
	AnalyzeDocument(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error)
	GetAnalysis(ctx context.Context, id string) (*types.AnalyzeResponse, error)
	Patterns() types.PatternsResponse
	Translate(ctx context.Context, req types.TranslateRequest) (*types.TranslateResponse, error)
}

// AnalysisHandler serves the contract analysis API.
type AnalysisHandler struct {
	svc            AnalysisService
	logger         logging.Logger
	maxUploadBytes int64
}

// NewAnalysisHandler creates an AnalysisHandler. Request bodies larger than
// maxUploadBytes are rejected with 413.
func NewAnalysisHandler(svc AnalysisService, logger logging.Logger, maxUploadBytes int64) *AnalysisHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &AnalysisHandler{svc: svc, logger: logger.Named("http"), maxUploadBytes: maxUploadBytes}
}

// Analyze handles POST /api/v1/analyze and the legacy POST /api/analyze.
// It accepts a JSON AnalyzeRequest, a multipart upload in the "contract"
// field, or a raw text/plain body.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	req, err := h.readAnalyzeRequest(r)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	resp, err := h.svc.AnalyzeDocument(r.Context(), *req)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalysisHandler) readAnalyzeRequest(r *http.Request) (*types.AnalyzeRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		return h.readUpload(r)
	case "text/plain":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, bodyError(err)
		}
		return textRequest(body, r.URL.Query().Get("fileName"), r.URL.Query()["userGoals"])
	default:
		var req types.AnalyzeRequest
		if err := decodeAndValidate(r, &req); err != nil {
			return nil, bodyError(err)
		}
		return &req, nil
	}
}

func (h *AnalysisHandler) readUpload(r *http.Request) (*types.AnalyzeRequest, error) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, bodyError(err)
	}
	file, header, err := r.FormFile(UploadField)
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) {
			return nil, errors.New(errors.ErrCodeBadRequest, "No file uploaded")
		}
		return nil, bodyError(err)
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		return nil, bodyError(err)
	}
	return textRequest(body, filepath.Base(header.Filename), r.MultipartForm.Value["userGoals"])
}

// textRequest accepts UTF-8 text only; binary documents such as PDFs are
// rejected with CONTRACT_002.
func textRequest(body []byte, fileName string, goals []string) (*types.AnalyzeRequest, error) {
	if len(body) > 0 {
		sniffed := http.DetectContentType(body)
		if !strings.HasPrefix(sniffed, "text/") || !utf8.Valid(body) {
			return nil, errors.New(errors.ErrCodeContractUnsupported, "only plain-text contracts are supported").
				WithDetail(sniffed)
		}
	}
	req := &types.AnalyzeRequest{Text: string(body), FileName: fileName, UserGoals: goals}
	if strings.TrimSpace(req.Text) == "" {
		// The service reports empty contracts with its own code.
		return req, nil
	}
	if err := validate.Struct(req); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, validationMessage(err))
	}
	return req, nil
}

// bodyError maps body-size overflows to CONTRACT_003 and everything else to
// a bad request.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.Wrap(err, errors.ErrCodeContractTooLarge, "upload exceeds the size limit")
	}
	if errors.GetCode(err) != errors.CodeUnknown {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request body")
}

// GetAnalysis handles GET /api/v1/analyses/{id}.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Patterns handles GET /api/v1/patterns.
func (h *AnalysisHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Patterns())
}

// Translate handles POST /api/v1/translate.
func (h *AnalysisHandler) Translate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var req types.TranslateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAppError(w, h.logger, bodyError(err))
		return
	}
	resp, err := h.svc.Translate(r.Context(), req)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
