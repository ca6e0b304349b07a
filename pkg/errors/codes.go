package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are namespaced by module: "<MODULE>_<NNN>".
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_012"
	ErrCodeStorageError       ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
)

// Short aliases used at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Contract Module Error Codes
const (
	ErrCodeContractEmpty       ErrorCode = "CONTRACT_001"
	ErrCodeContractUnsupported ErrorCode = "CONTRACT_002"
	ErrCodeContractTooLarge    ErrorCode = "CONTRACT_003"
	ErrCodeAnalysisNotFound    ErrorCode = "CONTRACT_004"
	ErrCodeCatalogInvalid      ErrorCode = "CONTRACT_005"
)

// AI Collaborator Error Codes
const (
	ErrCodeAIUnconfigured     ErrorCode = "AI_001"
	ErrCodeAIModelUnavailable ErrorCode = "AI_002"
	ErrCodeAIInferenceFailed  ErrorCode = "AI_003"
	ErrCodeAIMalformedOutput  ErrorCode = "AI_004"
	ErrCodeAIRateLimited      ErrorCode = "AI_005"
)

// ErrorCodeHTTPStatus maps each ErrorCode to the HTTP status returned to API callers.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusNotImplemented,

	ErrCodeContractEmpty:       http.StatusBadRequest,
	ErrCodeContractUnsupported: http.StatusUnsupportedMediaType,
	ErrCodeContractTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeAnalysisNotFound:    http.StatusNotFound,
	ErrCodeCatalogInvalid:      http.StatusInternalServerError,

	ErrCodeAIUnconfigured:     http.StatusServiceUnavailable,
	ErrCodeAIModelUnavailable: http.StatusServiceUnavailable,
	ErrCodeAIInferenceFailed:  http.StatusBadGateway,
	ErrCodeAIMalformedOutput:  http.StatusBadGateway,
	ErrCodeAIRateLimited:      http.StatusTooManyRequests,
}

// ErrorCodeMessage holds the default human-readable message for each ErrorCode.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeMessagingError:     "messaging error",
	ErrCodeFeatureDisabled:    "feature disabled",

	ErrCodeContractEmpty:       "no readable contract text",
	ErrCodeContractUnsupported: "unsupported contract upload",
	ErrCodeContractTooLarge:    "contract text too large",
	ErrCodeAnalysisNotFound:    "analysis not found",
	ErrCodeCatalogInvalid:      "invalid clause catalog",

	ErrCodeAIUnconfigured:     "AI collaborator not configured",
	ErrCodeAIModelUnavailable: "AI model not available",
	ErrCodeAIInferenceFailed:  "AI inference failed",
	ErrCodeAIMalformedOutput:  "AI returned malformed output",
	ErrCodeAIRateLimited:      "AI call budget exhausted",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
