package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_010"
	ErrCodeNotImplemented     ErrorCode = "COMMON_011"

	CodeOK ErrorCode = "OK"
)

// Risk analytics error codes.
const (
	ErrCodeAnalysisFailed     ErrorCode = "RISK_001"
	ErrCodeMissingRevenueData ErrorCode = "RISK_002"
	ErrCodeCompanyNotFound    ErrorCode = "RISK_003"
	ErrCodeHorizonInvalid     ErrorCode = "RISK_004"
)

// Data source error codes. The normalizer never escalates a single bad
// record; these cover whole-source failures (unreachable store, bad batch).
const (
	ErrCodeSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeSourceParseError  ErrorCode = "SRC_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeAnalysisFailed:     http.StatusInternalServerError,
	ErrCodeMissingRevenueData: http.StatusUnprocessableEntity,
	ErrCodeCompanyNotFound:    http.StatusNotFound,
	ErrCodeHorizonInvalid:     http.StatusBadRequest,

	ErrCodeSourceUnavailable: http.StatusServiceUnavailable,
	ErrCodeSourceParseError:  http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeAnalysisFailed:     "analysis failed",
	ErrCodeMissingRevenueData: "no revenue data available for impact calculation",
	ErrCodeCompanyNotFound:    "company not found",
	ErrCodeHorizonInvalid:     "invalid analysis horizon",

	ErrCodeSourceUnavailable: "data source unavailable",
	ErrCodeSourceParseError:  "failed to parse data source response",
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
