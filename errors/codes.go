package errors

import "net/http"

// ErrorCode is the machine-readable kind of an AppError.
type ErrorCode string

const (
	// ErrCodeMissingInput means a record lacks fields a node requires.
	ErrCodeMissingInput ErrorCode = "MISSING_INPUT"
	// ErrCodeInvalidInput means a value or request was rejected.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField means a required field is empty.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidFormat means a field does not parse as the expected format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// ErrCodeNotFound means no node is registered under the name.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists means a node with the same name is already compiled.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// ErrCodeRateLimited means the caller exceeded its request budget.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	ErrCodeInternal    ErrorCode = "INTERNAL_ERROR"
)

type codeInfo struct {
	status    int
	retryable bool
}

// Validation outcomes are never retryable: the same record yields the same
// result. Only throttling is.
var codes = map[ErrorCode]codeInfo{
	ErrCodeMissingInput:  {status: http.StatusUnprocessableEntity},
	ErrCodeInvalidInput:  {status: http.StatusBadRequest},
	ErrCodeMissingField:  {status: http.StatusUnprocessableEntity},
	ErrCodeInvalidFormat: {status: http.StatusUnprocessableEntity},
	ErrCodeNotFound:      {status: http.StatusNotFound},
	ErrCodeAlreadyExists: {status: http.StatusConflict},
	ErrCodeRateLimited:   {status: http.StatusTooManyRequests, retryable: true},
	ErrCodeInternal:      {status: http.StatusInternalServerError},
}

// IsRetryableCode reports whether errors with code may succeed on retry.
func IsRetryableCode(code ErrorCode) bool {
	return codes[code].retryable
}

// StatusOf returns the HTTP status for code, 500 for unknown codes.
func StatusOf(code ErrorCode) int {
	if info, ok := codes[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}
