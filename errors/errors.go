package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Re-exported so callers need a single errors import.
var (
	Is   = stderrors.Is
	As   = stderrors.As
	Join = stderrors.Join
)

// AppError is the error type shared by every package of the module.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += " (cause: " + e.Cause.Error() + ")"
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause records the underlying error and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges details into e and returns e.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithDetail sets one detail and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New builds an AppError with an explicit status. Retryable follows code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Newf builds an AppError whose status is looked up from code.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...), StatusOf(code))
}

// withOptional sets key only when value is non-empty.
func (e *AppError) withOptional(key, value string) *AppError {
	if value != "" {
		e.WithDetail(key, value)
	}
	return e
}

// MissingInput reports the input fields a node requires but the record
// lacks, in the order given. node may be empty for an anonymous node.
func MissingInput(node string, fields []string) *AppError {
	return Newf(ErrCodeMissingInput, "missing data: %s", strings.Join(fields, ", ")).
		WithDetail("fields", fields).
		withOptional("node", node)
}

// NotFound reports an unknown resource.
func NotFound(resource, id string) *AppError {
	return Newf(ErrCodeNotFound, "The requested %s was not found.", resource).
		WithDetail("resource", resource).
		withOptional("id", id)
}

// AlreadyExists reports a second registration under the same name.
func AlreadyExists(resource, id string) *AppError {
	return Newf(ErrCodeAlreadyExists, "A %s named %q already exists.", resource, id).
		WithDetail("resource", resource).
		withOptional("id", id)
}

// InvalidInput reports a rejected request or value.
func InvalidInput(field, reason string) *AppError {
	return Newf(ErrCodeInvalidInput, "Invalid input: %s", reason).withOptional("field", field)
}

// Validation reports failed field validation. Unlike InvalidInput it maps
// to 422: the request was well formed but its data is not acceptable.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusUnprocessableEntity)
}

// MissingField reports an empty required field.
func MissingField(field string) *AppError {
	return Newf(ErrCodeMissingField, "Missing required field: %s", field).WithDetail("field", field)
}

// InvalidFormat reports a field that does not parse as expectedFormat.
func InvalidFormat(field, expectedFormat string) *AppError {
	return Newf(ErrCodeInvalidFormat, "Invalid format for %s. Expected: %s", field, expectedFormat).
		WithDetails(map[string]any{"field": field, "expected_format": expectedFormat})
}

// RateLimited reports a throttled caller. It is retryable.
func RateLimited() *AppError {
	return Newf(ErrCodeRateLimited, "Rate limit exceeded.")
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return Newf(ErrCodeInternal, "An unexpected error occurred.").WithCause(cause)
}
