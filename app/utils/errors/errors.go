package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents specific error types
type ErrorCode string

const (
	// Authentication and authorization errors
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeMalformedClaims ErrorCode = "MALFORMED_CLAIMS"
	ErrCodeAccessDenied    ErrorCode = "ACCESS_DENIED"

	// User management errors
	ErrCodeNotFound  ErrorCode = "NOT_FOUND"
	ErrCodeDuplicate ErrorCode = "DUPLICATE"

	// Validation errors
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Identity provider errors
	ErrCodeRoleNotFound  ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeUpstreamError ErrorCode = "UPSTREAM_ERROR"

	// System errors
	ErrCodeConfigError       ErrorCode = "CONFIG_ERROR"
	ErrCodeInternalError     ErrorCode = "INTERNAL_ERROR"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Cause      error                  `json:"-"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: httpStatusFor(code),
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: httpStatusFor(code),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: httpStatusFor(code),
		Cause:      cause,
	}
}

// Wrapf wraps an existing error with AppError and formatted message
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: httpStatusFor(code),
		Cause:      cause,
	}
}

// AsAppError converts an error to AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// HasCode reports whether err carries the given error code
func HasCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// GetHTTPStatusCode gets the HTTP status code for an error
func GetHTTPStatusCode(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// httpStatusFor maps error codes to HTTP status codes. Malformed claims point
// at an untrusted or misissued token, so they surface as 401 rather than 403;
// a missing realm role is a deployment fault, so it surfaces as 500 rather
// than a client error.
func httpStatusFor(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthenticated, ErrCodeMalformedClaims:
		return http.StatusUnauthorized
	case ErrCodeAccessDenied:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicate:
		return http.StatusConflict
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeUpstreamError:
		return http.StatusBadGateway
	case ErrCodeRoleNotFound, ErrCodeConfigError, ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Predefined common errors

var (
	ErrUnauthenticated = New(ErrCodeUnauthenticated, "authentication required")
	ErrAccessDenied    = New(ErrCodeAccessDenied, "access denied")
	ErrNotFound        = New(ErrCodeNotFound, "resource not found")
)

// Helper constructors for contextual errors

// NewUnauthenticated creates an unauthenticated error with context
func NewUnauthenticated(details string) *AppError {
	return New(ErrCodeUnauthenticated, "authentication required").WithDetails(details)
}

// NewAccessDenied creates an access-denied error with context
func NewAccessDenied(details string) *AppError {
	return New(ErrCodeAccessDenied, "access denied").WithDetails(details)
}

// NewNotFound creates a not-found error for a resource
func NewNotFound(resource string) *AppError {
	return Newf(ErrCodeNotFound, "%s not found", resource)
}

// NewDuplicate creates a duplicate error with details
func NewDuplicate(details string) *AppError {
	return New(ErrCodeDuplicate, "duplicate resource").WithDetails(details)
}

// NewValidationError creates a validation error with details
func NewValidationError(details string) *AppError {
	return New(ErrCodeValidationFailed, "validation failed").WithDetails(details)
}

// NewMalformedClaims creates a malformed-claims error with details
func NewMalformedClaims(details string) *AppError {
	return New(ErrCodeMalformedClaims, "malformed token claims").WithDetails(details)
}

// NewRoleNotFound creates a role-not-found error for a realm role
func NewRoleNotFound(role string) *AppError {
	return Newf(ErrCodeRoleNotFound, "realm role %q not defined", role)
}

// NewUpstreamError creates an upstream error with cause
func NewUpstreamError(cause error) *AppError {
	return Wrap(ErrCodeUpstreamError, "identity provider request failed", cause)
}
