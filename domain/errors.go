package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
	ErrCodeRateLimited  ErrorCode = "RATE_LIMITED"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrNotAuthenticated     = NewError(ErrCodeUnauthorized, "not authenticated")
	ErrForbidden            = NewError(ErrCodeForbidden, "forbidden")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")
	ErrFieldReadOnly        = NewError(ErrCodeForbidden, "field is read-only for this role")
	ErrNotEditMode          = NewError(ErrCodeInvalid, "operation requires an existing task")
	ErrSubmitInProgress     = NewError(ErrCodeConflict, "a submission is already in progress")
	ErrConfirmationRequired = NewError(ErrCodeInvalid, "deletion was not confirmed")
)

// ValidationError is a local, field-specific rejection raised before any
// request reaches the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// RemoteError is a non-2xx answer from the backend. Message holds the
// server-provided message verbatim and is empty when the body carried none.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return fmt.Sprintf("remote error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote error: status %d: %s", e.StatusCode, e.Message)
}

// Code maps the HTTP status onto the domain taxonomy.
func (e *RemoteError) Code() ErrorCode {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrCodeInvalid
	case http.StatusTooManyRequests:
		return ErrCodeRateLimited
	default:
		return ErrCodeInternal
	}
}

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf classifies any error produced in this module.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return ErrCodeInvalid
	}
	var rErr *RemoteError
	if errors.As(err, &rErr) {
		return rErr.Code()
	}
	return ErrCodeInternal
}

// ServerMessage extracts the backend's message from err, if any.
func ServerMessage(err error) (string, bool) {
	var rErr *RemoteError
	if errors.As(err, &rErr) && rErr.Message != "" {
		return rErr.Message, true
	}
	return "", false
}
