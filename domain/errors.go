package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrCodeInvalid     ErrorCode = "INVALID"
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
	ErrCodeInternal    ErrorCode = "INTERNAL"
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

// Is matches any domain error carrying the same code and message, so wrapped
// sentinels still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
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
	ErrDocumentNotFound   = NewError(ErrCodeNotFound, "document not found")
	ErrNoLocalState       = NewError(ErrCodeNotFound, "no local state found")
	ErrBackendUnavailable = NewError(ErrCodeUnavailable, "backend unavailable")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
)

// Unavailable wraps a transport or process failure as ErrBackendUnavailable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return WrapError(ErrCodeUnavailable, ErrBackendUnavailable.Message, err)
}

// Invalid builds an ErrCodeInvalid error with a field-specific message.
func Invalid(format string, args ...any) error {
	return NewError(ErrCodeInvalid, fmt.Sprintf(format, args...))
}

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
