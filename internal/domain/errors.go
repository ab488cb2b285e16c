package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Fields  []string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so that sentinel values compare equal to
// errors carrying extra fields or causes.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeUnknownCategory     = "UNKNOWN_CATEGORY"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks.
var (
	ErrInvalidRequest      = NewDomainError(ErrCodeValidation, "invalid recommendation request")
	ErrUnknownCategory     = NewDomainError(ErrCodeUnknownCategory, "unknown service type")
	ErrUpstreamUnavailable = NewDomainError(ErrCodeUpstreamUnavailable, "recommendation data is temporarily unavailable")
	ErrMissingIdentity     = NewDomainError(ErrCodeUnauthorized, "missing user identity")
)

// NewValidationError reports the request fields that failed validation.
func NewValidationError(fields ...string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: ErrInvalidRequest.Message,
		Fields:  fields,
	}
}

// NewUnknownCategoryError reports a service type outside the known categories.
func NewUnknownCategoryError(value string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownCategory,
		Message: ErrUnknownCategory.Message,
		Fields:  []string{"serviceType"},
		Err:     fmt.Errorf("%q is not one of %s", value, strings.Join(CategoryNames(), ", ")),
	}
}

// NewUpstreamError wraps a failed or timed-out collaborator read.
func NewUpstreamError(source string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeUpstreamUnavailable,
		Message: ErrUpstreamUnavailable.Message,
		Err:     fmt.Errorf("%s: %w", source, err),
	}
}

// IsClientError reports whether err is user-correctable.
func IsClientError(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == ErrCodeValidation || de.Code == ErrCodeUnknownCategory
}
