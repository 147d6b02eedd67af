package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors. Upstream variants are kept distinct so the
// caller can show a targeted message per generative-service failure mode.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrMalformedInput       = errors.New("neither text nor tabular rows supplied")
	ErrUpstreamRateLimited  = errors.New("generative extraction rate limited")
	ErrUpstreamQuota        = errors.New("generative extraction quota exceeded")
	ErrUpstreamUnavailable  = errors.New("generative extraction unavailable")
	ErrPersistenceFailed    = errors.New("persistence failed")
	ErrDatabase             = errors.New("database error")
)

// NewAppError constructs an AppError.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
