package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrConfig              = errors.New("configuration error")
	ErrStorage             = errors.New("storage error")
	ErrModelRequest        = errors.New("model request failed")
	ErrUnauthenticated     = errors.New("model request unauthenticated")
	ErrRateLimited         = errors.New("model request rate limited")
	ErrUnparseableResponse = errors.New("unparseable model response")
	ErrCalendarUnavailable = errors.New("calendar not configured")
)

// ParseError reports a model reply that could not be turned into a structured
// result. Raw keeps the full reply so callers can show or log it.
type ParseError struct {
	Kind   string
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %s", e.Kind, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrUnparseableResponse
}

func NewParseError(kind, reason, raw string) *ParseError {
	return &ParseError{Kind: kind, Reason: reason, Raw: raw}
}
