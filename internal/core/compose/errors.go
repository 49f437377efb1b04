// Package compose is a typed object model for docker-compose files.
// This is part of the Functional Core - all functions are pure with no I/O.
package compose

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Construction and parse errors
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrMalformedVolumeSpec = errors.New("malformed volume spec")
	ErrInvalidName         = errors.New("invalid name")

	// Document errors
	ErrInvalidVersion = errors.New("invalid compose file version")
	ErrInvalidYAML    = errors.New("invalid YAML syntax")
	ErrUnknownService = errors.New("unknown service")
)

// ParseError wraps errors with context about where parsing failed.
type ParseError struct {
	Field   string // e.g., "services.web.volumes[0]"
	Message string
	Err     error

	// Position of the offending YAML node, when it came from a decoder.
	line, column int
}

func (e *ParseError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	case e.line > 0:
		return fmt.Sprintf("line %d: %s", e.line, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(field, message string, err error) *ParseError {
	return &ParseError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// withField re-labels err with the field path it occurred at.
func withField(field string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return NewParseError(field, pe.Message, pe.Err)
	}
	return NewParseError(field, err.Error(), err)
}
