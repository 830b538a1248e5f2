package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the input path does not exist or is not a regular file.
	ErrFileNotFound = errors.New("input file not found")

	// ErrRender is returned when a renderer cannot produce its output.
	ErrRender = errors.New("render failed")

	// ErrConfig is returned for invalid configuration values.
	ErrConfig = errors.New("invalid configuration")
)

// ParseError describes a station file line that does not match the expected layout.
type ParseError struct {
	Line   int    // 1-based line number in the file
	Text   string // raw line text
	Column string // offending column, empty when the whole line is wrong
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	if e.Column != "" {
		return fmt.Sprintf("line %d: column %s: %s: %q", e.Line, e.Column, e.Reason, e.Text)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
