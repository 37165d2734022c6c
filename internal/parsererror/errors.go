// Package parsererror defines the error taxonomy shared by the ledger loader,
// the aggregator and the budget projector.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrDegenerateInput is returned when the projector receives a series it
// cannot meaningfully project, such as an empty one.
var ErrDegenerateInput = errors.New("degenerate input")

// ParseError represents a record field that could not be coerced.
type ParseError struct {
	Parser string
	Line   int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: failed to parse %s='%s': %v",
			e.Parser, e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input that does not have the expected
// shape, e.g. a ledger missing a required column.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("invalid format: %s. Expected: %s", e.Msg, e.ExpectedFormat)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// SeriesOrderError reports a category series whose months are not strictly
// increasing.
type SeriesOrderError struct {
	Category string
	Index    int
	Previous string
	Current  string
}

func (e *SeriesOrderError) Error() string {
	return fmt.Sprintf("series %q: month %s at index %d does not follow %s",
		e.Category, e.Current, e.Index, e.Previous)
}

// ProjectionError wraps a failure to project a single category.
type ProjectionError struct {
	Category string
	Err      error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection failed for category %q: %v", e.Category, e.Err)
}

func (e *ProjectionError) Unwrap() error {
	return e.Err
}
