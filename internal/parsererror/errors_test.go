package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name: "with line number",
			err: &ParseError{
				Parser: "ledger",
				Line:   7,
				Field:  "amount (INR)",
				Value:  "abc",
				Err:    errors.New("invalid decimal"),
			},
			expected: "ledger: line 7: failed to parse amount (INR)='abc': invalid decimal",
		},
		{
			name: "without line number",
			err: &ParseError{
				Parser: "ledger",
				Field:  "timestamp",
				Value:  "",
				Err:    errors.New("empty timestamp"),
			},
			expected: "ledger: failed to parse timestamp='': empty timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	original := errors.New("original error")
	err := &ParseError{Parser: "ledger", Field: "amount", Value: "x", Err: original}

	assert.True(t, errors.Is(err, original))
}

func TestInvalidFormatError(t *testing.T) {
	withPath := &InvalidFormatError{
		FilePath:       "upi.csv",
		ExpectedFormat: "column 'timestamp'",
		Msg:            "missing required column",
	}
	assert.Equal(t, "invalid format in file 'upi.csv': missing required column. Expected: column 'timestamp'", withPath.Error())

	noPath := &InvalidFormatError{ExpectedFormat: "header row", Msg: "empty input"}
	assert.Equal(t, "invalid format: empty input. Expected: header row", noPath.Error())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{FilePath: "/tmp/ledger.csv", Reason: "no data rows"}
	assert.Equal(t, "validation failed for /tmp/ledger.csv: no data rows", err.Error())

	sentinel := errors.New("invalid file format")
	wrapped := fmt.Errorf("validate: %w", &ValidationError{FilePath: "a.csv", Reason: "r", Err: sentinel})
	assert.True(t, errors.Is(wrapped, sentinel))

	var ve *ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "a.csv", ve.FilePath)
}

func TestSeriesOrderError(t *testing.T) {
	err := &SeriesOrderError{Category: "Food", Index: 2, Previous: "2024-03", Current: "2024-03"}
	assert.Equal(t, `series "Food": month 2024-03 at index 2 does not follow 2024-03`, err.Error())
}

func TestProjectionError_WrapsDegenerateInput(t *testing.T) {
	err := fmt.Errorf("run: %w", &ProjectionError{Category: "Fuel", Err: ErrDegenerateInput})

	assert.True(t, errors.Is(err, ErrDegenerateInput))

	var projErr *ProjectionError
	assert.True(t, errors.As(err, &projErr))
	assert.Equal(t, "Fuel", projErr.Category)
	assert.Contains(t, err.Error(), `category "Fuel"`)
}
