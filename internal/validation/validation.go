// Package validation checks command-line inputs before the pipeline runs.
package validation

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/budget-csv/internal/config"
)

// IsValidInputFile checks that path names an existing regular file.
func IsValidInputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("input file is required")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}

	return nil
}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	for _, f := range config.OutputFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %s. Supported formats are %s",
		format, strings.Join(config.OutputFormats, ", "))
}

// IsValidYear accepts 0 (no filter) or a four-digit year.
func IsValidYear(year int) error {
	if year == 0 || (year >= 1000 && year <= 9999) {
		return nil
	}
	return fmt.Errorf("invalid year: %d", year)
}
