// Package dateutils parses ledger timestamps in the formats commonly found in
// payment exports.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common timestamp layouts
const (
	LayoutISODate      = "2006-01-02"
	LayoutISODateTime  = "2006-01-02 15:04:05"
	LayoutISOMinutes   = "2006-01-02 15:04"
	LayoutISOT         = "2006-01-02T15:04:05"
	LayoutEuropean     = "02.01.2006"
	LayoutEuropeanTime = "02.01.2006 15:04:05"
	LayoutUS           = "01/02/2006"
	LayoutUSTime       = "01/02/2006 15:04:05"
	LayoutUSMinutes    = "01/02/2006 15:04"
	LayoutDashed       = "02-01-2006"
	LayoutDashedTime   = "02-01-2006 15:04"
	LayoutWithMonth    = "2-Jan-2006"
)

// DefaultLayouts is the ordered list of layouts tried by a Parser built
// without explicit layouts.
// Slash dates are read month-first, as most payment exports do.
var DefaultLayouts = []string{
	time.RFC3339Nano,
	LayoutISODateTime,
	LayoutISOT,
	LayoutISOMinutes,
	LayoutISODate,
	LayoutUSTime,
	LayoutUSMinutes,
	LayoutUS,
	LayoutEuropeanTime,
	LayoutEuropean,
	LayoutDashedTime,
	LayoutDashed,
	LayoutWithMonth,
	"2006/01/02",
	"2006/01/02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// Parser parses timestamps against an ordered list of layouts.
type Parser struct {
	layouts  []string
	location *time.Location
}

// NewParser creates a Parser. Empty layouts fall back to DefaultLayouts and a
// nil location to UTC.
func NewParser(layouts []string, location *time.Location) *Parser {
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}
	if location == nil {
		location = time.UTC
	}
	return &Parser{layouts: layouts, location: location}
}

// Parse tries each layout in order and returns the first successful parse
// along with the layout that matched.
func (p *Parser) Parse(value string) (time.Time, string, error) {
	clean := CleanDateString(value)
	if clean == "" {
		return time.Time{}, "", fmt.Errorf("empty timestamp")
	}

	for _, layout := range p.layouts {
		if t, err := time.ParseInLocation(layout, clean, p.location); err == nil {
			return t, layout, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse timestamp: %s", value)
}

// CleanDateString trims and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
