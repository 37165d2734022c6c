// Package models provides the data structures shared by the ledger loader,
// the aggregator, the projector and the report writer.
package models

import (
	"fmt"
	"time"
)

// MonthLayout is the textual form of a month period.
const MonthLayout = "2006-01"

// Month is a calendar year-month bucket, the granularity of every spend
// series. The zero value is not a valid month.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth creates a Month from a year and a month number.
func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf returns the month period a timestamp falls into, in the
// timestamp's own location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month '%s': %w", s, err)
	}
	return MonthOf(t), nil
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	return m.Compare(other) < 0
}

// Compare returns -1, 0 or 1 depending on whether m is before, equal to or
// after other.
func (m Month) Compare(other Month) int {
	switch {
	case m.Year < other.Year:
		return -1
	case m.Year > other.Year:
		return 1
	case m.Month < other.Month:
		return -1
	case m.Month > other.Month:
		return 1
	default:
		return 0
	}
}

// Next returns the month following m.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// String returns the month as "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
