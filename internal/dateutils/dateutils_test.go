package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		expectedOk bool
		year       int
		month      time.Month
		day        int
		layout     string
	}{
		{"ISO date time", "2024-03-15 10:30:45", true, 2024, time.March, 15, LayoutISODateTime},
		{"ISO with T", "2024-03-15T10:30:45", true, 2024, time.March, 15, LayoutISOT},
		{"RFC3339", "2024-03-15T10:30:45Z", true, 2024, time.March, 15, time.RFC3339Nano},
		{"ISO date", "2024-03-15", true, 2024, time.March, 15, LayoutISODate},
		{"US slash is month first", "03/04/2024", true, 2024, time.March, 4, LayoutUS},
		{"US slash with minutes", "03/04/2024 09:15", true, 2024, time.March, 4, LayoutUSMinutes},
		{"European dotted", "15.03.2024", true, 2024, time.March, 15, LayoutEuropean},
		{"Extra whitespace", "  2024-03-15   10:30:45 ", true, 2024, time.March, 15, LayoutISODateTime},
		{"Month name", "15-Mar-2024", true, 2024, time.March, 15, LayoutWithMonth},
		{"Empty", "", false, 0, 0, 0, ""},
		{"Garbage", "yesterday", false, 0, 0, 0, ""},
		{"Impossible date", "2024-02-30", false, 0, 0, 0, ""},
	}

	p := NewParser(nil, nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts, layout, err := p.Parse(tc.input)
			if !tc.expectedOk {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.year, ts.Year())
			assert.Equal(t, tc.month, ts.Month())
			assert.Equal(t, tc.day, ts.Day())
			assert.Equal(t, tc.layout, layout)
		})
	}
}

func TestParser_CustomLayoutsAndLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	p := NewParser([]string{"20060102"}, loc)

	ts, _, err := p.Parse("20241231")
	require.NoError(t, err)
	assert.Equal(t, loc, ts.Location())
	assert.Equal(t, time.December, ts.Month())

	_, _, err = p.Parse("2024-12-31")
	assert.Error(t, err, "default layouts are not used when custom ones are set")
}

func TestCleanDateString(t *testing.T) {
	assert.Equal(t, "2024-01-01 10:00", CleanDateString(" 2024-01-01 \t 10:00 "))
}
