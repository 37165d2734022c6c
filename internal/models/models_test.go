package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMonth_NextAndCompare(t *testing.T) {
	tests := []struct {
		name string
		in   Month
		want Month
	}{
		{name: "mid year", in: NewMonth(2024, time.June), want: NewMonth(2024, time.July)},
		{name: "year rollover", in: NewMonth(2024, time.December), want: NewMonth(2025, time.January)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := tt.in.Next()
			assert.Equal(t, tt.want, next)
			assert.True(t, tt.in.Before(next))
			assert.Equal(t, 1, next.Compare(tt.in))
			assert.Equal(t, 0, next.Compare(tt.want))
		})
	}
}

func TestMonth_StringAndParse(t *testing.T) {
	m := NewMonth(2024, time.March)
	assert.Equal(t, "2024-03", m.String())

	parsed, err := ParseMonth("2024-03")
	require.NoError(t, err)
	assert.Equal(t, m, parsed)

	_, err = ParseMonth("March 2024")
	assert.Error(t, err)
}

func TestMonth_TextMarshaling(t *testing.T) {
	out, err := json.Marshal(struct {
		M Month `json:"m"`
	}{M: NewMonth(2023, time.November)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"m":"2023-11"}`, string(out))

	var back struct {
		M Month `json:"m"`
	}
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, NewMonth(2023, time.November), back.M)
}

func TestMonthOf(t *testing.T) {
	ts := time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, NewMonth(2024, time.February), MonthOf(ts))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		expectErr bool
	}{
		{name: "integer", input: "250", want: "250"},
		{name: "fraction with spaces", input: "  99.95 ", want: "99.95"},
		{name: "exponent", input: "1.5e2", want: "150"},
		{name: "negative parses", input: "-12.5", want: "-12.5"},
		{name: "empty", input: "", expectErr: true},
		{name: "text", input: "abc", expectErr: true},
		{name: "comma thousands rejected", input: "1,000", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}

	_, err := ParseAmount("   ")
	assert.True(t, errors.Is(err, ErrEmptyAmount))
}

func TestSumAndMean(t *testing.T) {
	values := []decimal.Decimal{d("100"), d("200"), d("300")}
	assert.True(t, d("600").Equal(Sum(values)))
	assert.True(t, d("200").Equal(Mean(values)))
	assert.True(t, Mean(nil).IsZero())
}

func TestNewCategorySeries_Ordering(t *testing.T) {
	jan := NewMonth(2024, time.January)
	feb := NewMonth(2024, time.February)

	t.Run("strictly increasing accepted", func(t *testing.T) {
		s, err := NewCategorySeries("Food", []MonthlySpendPoint{
			NewMonthlySpendPoint(jan, d("10")),
			NewMonthlySpendPoint(feb, d("20")),
		})
		require.NoError(t, err)
		assert.Equal(t, "Food", s.Category())
		assert.Equal(t, 2, s.Len())
		last, ok := s.Last()
		require.True(t, ok)
		assert.Equal(t, feb, last.Month)
	})

	t.Run("duplicate month rejected", func(t *testing.T) {
		_, err := NewCategorySeries("Food", []MonthlySpendPoint{
			NewMonthlySpendPoint(jan, d("10")),
			NewMonthlySpendPoint(jan, d("20")),
		})
		var orderErr *parsererror.SeriesOrderError
		require.True(t, errors.As(err, &orderErr))
		assert.Equal(t, 1, orderErr.Index)
	})

	t.Run("descending rejected", func(t *testing.T) {
		_, err := NewCategorySeries("Food", []MonthlySpendPoint{
			NewMonthlySpendPoint(feb, d("10")),
			NewMonthlySpendPoint(jan, d("20")),
		})
		assert.Error(t, err)
	})

	t.Run("empty allowed but flagged", func(t *testing.T) {
		s, err := NewCategorySeries("Empty", nil)
		require.NoError(t, err)
		assert.True(t, s.IsEmpty())
		_, ok := s.Last()
		assert.False(t, ok)
	})
}

func TestCategorySeries_Immutable(t *testing.T) {
	points := []MonthlySpendPoint{
		NewMonthlySpendPoint(NewMonth(2024, time.January), d("10")),
	}
	s := MustCategorySeries("Food", points)

	points[0].Amount = d("999")
	assert.True(t, d("10").Equal(s.Amounts()[0]))

	out := s.Points()
	out[0].Amount = d("555")
	assert.True(t, d("10").Equal(s.Points()[0].Amount))
}

func TestMustCategorySeries_Panics(t *testing.T) {
	m := NewMonth(2024, time.May)
	assert.Panics(t, func() {
		MustCategorySeries("x", []MonthlySpendPoint{{Month: m}, {Month: m}})
	})
}

func TestNewLedgerRecord_DerivesMonth(t *testing.T) {
	ts := time.Date(2024, time.August, 3, 10, 0, 0, 0, time.UTC)
	rec := NewLedgerRecord(ts, d("42"), "Grocery", "S1")
	assert.Equal(t, NewMonth(2024, time.August), rec.Month)
	assert.Equal(t, "S1", rec.SenderID)
}

func TestLoadStats(t *testing.T) {
	stats := LoadStats{Total: 10, Kept: 7, Malformed: 2, Duplicates: 1}
	assert.InDelta(t, 70.0, stats.KeptRate(), 0.0001)
	assert.Equal(t, 0.0, LoadStats{}.KeptRate())

	mock := logging.NewMockLogger()
	stats.LogSummary(mock, "ledger.csv")
	entries := mock.GetEntriesByLevel("INFO")
	require.Len(t, entries, 1)
	v, ok := entries[0].FieldValue("duplicates")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.NotPanics(t, func() { stats.LogSummary(nil, "x") })
}
