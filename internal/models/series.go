package models

import (
	"fjacquet/budget-csv/internal/parsererror"

	"github.com/shopspring/decimal"
)

// MonthlySpendPoint is the spend of one category in one month.
type MonthlySpendPoint struct {
	Month  Month           `json:"month" yaml:"month"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// NewMonthlySpendPoint creates a MonthlySpendPoint.
func NewMonthlySpendPoint(month Month, amount decimal.Decimal) MonthlySpendPoint {
	return MonthlySpendPoint{Month: month, Amount: amount}
}

// CategorySeries is the ordered monthly spend of a single category.
//
// A CategorySeries can only be built through NewCategorySeries, which
// rejects points whose months are not strictly increasing. The points are
// copied on the way in and on the way out, so a series is immutable once
// built.
type CategorySeries struct {
	category string
	points   []MonthlySpendPoint
}

// NewCategorySeries validates month ordering and returns the series.
func NewCategorySeries(category string, points []MonthlySpendPoint) (CategorySeries, error) {
	for i := 1; i < len(points); i++ {
		if !points[i-1].Month.Before(points[i].Month) {
			return CategorySeries{}, &parsererror.SeriesOrderError{
				Category: category,
				Index:    i,
				Previous: points[i-1].Month.String(),
				Current:  points[i].Month.String(),
			}
		}
	}

	owned := make([]MonthlySpendPoint, len(points))
	copy(owned, points)
	return CategorySeries{category: category, points: owned}, nil
}

// MustCategorySeries is like NewCategorySeries but panics on invalid input.
// Intended for tests and literals.
func MustCategorySeries(category string, points []MonthlySpendPoint) CategorySeries {
	s, err := NewCategorySeries(category, points)
	if err != nil {
		panic(err)
	}
	return s
}

// Category returns the category label.
func (s CategorySeries) Category() string {
	return s.category
}

// Len returns the number of observed months.
func (s CategorySeries) Len() int {
	return len(s.points)
}

// IsEmpty reports whether the series has no observed months.
func (s CategorySeries) IsEmpty() bool {
	return len(s.points) == 0
}

// Points returns a copy of the points in chronological order.
func (s CategorySeries) Points() []MonthlySpendPoint {
	out := make([]MonthlySpendPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Amounts returns the amounts in chronological order.
func (s CategorySeries) Amounts() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.points))
	for i, p := range s.points {
		out[i] = p.Amount
	}
	return out
}

// Last returns the most recent point. ok is false for an empty series.
func (s CategorySeries) Last() (point MonthlySpendPoint, ok bool) {
	if len(s.points) == 0 {
		return MonthlySpendPoint{}, false
	}
	return s.points[len(s.points)-1], true
}
