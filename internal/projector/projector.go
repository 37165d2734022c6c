// Package projector computes the projected budget of a category for the month
// following its last observed month.
//
// The projection is a hybrid of three heuristics applied in order:
//
//  1. a recency-weighted average of the last months (weights oldest to
//     newest, the most recent month carrying the largest weight), or the plain
//     mean when fewer months than weights are available;
//  2. a cap at a multiple of the median monthly spend, so that a single spike
//     cannot inflate the budget;
//  3. a seasonal factor, the ratio of the average spend of the calendar month
//     of the last point to the overall average spend, skipped when the overall
//     average is not positive.
//
// The result is rounded to a fixed number of decimal places. Projection is a
// pure function of the series: no state is shared between calls, which lets
// ProjectAll run one goroutine per category.
package projector

import (
	"sort"

	"fjacquet/budget-csv/internal/config"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Rounding selects how the final budget is rounded.
type Rounding string

const (
	// RoundHalfUp rounds half away from zero (123.455 -> 123.46, 0.125 -> 0.13).
	RoundHalfUp Rounding = "half_up"
	// RoundHalfEven rounds half to even (0.125 -> 0.12).
	RoundHalfEven Rounding = "half_even"
)

// DefaultPlaces is the number of decimal places used when Options.Places is nil.
const DefaultPlaces int32 = 2

// Options configures a Projector.
type Options struct {
	// Weights apply to the last len(Weights) months, oldest first.
	Weights       []decimal.Decimal
	CapMultiplier decimal.Decimal
	// Places is nil for DefaultPlaces. 0 rounds to whole units.
	Places   *int32
	Rounding Rounding
}

// PlacesOf returns a pointer to n, for use as Options.Places.
func PlacesOf(n int32) *int32 {
	return &n
}

// DecimalPlaces resolves Places.
func (o Options) DecimalPlaces() int32 {
	if o.Places == nil {
		return DefaultPlaces
	}
	return *o.Places
}

// DefaultOptions returns weights [0.2, 0.3, 0.5], a 1.25 median cap,
// 2 decimal places and half-up rounding.
func DefaultOptions() Options {
	return Options{
		Weights: []decimal.Decimal{
			decimal.RequireFromString("0.2"),
			decimal.RequireFromString("0.3"),
			decimal.RequireFromString("0.5"),
		},
		CapMultiplier: decimal.RequireFromString("1.25"),
		Places:        PlacesOf(DefaultPlaces),
		Rounding:      RoundHalfUp,
	}
}

// OptionsFromConfig converts the projection section of the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	weights := make([]decimal.Decimal, len(cfg.Projection.Weights))
	for i, w := range cfg.Projection.Weights {
		weights[i] = decimal.NewFromFloat(w)
	}
	return Options{
		Weights:       weights,
		CapMultiplier: decimal.NewFromFloat(cfg.Projection.CapMultiplier),
		Places:        PlacesOf(cfg.Projection.Places),
		Rounding:      Rounding(cfg.Projection.Rounding),
	}
}

// Breakdown exposes every intermediate value of a projection.
type Breakdown struct {
	Points          int
	WeightedAverage decimal.Decimal
	// UsedWeights is false when the series was too short and the plain mean
	// was used instead.
	UsedWeights     bool
	Median          decimal.Decimal
	Cap             decimal.Decimal
	Capped          decimal.Decimal
	MonthAverage    decimal.Decimal
	OverallAverage  decimal.Decimal
	SeasonalFactor  decimal.Decimal
	SeasonalApplied bool
	Raw             decimal.Decimal
	Projected       decimal.Decimal
}

// Projector computes hybrid budget projections.
type Projector struct {
	opts   Options
	logger logging.Logger
}

// NewProjector creates a Projector. Zero-valued options fall back to the
// defaults field by field, so Options{} behaves like DefaultOptions().
func NewProjector(opts Options, logger logging.Logger) *Projector {
	def := DefaultOptions()
	opts.Places = PlacesOf(opts.DecimalPlaces())
	if len(opts.Weights) == 0 {
		opts.Weights = def.Weights
	}
	if !opts.CapMultiplier.IsPositive() {
		opts.CapMultiplier = def.CapMultiplier
	}
	if opts.Rounding == "" {
		opts.Rounding = def.Rounding
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Projector{opts: opts, logger: logger}
}

// Options returns the effective options.
func (p *Projector) Options() Options {
	return p.opts
}

// Project returns the rounded projected budget for the month after the last
// point of series. An empty series fails with parsererror.ErrDegenerateInput.
func (p *Projector) Project(series models.CategorySeries) (decimal.Decimal, error) {
	b, err := p.Explain(series)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Projected, nil
}

// Explain runs the projection and returns all intermediate values.
func (p *Projector) Explain(series models.CategorySeries) (Breakdown, error) {
	last, ok := series.Last()
	if !ok {
		return Breakdown{}, &parsererror.ProjectionError{
			Category: series.Category(),
			Err:      parsererror.ErrDegenerateInput,
		}
	}

	points := series.Points()
	amounts := series.Amounts()

	b := Breakdown{Points: len(points)}

	b.WeightedAverage, b.UsedWeights = p.weightedAverage(amounts)

	b.Median = median(amounts)
	b.Cap = b.Median.Mul(p.opts.CapMultiplier)
	b.Capped = decimal.Min(b.WeightedAverage, b.Cap)

	b.MonthAverage = sameCalendarMonthMean(points, last.Month)
	b.OverallAverage = models.Mean(amounts)
	b.SeasonalFactor = decimal.NewFromInt(1)
	b.Raw = b.Capped
	if b.OverallAverage.IsPositive() {
		b.SeasonalFactor = b.MonthAverage.Div(b.OverallAverage)
		b.SeasonalApplied = true
		b.Raw = b.Capped.Mul(b.MonthAverage).Div(b.OverallAverage)
	}

	b.Projected = p.round(b.Raw)
	return b, nil
}

// weightedAverage dots the last len(weights) amounts with the weights, oldest
// first. Shorter series fall back to the arithmetic mean.
func (p *Projector) weightedAverage(amounts []decimal.Decimal) (decimal.Decimal, bool) {
	n := len(p.opts.Weights)
	if len(amounts) < n {
		return models.Mean(amounts), false
	}

	window := amounts[len(amounts)-n:]
	wa := decimal.Zero
	for i, w := range p.opts.Weights {
		wa = wa.Add(window[i].Mul(w))
	}
	return wa, true
}

func (p *Projector) round(v decimal.Decimal) decimal.Decimal {
	if p.opts.Rounding == RoundHalfEven {
		return v.RoundBank(p.opts.DecimalPlaces())
	}
	return v.Round(p.opts.DecimalPlaces())
}

func median(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(amounts))
	copy(sorted, amounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

// sameCalendarMonthMean averages the points whose calendar month matches
// ref's, across all years.
func sameCalendarMonthMean(points []models.MonthlySpendPoint, ref models.Month) decimal.Decimal {
	var matching []decimal.Decimal
	for _, pt := range points {
		if pt.Month.Month == ref.Month {
			matching = append(matching, pt.Amount)
		}
	}
	return models.Mean(matching)
}
