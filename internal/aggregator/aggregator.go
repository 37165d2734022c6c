// Package aggregator groups cleaned ledger records into monthly spend series
// per category and produces the monthly summary reports.
package aggregator

import (
	"fmt"
	"sort"

	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"

	"github.com/shopspring/decimal"
)

// Mode selects how records of one category and month are reduced.
type Mode int

const (
	// ModeTotal sums every record of the cell.
	ModeTotal Mode = iota
	// ModePerSender sums per sender, then averages those sums across senders.
	ModePerSender
)

func (m Mode) String() string {
	switch m {
	case ModeTotal:
		return "total"
	case ModePerSender:
		return "per_sender"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ModeFor picks per-sender aggregation when the ledger has an identity column.
func ModeFor(identityAvailable bool) Mode {
	if identityAvailable {
		return ModePerSender
	}
	return ModeTotal
}

// Aggregator reduces ledger records.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Aggregator{logger: logger}
}

type cell struct {
	category string
	month    models.Month
}

// Aggregate groups records by category and month and returns one series per
// category, months ascending. Records without a category are ignored, and in
// ModePerSender so are records without a sender.
func (a *Aggregator) Aggregate(records []models.LedgerRecord, mode Mode) (map[string]models.CategorySeries, error) {
	// cell -> sender -> sum; ModeTotal uses a single "" sender.
	sums := make(map[cell]map[string]decimal.Decimal)
	skipped := 0

	for _, r := range records {
		if r.Category == "" {
			skipped++
			continue
		}
		sender := ""
		if mode == ModePerSender {
			if r.SenderID == "" {
				skipped++
				continue
			}
			sender = r.SenderID
		}

		key := cell{category: r.Category, month: r.Month}
		bySender, ok := sums[key]
		if !ok {
			bySender = make(map[string]decimal.Decimal)
			sums[key] = bySender
		}
		bySender[sender] = bySender[sender].Add(r.Amount)
	}

	points := make(map[string][]models.MonthlySpendPoint)
	for key, bySender := range sums {
		perSender := make([]decimal.Decimal, 0, len(bySender))
		for _, total := range bySender {
			perSender = append(perSender, total)
		}
		// ModeTotal has one entry, so the mean is the total.
		amount := models.Mean(perSender)
		points[key.category] = append(points[key.category], models.NewMonthlySpendPoint(key.month, amount))
	}

	series := make(map[string]models.CategorySeries, len(points))
	for category, pts := range points {
		sort.Slice(pts, func(i, j int) bool {
			return pts[i].Month.Before(pts[j].Month)
		})
		s, err := models.NewCategorySeries(category, pts)
		if err != nil {
			return nil, err
		}
		series[category] = s
	}

	if skipped > 0 {
		a.logger.Debug("Records excluded from aggregation",
			logging.Field{Key: logging.FieldCount, Value: skipped},
			logging.Field{Key: logging.FieldMode, Value: mode.String()})
	}
	a.logger.Info("Aggregated ledger into category series",
		logging.Field{Key: "records", Value: len(records)},
		logging.Field{Key: "categories", Value: len(series)},
		logging.Field{Key: logging.FieldMode, Value: mode.String()})

	return series, nil
}
