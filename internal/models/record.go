package models

import (
	"time"

	"fjacquet/budget-csv/internal/logging"

	"github.com/shopspring/decimal"
)

// LedgerRecord is a cleaned ledger row: the timestamp and amount have been
// coerced and the month period derived.
type LedgerRecord struct {
	Timestamp time.Time
	Amount    decimal.Decimal
	Category  string
	// SenderID is empty when the ledger has no identity column or the cell
	// is blank.
	SenderID string
	Month    Month
}

// NewLedgerRecord builds a record and derives its month period.
func NewLedgerRecord(ts time.Time, amount decimal.Decimal, category, senderID string) LedgerRecord {
	return LedgerRecord{
		Timestamp: ts,
		Amount:    amount,
		Category:  category,
		SenderID:  senderID,
		Month:     MonthOf(ts),
	}
}

// LoadStats counts what happened to ledger rows during loading.
type LoadStats struct {
	Total      int // Data rows read
	Kept       int // Rows that survived cleaning
	Malformed  int // Rows dropped for an unparseable timestamp or amount
	Duplicates int // Exact duplicate rows dropped
	Filtered   int // Rows outside the requested year
}

// KeptRate returns the share of kept rows as a percentage.
func (s LoadStats) KeptRate() float64 {
	if s.Total == 0 {
		return 0.0
	}
	return float64(s.Kept) / float64(s.Total) * 100.0
}

// LogSummary logs the load counters.
func (s LoadStats) LogSummary(logger logging.Logger, source string) {
	if logger == nil {
		return
	}

	logger.Info("Ledger load summary",
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: "total_rows", Value: s.Total},
		logging.Field{Key: "kept", Value: s.Kept},
		logging.Field{Key: "malformed", Value: s.Malformed},
		logging.Field{Key: "duplicates", Value: s.Duplicates},
		logging.Field{Key: "filtered", Value: s.Filtered},
		logging.Field{Key: "kept_rate", Value: s.KeptRate()},
	)
}
