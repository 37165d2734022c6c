package aggregator

import (
	"sort"

	"fjacquet/budget-csv/internal/models"

	"github.com/shopspring/decimal"
)

// MonthSummary is the spend of all categories combined in one month.
type MonthSummary struct {
	Month              models.Month    `json:"month" yaml:"month"`
	Total              decimal.Decimal `json:"total" yaml:"total"`
	AverageTransaction decimal.Decimal `json:"average_transaction" yaml:"average_transaction"`
	Transactions       int             `json:"transactions" yaml:"transactions"`
}

// CategoryMonthTotal is the total spend of one category in one month.
type CategoryMonthTotal struct {
	Month    models.Month    `json:"month" yaml:"month"`
	Category string          `json:"category" yaml:"category"`
	Total    decimal.Decimal `json:"total" yaml:"total"`
}

// MonthlySummary returns per-month totals, average transaction size and
// transaction counts, months ascending.
func (a *Aggregator) MonthlySummary(records []models.LedgerRecord) []MonthSummary {
	byMonth := make(map[models.Month]*MonthSummary)
	for _, r := range records {
		s, ok := byMonth[r.Month]
		if !ok {
			s = &MonthSummary{Month: r.Month, Total: decimal.Zero}
			byMonth[r.Month] = s
		}
		s.Total = s.Total.Add(r.Amount)
		s.Transactions++
	}

	out := make([]MonthSummary, 0, len(byMonth))
	for _, s := range byMonth {
		s.AverageTransaction = s.Total.Div(decimal.NewFromInt(int64(s.Transactions)))
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	return out
}

// CategoryMonthly returns per-(month, category) totals sorted by month then
// category. Records without a category are ignored.
func (a *Aggregator) CategoryMonthly(records []models.LedgerRecord) []CategoryMonthTotal {
	totals := make(map[cell]decimal.Decimal)
	for _, r := range records {
		if r.Category == "" {
			continue
		}
		key := cell{category: r.Category, month: r.Month}
		totals[key] = totals[key].Add(r.Amount)
	}

	out := make([]CategoryMonthTotal, 0, len(totals))
	for key, total := range totals {
		out = append(out, CategoryMonthTotal{Month: key.month, Category: key.category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month.Before(out[j].Month)
		}
		return out[i].Category < out[j].Category
	})
	return out
}
