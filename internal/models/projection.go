package models

import "github.com/shopspring/decimal"

// BudgetProjection is the projected budget of one category for the month
// following its last observed month.
type BudgetProjection struct {
	Category        string          `json:"category" yaml:"category"`
	ForMonth        Month           `json:"month" yaml:"month"`
	ProjectedAmount decimal.Decimal `json:"projected_amount" yaml:"projected_amount"`
}
