package domain

import (
	"github.com/shopspring/decimal"
)

// CardInvoice is one card's statement for a given month: the installments
// that fall in that month and their summed value.
type CardInvoice struct {
	Card      *Card           `json:"card"`
	Month     string          `json:"month"`
	Total     decimal.Decimal `json:"total"`
	Purchases []*Purchase     `json:"purchases"`
}

// MonthSummary is one month of the yearly invoice history.
type MonthSummary struct {
	Month     string          `json:"month"`
	Total     decimal.Decimal `json:"total"`
	Purchases []*Purchase     `json:"purchases"`
}

// Defaults used when a purchase references a card that no longer exists in
// the catalog. Aggregation synthesizes a placeholder instead of failing so
// history stays viewable after a card is deleted.
const (
	PlaceholderClosingDay = 15
	PlaceholderDueDay     = 20
)
