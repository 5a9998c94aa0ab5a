package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a single record covering all of its installments. Individual
// installment occurrences are derived from InvoiceMonth and TotalInstallments,
// never stored as separate rows.
type Purchase struct {
	ID                uuid.UUID       `json:"id"`
	CardID            uuid.UUID       `json:"cardId"`
	PurchaseDate      time.Time       `json:"purchaseDate"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	TotalValue        decimal.Decimal `json:"totalValue"`
	TotalInstallments int             `json:"totalInstallments"`
	InstallmentValue  decimal.Decimal `json:"installmentValue"`
	// InvoiceMonth is the YYYY-MM bucket of the first installment, either
	// resolved from the card's closing day or supplied by manual override.
	InvoiceMonth   string     `json:"invoiceMonth"`
	SubscriptionID *uuid.UUID `json:"subscriptionId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Categories accepted for purchases
var PurchaseCategories = []string{
	"alimentacao",
	"transporte",
	"saude",
	"lazer",
	"educacao",
	"casa",
	"vestuario",
	"tecnologia",
	"assinatura",
	"outros",
}

type PurchaseRepository interface {
	Create(purchase *Purchase) (*Purchase, error)
	// CreateBatch persists all purchases atomically. Either every record is
	// written or none is.
	CreateBatch(purchases []*Purchase) ([]*Purchase, error)
	GetByID(id uuid.UUID) (*Purchase, error)
	List() ([]*Purchase, error)
	ListBySubscription(subscriptionID uuid.UUID) ([]*Purchase, error)
	Delete(id uuid.UUID) error
	// DeleteBySubscriptionFromMonth removes the subscription's purchases
	// whose invoice month is at or after the given YYYY-MM cutoff and
	// returns the number of rows removed.
	DeleteBySubscriptionFromMonth(subscriptionID uuid.UUID, month string) (int64, error)
}
