package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is a credit card whose statement closes on ClosingDay each month.
// Purchases on or after the closing day land on the next month's invoice.
type Card struct {
	ID         uuid.UUID `json:"id"`
	BankName   string    `json:"bankName"`
	LogoURL    string    `json:"logoUrl"`
	ClosingDay int       `json:"closingDay"`
	DueDay     int       `json:"dueDay"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CardRepository interface {
	Create(card *Card) (*Card, error)
	GetByID(id uuid.UUID) (*Card, error)
	List() ([]*Card, error)
	Update(card *Card) (*Card, error)
	// DeleteCascade removes the card together with its purchases and
	// subscriptions in a single transaction.
	DeleteCascade(id uuid.UUID) error
}
