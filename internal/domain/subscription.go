package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a recurring monthly charge. It owns a set of materialized
// single-installment purchases, one per month, linked via SubscriptionID.
type Subscription struct {
	ID          uuid.UUID          `json:"id"`
	CardID      uuid.UUID          `json:"cardId"`
	Name        string             `json:"name"`
	Value       decimal.Decimal    `json:"value"`
	StartDate   time.Time          `json:"startDate"`
	Description string             `json:"description,omitempty"`
	Status      SubscriptionStatus `json:"status"`
	CancelledAt *time.Time         `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type SubscriptionRepository interface {
	Create(sub *Subscription) (*Subscription, error)
	GetByID(id uuid.UUID) (*Subscription, error)
	List() ([]*Subscription, error)
	UpdateStatus(id uuid.UUID, status SubscriptionStatus, cancelledAt *time.Time) (*Subscription, error)
	Delete(id uuid.UUID) error
}
