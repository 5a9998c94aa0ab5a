package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
	"github.com/mfcastro/faturas/faturas-backend/internal/invoice"
	"github.com/shopspring/decimal"
)

// PurchaseService handles purchase business logic. Both the schedule preview
// and the write path below go through the invoice package, so they can never
// disagree on bucket assignment.
type PurchaseService struct {
	purchaseRepo domain.PurchaseRepository
	cardRepo     domain.CardRepository
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(purchaseRepo domain.PurchaseRepository, cardRepo domain.CardRepository) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		cardRepo:     cardRepo,
	}
}

// CreatePurchaseInput holds the input for creating a purchase
type CreatePurchaseInput struct {
	CardID            uuid.UUID
	PurchaseDate      time.Time
	Name              string
	Category          string
	TotalValue        decimal.Decimal
	TotalInstallments int
	// ManualInvoiceMonth, when set, bypasses the closing-day resolution for
	// the first bucket. Subsequent installments still follow from it.
	ManualInvoiceMonth string
}

// CreatePurchase validates the input, resolves the first invoice month and
// persists the purchase
func (s *PurchaseService) CreatePurchase(input CreatePurchaseInput) (*domain.Purchase, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, domain.ErrCategoryRequired
	}
	if input.TotalValue.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidValue
	}
	if input.TotalInstallments < invoice.MinInstallments || input.TotalInstallments > invoice.MaxInstallments {
		return nil, domain.ErrInvalidInstallments
	}

	card, err := s.cardRepo.GetByID(input.CardID)
	if err != nil {
		return nil, domain.ErrCardNotFound
	}

	firstMonth, err := s.firstInvoiceMonth(input.PurchaseDate, card.ClosingDay, input.ManualInvoiceMonth)
	if err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		CardID:            input.CardID,
		PurchaseDate:      input.PurchaseDate,
		Name:              name,
		Category:          input.Category,
		TotalValue:        input.TotalValue,
		TotalInstallments: input.TotalInstallments,
		InstallmentValue:  input.TotalValue.DivRound(decimal.NewFromInt(int64(input.TotalInstallments)), 2),
		InvoiceMonth:      firstMonth.String(),
	}

	return s.purchaseRepo.Create(purchase)
}

// PreviewScheduleInput holds the input for previewing an installment schedule
type PreviewScheduleInput struct {
	CardID             uuid.UUID
	PurchaseDate       time.Time
	TotalInstallments  int
	ManualInvoiceMonth string
}

// PreviewSchedule returns the invoice months a purchase would occupy without
// persisting anything. It calls the same resolution path as CreatePurchase.
func (s *PurchaseService) PreviewSchedule(input PreviewScheduleInput) ([]string, error) {
	if input.TotalInstallments < invoice.MinInstallments || input.TotalInstallments > invoice.MaxInstallments {
		return nil, domain.ErrInvalidInstallments
	}

	card, err := s.cardRepo.GetByID(input.CardID)
	if err != nil {
		return nil, domain.ErrCardNotFound
	}

	firstMonth, err := s.firstInvoiceMonth(input.PurchaseDate, card.ClosingDay, input.ManualInvoiceMonth)
	if err != nil {
		return nil, err
	}

	months, err := invoice.Schedule(firstMonth, input.TotalInstallments)
	if err != nil {
		return nil, domain.ErrInvalidInstallments
	}

	result := make([]string, len(months))
	for i, m := range months {
		result[i] = m.String()
	}
	return result, nil
}

// firstInvoiceMonth applies the manual override when present, otherwise
// resolves the bucket from the card's closing day
func (s *PurchaseService) firstInvoiceMonth(purchaseDate time.Time, closingDay int, manual string) (invoice.Month, error) {
	if manual != "" {
		month, err := invoice.ParseMonth(manual)
		if err != nil {
			return invoice.Month{}, domain.ErrInvalidInvoiceMonth
		}
		return month, nil
	}

	month, err := invoice.Resolve(purchaseDate, closingDay)
	if err != nil {
		return invoice.Month{}, domain.ErrInvalidClosingDay
	}
	return month, nil
}

// GetPurchaseByID retrieves a purchase by ID
func (s *PurchaseService) GetPurchaseByID(id uuid.UUID) (*domain.Purchase, error) {
	return s.purchaseRepo.GetByID(id)
}

// ListPurchases retrieves all purchases
func (s *PurchaseService) ListPurchases() ([]*domain.Purchase, error) {
	return s.purchaseRepo.List()
}

// DeletePurchase removes a purchase
func (s *PurchaseService) DeletePurchase(id uuid.UUID) error {
	if _, err := s.purchaseRepo.GetByID(id); err != nil {
		return err
	}
	return s.purchaseRepo.Delete(id)
}
