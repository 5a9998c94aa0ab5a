package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
	"github.com/mfcastro/faturas/faturas-backend/internal/invoice"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SubscriptionService materializes recurring subscription charges as
// single-installment purchases, one per month. Materialization writes the
// whole batch through one repository transaction and compensates the
// subscription row on failure, so a subscription is never visible as active
// with only part of its months created.
type SubscriptionService struct {
	subscriptionRepo domain.SubscriptionRepository
	purchaseRepo     domain.PurchaseRepository
	cardRepo         domain.CardRepository
	now              func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subscriptionRepo domain.SubscriptionRepository,
	purchaseRepo domain.PurchaseRepository,
	cardRepo domain.CardRepository,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		purchaseRepo:     purchaseRepo,
		cardRepo:         cardRepo,
		now:              time.Now,
	}
}

// CreateSubscriptionInput holds the input for creating a subscription
type CreateSubscriptionInput struct {
	CardID      uuid.UUID
	Name        string
	Value       decimal.Decimal
	StartDate   time.Time
	Description string
}

// CreateSubscriptionResult holds the created subscription and its
// materialized monthly purchases
type CreateSubscriptionResult struct {
	Subscription *domain.Subscription
	Purchases    []*domain.Purchase
}

// CreateSubscription validates the input, persists the subscription and
// materializes one purchase per month from the start month through December
// of the start year. The horizon is bounded to the start year; rolling the
// batch into following years is a periodic job outside this service.
func (s *SubscriptionService) CreateSubscription(input CreateSubscriptionInput) (*CreateSubscriptionResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Value.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidValue
	}

	card, err := s.cardRepo.GetByID(input.CardID)
	if err != nil {
		return nil, domain.ErrCardNotFound
	}

	sub := &domain.Subscription{
		CardID:      input.CardID,
		Name:        name,
		Value:       input.Value,
		StartDate:   input.StartDate,
		Description: input.Description,
		Status:      domain.SubscriptionActive,
	}

	created, err := s.subscriptionRepo.Create(sub)
	if err != nil {
		return nil, err
	}

	batch, err := s.buildMonthlyPurchases(created, card)
	if err != nil {
		s.compensate(created.ID)
		return nil, err
	}

	persisted, err := s.purchaseRepo.CreateBatch(batch)
	if err != nil {
		// The batch is all-or-nothing, so nothing was written. Remove the
		// subscription row to avoid showing an active subscription with no
		// invoices behind it.
		s.compensate(created.ID)
		return nil, fmt.Errorf("%w: %s", domain.ErrPartialMaterialization, err)
	}

	log.Info().
		Str("subscription_id", created.ID.String()).
		Int("months", len(persisted)).
		Msg("Subscription materialized")

	return &CreateSubscriptionResult{
		Subscription: created,
		Purchases:    persisted,
	}, nil
}

// buildMonthlyPurchases expands the subscription into its synthetic monthly
// purchases. Each month's purchase date keeps the start date's day-of-month,
// clamped to the target month's length, and resolves its invoice month
// against the card's closing day.
func (s *SubscriptionService) buildMonthlyPurchases(sub *domain.Subscription, card *domain.Card) ([]*domain.Purchase, error) {
	year := sub.StartDate.Year()
	startMonth := sub.StartDate.Month()
	dayOfMonth := sub.StartDate.Day()

	purchases := make([]*domain.Purchase, 0, int(time.December-startMonth)+1)
	for m := startMonth; m <= time.December; m++ {
		day := invoice.ClampDay(year, m, dayOfMonth)
		purchaseDate := time.Date(year, m, day, 0, 0, 0, 0, time.UTC)

		month, err := invoice.Resolve(purchaseDate, card.ClosingDay)
		if err != nil {
			return nil, domain.ErrInvalidClosingDay
		}

		subID := sub.ID
		purchases = append(purchases, &domain.Purchase{
			CardID:            sub.CardID,
			PurchaseDate:      purchaseDate,
			Name:              fmt.Sprintf("%s (Assinatura)", sub.Name),
			Category:          "assinatura",
			TotalValue:        sub.Value,
			TotalInstallments: 1,
			InstallmentValue:  sub.Value,
			InvoiceMonth:      month.String(),
			SubscriptionID:    &subID,
		})
	}

	return purchases, nil
}

// compensate removes the subscription row after a failed materialization
func (s *SubscriptionService) compensate(id uuid.UUID) {
	if err := s.subscriptionRepo.Delete(id); err != nil {
		log.Error().Err(err).
			Str("subscription_id", id.String()).
			Msg("Failed to compensate subscription after materialization failure")
	}
}

// CancelSubscription marks the subscription as cancelled and removes its
// materialized purchases from the cancellation month onward. Months before
// the cancellation stay untouched so historical totals do not change.
func (s *SubscriptionService) CancelSubscription(id uuid.UUID) (*domain.Subscription, error) {
	sub, err := s.subscriptionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sub.Status != domain.SubscriptionActive {
		return nil, domain.ErrSubscriptionInactive
	}

	cancelledAt := s.now()
	updated, err := s.subscriptionRepo.UpdateStatus(id, domain.SubscriptionCancelled, &cancelledAt)
	if err != nil {
		return nil, err
	}

	cutoff := invoice.MonthOf(cancelledAt).String()
	removed, err := s.purchaseRepo.DeleteBySubscriptionFromMonth(id, cutoff)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("subscription_id", id.String()).
		Str("cutoff_month", cutoff).
		Int64("purchases_removed", removed).
		Msg("Subscription cancelled")

	return updated, nil
}

// GetSubscriptionByID retrieves a subscription by ID
func (s *SubscriptionService) GetSubscriptionByID(id uuid.UUID) (*domain.Subscription, error) {
	return s.subscriptionRepo.GetByID(id)
}

// ListSubscriptions retrieves all subscriptions
func (s *SubscriptionService) ListSubscriptions() ([]*domain.Subscription, error) {
	return s.subscriptionRepo.List()
}

// ListSubscriptionPurchases retrieves the materialized purchases of a
// subscription
func (s *SubscriptionService) ListSubscriptionPurchases(id uuid.UUID) ([]*domain.Purchase, error) {
	if _, err := s.subscriptionRepo.GetByID(id); err != nil {
		return nil, err
	}
	return s.purchaseRepo.ListBySubscription(id)
}
