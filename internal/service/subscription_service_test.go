package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
	"github.com/mfcastro/faturas/faturas-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSubscriptionServiceTest() (*SubscriptionService, *testutil.MockSubscriptionRepository, *testutil.MockPurchaseRepository, *testutil.MockCardRepository) {
	subscriptionRepo := testutil.NewMockSubscriptionRepository()
	purchaseRepo := testutil.NewMockPurchaseRepository()
	cardRepo := testutil.NewMockCardRepository()
	service := NewSubscriptionService(subscriptionRepo, purchaseRepo, cardRepo)
	return service, subscriptionRepo, purchaseRepo, cardRepo
}

func TestCreateSubscription_MaterializesThroughDecember(t *testing.T) {
	service, _, purchaseRepo, cardRepo := setupSubscriptionServiceTest()

	card := &domain.Card{ID: uuid.New(), BankName: "Inter", ClosingDay: 5, DueDay: 12}
	cardRepo.AddCard(card)

	result, err := service.CreateSubscription(CreateSubscriptionInput{
		CardID:    card.ID,
		Name:      "Netflix",
		Value:     decimal.NewFromFloat(39.90),
		StartDate: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// March through December of the start year
	assert.Len(t, result.Purchases, 10)
	assert.Equal(t, domain.SubscriptionActive, result.Subscription.Status)

	for _, p := range result.Purchases {
		assert.Equal(t, 1, p.TotalInstallments)
		assert.Equal(t, "Netflix (Assinatura)", p.Name)
		assert.Equal(t, "assinatura", p.Category)
		assert.True(t, p.TotalValue.Equal(decimal.NewFromFloat(39.90)))
		assert.True(t, p.InstallmentValue.Equal(decimal.NewFromFloat(39.90)))
		require.NotNil(t, p.SubscriptionID)
		assert.Equal(t, result.Subscription.ID, *p.SubscriptionID)
		assert.Equal(t, 10, p.PurchaseDate.Day())
	}

	// Day 10 is past the closing day 5, so every instance rolls to the
	// following month's invoice: the May instance lands on 2025-06.
	may := result.Purchases[2]
	assert.Equal(t, time.May, may.PurchaseDate.Month())
	assert.Equal(t, "2025-06", may.InvoiceMonth)

	december := result.Purchases[9]
	assert.Equal(t, time.December, december.PurchaseDate.Month())
	assert.Equal(t, "2026-01", december.InvoiceMonth)

	stored, err := purchaseRepo.ListBySubscription(result.Subscription.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 10)
}

func TestCreateSubscription_ClampsStartDayOnShortMonths(t *testing.T) {
	service, _, _, cardRepo := setupSubscriptionServiceTest()

	card := &domain.Card{ID: uuid.New(), BankName: "Itaú", ClosingDay: 15, DueDay: 22}
	cardRepo.AddCard(card)

	result, err := service.CreateSubscription(CreateSubscriptionInput{
		CardID:    card.ID,
		Name:      "Academia",
		Value:     decimal.NewFromFloat(120.00),
		StartDate: time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, result.Purchases, 12)

	// February keeps the start day-of-month but clamped to the 28th
	february := result.Purchases[1]
	assert.Equal(t, time.February, february.PurchaseDate.Month())
	assert.Equal(t, 28, february.PurchaseDate.Day())

	// April has 30 days
	april := result.Purchases[3]
	assert.Equal(t, 30, april.PurchaseDate.Day())

	// July keeps the 31st
	july := result.Purchases[6]
	assert.Equal(t, 31, july.PurchaseDate.Day())
}

func TestCreateSubscription_Validation(t *testing.T) {
	service, subscriptionRepo, _, cardRepo := setupSubscriptionServiceTest()

	card := &domain.Card{ID: uuid.New(), BankName: "Inter", ClosingDay: 5, DueDay: 12}
	cardRepo.AddCard(card)

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	_, err := service.CreateSubscription(CreateSubscriptionInput{
		CardID: card.ID, Name: " ", Value: decimal.NewFromFloat(10), StartDate: start,
	})
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = service.CreateSubscription(CreateSubscriptionInput{
		CardID: card.ID, Name: "Spotify", Value: decimal.Zero, StartDate: start,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = service.CreateSubscription(CreateSubscriptionInput{
		CardID: uuid.New(), Name: "Spotify", Value: decimal.NewFromFloat(10), StartDate: start,
	})
	assert.ErrorIs(t, err, domain.ErrCardNotFound)

	// Nothing persisted for any rejected input
	assert.Empty(t, subscriptionRepo.Subscriptions)
}

func TestCreateSubscription_BatchFailureCompensatesSubscription(t *testing.T) {
	service, subscriptionRepo, purchaseRepo, cardRepo := setupSubscriptionServiceTest()

	card := &domain.Card{ID: uuid.New(), BankName: "Inter", ClosingDay: 5, DueDay: 12}
	cardRepo.AddCard(card)

	purchaseRepo.CreateBatchFn = func(purchases []*domain.Purchase) ([]*domain.Purchase, error) {
		return nil, errors.New("connection reset")
	}

	_, err := service.CreateSubscription(CreateSubscriptionInput{
		CardID:    card.ID,
		Name:      "Netflix",
		Value:     decimal.NewFromFloat(39.90),
		StartDate: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPartialMaterialization)

	// The failed subscription must not remain visible as active, and no
	// partial month set may exist.
	assert.Empty(t, subscriptionRepo.Subscriptions)
	assert.Empty(t, purchaseRepo.Purchases)
}

func TestCancelSubscription_RemovesOnlyFutureMonths(t *testing.T) {
	service, _, purchaseRepo, cardRepo := setupSubscriptionServiceTest()

	card := &domain.Card{ID: uuid.New(), BankName: "Inter", ClosingDay: 5, DueDay: 12}
	cardRepo.AddCard(card)

	result, err := service.CreateSubscription(CreateSubscriptionInput{
		CardID:    card.ID,
		Name:      "Netflix",
		Value:     decimal.NewFromFloat(39.90),
		StartDate: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Cancel in July 2025
	service.now = func() time.Time {
		return time.Date(2025, time.July, 18, 14, 30, 0, 0, time.UTC)
	}

	cancelled, err := service.CancelSubscription(result.Subscription.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, time.July, cancelled.CancelledAt.Month())

	remaining, err := purchaseRepo.ListBySubscription(result.Subscription.ID)
	require.NoError(t, err)

	// Instances with buckets 2025-04 through 2025-06 survive (March's
	// purchase resolved to April); everything at or after 2025-07 is gone.
	require.Len(t, remaining, 3)
	for _, p := range remaining {
		assert.Less(t, p.InvoiceMonth, "2025-07")
	}
}

func TestCancelSubscription_AlreadyCancelled(t *testing.T) {
	service, subscriptionRepo, _, _ := setupSubscriptionServiceTest()

	cancelledAt := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	sub := &domain.Subscription{
		ID:          uuid.New(),
		CardID:      uuid.New(),
		Name:        "Netflix",
		Value:       decimal.NewFromFloat(39.90),
		Status:      domain.SubscriptionCancelled,
		CancelledAt: &cancelledAt,
	}
	subscriptionRepo.AddSubscription(sub)

	_, err := service.CancelSubscription(sub.ID)
	assert.ErrorIs(t, err, domain.ErrSubscriptionInactive)
}

func TestCancelSubscription_NotFound(t *testing.T) {
	service, _, _, _ := setupSubscriptionServiceTest()

	_, err := service.CancelSubscription(uuid.New())
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}
