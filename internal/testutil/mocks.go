package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
)

// MockCardRepository is a mock implementation of domain.CardRepository
type MockCardRepository struct {
	Cards map[uuid.UUID]*domain.Card
}

// NewMockCardRepository creates a new MockCardRepository
func NewMockCardRepository() *MockCardRepository {
	return &MockCardRepository{Cards: make(map[uuid.UUID]*domain.Card)}
}

// AddCard adds a card to the mock repository (helper for tests)
func (m *MockCardRepository) AddCard(card *domain.Card) {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	m.Cards[card.ID] = card
}

// Create creates a new card
func (m *MockCardRepository) Create(card *domain.Card) (*domain.Card, error) {
	card.ID = uuid.New()
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	m.Cards[card.ID] = card
	return card, nil
}

// GetByID retrieves a card by ID
func (m *MockCardRepository) GetByID(id uuid.UUID) (*domain.Card, error) {
	if card, ok := m.Cards[id]; ok {
		return card, nil
	}
	return nil, domain.ErrCardNotFound
}

// List retrieves all cards
func (m *MockCardRepository) List() ([]*domain.Card, error) {
	result := make([]*domain.Card, 0, len(m.Cards))
	for _, card := range m.Cards {
		result = append(result, card)
	}
	return result, nil
}

// Update updates an existing card
func (m *MockCardRepository) Update(card *domain.Card) (*domain.Card, error) {
	if _, ok := m.Cards[card.ID]; !ok {
		return nil, domain.ErrCardNotFound
	}
	card.UpdatedAt = time.Now()
	m.Cards[card.ID] = card
	return card, nil
}

// DeleteCascade removes a card
func (m *MockCardRepository) DeleteCascade(id uuid.UUID) error {
	if _, ok := m.Cards[id]; !ok {
		return domain.ErrCardNotFound
	}
	delete(m.Cards, id)
	return nil
}

// MockPurchaseRepository is a mock implementation of domain.PurchaseRepository
type MockPurchaseRepository struct {
	Purchases map[uuid.UUID]*domain.Purchase
	Order     []uuid.UUID
	// CreateBatchFn overrides CreateBatch when set, used to simulate batch
	// write failures
	CreateBatchFn func(purchases []*domain.Purchase) ([]*domain.Purchase, error)
}

// NewMockPurchaseRepository creates a new MockPurchaseRepository
func NewMockPurchaseRepository() *MockPurchaseRepository {
	return &MockPurchaseRepository{Purchases: make(map[uuid.UUID]*domain.Purchase)}
}

// AddPurchase adds a purchase to the mock repository (helper for tests)
func (m *MockPurchaseRepository) AddPurchase(purchase *domain.Purchase) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	m.Purchases[purchase.ID] = purchase
	m.Order = append(m.Order, purchase.ID)
}

// Create creates a new purchase
func (m *MockPurchaseRepository) Create(purchase *domain.Purchase) (*domain.Purchase, error) {
	purchase.ID = uuid.New()
	purchase.CreatedAt = time.Now()
	m.Purchases[purchase.ID] = purchase
	m.Order = append(m.Order, purchase.ID)
	return purchase, nil
}

// CreateBatch persists all purchases or none
func (m *MockPurchaseRepository) CreateBatch(purchases []*domain.Purchase) ([]*domain.Purchase, error) {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(purchases)
	}
	result := make([]*domain.Purchase, len(purchases))
	for i, p := range purchases {
		created, _ := m.Create(p)
		result[i] = created
	}
	return result, nil
}

// GetByID retrieves a purchase by ID
func (m *MockPurchaseRepository) GetByID(id uuid.UUID) (*domain.Purchase, error) {
	if p, ok := m.Purchases[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPurchaseNotFound
}

// List retrieves all purchases in insertion order
func (m *MockPurchaseRepository) List() ([]*domain.Purchase, error) {
	result := make([]*domain.Purchase, 0, len(m.Purchases))
	for _, id := range m.Order {
		if p, ok := m.Purchases[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

// ListBySubscription retrieves the purchases linked to a subscription
func (m *MockPurchaseRepository) ListBySubscription(subscriptionID uuid.UUID) ([]*domain.Purchase, error) {
	result := []*domain.Purchase{}
	for _, id := range m.Order {
		p, ok := m.Purchases[id]
		if ok && p.SubscriptionID != nil && *p.SubscriptionID == subscriptionID {
			result = append(result, p)
		}
	}
	return result, nil
}

// Delete removes a purchase
func (m *MockPurchaseRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Purchases[id]; !ok {
		return domain.ErrPurchaseNotFound
	}
	delete(m.Purchases, id)
	return nil
}

// DeleteBySubscriptionFromMonth removes a subscription's purchases with
// invoice month at or after the cutoff
func (m *MockPurchaseRepository) DeleteBySubscriptionFromMonth(subscriptionID uuid.UUID, month string) (int64, error) {
	var removed int64
	for id, p := range m.Purchases {
		if p.SubscriptionID != nil && *p.SubscriptionID == subscriptionID && p.InvoiceMonth >= month {
			delete(m.Purchases, id)
			removed++
		}
	}
	return removed, nil
}

// MockSubscriptionRepository is a mock implementation of domain.SubscriptionRepository
type MockSubscriptionRepository struct {
	Subscriptions map[uuid.UUID]*domain.Subscription
}

// NewMockSubscriptionRepository creates a new MockSubscriptionRepository
func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{Subscriptions: make(map[uuid.UUID]*domain.Subscription)}
}

// AddSubscription adds a subscription to the mock repository (helper for tests)
func (m *MockSubscriptionRepository) AddSubscription(sub *domain.Subscription) {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	m.Subscriptions[sub.ID] = sub
}

// Create creates a new subscription
func (m *MockSubscriptionRepository) Create(sub *domain.Subscription) (*domain.Subscription, error) {
	sub.ID = uuid.New()
	sub.CreatedAt = time.Now()
	m.Subscriptions[sub.ID] = sub
	return sub, nil
}

// GetByID retrieves a subscription by ID
func (m *MockSubscriptionRepository) GetByID(id uuid.UUID) (*domain.Subscription, error) {
	if sub, ok := m.Subscriptions[id]; ok {
		return sub, nil
	}
	return nil, domain.ErrSubscriptionNotFound
}

// List retrieves all subscriptions
func (m *MockSubscriptionRepository) List() ([]*domain.Subscription, error) {
	result := make([]*domain.Subscription, 0, len(m.Subscriptions))
	for _, sub := range m.Subscriptions {
		result = append(result, sub)
	}
	return result, nil
}

// UpdateStatus updates a subscription's status and cancellation time
func (m *MockSubscriptionRepository) UpdateStatus(id uuid.UUID, status domain.SubscriptionStatus, cancelledAt *time.Time) (*domain.Subscription, error) {
	sub, ok := m.Subscriptions[id]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	sub.Status = status
	sub.CancelledAt = cancelledAt
	return sub, nil
}

// Delete removes a subscription
func (m *MockSubscriptionRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Subscriptions[id]; !ok {
		return domain.ErrSubscriptionNotFound
	}
	delete(m.Subscriptions, id)
	return nil
}
