package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
)

// CardService handles credit card business logic
type CardService struct {
	cardRepo domain.CardRepository
}

// NewCardService creates a new CardService
func NewCardService(cardRepo domain.CardRepository) *CardService {
	return &CardService{cardRepo: cardRepo}
}

// CreateCardInput holds the input for creating a card
type CreateCardInput struct {
	BankName   string
	LogoURL    string
	ClosingDay int
	DueDay     int
}

// CreateCard validates and creates a new card
func (s *CardService) CreateCard(input CreateCardInput) (*domain.Card, error) {
	bankName := strings.TrimSpace(input.BankName)
	if bankName == "" {
		return nil, domain.ErrNameRequired
	}
	if len(bankName) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if input.ClosingDay < 1 || input.ClosingDay > 31 {
		return nil, domain.ErrInvalidClosingDay
	}
	if input.DueDay < 1 || input.DueDay > 31 {
		return nil, domain.ErrInvalidDueDay
	}

	card := &domain.Card{
		BankName:   bankName,
		LogoURL:    input.LogoURL,
		ClosingDay: input.ClosingDay,
		DueDay:     input.DueDay,
	}

	return s.cardRepo.Create(card)
}

// GetCardByID retrieves a card by ID
func (s *CardService) GetCardByID(id uuid.UUID) (*domain.Card, error) {
	return s.cardRepo.GetByID(id)
}

// ListCards retrieves all cards
func (s *CardService) ListCards() ([]*domain.Card, error) {
	return s.cardRepo.List()
}

// UpdateCardInput holds the input for updating a card
type UpdateCardInput struct {
	BankName   string
	LogoURL    string
	ClosingDay int
	DueDay     int
}

// UpdateCard updates an existing card. Changing the closing day only affects
// buckets resolved from that point on; stored invoice months are untouched.
func (s *CardService) UpdateCard(id uuid.UUID, input UpdateCardInput) (*domain.Card, error) {
	bankName := strings.TrimSpace(input.BankName)
	if bankName == "" {
		return nil, domain.ErrNameRequired
	}
	if len(bankName) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.ClosingDay < 1 || input.ClosingDay > 31 {
		return nil, domain.ErrInvalidClosingDay
	}
	if input.DueDay < 1 || input.DueDay > 31 {
		return nil, domain.ErrInvalidDueDay
	}

	existing, err := s.cardRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	existing.BankName = bankName
	existing.LogoURL = input.LogoURL
	existing.ClosingDay = input.ClosingDay
	existing.DueDay = input.DueDay

	return s.cardRepo.Update(existing)
}

// DeleteCard removes a card together with its purchases and subscriptions
func (s *CardService) DeleteCard(id uuid.UUID) error {
	if _, err := s.cardRepo.GetByID(id); err != nil {
		return err
	}
	return s.cardRepo.DeleteCascade(id)
}
