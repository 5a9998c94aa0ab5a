package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
	"github.com/mfcastro/faturas/faturas-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// CardHandler handles card HTTP requests
type CardHandler struct {
	cardService *service.CardService
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService *service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CardRequest represents the create/update card request body
type CardRequest struct {
	BankName   string `json:"bankName"`
	LogoURL    string `json:"logoUrl"`
	ClosingDay int    `json:"closingDay"`
	DueDay     int    `json:"dueDay"`
}

// CardResponse represents a card in API responses
type CardResponse struct {
	ID         string `json:"id"`
	BankName   string `json:"bankName"`
	LogoURL    string `json:"logoUrl"`
	ClosingDay int    `json:"closingDay"`
	DueDay     int    `json:"dueDay"`
	CreatedAt  string `json:"createdAt"`
}

// CreateCard handles POST /api/v1/cards
func (h *CardHandler) CreateCard(c echo.Context) error {
	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	card, err := h.cardService.CreateCard(service.CreateCardInput{
		BankName:   req.BankName,
		LogoURL:    req.LogoURL,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
	})
	if err != nil {
		return h.handleServiceError(c, err, "create card")
	}

	log.Info().Str("card_id", card.ID.String()).Str("bank_name", card.BankName).Msg("Card created")

	return c.JSON(http.StatusCreated, toCardResponse(card))
}

// GetCards handles GET /api/v1/cards
func (h *CardHandler) GetCards(c echo.Context) error {
	cards, err := h.cardService.ListCards()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list cards")
		return NewInternalError(c, "Failed to list cards")
	}

	response := make([]CardResponse, len(cards))
	for i, card := range cards {
		response[i] = toCardResponse(card)
	}
	return c.JSON(http.StatusOK, response)
}

// GetCard handles GET /api/v1/cards/:id
func (h *CardHandler) GetCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	card, err := h.cardService.GetCardByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return NewNotFoundError(c, "Card not found")
		}
		log.Error().Err(err).Str("card_id", id.String()).Msg("Failed to get card")
		return NewInternalError(c, "Failed to get card")
	}

	return c.JSON(http.StatusOK, toCardResponse(card))
}

// UpdateCard handles PUT /api/v1/cards/:id
func (h *CardHandler) UpdateCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	card, err := h.cardService.UpdateCard(id, service.UpdateCardInput{
		BankName:   req.BankName,
		LogoURL:    req.LogoURL,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
	})
	if err != nil {
		return h.handleServiceError(c, err, "update card")
	}

	log.Info().Str("card_id", card.ID.String()).Msg("Card updated")

	return c.JSON(http.StatusOK, toCardResponse(card))
}

// DeleteCard handles DELETE /api/v1/cards/:id
func (h *CardHandler) DeleteCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	if err := h.cardService.DeleteCard(id); err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return NewNotFoundError(c, "Card not found")
		}
		log.Error().Err(err).Str("card_id", id.String()).Msg("Failed to delete card")
		return NewInternalError(c, "Failed to delete card")
	}

	log.Info().Str("card_id", id.String()).Msg("Card deleted with purchases and subscriptions")

	return c.NoContent(http.StatusNoContent)
}

// handleServiceError handles common card service errors
func (h *CardHandler) handleServiceError(c echo.Context, err error, operation string) error {
	if errors.Is(err, domain.ErrCardNotFound) {
		return NewNotFoundError(c, "Card not found")
	}
	if errors.Is(err, domain.ErrNameRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "bankName", Message: "Bank name is required"},
		})
	}
	if errors.Is(err, domain.ErrNameTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "bankName", Message: "Bank name must be 255 characters or less"},
		})
	}
	if errors.Is(err, domain.ErrInvalidClosingDay) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "closingDay", Message: "Closing day must be between 1 and 31"},
		})
	}
	if errors.Is(err, domain.ErrInvalidDueDay) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dueDay", Message: "Due day must be between 1 and 31"},
		})
	}
	log.Error().Err(err).Str("operation", operation).Msg("Failed to " + operation)
	return NewInternalError(c, "Failed to "+operation)
}

// toCardResponse converts a domain.Card to CardResponse
func toCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:         card.ID.String(),
		BankName:   card.BankName,
		LogoURL:    card.LogoURL,
		ClosingDay: card.ClosingDay,
		DueDay:     card.DueDay,
		CreatedAt:  card.CreatedAt.Format(time.RFC3339),
	}
}
