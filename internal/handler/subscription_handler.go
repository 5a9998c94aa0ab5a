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
	"github.com/shopspring/decimal"
)

// SubscriptionHandler handles subscription HTTP requests
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// SubscriptionRequest represents the create subscription request body
type SubscriptionRequest struct {
	CardID      string `json:"cardId"`
	Name        string `json:"name"`
	Value       string `json:"value"`
	StartDate   string `json:"startDate"`
	Description string `json:"description,omitempty"`
}

// SubscriptionResponse represents a subscription in API responses
type SubscriptionResponse struct {
	ID          string  `json:"id"`
	CardID      string  `json:"cardId"`
	Name        string  `json:"name"`
	Value       string  `json:"value"`
	StartDate   string  `json:"startDate"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
	CancelledAt *string `json:"cancelledAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// CreateSubscriptionResponse includes the materialized purchases
type CreateSubscriptionResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	Purchases    []PurchaseResponse   `json:"purchases"`
}

// CreateSubscription handles POST /api/v1/subscriptions
func (h *SubscriptionHandler) CreateSubscription(c echo.Context) error {
	var req SubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "cardId", Message: "Must be a valid UUID"},
		})
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "value", Message: "Must be a valid decimal number"},
		})
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "startDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	result, err := h.subscriptionService.CreateSubscription(service.CreateSubscriptionInput{
		CardID:      cardID,
		Name:        req.Name,
		Value:       value,
		StartDate:   startDate,
		Description: req.Description,
	})
	if err != nil {
		return h.handleServiceError(c, err, "create subscription")
	}

	purchases := make([]PurchaseResponse, len(result.Purchases))
	for i, p := range result.Purchases {
		purchases[i] = toPurchaseResponse(p)
	}

	return c.JSON(http.StatusCreated, CreateSubscriptionResponse{
		Subscription: toSubscriptionResponse(result.Subscription),
		Purchases:    purchases,
	})
}

// GetSubscriptions handles GET /api/v1/subscriptions
func (h *SubscriptionHandler) GetSubscriptions(c echo.Context) error {
	subs, err := h.subscriptionService.ListSubscriptions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list subscriptions")
		return NewInternalError(c, "Failed to list subscriptions")
	}

	response := make([]SubscriptionResponse, len(subs))
	for i, sub := range subs {
		response[i] = toSubscriptionResponse(sub)
	}
	return c.JSON(http.StatusOK, response)
}

// GetSubscription handles GET /api/v1/subscriptions/:id
func (h *SubscriptionHandler) GetSubscription(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid subscription ID", nil)
	}

	sub, err := h.subscriptionService.GetSubscriptionByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return NewNotFoundError(c, "Subscription not found")
		}
		log.Error().Err(err).Str("subscription_id", id.String()).Msg("Failed to get subscription")
		return NewInternalError(c, "Failed to get subscription")
	}

	return c.JSON(http.StatusOK, toSubscriptionResponse(sub))
}

// GetSubscriptionPurchases handles GET /api/v1/subscriptions/:id/purchases
func (h *SubscriptionHandler) GetSubscriptionPurchases(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid subscription ID", nil)
	}

	purchases, err := h.subscriptionService.ListSubscriptionPurchases(id)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return NewNotFoundError(c, "Subscription not found")
		}
		log.Error().Err(err).Str("subscription_id", id.String()).Msg("Failed to list subscription purchases")
		return NewInternalError(c, "Failed to list subscription purchases")
	}

	response := make([]PurchaseResponse, len(purchases))
	for i, p := range purchases {
		response[i] = toPurchaseResponse(p)
	}
	return c.JSON(http.StatusOK, response)
}

// CancelSubscription handles POST /api/v1/subscriptions/:id/cancel
func (h *SubscriptionHandler) CancelSubscription(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid subscription ID", nil)
	}

	sub, err := h.subscriptionService.CancelSubscription(id)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return NewNotFoundError(c, "Subscription not found")
		}
		if errors.Is(err, domain.ErrSubscriptionInactive) {
			return NewConflictError(c, "Subscription is already cancelled")
		}
		log.Error().Err(err).Str("subscription_id", id.String()).Msg("Failed to cancel subscription")
		return NewInternalError(c, "Failed to cancel subscription")
	}

	return c.JSON(http.StatusOK, toSubscriptionResponse(sub))
}

// handleServiceError handles common subscription service errors
func (h *SubscriptionHandler) handleServiceError(c echo.Context, err error, operation string) error {
	switch {
	case errors.Is(err, domain.ErrCardNotFound):
		return NewNotFoundError(c, "Card not found")
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidValue):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "value", Message: "Value must be greater than zero"},
		})
	case errors.Is(err, domain.ErrPartialMaterialization):
		log.Error().Err(err).Msg("Subscription materialization failed")
		return NewInternalError(c, "Failed to materialize subscription purchases")
	}
	log.Error().Err(err).Str("operation", operation).Msg("Failed to " + operation)
	return NewInternalError(c, "Failed to "+operation)
}

// toSubscriptionResponse converts a domain.Subscription to SubscriptionResponse
func toSubscriptionResponse(sub *domain.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:          sub.ID.String(),
		CardID:      sub.CardID.String(),
		Name:        sub.Name,
		Value:       sub.Value.StringFixed(2),
		StartDate:   sub.StartDate.Format("2006-01-02"),
		Description: sub.Description,
		Status:      string(sub.Status),
		CreatedAt:   sub.CreatedAt.Format(time.RFC3339),
	}
	if sub.CancelledAt != nil {
		cancelledAt := sub.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}
	return resp
}
