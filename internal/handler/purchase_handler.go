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

// PurchaseHandler handles purchase HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// PurchaseRequest represents the create purchase request body
type PurchaseRequest struct {
	CardID            string `json:"cardId"`
	PurchaseDate      string `json:"purchaseDate"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	TotalValue        string `json:"totalValue"`
	TotalInstallments int    `json:"totalInstallments"`
	InvoiceMonth      string `json:"invoiceMonth,omitempty"`
}

// PreviewRequest represents the schedule preview request body
type PreviewRequest struct {
	CardID            string `json:"cardId"`
	PurchaseDate      string `json:"purchaseDate"`
	TotalInstallments int    `json:"totalInstallments"`
	InvoiceMonth      string `json:"invoiceMonth,omitempty"`
}

// PreviewResponse represents the schedule preview response
type PreviewResponse struct {
	InvoiceMonths []string `json:"invoiceMonths"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID                string  `json:"id"`
	CardID            string  `json:"cardId"`
	PurchaseDate      string  `json:"purchaseDate"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	TotalValue        string  `json:"totalValue"`
	TotalInstallments int     `json:"totalInstallments"`
	InstallmentValue  string  `json:"installmentValue"`
	InvoiceMonth      string  `json:"invoiceMonth"`
	SubscriptionID    *string `json:"subscriptionId,omitempty"`
	CreatedAt         string  `json:"createdAt"`
}

// CreatePurchase handles POST /api/v1/purchases
func (h *PurchaseHandler) CreatePurchase(c echo.Context) error {
	var req PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "cardId", Message: "Must be a valid UUID"},
		})
	}
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "purchaseDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}
	totalValue, err := decimal.NewFromString(req.TotalValue)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "totalValue", Message: "Must be a valid decimal number"},
		})
	}

	purchase, err := h.purchaseService.CreatePurchase(service.CreatePurchaseInput{
		CardID:             cardID,
		PurchaseDate:       purchaseDate,
		Name:               req.Name,
		Category:           req.Category,
		TotalValue:         totalValue,
		TotalInstallments:  req.TotalInstallments,
		ManualInvoiceMonth: req.InvoiceMonth,
	})
	if err != nil {
		return h.handleServiceError(c, err, "create purchase")
	}

	log.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("invoice_month", purchase.InvoiceMonth).
		Int("installments", purchase.TotalInstallments).
		Msg("Purchase created")

	return c.JSON(http.StatusCreated, toPurchaseResponse(purchase))
}

// PreviewSchedule handles POST /api/v1/purchases/preview
func (h *PurchaseHandler) PreviewSchedule(c echo.Context) error {
	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "cardId", Message: "Must be a valid UUID"},
		})
	}
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "purchaseDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	months, err := h.purchaseService.PreviewSchedule(service.PreviewScheduleInput{
		CardID:             cardID,
		PurchaseDate:       purchaseDate,
		TotalInstallments:  req.TotalInstallments,
		ManualInvoiceMonth: req.InvoiceMonth,
	})
	if err != nil {
		return h.handleServiceError(c, err, "preview schedule")
	}

	return c.JSON(http.StatusOK, PreviewResponse{InvoiceMonths: months})
}

// GetPurchases handles GET /api/v1/purchases
func (h *PurchaseHandler) GetPurchases(c echo.Context) error {
	purchases, err := h.purchaseService.ListPurchases()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list purchases")
		return NewInternalError(c, "Failed to list purchases")
	}

	response := make([]PurchaseResponse, len(purchases))
	for i, p := range purchases {
		response[i] = toPurchaseResponse(p)
	}
	return c.JSON(http.StatusOK, response)
}

// GetPurchase handles GET /api/v1/purchases/:id
func (h *PurchaseHandler) GetPurchase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid purchase ID", nil)
	}

	purchase, err := h.purchaseService.GetPurchaseByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrPurchaseNotFound) {
			return NewNotFoundError(c, "Purchase not found")
		}
		log.Error().Err(err).Str("purchase_id", id.String()).Msg("Failed to get purchase")
		return NewInternalError(c, "Failed to get purchase")
	}

	return c.JSON(http.StatusOK, toPurchaseResponse(purchase))
}

// DeletePurchase handles DELETE /api/v1/purchases/:id
func (h *PurchaseHandler) DeletePurchase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid purchase ID", nil)
	}

	if err := h.purchaseService.DeletePurchase(id); err != nil {
		if errors.Is(err, domain.ErrPurchaseNotFound) {
			return NewNotFoundError(c, "Purchase not found")
		}
		log.Error().Err(err).Str("purchase_id", id.String()).Msg("Failed to delete purchase")
		return NewInternalError(c, "Failed to delete purchase")
	}

	log.Info().Str("purchase_id", id.String()).Msg("Purchase deleted")

	return c.NoContent(http.StatusNoContent)
}

// handleServiceError handles common purchase service errors
func (h *PurchaseHandler) handleServiceError(c echo.Context, err error, operation string) error {
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
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	case errors.Is(err, domain.ErrInvalidValue):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "totalValue", Message: "Total value must be greater than zero"},
		})
	case errors.Is(err, domain.ErrInvalidInstallments):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "totalInstallments", Message: "Installments must be between 1 and 99"},
		})
	case errors.Is(err, domain.ErrInvalidInvoiceMonth):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "invoiceMonth", Message: "Invoice month must be in YYYY-MM format"},
		})
	case errors.Is(err, domain.ErrInvalidClosingDay):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "closingDay", Message: "Closing day must be between 1 and 31"},
		})
	}
	log.Error().Err(err).Str("operation", operation).Msg("Failed to " + operation)
	return NewInternalError(c, "Failed to "+operation)
}

// toPurchaseResponse converts a domain.Purchase to PurchaseResponse
func toPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:                p.ID.String(),
		CardID:            p.CardID.String(),
		PurchaseDate:      p.PurchaseDate.Format("2006-01-02"),
		Name:              p.Name,
		Category:          p.Category,
		TotalValue:        p.TotalValue.StringFixed(2),
		TotalInstallments: p.TotalInstallments,
		InstallmentValue:  p.InstallmentValue.StringFixed(2),
		InvoiceMonth:      p.InvoiceMonth,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
	if p.SubscriptionID != nil {
		subID := p.SubscriptionID.String()
		resp.SubscriptionID = &subID
	}
	return resp
}
