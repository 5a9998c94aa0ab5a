package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
	"github.com/mfcastro/faturas/faturas-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// StatementHandler handles statement HTTP requests
type StatementHandler struct {
	statementService *service.StatementService
}

// NewStatementHandler creates a new StatementHandler
func NewStatementHandler(statementService *service.StatementService) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

// CardInvoiceResponse represents one card's invoice for a month
type CardInvoiceResponse struct {
	Card      CardResponse       `json:"card"`
	Month     string             `json:"month"`
	Total     string             `json:"total"`
	Purchases []PurchaseResponse `json:"purchases"`
}

// MonthSummaryResponse represents one month in a year history
type MonthSummaryResponse struct {
	Month     string             `json:"month"`
	Total     string             `json:"total"`
	Purchases []PurchaseResponse `json:"purchases"`
}

// GetMonthStatement handles GET /api/v1/statements/:month
func (h *StatementHandler) GetMonthStatement(c echo.Context) error {
	month := c.Param("month")

	invoices, err := h.statementService.MonthStatement(month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInvoiceMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Month must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Str("month", month).Msg("Failed to build month statement")
		return NewInternalError(c, "Failed to build month statement")
	}

	response := make([]CardInvoiceResponse, len(invoices))
	for i, inv := range invoices {
		response[i] = toCardInvoiceResponse(inv)
	}
	return c.JSON(http.StatusOK, response)
}

// GetYearHistory handles GET /api/v1/statements/history/:year
func (h *StatementHandler) GetYearHistory(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "year", Message: "Year must be a positive integer"},
		})
	}

	summaries, err := h.statementService.YearHistory(year)
	if err != nil {
		log.Error().Err(err).Int("year", year).Msg("Failed to build year history")
		return NewInternalError(c, "Failed to build year history")
	}

	response := make([]MonthSummaryResponse, len(summaries))
	for i, summary := range summaries {
		purchases := make([]PurchaseResponse, len(summary.Purchases))
		for j, p := range summary.Purchases {
			purchases[j] = toPurchaseResponse(p)
		}
		response[i] = MonthSummaryResponse{
			Month:     summary.Month,
			Total:     summary.Total.StringFixed(2),
			Purchases: purchases,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// toCardInvoiceResponse converts a domain.CardInvoice to CardInvoiceResponse
func toCardInvoiceResponse(inv *domain.CardInvoice) CardInvoiceResponse {
	purchases := make([]PurchaseResponse, len(inv.Purchases))
	for i, p := range inv.Purchases {
		purchases[i] = toPurchaseResponse(p)
	}
	return CardInvoiceResponse{
		Card:      toCardResponse(inv.Card),
		Month:     inv.Month,
		Total:     inv.Total.StringFixed(2),
		Purchases: purchases,
	}
}
