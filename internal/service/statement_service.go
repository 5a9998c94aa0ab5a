package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
	"github.com/mfcastro/faturas/faturas-backend/internal/invoice"
	"github.com/shopspring/decimal"
)

// StatementService aggregates purchase installments into monthly statements.
// Containment of a purchase in a month is always decided through the invoice
// package, seeded from the purchase's stored first bucket.
type StatementService struct {
	purchaseRepo domain.PurchaseRepository
	cardRepo     domain.CardRepository
}

// NewStatementService creates a new StatementService
func NewStatementService(purchaseRepo domain.PurchaseRepository, cardRepo domain.CardRepository) *StatementService {
	return &StatementService{
		purchaseRepo: purchaseRepo,
		cardRepo:     cardRepo,
	}
}

// MonthStatement returns per-card invoices for the given YYYY-MM month.
// Cards without contributing installments are omitted. Purchases whose card
// is missing from the catalog are attributed to a synthesized placeholder
// instead of being dropped.
func (s *StatementService) MonthStatement(month string) ([]*domain.CardInvoice, error) {
	target, err := invoice.ParseMonth(month)
	if err != nil {
		return nil, domain.ErrInvalidInvoiceMonth
	}

	purchases, err := s.purchaseRepo.List()
	if err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.List()
	if err != nil {
		return nil, err
	}
	catalog := make(map[uuid.UUID]*domain.Card, len(cards))
	for _, c := range cards {
		catalog[c.ID] = c
	}

	byCard := make(map[uuid.UUID]*domain.CardInvoice)
	for _, p := range purchases {
		contributes, err := s.covers(p, target)
		if err != nil {
			return nil, err
		}
		if !contributes {
			continue
		}

		inv, ok := byCard[p.CardID]
		if !ok {
			card, found := catalog[p.CardID]
			if !found {
				card = placeholderCard(p.CardID)
			}
			inv = &domain.CardInvoice{
				Card:      card,
				Month:     target.String(),
				Total:     decimal.Zero,
				Purchases: []*domain.Purchase{},
			}
			byCard[p.CardID] = inv
		}

		inv.Purchases = append(inv.Purchases, p)
		inv.Total = inv.Total.Add(p.InstallmentValue)
	}

	result := make([]*domain.CardInvoice, 0, len(byCard))
	for _, inv := range byCard {
		result = append(result, inv)
	}
	// Sort by bank name for consistent ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].Card.BankName < result[j].Card.BankName
	})
	return result, nil
}

// YearHistory returns twelve month summaries covering January through
// December of the given year. Totals agree with MonthStatement for the same
// month because both decide containment through the same schedule expansion.
func (s *StatementService) YearHistory(year int) ([]*domain.MonthSummary, error) {
	purchases, err := s.purchaseRepo.List()
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.MonthSummary, 0, 12)
	for m := time.January; m <= time.December; m++ {
		target := invoice.Month{Year: year, Month: m}
		summary := &domain.MonthSummary{
			Month:     target.String(),
			Total:     decimal.Zero,
			Purchases: []*domain.Purchase{},
		}

		for _, p := range purchases {
			contributes, err := s.covers(p, target)
			if err != nil {
				return nil, err
			}
			if contributes {
				summary.Purchases = append(summary.Purchases, p)
				summary.Total = summary.Total.Add(p.InstallmentValue)
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// covers reports whether the purchase has an installment in the target month
func (s *StatementService) covers(p *domain.Purchase, target invoice.Month) (bool, error) {
	first, err := invoice.ParseMonth(p.InvoiceMonth)
	if err != nil {
		return false, fmt.Errorf("purchase %s has invalid invoice month %q: %w", p.ID, p.InvoiceMonth, err)
	}
	return invoice.Covers(first, p.TotalInstallments, target), nil
}

// placeholderCard synthesizes an identity for a card that was deleted while
// its purchases remain. Aggregation must stay total over a stale catalog.
func placeholderCard(id uuid.UUID) *domain.Card {
	return &domain.Card{
		ID:         id,
		BankName:   fmt.Sprintf("Cartão %s", shortID(id)),
		ClosingDay: domain.PlaceholderClosingDay,
		DueDay:     domain.PlaceholderDueDay,
	}
}

func shortID(id uuid.UUID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
