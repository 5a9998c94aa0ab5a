package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
	"github.com/mfcastro/faturas/faturas-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func setupPurchaseServiceTest() (*PurchaseService, *testutil.MockPurchaseRepository, *testutil.MockCardRepository) {
	purchaseRepo := testutil.NewMockPurchaseRepository()
	cardRepo := testutil.NewMockCardRepository()
	service := NewPurchaseService(purchaseRepo, cardRepo)
	return service, purchaseRepo, cardRepo
}

func addTestCard(cardRepo *testutil.MockCardRepository, closingDay int) *domain.Card {
	card := &domain.Card{
		ID:         uuid.New(),
		BankName:   "Nubank",
		ClosingDay: closingDay,
		DueDay:     22,
	}
	cardRepo.AddCard(card)
	return card
}

func TestCreatePurchase_BeforeClosingDay(t *testing.T) {
	service, _, cardRepo := setupPurchaseServiceTest()
	card := addTestCard(cardRepo, 14)

	p, err := service.CreatePurchase(CreatePurchaseInput{
		CardID:            card.ID,
		PurchaseDate:      time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC),
		Name:              "Mercado",
		Category:          "alimentacao",
		TotalValue:        decimal.NewFromFloat(250.00),
		TotalInstallments: 1,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if p.InvoiceMonth != "2025-07" {
		t.Errorf("Expected invoice month 2025-07, got %s", p.InvoiceMonth)
	}
	if !p.InstallmentValue.Equal(decimal.NewFromFloat(250.00)) {
		t.Errorf("Expected installment value 250.00, got %s", p.InstallmentValue)
	}
}

func TestCreatePurchase_OnClosingDay(t *testing.T) {
	service, _, cardRepo := setupPurchaseServiceTest()
	card := addTestCard(cardRepo, 14)

	p, err := service.CreatePurchase(CreatePurchaseInput{
		CardID:            card.ID,
		PurchaseDate:      time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC),
		Name:              "Fone de ouvido",
		Category:          "tecnologia",
		TotalValue:        decimal.NewFromFloat(199.90),
		TotalInstallments: 1,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if p.InvoiceMonth != "2025-08" {
		t.Errorf("Expected invoice month 2025-08, got %s", p.InvoiceMonth)
	}
}

func TestCreatePurchase_InstallmentValueDivision(t *testing.T) {
	service, _, cardRepo := setupPurchaseServiceTest()
	card := addTestCard(cardRepo, 14)

	p, err := service.CreatePurchase(CreatePurchaseInput{
		CardID:            card.ID,
		PurchaseDate:      time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC),
		Name:              "Notebook",
		Category:          "tecnologia",
		TotalValue:        decimal.NewFromFloat(3000.00),
		TotalInstallments: 3,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !p.InstallmentValue.Equal(decimal.NewFromFloat(1000.00)) {
		t.Errorf("Expected installment value 1000.00, got %s", p.InstallmentValue)
	}
	if p.InvoiceMonth != "2025-08" {
		t.Errorf("Expected invoice month 2025-08, got %s", p.InvoiceMonth)
	}
}

func TestCreatePurchase_ManualInvoiceMonth(t *testing.T) {
	service, _, cardRepo := setupPurchaseServiceTest()
	card := addTestCard(cardRepo, 14)

	p, err := service.CreatePurchase(CreatePurchaseInput{
		CardID:             card.ID,
		PurchaseDate:       time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC),
		Name:               "Passagem",
		Category:           "transporte",
		TotalValue:         decimal.NewFromFloat(800.00),
		TotalInstallments:  2,
		ManualInvoiceMonth: "2025-10",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The override bypasses the resolver entirely for the first bucket
	if p.InvoiceMonth != "2025-10" {
		t.Errorf("Expected invoice month 2025-10, got %s", p.InvoiceMonth)
	}
}

func TestCreatePurchase_InvalidManualInvoiceMonth(t *testing.T) {
	service, _, cardRepo := setupPurchaseServiceTest()
	card := addTestCard(cardRepo, 14)

	_, err := service.CreatePurchase(CreatePurchaseInput{
		CardID:             card.ID,
		PurchaseDate:       time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC),
		Name:               "Passagem",
		Category:           "transporte",
		TotalValue:         decimal.NewFromFloat(800.00),
		TotalInstallments:  2,
		ManualInvoiceMonth: "10/2025",
	})
	if err != domain.ErrInvalidInvoiceMonth {
		t.Errorf("Expected ErrInvalidInvoiceMonth, got %v", err)
	}
}

func TestCreatePurchase_Validation(t *testing.T) {
	service, purchaseRepo, cardRepo := setupPurchaseServiceTest()
	card := addTestCard(cardRepo, 14)

	valid := CreatePurchaseInput{
		CardID:            card.ID,
		PurchaseDate:      time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC),
		Name:              "Mercado",
		Category:          "alimentacao",
		TotalValue:        decimal.NewFromFloat(100.00),
		TotalInstallments: 1,
	}

	tests := []struct {
		name    string
		mutate  func(*CreatePurchaseInput)
		wantErr error
	}{
		{"empty name", func(in *CreatePurchaseInput) { in.Name = "  " }, domain.ErrNameRequired},
		{"empty category", func(in *CreatePurchaseInput) { in.Category = "" }, domain.ErrCategoryRequired},
		{"zero value", func(in *CreatePurchaseInput) { in.TotalValue = decimal.Zero }, domain.ErrInvalidValue},
		{"negative value", func(in *CreatePurchaseInput) { in.TotalValue = decimal.NewFromFloat(-5) }, domain.ErrInvalidValue},
		{"zero installments", func(in *CreatePurchaseInput) { in.TotalInstallments = 0 }, domain.ErrInvalidInstallments},
		{"too many installments", func(in *CreatePurchaseInput) { in.TotalInstallments = 100 }, domain.ErrInvalidInstallments},
		{"unknown card", func(in *CreatePurchaseInput) { in.CardID = uuid.New() }, domain.ErrCardNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			_, err := service.CreatePurchase(input)
			if err != tt.wantErr {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	// Rejected inputs must not leave partial records behind
	if len(purchaseRepo.Purchases) != 0 {
		t.Errorf("Expected no purchases persisted, found %d", len(purchaseRepo.Purchases))
	}
}

func TestPreviewSchedule_ThreeInstallments(t *testing.T) {
	service, _, cardRepo := setupPurchaseServiceTest()
	card := addTestCard(cardRepo, 14)

	months, err := service.PreviewSchedule(PreviewScheduleInput{
		CardID:            card.ID,
		PurchaseDate:      time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC),
		TotalInstallments: 3,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"2025-08", "2025-09", "2025-10"}
	if len(months) != len(want) {
		t.Fatalf("Expected %d months, got %d", len(want), len(months))
	}
	for i, m := range months {
		if m != want[i] {
			t.Errorf("months[%d] = %s, want %s", i, m, want[i])
		}
	}
}

func TestPreviewSchedule_AgreesWithCreate(t *testing.T) {
	service, _, cardRepo := setupPurchaseServiceTest()
	card := addTestCard(cardRepo, 10)

	input := CreatePurchaseInput{
		CardID:            card.ID,
		PurchaseDate:      time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC),
		Name:              "Sofá",
		Category:          "casa",
		TotalValue:        decimal.NewFromFloat(2400.00),
		TotalInstallments: 6,
	}

	months, err := service.PreviewSchedule(PreviewScheduleInput{
		CardID:            input.CardID,
		PurchaseDate:      input.PurchaseDate,
		TotalInstallments: input.TotalInstallments,
	})
	if err != nil {
		t.Fatalf("Expected no error from preview, got %v", err)
	}

	p, err := service.CreatePurchase(input)
	if err != nil {
		t.Fatalf("Expected no error from create, got %v", err)
	}

	// Preview and persistence must agree on the first bucket exactly
	if months[0] != p.InvoiceMonth {
		t.Errorf("Preview first month %s differs from stored invoice month %s", months[0], p.InvoiceMonth)
	}
	if months[0] != "2026-01" {
		t.Errorf("Expected first month 2026-01 after year rollover, got %s", months[0])
	}
}

func TestDeletePurchase_NotFound(t *testing.T) {
	service, _, _ := setupPurchaseServiceTest()

	err := service.DeletePurchase(uuid.New())
	if err != domain.ErrPurchaseNotFound {
		t.Errorf("Expected ErrPurchaseNotFound, got %v", err)
	}
}
