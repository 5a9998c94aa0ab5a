package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
)

// PurchaseRepository implements domain.PurchaseRepository using PostgreSQL
type PurchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository creates a new PurchaseRepository
func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

const purchaseColumns = `id, card_id, purchase_date, name, category, total_value,
	total_installments, installment_value, invoice_month, subscription_id, created_at`

// Create creates a new purchase
func (r *PurchaseRepository) Create(purchase *domain.Purchase) (*domain.Purchase, error) {
	ctx := context.Background()
	return r.insert(ctx, r.pool, purchase)
}

// CreateBatch persists all purchases inside one transaction. A failure on
// any row rolls back every sibling, so a subscription can never be left
// partially materialized by this layer.
func (r *PurchaseRepository) CreateBatch(purchases []*domain.Purchase) ([]*domain.Purchase, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]*domain.Purchase, len(purchases))
	for i, p := range purchases {
		created[i], err = r.insert(ctx, tx, p)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PurchaseRepository) insert(ctx context.Context, q querier, purchase *domain.Purchase) (*domain.Purchase, error) {
	totalValue, err := decimalToPgNumeric(purchase.TotalValue)
	if err != nil {
		return nil, err
	}
	installmentValue, err := decimalToPgNumeric(purchase.InstallmentValue)
	if err != nil {
		return nil, err
	}

	var subscriptionID pgtype.UUID
	if purchase.SubscriptionID != nil {
		subscriptionID = uuidToPg(*purchase.SubscriptionID)
	}

	row := q.QueryRow(ctx, `
		INSERT INTO purchases (id, card_id, purchase_date, name, category, total_value,
			total_installments, installment_value, invoice_month, subscription_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+purchaseColumns,
		uuidToPg(uuid.New()), uuidToPg(purchase.CardID), purchase.PurchaseDate,
		purchase.Name, purchase.Category, totalValue,
		purchase.TotalInstallments, installmentValue, purchase.InvoiceMonth, subscriptionID)

	return scanPurchase(row)
}

// GetByID retrieves a purchase by ID
func (r *PurchaseRepository) GetByID(id uuid.UUID) (*domain.Purchase, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE id = $1`,
		uuidToPg(id))

	purchase, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, err
	}
	return purchase, nil
}

// List retrieves all purchases ordered by purchase date
func (r *PurchaseRepository) List() ([]*domain.Purchase, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		ORDER BY purchase_date, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPurchases(rows)
}

// ListBySubscription retrieves the purchases linked to a subscription
func (r *PurchaseRepository) ListBySubscription(subscriptionID uuid.UUID) ([]*domain.Purchase, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE subscription_id = $1
		ORDER BY invoice_month`,
		uuidToPg(subscriptionID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPurchases(rows)
}

// Delete removes a purchase
func (r *PurchaseRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPurchaseNotFound
	}
	return nil
}

// DeleteBySubscriptionFromMonth removes a subscription's purchases whose
// invoice month is at or after the cutoff. Months before it are preserved
// as historical record. YYYY-MM strings order chronologically, so a plain
// string comparison is sufficient.
func (r *PurchaseRepository) DeleteBySubscriptionFromMonth(subscriptionID uuid.UUID, month string) (int64, error) {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM purchases
		WHERE subscription_id = $1 AND invoice_month >= $2`,
		uuidToPg(subscriptionID), month)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// scanPurchase reads one purchase row
func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var (
		purchase         domain.Purchase
		id               pgtype.UUID
		cardID           pgtype.UUID
		purchaseDate     pgtype.Date
		totalValue       pgtype.Numeric
		installmentValue pgtype.Numeric
		subscriptionID   pgtype.UUID
		createdAt        pgtype.Timestamptz
	)

	err := row.Scan(&id, &cardID, &purchaseDate, &purchase.Name, &purchase.Category,
		&totalValue, &purchase.TotalInstallments, &installmentValue,
		&purchase.InvoiceMonth, &subscriptionID, &createdAt)
	if err != nil {
		return nil, err
	}

	purchase.ID = pgToUUID(id)
	purchase.CardID = pgToUUID(cardID)
	purchase.PurchaseDate = purchaseDate.Time
	purchase.TotalValue = pgNumericToDecimal(totalValue)
	purchase.InstallmentValue = pgNumericToDecimal(installmentValue)
	purchase.CreatedAt = createdAt.Time

	if subscriptionID.Valid {
		subID := pgToUUID(subscriptionID)
		purchase.SubscriptionID = &subID
	}

	return &purchase, nil
}

func collectPurchases(rows pgx.Rows) ([]*domain.Purchase, error) {
	var purchases []*domain.Purchase
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}
