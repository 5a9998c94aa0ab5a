package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mfcastro/faturas/faturas-backend/internal/domain"
)

// SubscriptionRepository implements domain.SubscriptionRepository using PostgreSQL
type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, card_id, name, value, start_date, description, status, cancelled_at, created_at`

// Create creates a new subscription
func (r *SubscriptionRepository) Create(sub *domain.Subscription) (*domain.Subscription, error) {
	ctx := context.Background()

	value, err := decimalToPgNumeric(sub.Value)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (id, card_id, name, value, start_date, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+subscriptionColumns,
		uuidToPg(uuid.New()), uuidToPg(sub.CardID), sub.Name, value,
		sub.StartDate, sub.Description, string(sub.Status))

	return scanSubscription(row)
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(id uuid.UUID) (*domain.Subscription, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE id = $1`,
		uuidToPg(id))

	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// List retrieves all subscriptions ordered by creation time
func (r *SubscriptionRepository) List() ([]*domain.Subscription, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// UpdateStatus updates a subscription's status and cancellation time
func (r *SubscriptionRepository) UpdateStatus(id uuid.UUID, status domain.SubscriptionStatus, cancelledAt *time.Time) (*domain.Subscription, error) {
	ctx := context.Background()

	var pgCancelledAt pgtype.Timestamptz
	if cancelledAt != nil {
		pgCancelledAt = pgtype.Timestamptz{Time: *cancelledAt, Valid: true}
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE subscriptions
		SET status = $2, cancelled_at = $3
		WHERE id = $1
		RETURNING `+subscriptionColumns,
		uuidToPg(id), string(status), pgCancelledAt)

	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Delete removes a subscription
func (r *SubscriptionRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

// scanSubscription reads one subscription row
func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var (
		sub         domain.Subscription
		id          pgtype.UUID
		cardID      pgtype.UUID
		value       pgtype.Numeric
		startDate   pgtype.Date
		description pgtype.Text
		status      string
		cancelledAt pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(&id, &cardID, &sub.Name, &value, &startDate, &description,
		&status, &cancelledAt, &createdAt)
	if err != nil {
		return nil, err
	}

	sub.ID = pgToUUID(id)
	sub.CardID = pgToUUID(cardID)
	sub.Value = pgNumericToDecimal(value)
	sub.StartDate = startDate.Time
	sub.Description = description.String
	sub.Status = domain.SubscriptionStatus(status)
	sub.CreatedAt = createdAt.Time

	if cancelledAt.Valid {
		t := cancelledAt.Time
		sub.CancelledAt = &t
	}

	return &sub, nil
}
