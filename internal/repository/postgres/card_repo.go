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

// CardRepository implements domain.CardRepository using PostgreSQL
type CardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

// Create creates a new card
func (r *CardRepository) Create(card *domain.Card) (*domain.Card, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO cards (id, bank_name, logo_url, closing_day, due_day)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, bank_name, logo_url, closing_day, due_day, created_at, updated_at`,
		uuidToPg(uuid.New()), card.BankName, card.LogoURL, card.ClosingDay, card.DueDay)

	return scanCard(row)
}

// GetByID retrieves a card by ID
func (r *CardRepository) GetByID(id uuid.UUID) (*domain.Card, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT id, bank_name, logo_url, closing_day, due_day, created_at, updated_at
		FROM cards
		WHERE id = $1`,
		uuidToPg(id))

	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// List retrieves all cards ordered by creation time
func (r *CardRepository) List() ([]*domain.Card, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, bank_name, logo_url, closing_day, due_day, created_at, updated_at
		FROM cards
		ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// Update updates an existing card
func (r *CardRepository) Update(card *domain.Card) (*domain.Card, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE cards
		SET bank_name = $2, logo_url = $3, closing_day = $4, due_day = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, bank_name, logo_url, closing_day, due_day, created_at, updated_at`,
		uuidToPg(card.ID), card.BankName, card.LogoURL, card.ClosingDay, card.DueDay)

	updated, err := scanCard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteCascade removes the card together with its purchases and
// subscriptions in a single transaction
func (r *CardRepository) DeleteCascade(id uuid.UUID) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	pgID := uuidToPg(id)

	if _, err := tx.Exec(ctx, `DELETE FROM purchases WHERE card_id = $1`, pgID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM subscriptions WHERE card_id = $1`, pgID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM cards WHERE id = $1`, pgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}

	return tx.Commit(ctx)
}

// scanCard reads one card row
func scanCard(row pgx.Row) (*domain.Card, error) {
	var (
		card      domain.Card
		id        pgtype.UUID
		logoURL   pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&id, &card.BankName, &logoURL, &card.ClosingDay, &card.DueDay, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	card.ID = pgToUUID(id)
	card.LogoURL = logoURL.String
	card.CreatedAt = createdAt.Time
	card.UpdatedAt = updatedAt.Time
	return &card, nil
}
