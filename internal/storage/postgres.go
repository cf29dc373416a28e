package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "txnsense/pkg/errors"
	"txnsense/pkg/models"
)

const pqUniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, tx models.NormalizedTransaction) error {
	query := `
		INSERT INTO transactions (
			id, amount_base, base_currency, original_currency, original_amount,
			exchange_rate, rate_applied, card_last4, merchant, category, category_source,
			is_transfer, include_in_insights, occurred_at, raw_text, ingested_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		tx.AmountBase,
		tx.BaseCurrency,
		tx.OriginalCurrency,
		tx.OriginalAmount,
		tx.ExchangeRate,
		tx.RateApplied,
		tx.CardLast4,
		tx.Merchant,
		tx.Category,
		tx.CategorySource,
		tx.IsTransfer,
		tx.IncludeInInsights,
		tx.OccurredAt,
		tx.RawText,
		tx.IngestedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return apperrors.ErrConflict.WithDetail("id", tx.ID).WithCause(err)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}
