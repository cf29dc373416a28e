package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"txnsense/internal/constants"
	apperrors "txnsense/pkg/errors"
	"txnsense/pkg/models"
)

// transactionDocument is the BSON shape of a stored transaction. Amounts are Decimal128
// so they stay exact.
type transactionDocument struct {
	ID                string               `bson:"_id"`
	AmountBase        primitive.Decimal128 `bson:"amount_base"`
	BaseCurrency      string               `bson:"base_currency"`
	OriginalCurrency  string               `bson:"original_currency"`
	OriginalAmount    primitive.Decimal128 `bson:"original_amount"`
	ExchangeRate      primitive.Decimal128 `bson:"exchange_rate"`
	RateApplied       bool                 `bson:"rate_applied"`
	CardLast4         *string              `bson:"card_last4,omitempty"`
	Merchant          string               `bson:"merchant"`
	Category          string               `bson:"category"`
	CategorySource    string               `bson:"category_source"`
	IsTransfer        bool                 `bson:"is_transfer"`
	IncludeInInsights bool                 `bson:"include_in_insights"`
	OccurredAt        time.Time            `bson:"occurred_at"`
	RawText           string               `bson:"raw_text"`
	IngestedAt        time.Time            `bson:"ingested_at"`
	UpdatedAt         time.Time            `bson:"updated_at"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d, err)
	}
	return v, nil
}

func newTransactionDocument(tx models.NormalizedTransaction) (transactionDocument, error) {
	amountBase, err := toDecimal128(tx.AmountBase)
	if err != nil {
		return transactionDocument{}, err
	}
	originalAmount, err := toDecimal128(tx.OriginalAmount)
	if err != nil {
		return transactionDocument{}, err
	}
	rate, err := toDecimal128(tx.ExchangeRate)
	if err != nil {
		return transactionDocument{}, err
	}

	return transactionDocument{
		ID:                tx.ID,
		AmountBase:        amountBase,
		BaseCurrency:      tx.BaseCurrency,
		OriginalCurrency:  tx.OriginalCurrency,
		OriginalAmount:    originalAmount,
		ExchangeRate:      rate,
		RateApplied:       tx.RateApplied,
		CardLast4:         tx.CardLast4,
		Merchant:          tx.Merchant,
		Category:          tx.Category,
		CategorySource:    tx.CategorySource,
		IsTransfer:        tx.IsTransfer,
		IncludeInInsights: tx.IncludeInInsights,
		OccurredAt:        tx.OccurredAt,
		RawText:           tx.RawText,
		IngestedAt:        tx.IngestedAt,
		UpdatedAt:         tx.IngestedAt,
	}, nil
}

type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection(constants.MongoTransactionsCollection)}
}

func (s *MongoStore) Insert(ctx context.Context, tx models.NormalizedTransaction) error {
	doc, err := newTransactionDocument(tx)
	if err != nil {
		return err
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrConflict.WithDetail("id", tx.ID).WithCause(err)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}
