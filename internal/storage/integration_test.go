//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"txnsense/internal/constants"
	"txnsense/internal/testinfra"
	apperrors "txnsense/pkg/errors"
)

func TestPostgresStore_Insert(t *testing.T) {
	db := testinfra.Postgres(t)
	store := NewPostgresStore(db)
	ctx := context.Background()

	tx := record(uuid.NewString(), "Starbucks", "Food & Dining")
	card := "5233"
	tx.CardLast4 = &card
	tx.ExchangeRate = decimal.NewFromInt(1)
	tx.RateApplied = true
	tx.CategorySource = "memory"
	tx.IngestedAt = time.Now().UTC()

	require.NoError(t, store.Insert(ctx, tx))

	var (
		amount     string
		merchant   string
		storedCard string
	)
	err := db.QueryRowContext(ctx,
		`SELECT amount_base::text, merchant, card_last4 FROM transactions WHERE id = $1`, tx.ID,
	).Scan(&amount, &merchant, &storedCard)
	require.NoError(t, err)
	assert.Equal(t, "10.00", amount)
	assert.Equal(t, "Starbucks", merchant)
	assert.Equal(t, "5233", storedCard)

	err = store.Insert(ctx, tx)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestPostgresStore_NullCard(t *testing.T) {
	db := testinfra.Postgres(t)
	store := NewPostgresStore(db)
	ctx := context.Background()

	tx := record(uuid.NewString(), "Unknown Merchant", "Other")
	tx.IngestedAt = time.Now().UTC()
	require.NoError(t, store.Insert(ctx, tx))

	var card *string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT card_last4 FROM transactions WHERE id = $1`, tx.ID).Scan(&card))
	assert.Nil(t, card)
}

func TestMongoStore_Insert(t *testing.T) {
	db := testinfra.Mongo(t)
	store := NewMongoStore(db)
	ctx := context.Background()

	tx := record(uuid.NewString(), "Carrefour", "Groceries")
	tx.AmountBase = decimal.RequireFromString("611.54")
	tx.IngestedAt = time.Now().UTC()
	require.NoError(t, store.Insert(ctx, tx))

	var doc struct {
		AmountBase primitive.Decimal128 `bson:"amount_base"`
		Merchant   string               `bson:"merchant"`
	}
	err := db.Collection(constants.MongoTransactionsCollection).
		FindOne(ctx, bson.M{"_id": tx.ID}).
		Decode(&doc)
	require.NoError(t, err)
	assert.Equal(t, "611.54", doc.AmountBase.String())
	assert.Equal(t, "Carrefour", doc.Merchant)

	err = store.Insert(ctx, tx)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}
