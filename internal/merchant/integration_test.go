//go:build integration

package merchant

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"txnsense/internal/constants"
	"txnsense/internal/storage"
	"txnsense/internal/testinfra"
	"txnsense/pkg/models"
)

func historyRecord(merchant, category string, ingestedAt time.Time) models.NormalizedTransaction {
	return models.NormalizedTransaction{
		ID:               uuid.NewString(),
		AmountBase:       decimal.RequireFromString("10.00"),
		BaseCurrency:     "EGP",
		OriginalCurrency: "EGP",
		OriginalAmount:   decimal.RequireFromString("10.00"),
		Merchant:         merchant,
		Category:         category,
		CategorySource:   models.CategorySourceDefault,
		OccurredAt:       ingestedAt,
		RawText:          "raw",
		IngestedAt:       ingestedAt,
	}
}

func TestPostgresMemory_PriorCategory(t *testing.T) {
	db := testinfra.Postgres(t)
	store := storage.NewPostgresStore(db)
	memory := NewPostgresMemory(db)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	_, found, err := memory.PriorCategory(ctx, "Starbucks")
	require.NoError(t, err)
	assert.False(t, found)

	older := historyRecord("Starbucks", "Shopping", base)
	require.NoError(t, store.Insert(ctx, older))
	require.NoError(t, store.Insert(ctx, historyRecord("Starbucks", "Food & Dining", base.Add(time.Hour))))
	require.NoError(t, store.Insert(ctx, historyRecord("starbucks", "Groceries", base.Add(2*time.Hour))))

	category, found, err := memory.PriorCategory(ctx, "Starbucks")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Food & Dining", category)

	// A later manual correction of an older record takes precedence.
	_, err = db.ExecContext(ctx,
		`UPDATE transactions SET category = 'Entertainment', updated_at = $2 WHERE id = $1`,
		older.ID, base.Add(3*time.Hour),
	)
	require.NoError(t, err)

	category, found, err = memory.PriorCategory(ctx, "Starbucks")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Entertainment", category)
}

func TestMongoMemory_PriorCategory(t *testing.T) {
	db := testinfra.Mongo(t)
	store := storage.NewMongoStore(db)
	memory := NewMongoMemory(db)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	older := historyRecord("Uber", "Travel", base)
	require.NoError(t, store.Insert(ctx, older))
	require.NoError(t, store.Insert(ctx, historyRecord("Uber", "Transportation", base.Add(time.Hour))))

	category, found, err := memory.PriorCategory(ctx, "Uber")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Transportation", category)

	_, err = db.Collection(constants.MongoTransactionsCollection).UpdateOne(ctx,
		bson.M{"_id": older.ID},
		bson.M{"$set": bson.M{"category": "Bills & Utilities", "updated_at": base.Add(2 * time.Hour)}},
	)
	require.NoError(t, err)

	category, _, err = memory.PriorCategory(ctx, "Uber")
	require.NoError(t, err)
	assert.Equal(t, "Bills & Utilities", category)

	_, found, err = memory.PriorCategory(ctx, "Lyft")
	require.NoError(t, err)
	assert.False(t, found)
}
