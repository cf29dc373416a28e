package merchant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txnsense/internal/storage"
	"txnsense/pkg/circuitbreaker"
	"txnsense/pkg/models"
)

func TestStoreMemory_PriorCategory(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, models.NormalizedTransaction{
		ID:               "a",
		AmountBase:       decimal.NewFromInt(1),
		OriginalAmount:   decimal.NewFromInt(1),
		BaseCurrency:     "EGP",
		OriginalCurrency: "EGP",
		Merchant:         "Starbucks",
		Category:         "Food & Dining",
		OccurredAt:       time.Now(),
		RawText:          "raw",
	}))

	m := NewStoreMemory(store)

	category, found, err := m.PriorCategory(ctx, "Starbucks")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Food & Dining", category)

	_, found, err = m.PriorCategory(ctx, "STARBUCKS")
	require.NoError(t, err)
	assert.False(t, found, "lookups are case-sensitive")
}

type failingMemory struct {
	calls int
}

func (f *failingMemory) PriorCategory(context.Context, string) (string, bool, error) {
	f.calls++
	return "", false, errors.New("connection reset")
}

func TestWithBreaker(t *testing.T) {
	next := &failingMemory{}
	cb := circuitbreaker.NewWrapper(circuitbreaker.DefaultConfig("memory-test"))
	m := WithBreaker(next, cb)

	for i := 0; i < 4; i++ {
		_, found, err := m.PriorCategory(context.Background(), "Starbucks")
		assert.Error(t, err)
		assert.False(t, found)
	}
	assert.Equal(t, 3, next.calls)
}

func TestSkippable(t *testing.T) {
	assert.True(t, Skippable(""))
	assert.True(t, Skippable("  "))
	assert.True(t, Skippable("Unknown Merchant"))
	assert.True(t, Skippable("Transfer"))
	assert.False(t, Skippable("Starbucks"))
}
