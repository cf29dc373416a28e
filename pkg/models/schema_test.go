package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validTransaction() NormalizedTransaction {
	return NormalizedTransaction{
		ID:               "c0a8012e-0000-4000-8000-000000000001",
		AmountBase:       decimal.RequireFromString("150.00"),
		BaseCurrency:     "EGP",
		OriginalCurrency: "EGP",
		OriginalAmount:   decimal.RequireFromString("150.00"),
		ExchangeRate:     decimal.NewFromInt(1),
		Merchant:         "Starbucks",
		Category:         "Other",
		OccurredAt:       time.Date(2025, 12, 21, 14, 30, 0, 0, time.UTC),
		RawText:          "card #5233 charged EGP 150.00 at Starbucks",
	}
}

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NormalizedTransaction)
		field  string
	}{
		{name: "valid", mutate: func(*NormalizedTransaction) {}},
		{name: "missing id", mutate: func(tx *NormalizedTransaction) { tx.ID = "" }, field: "id"},
		{name: "missing merchant", mutate: func(tx *NormalizedTransaction) { tx.Merchant = "" }, field: "merchant"},
		{name: "missing category", mutate: func(tx *NormalizedTransaction) { tx.Category = "" }, field: "category"},
		{name: "negative amount", mutate: func(tx *NormalizedTransaction) { tx.AmountBase = decimal.NewFromInt(-1) }, field: "amount"},
		{name: "too many decimals", mutate: func(tx *NormalizedTransaction) { tx.AmountBase = decimal.RequireFromString("1.234") }, field: "amount_base"},
		{name: "zero time", mutate: func(tx *NormalizedTransaction) { tx.OccurredAt = time.Time{} }, field: "occurred_at"},
		{name: "empty raw text", mutate: func(tx *NormalizedTransaction) { tx.RawText = "" }, field: "raw_text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)

			err := ValidateTransaction(&tx)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Equal(t, tt.field, verr.Field)
			}
		})
	}

	assert.Error(t, ValidateTransaction(nil))
}

func TestTransactionEventBuilder(t *testing.T) {
	tx := validTransaction()
	ts := time.Date(2025, 12, 21, 15, 0, 0, 0, time.UTC)

	event := NewTransactionEventBuilder(tx).
		WithTimestamp(ts).
		WithTraceID("trace-1").
		WithRequestID("req-1").
		Build()

	assert.Equal(t, EventTypeTransactionIngested, event.EventType)
	assert.Equal(t, ts, event.Timestamp)
	assert.Equal(t, "trace-1", event.TraceID)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, tx.ID, event.Transaction.ID)

	assert.False(t, NewTransactionEventBuilder(tx).Build().Timestamp.IsZero())
}
