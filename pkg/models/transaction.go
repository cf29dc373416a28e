package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NormalizedTransaction is the assembled record for one notification. It is built once
// and never mutated afterwards.
type NormalizedTransaction struct {
	ID                string          `json:"id"`
	AmountBase        decimal.Decimal `json:"amount_base"`
	BaseCurrency      string          `json:"base_currency"`
	OriginalCurrency  string          `json:"original_currency"`
	OriginalAmount    decimal.Decimal `json:"original_amount"`
	ExchangeRate      decimal.Decimal `json:"exchange_rate"`
	RateApplied       bool            `json:"rate_applied"`
	CardLast4         *string         `json:"card_last4,omitempty"`
	Merchant          string          `json:"merchant"`
	Category          string          `json:"category"`
	CategorySource    string          `json:"category_source"`
	IsTransfer        bool            `json:"is_transfer"`
	IncludeInInsights bool            `json:"include_in_insights"`
	OccurredAt        time.Time       `json:"occurred_at"`
	RawText           string          `json:"raw_text"`
	IngestedAt        time.Time       `json:"ingested_at"`
}

const (
	CategorySourceTransfer = "transfer"
	CategorySourceMemory   = "memory"
	CategorySourceOracle   = "oracle"
	CategorySourceDefault  = "default"
)

// InsightsView is the flat form handed to operator exclusion rules.
func (t NormalizedTransaction) InsightsView() map[string]interface{} {
	amountBase, _ := t.AmountBase.Float64()
	originalAmount, _ := t.OriginalAmount.Float64()
	card := ""
	if t.CardLast4 != nil {
		card = *t.CardLast4
	}
	return map[string]interface{}{
		"merchant":          t.Merchant,
		"category":          t.Category,
		"category_source":   t.CategorySource,
		"amount_base":       amountBase,
		"original_amount":   originalAmount,
		"original_currency": t.OriginalCurrency,
		"card_last4":        card,
		"is_transfer":       t.IsTransfer,
		"rate_applied":      t.RateApplied,
		"raw_text":          t.RawText,
	}
}
