package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"txnsense/pkg/models"
)

// IngestRequest is the JSON form of an inbound notification.
type IngestRequest struct {
	Message string `json:"message" example:"card #5233 charged EGP 150.00 at Starbucks"`
}

// TransactionResponse renders amounts as fixed two-place numbers so 150 is shown as
// 150.00.
type TransactionResponse struct {
	ID                string      `json:"id" example:"5f0c3b5e-8a43-4c8e-9d0a-2f4b1f7d9e11"`
	AmountBase        json.Number `json:"amountBase" swaggertype:"number" example:"150.00"`
	BaseCurrency      string      `json:"baseCurrency" example:"EGP"`
	OriginalCurrency  string      `json:"originalCurrency" example:"EGP"`
	OriginalAmount    json.Number `json:"originalAmount" swaggertype:"number" example:"150.00"`
	ExchangeRate      json.Number `json:"exchangeRate" swaggertype:"number" example:"1"`
	RateApplied       bool        `json:"rateApplied" example:"true"`
	CardLast4         *string     `json:"cardLast4" example:"5233"`
	Merchant          string      `json:"merchant" example:"Starbucks"`
	Category          string      `json:"category" example:"Other"`
	CategorySource    string      `json:"categorySource" example:"default"`
	IsTransfer        bool        `json:"isTransfer" example:"false"`
	IncludeInInsights bool        `json:"includeInInsights" example:"true"`
	OccurredAt        time.Time   `json:"occurredAt"`
	RawText           string      `json:"rawText" example:"card #5233 charged EGP 150.00 at Starbucks"`
	IngestedAt        time.Time   `json:"ingestedAt"`
}

func NewTransactionResponse(tx models.NormalizedTransaction) TransactionResponse {
	return TransactionResponse{
		ID:                tx.ID,
		AmountBase:        money(tx.AmountBase),
		BaseCurrency:      tx.BaseCurrency,
		OriginalCurrency:  tx.OriginalCurrency,
		OriginalAmount:    money(tx.OriginalAmount),
		ExchangeRate:      json.Number(tx.ExchangeRate.String()),
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
	}
}

// money pads to two places but never rounds away extra precision.
func money(d decimal.Decimal) json.Number {
	if d.Exponent() < -2 {
		return json.Number(d.String())
	}
	return json.Number(d.StringFixed(2))
}
