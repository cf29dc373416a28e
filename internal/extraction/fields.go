package extraction

import (
	"time"

	"github.com/shopspring/decimal"

	"txnsense/internal/currency"
)

// Fields is the best-effort result of local extraction. Every field is optional;
// nil means no pattern produced a value.
type Fields struct {
	CardLast4   *string
	Currency    *currency.Code
	Amount      *decimal.Decimal
	Merchant    *string
	MessageTime *time.Time
	IsTransfer  *bool
	Category    *string

	// MatchedBy records which matcher produced each field, keyed by field name.
	MatchedBy map[string]string
}

// Complete reports whether the oracle can be skipped.
func (f Fields) Complete() bool {
	return f.Amount != nil && f.Merchant != nil
}

// Missing lists the fields the oracle would be asked to fill.
func (f Fields) Missing() []string {
	var missing []string
	if f.Amount == nil {
		missing = append(missing, FieldAmount)
	}
	if f.Merchant == nil {
		missing = append(missing, FieldMerchant)
	}
	return missing
}

const (
	FieldAmount    = "amount"
	FieldMerchant  = "merchant"
	FieldCard      = "card"
	FieldTimestamp = "timestamp"
)

// Money is an amount paired with the currency it was written in.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Code
}
