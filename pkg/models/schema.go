package models

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateTransaction checks the invariants every stored record must hold.
func ValidateTransaction(t *NormalizedTransaction) error {
	if t == nil {
		return &ValidationError{Field: "transaction", Message: "transaction cannot be nil"}
	}

	if t.ID == "" {
		return &ValidationError{Field: "id", Message: "transaction ID is required"}
	}

	if t.Merchant == "" {
		return &ValidationError{Field: "merchant", Message: "merchant is required"}
	}

	if t.Category == "" {
		return &ValidationError{Field: "category", Message: "category is required"}
	}

	if t.OriginalCurrency == "" || t.BaseCurrency == "" {
		return &ValidationError{Field: "currency", Message: "original and base currency are required"}
	}

	if t.AmountBase.IsNegative() || t.OriginalAmount.IsNegative() {
		return &ValidationError{Field: "amount", Message: "amounts cannot be negative"}
	}

	if t.AmountBase.Exponent() < -2 {
		return &ValidationError{Field: "amount_base", Message: "amount_base must have at most 2 decimal places"}
	}

	if t.OccurredAt.IsZero() {
		return &ValidationError{Field: "occurred_at", Message: "occurred_at is required"}
	}

	if t.RawText == "" {
		return &ValidationError{Field: "raw_text", Message: "raw text is required"}
	}

	return nil
}
