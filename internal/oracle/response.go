package oracle

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"txnsense/internal/currency"
)

// RawExtraction mirrors the JSON schema requested from the model. Values are left
// untyped because models return numbers, strings or null interchangeably, and one
// mistyped field must not fail the whole object.
type RawExtraction struct {
	Merchant   interface{} `json:"merchant"`
	CardLast4  interface{} `json:"card_last4"`
	Currency   interface{} `json:"currency"`
	Amount     interface{} `json:"amount"`
	Category   interface{} `json:"category"`
	IsTransfer interface{} `json:"is_transfer"`
}

var errNoJSONObject = errors.New("completion contains no JSON object")

// ParseResponse accepts completions wrapped in code fences or prose. It tries the
// cleaned text as-is, then the first balanced {...} span.
func ParseResponse(completion string) (RawExtraction, error) {
	clean := stripFences(completion)

	var raw RawExtraction
	if err := json.Unmarshal([]byte(clean), &raw); err == nil {
		return raw, nil
	}

	span, ok := firstObject(clean)
	if !ok {
		return RawExtraction{}, errNoJSONObject
	}
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return RawExtraction{}, fmt.Errorf("unmarshal oracle JSON: %w", err)
	}
	return raw, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

// firstObject returns the first brace-balanced object, honouring JSON string escapes.
func firstObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

var cardDigits = regexp.MustCompile(`^\d{4}$`)

// Normalize validates each field independently; a bad field becomes nil and never
// invalidates the others.
func Normalize(raw RawExtraction, registry *currency.Registry) *Extraction {
	out := &Extraction{}

	if s, ok := nonEmpty(raw.Merchant); ok {
		out.Merchant = &s
	}

	if card, ok := normalizeCard(raw.CardLast4); ok {
		out.CardLast4 = &card
	}

	if s, ok := nonEmpty(raw.Currency); ok {
		if code, ok := registry.Normalize(s); ok {
			out.Currency = &code
		}
	}

	if amount, ok := coerceAmount(raw.Amount); ok {
		out.Amount = &amount
	}

	if s, ok := nonEmpty(raw.Category); ok {
		out.Category = &s
	}

	if b, ok := coerceBool(raw.IsTransfer); ok {
		out.IsTransfer = &b
	}

	return out
}

func nonEmpty(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return "", false
	}
	return s, true
}

func normalizeCard(v interface{}) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case float64:
		if t != math.Trunc(t) || t < 0 {
			return "", false
		}
		s = fmt.Sprintf("%04d", int64(t))
	default:
		return "", false
	}
	if len(s) > 4 {
		s = s[len(s)-4:]
	}
	return s, cardDigits.MatchString(s)
}

func coerceAmount(v interface{}) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(t)
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		parsed, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	default:
		return decimal.Zero, false
	}
	return d, d.IsPositive()
}

func coerceBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	default:
		return false, false
	}
}
