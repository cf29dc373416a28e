package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"txnsense/internal/currency"
)

const (
	numberPattern   = `([0-9][0-9,]*(?:\.[0-9]+)?)`
	currencyPattern = `([A-Za-z]{3}|\$|€|£|L\.?E\.?)`
)

var (
	chargedRe = regexp.MustCompile(`(?i)\bcharged\s+(?:for\s+)?` + currencyPattern + `\s*` + numberPattern)

	// "of EGP 5000.00 has been debited": the verb anchors the amount so balances or
	// credit limits elsewhere in the message are ignored. The verb may sit on a later line.
	debitedRe = regexp.MustCompile(`(?i)\bof\s+` + currencyPattern + `\s*` + numberPattern + `(?s:.*?)\b(?:debited|credited)\b`)

	// "بمبلغ USD 20.00"
	arabicAmountCodeRe = regexp.MustCompile(`مبلغ\s*` + currencyPattern + `\s*` + numberPattern)

	// "بمبلغ 150.00 جنيه", "مبلغ 75 ج.م"
	arabicAmountNameRe = regexp.MustCompile(`مبلغ\s*` + numberPattern + `(?:\s*([\p{Arabic}][\p{Arabic}.]*))?`)
)

// parseAmount accepts "1,250.50" style numbers and reports false for anything that is
// not strictly positive.
func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// currencyThenAmount matches patterns whose first group is a currency token and second
// is the number. Unsupported currencies make the pattern a non-match.
func currencyThenAmount(re *regexp.Regexp, registry *currency.Registry) func(string) (Money, bool) {
	return func(text string) (Money, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return Money{}, false
		}
		code, ok := registry.Normalize(m[1])
		if !ok {
			return Money{}, false
		}
		amount, ok := parseAmount(m[2])
		if !ok {
			return Money{}, false
		}
		return Money{Amount: amount, Currency: code}, true
	}
}

// amountThenArabicName falls back to the base currency when the trailing word is
// missing or is not a known currency name.
func amountThenArabicName(registry *currency.Registry) func(string) (Money, bool) {
	return func(text string) (Money, bool) {
		m := arabicAmountNameRe.FindStringSubmatch(text)
		if m == nil {
			return Money{}, false
		}
		amount, ok := parseAmount(m[1])
		if !ok {
			return Money{}, false
		}
		code := registry.Base()
		if m[2] != "" {
			if c, ok := registry.Normalize(strings.TrimRight(m[2], ".")); ok {
				code = c
			} else if c, ok := registry.Normalize(m[2]); ok {
				code = c
			}
		}
		return Money{Amount: amount, Currency: code}, true
	}
}

func builtinAmountMatchers(registry *currency.Registry) []Matcher[Money] {
	return []Matcher[Money]{
		{Name: "charged", Match: currencyThenAmount(chargedRe, registry)},
		{Name: "of_debited_credited", Match: currencyThenAmount(debitedRe, registry)},
		{Name: "arabic_amount_code", Match: currencyThenAmount(arabicAmountCodeRe, registry)},
		{Name: "arabic_amount_name", Match: amountThenArabicName(registry)},
	}
}
