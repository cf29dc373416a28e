package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"txnsense/internal/config"
	"txnsense/internal/currency"
)

// Extractor pulls transaction fields out of a bank notification with ordered pattern
// chains, one chain per field. Fields are matched independently of each other.
type Extractor struct {
	registry *currency.Registry
	location *time.Location

	amount    []Matcher[Money]
	merchant  []Matcher[string]
	card      []Matcher[string]
	timestamp []Matcher[time.Time]
}

// New compiles operator patterns and places them ahead of the built-in chains.
func New(registry *currency.Registry, cfg config.ExtractionConfig) (*Extractor, error) {
	e := &Extractor{
		registry: registry,
		location: cfg.UTCOffset(),
	}

	customAmount, err := compileCustom(FieldAmount, "amount", cfg.CustomPatterns.Amount)
	if err != nil {
		return nil, err
	}
	customMerchant, err := compileCustom(FieldMerchant, "merchant", cfg.CustomPatterns.Merchant)
	if err != nil {
		return nil, err
	}
	customCard, err := compileCustom(FieldCard, "card", cfg.CustomPatterns.Card)
	if err != nil {
		return nil, err
	}

	for i, re := range customAmount {
		e.amount = append(e.amount, Matcher[Money]{
			Name:  fmt.Sprintf("custom_%d", i),
			Match: e.customAmountMatcher(re),
		})
	}
	e.amount = append(e.amount, builtinAmountMatchers(registry)...)

	for i, re := range customMerchant {
		e.merchant = append(e.merchant, Matcher[string]{
			Name:  fmt.Sprintf("custom_%d", i),
			Match: namedGroupMatcher(re, "merchant", cleanMerchant),
		})
	}
	e.merchant = append(e.merchant, builtinMerchantMatchers()...)

	for i, re := range customCard {
		e.card = append(e.card, Matcher[string]{
			Name:  fmt.Sprintf("custom_%d", i),
			Match: namedGroupMatcher(re, "card", validCard),
		})
	}
	e.card = append(e.card, builtinCardMatchers()...)

	e.timestamp = []Matcher[time.Time]{{
		Name: "day_month_year_time",
		Match: func(s string) (time.Time, bool) {
			return parseTimestamp(s, e.location)
		},
	}}

	return e, nil
}

// Extract never fails; fields without a match stay nil.
func (e *Extractor) Extract(text string) Fields {
	text = normalizeDigits(text)
	fields := Fields{MatchedBy: make(map[string]string, 4)}

	if money, name, ok := firstMatch(FieldAmount, text, e.amount); ok {
		amount, code := money.Amount, money.Currency
		fields.Amount = &amount
		fields.Currency = &code
		fields.MatchedBy[FieldAmount] = name
	}

	if merchant, name, ok := firstMatch(FieldMerchant, text, e.merchant); ok {
		fields.Merchant = &merchant
		fields.MatchedBy[FieldMerchant] = name
	}

	if card, name, ok := firstMatch(FieldCard, text, e.card); ok {
		fields.CardLast4 = &card
		fields.MatchedBy[FieldCard] = name
	}

	if ts, name, ok := firstMatch(FieldTimestamp, text, e.timestamp); ok {
		fields.MessageTime = &ts
		fields.MatchedBy[FieldTimestamp] = name
	}

	return fields
}

func compileCustom(field, group string, patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("custom %s pattern %d: %w", field, i, err)
		}
		if re.SubexpIndex(group) < 0 {
			return nil, fmt.Errorf("custom %s pattern %d: missing named group %q", field, i, group)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func (e *Extractor) customAmountMatcher(re *regexp.Regexp) func(string) (Money, bool) {
	amountIdx := re.SubexpIndex("amount")
	currencyIdx := re.SubexpIndex("currency")
	return func(text string) (Money, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return Money{}, false
		}
		amount, ok := parseAmount(m[amountIdx])
		if !ok {
			return Money{}, false
		}
		code := e.registry.Base()
		if currencyIdx >= 0 && m[currencyIdx] != "" {
			if code, ok = e.registry.Normalize(m[currencyIdx]); !ok {
				return Money{}, false
			}
		}
		return Money{Amount: amount, Currency: code}, true
	}
}

func namedGroupMatcher(re *regexp.Regexp, group string, clean func(string) (string, bool)) func(string) (string, bool) {
	idx := re.SubexpIndex(group)
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return clean(m[idx])
	}
}

var fourDigits = regexp.MustCompile(`^\d{4}$`)

func validCard(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, fourDigits.MatchString(s)
}

// arabicIndicDigits rewrites ٠-٩ and ۰-۹ as ASCII digits and the Arabic decimal and
// thousands separators as '.' and ','.
var arabicIndicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٫", ".", "٬", ",",
)

func normalizeDigits(text string) string {
	return arabicIndicDigits.Replace(text)
}
