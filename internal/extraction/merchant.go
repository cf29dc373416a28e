package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	datePattern = `\d{1,2}/\d{1,2}/\d{2,4}`

	// maxMerchantRunes rejects captures that swallowed most of the message.
	maxMerchantRunes = 80
)

var (
	atOnDateRe = regexp.MustCompile(`(?i)\bat\s+(.+?)\s+on\s+` + datePattern)

	// "at MERCHANT" ends at a time token, a sentence break, a line break or the end of
	// the text.
	atBoundedRe = regexp.MustCompile(`(?i)\bat[ \t]+(.+?)(?:\s+(?:on\s+)?\d{1,2}:\d{2}|[.;,!]\s|[.;,!]?[ \t]*(?:\r?\n|$))`)

	leadingTimeRe = regexp.MustCompile(`^\d{1,2}:\d{2}`)

	arabicAtRe = regexp.MustCompile(`عند\s+(.+?)\s+في\s+` + datePattern)

	// The merchant directly follows the card suffix so the "from card" clause is skipped.
	arabicCardFromRe = regexp.MustCompile(`المنتهية\s*(?:ب\s*ـ*\s*)?\d{4}\s+(?:من|لدى)\s+(.+?)\s+في\s+` + datePattern)

	arabicFromRe = regexp.MustCompile(`من\s+(.+?)\s+في\s+` + datePattern)
)

// cardWording marks a capture that ran through a "from your card ..." clause.
var cardWording = []string{"بطاقة", "بطاقت", "المنتهية", "كارت"}

func cleanMerchant(raw string) (string, bool) {
	merchant := strings.Join(strings.Fields(raw), " ")
	merchant = strings.Trim(merchant, " .,;:!-")
	if merchant == "" || utf8.RuneCountInString(merchant) > maxMerchantRunes {
		return "", false
	}
	return merchant, true
}

func captureMerchant(re *regexp.Regexp) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return cleanMerchant(m[1])
	}
}

// atBounded skips "at 10:30" style captures and retries from the next "at".
func atBounded(text string) (string, bool) {
	for offset := 0; offset < len(text); {
		loc := atBoundedRe.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			return "", false
		}
		captured := text[offset+loc[2] : offset+loc[3]]
		if !leadingTimeRe.MatchString(captured) {
			return cleanMerchant(captured)
		}
		offset += loc[2]
	}
	return "", false
}

// arabicFrom handles "من MERCHANT في DATE". When the lazy capture still contains card
// wording followed by another "من", only the segment after the last "من" is the merchant.
func arabicFrom(text string) (string, bool) {
	m := arabicFromRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return cleanMerchant(repairOverCapture(m[1]))
}

func repairOverCapture(captured string) string {
	hasCardWording := false
	for _, w := range cardWording {
		if strings.Contains(captured, w) {
			hasCardWording = true
			break
		}
	}
	if !hasCardWording {
		return captured
	}

	idx := strings.LastIndex(captured, "من ")
	if idx < 0 {
		return captured
	}
	return captured[idx+len("من "):]
}

func builtinMerchantMatchers() []Matcher[string] {
	return []Matcher[string]{
		{Name: "at_on_date", Match: captureMerchant(atOnDateRe)},
		{Name: "at_bounded", Match: atBounded},
		{Name: "arabic_at", Match: captureMerchant(arabicAtRe)},
		{Name: "arabic_card_from", Match: captureMerchant(arabicCardFromRe)},
		{Name: "arabic_from", Match: arabicFrom},
	}
}
