package extraction

import "regexp"

var (
	hashCardRe   = regexp.MustCompile(`#\s?(\d{4})(?:\D|$)`)
	maskedCardRe = regexp.MustCompile(`(?i)(?:\*|x){3,}\s?(\d{4})(?:\D|$)`)
	endingCardRe = regexp.MustCompile(`(?i)(?:المنتهية\s*(?:ب\s*ـ*\s*)?|ending\s+(?:in|with)\s+)(\d{4})(?:\D|$)`)
)

func captureCard(re *regexp.Regexp) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

func builtinCardMatchers() []Matcher[string] {
	return []Matcher[string]{
		{Name: "hash", Match: captureCard(hashCardRe)},
		{Name: "masked", Match: captureCard(maskedCardRe)},
		{Name: "ending_in", Match: captureCard(endingCardRe)},
	}
}
