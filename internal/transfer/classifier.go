package transfer

import (
	"regexp"
	"strings"
)

// defaultKeywords covers English and Arabic wording for peer and account transfers,
// wallet cash-outs and instant-payment brands.
var defaultKeywords = []string{
	"transfer",
	"transferred",
	"wallet",
	"cash out",
	"cash-out",
	"cashout",
	"iban",
	"swift",
	"instapay",
	"vodafone cash",
	"تحويل",
	"حوالة",
	"حواله",
	"محفظة",
	"انستاباي",
	"إنستاباي",
	"فودافون كاش",
}

// wordKeywords are short acronyms that only count as whole words, so "ipn" does not
// fire inside "Shipnow".
var wordKeywords = []string{"ipn"}

var wordKeywordsRe = compileWordKeywords(wordKeywords)

func compileWordKeywords(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Classifier is a keyword test. It is deliberately loose: a false positive only keeps a
// purchase out of spending insights.
type Classifier struct {
	keywords []string
}

func NewClassifier(extra []string) *Classifier {
	keywords := make([]string, 0, len(defaultKeywords)+len(extra))
	keywords = append(keywords, defaultKeywords...)
	for _, k := range extra {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Classifier{keywords: keywords}
}

// LooksLikeTransfer reports whether text mentions any transfer keyword, ignoring case.
func (c *Classifier) LooksLikeTransfer(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range c.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return wordKeywordsRe.MatchString(text)
}

// Keywords returns a copy of the active vocabulary.
func (c *Classifier) Keywords() []string {
	out := make([]string, 0, len(c.keywords)+len(wordKeywords))
	out = append(out, c.keywords...)
	return append(out, wordKeywords...)
}
