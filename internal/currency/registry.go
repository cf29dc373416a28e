package currency

import (
	"sort"
	"strings"

	"txnsense/internal/config"
)

// Code is an ISO 4217 currency code such as "EGP".
type Code string

func (c Code) String() string {
	return string(c)
}

// builtinAliases maps tokens seen in bank notifications to ISO codes. Lookups are
// case-insensitive for Latin text; Arabic has no case.
var builtinAliases = map[string]Code{
	"$":     "USD",
	"us$":   "USD",
	"usd":   "USD",
	"€":     "EUR",
	"eur":   "EUR",
	"£":     "GBP",
	"gbp":   "GBP",
	"egp":   "EGP",
	"le":    "EGP",
	"l.e":   "EGP",
	"l.e.":  "EGP",
	"جنيه":  "EGP",
	"جنية":  "EGP",
	"ج.م":   "EGP",
	"ج.م.":  "EGP",
	"جم":    "EGP",
	"دولار": "USD",
	"يورو":  "EUR",
	"ريال":  "SAR",
	"درهم":  "AED",
	"دينار": "KWD",
	"sar":   "SAR",
	"aed":   "AED",
	"kwd":   "KWD",
}

// Registry is the closed set of currencies the pipeline accepts, plus the token
// aliases that resolve to them. It is immutable after construction.
type Registry struct {
	base      Code
	supported map[Code]bool
	aliases   map[string]Code
}

// NewRegistry builds a registry from configuration. Operator aliases override the
// built-in table; aliases pointing at unsupported codes are ignored.
func NewRegistry(cfg config.CurrencyConfig) *Registry {
	r := &Registry{
		base:      Code(strings.ToUpper(cfg.Base)),
		supported: make(map[Code]bool, len(cfg.Supported)+1),
		aliases:   make(map[string]Code, len(builtinAliases)+len(cfg.Aliases)),
	}

	r.supported[r.base] = true
	for _, code := range cfg.Supported {
		r.supported[Code(strings.ToUpper(strings.TrimSpace(code)))] = true
	}

	for token, code := range builtinAliases {
		r.aliases[token] = code
	}
	for token, code := range cfg.Aliases {
		r.aliases[foldToken(token)] = Code(strings.ToUpper(strings.TrimSpace(code)))
	}

	return r
}

func (r *Registry) Base() Code {
	return r.base
}

func (r *Registry) IsBase(code Code) bool {
	return code == r.base
}

func (r *Registry) IsSupported(code Code) bool {
	return r.supported[code]
}

// Supported returns the accepted codes in lexical order.
func (r *Registry) Supported() []Code {
	codes := make([]Code, 0, len(r.supported))
	for code := range r.supported {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Normalize maps a raw token ("$", "usd", "ج.م", "EGP") to a supported code.
// It reports false for empty, unknown or unsupported tokens.
func (r *Registry) Normalize(token string) (Code, bool) {
	folded := foldToken(token)
	if folded == "" {
		return "", false
	}

	if code, ok := r.aliases[folded]; ok {
		return code, r.supported[code]
	}

	code := Code(strings.ToUpper(folded))
	if r.supported[code] {
		return code, true
	}
	return "", false
}

func foldToken(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}
