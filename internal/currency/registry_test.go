package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"txnsense/internal/config"
)

func testRegistry() *Registry {
	return NewRegistry(config.CurrencyConfig{
		Base:      "EGP",
		Supported: []string{"EGP", "USD", "EUR", "GBP", "SAR", "AED", "KWD"},
	})
}

func TestRegistry_Normalize(t *testing.T) {
	r := testRegistry()

	tests := []struct {
		name  string
		token string
		want  Code
		ok    bool
	}{
		{"iso code", "USD", "USD", true},
		{"lowercase iso code", "eur", "EUR", true},
		{"dollar sign", "$", "USD", true},
		{"euro sign", "€", "EUR", true},
		{"pound sign", "£", "GBP", true},
		{"egyptian pound abbreviation", "L.E", "EGP", true},
		{"arabic pound", "جنيه", "EGP", true},
		{"arabic pound abbreviation", "ج.م", "EGP", true},
		{"arabic dollar", "دولار", "USD", true},
		{"arabic riyal", "ريال", "SAR", true},
		{"padded token", "  GBP ", "GBP", true},
		{"unsupported iso code", "JPY", "", false},
		{"garbage", "xyz", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Normalize(tt.token)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRegistry_AliasToUnsupportedCodeIsRejected(t *testing.T) {
	r := NewRegistry(config.CurrencyConfig{Base: "EGP", Supported: []string{"EGP"}})

	_, ok := r.Normalize("$")
	assert.False(t, ok)

	code, ok := r.Normalize("EGP")
	assert.True(t, ok)
	assert.Equal(t, Code("EGP"), code)
}

func TestRegistry_OperatorAliases(t *testing.T) {
	r := NewRegistry(config.CurrencyConfig{
		Base:      "EGP",
		Supported: []string{"EGP", "USD"},
		Aliases:   map[string]string{"US Dollars": "usd"},
	})

	code, ok := r.Normalize("us dollars")
	assert.True(t, ok)
	assert.Equal(t, Code("USD"), code)
}

func TestRegistry_BaseIsAlwaysSupported(t *testing.T) {
	r := NewRegistry(config.CurrencyConfig{Base: "egp"})

	assert.Equal(t, Code("EGP"), r.Base())
	assert.True(t, r.IsBase("EGP"))
	assert.True(t, r.IsSupported("EGP"))
	assert.Equal(t, []Code{"EGP"}, r.Supported())
}
