package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txnsense/internal/config"
	"txnsense/internal/currency"
)

func newTestExtractor(t *testing.T, custom config.CustomPatterns) *Extractor {
	t.Helper()
	registry := currency.NewRegistry(config.CurrencyConfig{
		Base:      "EGP",
		Supported: []string{"EGP", "USD", "EUR", "GBP", "SAR", "AED", "KWD"},
	})
	e, err := New(registry, config.ExtractionConfig{UTCOffsetHours: 2, CustomPatterns: custom})
	require.NoError(t, err)
	return e
}

func TestExtract_Messages(t *testing.T) {
	e := newTestExtractor(t, config.CustomPatterns{})

	tests := []struct {
		name         string
		text         string
		wantAmount   string
		wantCurrency currency.Code
		wantMerchant string
		wantCard     string
	}{
		{
			name:         "canonical english charge",
			text:         "Your credit card #5233 charged EGP 150.00 at Starbucks",
			wantAmount:   "150",
			wantCurrency: "EGP",
			wantMerchant: "Starbucks",
			wantCard:     "5233",
		},
		{
			name:         "charged for with date and limit noise",
			text:         "Your card ****1234 was charged for USD 25.50 at AMAZON.COM on 21/12/25 14:30. Available limit EGP 20,000.00",
			wantAmount:   "25.5",
			wantCurrency: "USD",
			wantMerchant: "AMAZON.COM",
			wantCard:     "1234",
		},
		{
			name:         "transfer debited",
			text:         "Transfer reference 123 of EGP 5000.00 has been debited from your account",
			wantAmount:   "5000",
			wantCurrency: "EGP",
		},
		{
			name:         "transfer debited on the next line",
			text:         "Transfer reference 123 of EGP 5000.00\nhas been debited from your account",
			wantAmount:   "5000",
			wantCurrency: "EGP",
		},
		{
			name:         "merchant bounded by line break",
			text:         "Card #5233 charged EGP 1,250.50 at Carrefour\nAvailable limit EGP 20,000.00",
			wantAmount:   "1250.5",
			wantCurrency: "EGP",
			wantMerchant: "Carrefour",
			wantCard:     "5233",
		},
		{
			name:         "leading time is not the merchant",
			text:         "Card #5233 charged EGP 100.00 at 10:30 at Zara",
			wantAmount:   "100",
			wantCurrency: "EGP",
			wantMerchant: "Zara",
			wantCard:     "5233",
		},
		{
			name:         "thousands separator and time bounded merchant",
			text:         "Card #7788 charged EGP 1,250.75 at UBER TRIP 22:10",
			wantAmount:   "1250.75",
			wantCurrency: "EGP",
			wantMerchant: "UBER TRIP",
			wantCard:     "7788",
		},
		{
			name:         "sentence break bounds merchant",
			text:         "Card #1111 charged EGP 80.00 at Cilantro. Avl bal EGP 900.00",
			wantAmount:   "80",
			wantCurrency: "EGP",
			wantMerchant: "Cilantro",
			wantCard:     "1111",
		},
		{
			name:         "symbol currency",
			text:         "Card ending in 4455 charged $12.99 at Spotify",
			wantAmount:   "12.99",
			wantCurrency: "USD",
			wantMerchant: "Spotify",
			wantCard:     "4455",
		},
		{
			name:         "arabic amount with currency name and card suffix",
			text:         "تم خصم مبلغ 250.00 جنيه من بطاقتك المنتهية بـ 4321 من كارفور في 05/01/2026 09:15",
			wantAmount:   "250",
			wantCurrency: "EGP",
			wantMerchant: "كارفور",
			wantCard:     "4321",
		},
		{
			name:         "arabic at merchant with currency code",
			text:         "تم استخدام بطاقتك عند Carrefour Maadi في 12/03/2026 20:45 بمبلغ EGP 320.50",
			wantAmount:   "320.5",
			wantCurrency: "EGP",
			wantMerchant: "Carrefour Maadi",
		},
		{
			name:         "arabic generic from with over capture repair",
			text:         "تم خصم مبلغ 100 دولار من بطاقة رقم 9876 من متجر نون في 10/02/2026 18:00",
			wantAmount:   "100",
			wantCurrency: "USD",
			wantMerchant: "متجر نون",
		},
		{
			name:         "arabic amount without currency name defaults to base",
			text:         "تم سحب مبلغ 75 من حسابك",
			wantAmount:   "75",
			wantCurrency: "EGP",
		},
		{
			name:         "arabic indic digits",
			text:         "تم خصم مبلغ ١٥٠٫٥٠ ج.م",
			wantAmount:   "150.5",
			wantCurrency: "EGP",
		},
		{
			name:         "unsupported currency is not an amount",
			text:         "Card #2020 charged JPY 1000 at Uniqlo",
			wantMerchant: "Uniqlo",
			wantCard:     "2020",
		},
		{
			name: "balance only",
			text: "Your available balance is EGP 1,500.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := e.Extract(tt.text)

			if tt.wantAmount == "" {
				assert.Nil(t, f.Amount)
				assert.Nil(t, f.Currency)
			} else {
				require.NotNil(t, f.Amount)
				require.NotNil(t, f.Currency)
				assert.Equal(t, tt.wantAmount, f.Amount.String())
				assert.Equal(t, tt.wantCurrency, *f.Currency)
			}

			if tt.wantMerchant == "" {
				assert.Nil(t, f.Merchant)
			} else {
				require.NotNil(t, f.Merchant)
				assert.Equal(t, tt.wantMerchant, *f.Merchant)
			}

			if tt.wantCard == "" {
				assert.Nil(t, f.CardLast4)
			} else {
				require.NotNil(t, f.CardLast4)
				assert.Equal(t, tt.wantCard, *f.CardLast4)
			}

			assert.Nil(t, f.IsTransfer)
			assert.Nil(t, f.Category)
		})
	}
}

func TestExtract_Timestamp(t *testing.T) {
	e := newTestExtractor(t, config.CustomPatterns{})
	bankZone := time.FixedZone("bank-local", 2*3600)

	tests := []struct {
		name string
		text string
		want *time.Time
	}{
		{
			name: "two digit year",
			text: "charged EGP 10.00 at Kiosk on 21/12/25 14:30",
			want: ptrTime(time.Date(2025, 12, 21, 14, 30, 0, 0, bankZone)),
		},
		{
			name: "four digit year arabic",
			text: "عند كشك في 05/01/2026 09:15",
			want: ptrTime(time.Date(2026, 1, 5, 9, 15, 0, 0, bankZone)),
		},
		{
			name: "pm suffix",
			text: "at Kiosk on 21/12/25 11:30 PM",
			want: ptrTime(time.Date(2025, 12, 21, 23, 30, 0, 0, bankZone)),
		},
		{
			name: "twelve am is midnight",
			text: "at Kiosk on 21/12/25 12:05 am",
			want: ptrTime(time.Date(2025, 12, 21, 0, 5, 0, 0, bankZone)),
		},
		{name: "month out of range", text: "at Kiosk on 21/13/25 10:00"},
		{name: "day out of range", text: "at Kiosk on 32/12/25 10:00"},
		{name: "hour out of range", text: "at Kiosk on 21/12/25 24:10"},
		{name: "minute out of range", text: "at Kiosk on 21/12/25 10:60"},
		{name: "impossible calendar date", text: "at Kiosk on 31/02/25 10:00"},
		{name: "pm with 24 hour clock", text: "at Kiosk on 21/12/25 14:30 PM"},
		{name: "no timestamp", text: "charged EGP 10.00 at Kiosk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := e.Extract(tt.text)
			if tt.want == nil {
				assert.Nil(t, f.MessageTime)
				return
			}
			require.NotNil(t, f.MessageTime)
			assert.True(t, tt.want.Equal(*f.MessageTime), "got %s want %s", f.MessageTime, tt.want)
			_, offset := f.MessageTime.Zone()
			assert.Equal(t, 2*3600, offset)
		})
	}
}

func TestExtract_LateNightStaysOnSameLocalDay(t *testing.T) {
	e := newTestExtractor(t, config.CustomPatterns{})

	f := e.Extract("charged EGP 45.00 at Bakery on 21/12/25 23:50")
	require.NotNil(t, f.MessageTime)
	assert.Equal(t, 21, f.MessageTime.Day())
	assert.Equal(t, 21, f.MessageTime.UTC().Day())
}

func TestExtract_CustomPatternsRunFirst(t *testing.T) {
	e := newTestExtractor(t, config.CustomPatterns{
		Amount:   []string{`Purchase (?P<currency>[A-Z]{3}) (?P<amount>[\d.]+)`},
		Merchant: []string{`@ (?P<merchant>[^,]+)`},
		Card:     []string{`card no\. (?P<card>\d{4})`},
	})

	f := e.Extract("Purchase USD 9.99 @ Netflix, card no. 8080")

	require.NotNil(t, f.Amount)
	assert.Equal(t, "9.99", f.Amount.String())
	assert.Equal(t, currency.Code("USD"), *f.Currency)
	require.NotNil(t, f.Merchant)
	assert.Equal(t, "Netflix", *f.Merchant)
	require.NotNil(t, f.CardLast4)
	assert.Equal(t, "8080", *f.CardLast4)
	assert.Equal(t, "custom_0", f.MatchedBy[FieldAmount])
}

func TestNew_RejectsBadCustomPatterns(t *testing.T) {
	registry := currency.NewRegistry(config.CurrencyConfig{Base: "EGP"})

	_, err := New(registry, config.ExtractionConfig{
		CustomPatterns: config.CustomPatterns{Amount: []string{`(`}},
	})
	assert.Error(t, err)

	_, err = New(registry, config.ExtractionConfig{
		CustomPatterns: config.CustomPatterns{Merchant: []string{`at (\w+)`}},
	})
	assert.Error(t, err)
}

func TestFields_Complete(t *testing.T) {
	e := newTestExtractor(t, config.CustomPatterns{})

	complete := e.Extract("card #5233 charged EGP 150.00 at Starbucks")
	assert.True(t, complete.Complete())
	assert.Empty(t, complete.Missing())

	partial := e.Extract("Transfer reference 123 of EGP 5000.00 has been debited")
	assert.False(t, partial.Complete())
	assert.Equal(t, []string{FieldMerchant}, partial.Missing())
}

func TestRepairOverCapture(t *testing.T) {
	assert.Equal(t, "متجر نون", repairOverCapture("بطاقة رقم 9876 من متجر نون"))
	assert.Equal(t, "متجر نون", repairOverCapture("متجر نون"))
	assert.Equal(t, "بطاقة بلا مصدر", repairOverCapture("بطاقة بلا مصدر"))
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
