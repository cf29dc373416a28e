package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_LooksLikeTransfer(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		text string
		want bool
	}{
		{"Transfer reference 123 of EGP 5000.00 has been debited", true},
		{"You TRANSFERRED USD 20 to John", true},
		{"IBAN EG380019000500000000263180002 credited", true},
		{"Outgoing SWIFT payment processed", true},
		{"InstaPay: EGP 300 sent to ahmed@instapay", true},
		{"Vodafone Cash top-up of EGP 100", true},
		{"Cash-out from wallet completed", true},
		{"تم تحويل مبلغ 500 جنيه إلى حساب آخر", true},
		{"حوالة واردة بمبلغ 1000 جنيه", true},
		{"تم شحن المحفظة بمبلغ 50 جنيه", true},
		{"IPN ref 4411 sent EGP 200", true},
		{"Payment via ipn to 0100xxxx", true},
		{"card #5233 charged EGP 90.00 at Shipnow Express", false},
		{"card #5233 charged EGP 150.00 at Starbucks", false},
		{"تم خصم مبلغ 250 جنيه من بطاقتك عند كارفور", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, c.LooksLikeTransfer(tt.text))
		})
	}
}

func TestClassifier_ExtraKeywords(t *testing.T) {
	c := NewClassifier([]string{"  Fawry Pay ", ""})

	assert.True(t, c.LooksLikeTransfer("payment via FAWRY PAY"))
	assert.Contains(t, c.Keywords(), "fawry pay")
	assert.NotContains(t, c.Keywords(), "")
	assert.Contains(t, c.Keywords(), "ipn")
}
