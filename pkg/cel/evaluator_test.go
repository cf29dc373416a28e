package cel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTx() map[string]interface{} {
	return map[string]interface{}{
		"merchant":          "Starbucks",
		"category":          "Food & Dining",
		"category_source":   "memory",
		"amount_base":       150.0,
		"original_amount":   150.0,
		"original_currency": "EGP",
		"card_last4":        "5233",
		"is_transfer":       false,
		"rate_applied":      true,
		"raw_text":          "card #5233 charged EGP 150.00 at Starbucks",
	}
}

func TestNewEvaluator(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)
	assert.NotNil(t, eval)
}

func TestValidateRule(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		expr      string
		wantError bool
	}{
		{name: "string equality", expr: `tx.merchant == "Starbucks"`},
		{name: "numeric comparison", expr: `tx.amount_base > 100.0`},
		{name: "syntax error", expr: `tx.merchant ==`, wantError: true},
		{name: "undefined variable", expr: `payload.status == "active"`, wantError: true},
		{name: "non bool result", expr: `"literal"`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eval.ValidateRule(tt.expr)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInsightsRuleExamplesCompile(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	for name, expr := range InsightsRuleExamples {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, eval.ValidateRule(expr))
		})
	}
}

func TestRuleSet_FirstMatch(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	set, err := eval.CompileRules([]string{
		`tx.amount_base > 1000.0`,
		`tx.merchant == "Starbucks"`,
		`tx.category == "Food & Dining"`,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())

	rule, matched, err := set.FirstMatch(context.Background(), sampleTx())
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, `tx.merchant == "Starbucks"`, rule)
}

func TestRuleSet_NoMatch(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	set, err := eval.CompileRules([]string{`tx.amount_base > 1000.0`})
	require.NoError(t, err)

	_, matched, err := set.FirstMatch(context.Background(), sampleTx())
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestRuleSet_EvaluationErrorDoesNotStopLaterRules(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	set, err := eval.CompileRules([]string{
		`tx.missing_field == "x"`,
		`tx.card_last4 == "5233"`,
	})
	require.NoError(t, err)

	rule, matched, err := set.FirstMatch(context.Background(), sampleTx())
	assert.Error(t, err)
	assert.True(t, matched)
	assert.Equal(t, `tx.card_last4 == "5233"`, rule)
}

func TestCompileRules_RejectsInvalid(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	_, err = eval.CompileRules([]string{`tx.merchant == "ok"`, `tx.merchant +`})
	assert.Error(t, err)
}

func TestRuleSet_NilIsEmpty(t *testing.T) {
	var set *RuleSet
	assert.Equal(t, 0, set.Len())

	_, matched, err := set.FirstMatch(context.Background(), sampleTx())
	assert.NoError(t, err)
	assert.False(t, matched)
}
