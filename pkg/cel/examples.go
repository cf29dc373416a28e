package cel

// InsightsRuleExamples are exclusion rules operators commonly add under
// insights.exclusion_rules.
var InsightsRuleExamples = map[string]string{
	"atm_withdrawals":        `tx.merchant.contains("ATM")`,
	"large_amounts":          `tx.amount_base > 100000.0`,
	"unconverted_foreign":    `!tx.rate_applied && tx.original_currency != "EGP"`,
	"specific_card":          `tx.card_last4 == "0000"`,
	"fees_by_category":       `tx.category in ["Fees", "Bank Charges"]`,
	"oracle_only_categories": `tx.category_source == "oracle" && tx.category == "Other"`,
	"raw_text_keyword":       `tx.raw_text.contains("refund")`,
}
