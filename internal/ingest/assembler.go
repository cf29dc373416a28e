package ingest

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"txnsense/internal/constants"
	"txnsense/internal/currency"
	"txnsense/internal/extraction"
	"txnsense/internal/logger"
	"txnsense/internal/merchant"
	"txnsense/internal/oracle"
	"txnsense/pkg/cel"
	apperrors "txnsense/pkg/errors"
	"txnsense/pkg/metrics"
	"txnsense/pkg/models"
	"txnsense/pkg/tracing"
)

// RateResolver converts one unit of a currency to the base currency.
type RateResolver interface {
	RateToBase(ctx context.Context, code currency.Code) (decimal.Decimal, error)
}

// Input is everything known about one message when assembly starts.
type Input struct {
	ID         string
	RawText    string
	ReceivedAt time.Time
	Local      extraction.Fields
	AI         *oracle.Extraction
}

// Assembler merges local and oracle fields into the final record. Local values win
// over oracle values, which win over defaults.
type Assembler struct {
	registry   *currency.Registry
	rates      RateResolver
	memory     merchant.Memory
	categories map[string]string
	rules      *cel.RuleSet
	logger     logger.Logger
}

func NewAssembler(registry *currency.Registry, rates RateResolver, memory merchant.Memory, categories []string, rules *cel.RuleSet, log logger.Logger) *Assembler {
	canonical := make(map[string]string, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c)
		if name != "" {
			canonical[strings.ToLower(name)] = name
		}
	}
	return &Assembler{
		registry:   registry,
		rates:      rates,
		memory:     memory,
		categories: canonical,
		rules:      rules,
		logger:     log,
	}
}

// Assemble fails only with apperrors.ErrMalformedInput when neither an amount nor a
// merchant could be resolved. Every other gap is filled with a default.
func (a *Assembler) Assemble(ctx context.Context, in Input) (models.NormalizedTransaction, error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.assemble")
	defer span.End()

	amount, code, amountResolved := a.mergeAmount(in.Local, in.AI)
	merchantName, merchantResolved := mergeMerchant(in.Local, in.AI)

	if !amountResolved && !merchantResolved {
		return models.NormalizedTransaction{}, apperrors.ErrMalformedInput.
			WithMessage("neither amount nor merchant could be extracted from the message")
	}

	tx := models.NormalizedTransaction{
		ID:               in.ID,
		BaseCurrency:     string(a.registry.Base()),
		OriginalCurrency: string(code),
		OriginalAmount:   amount,
		CardLast4:        mergeCard(in.Local, in.AI),
		RawText:          in.RawText,
		IngestedAt:       in.ReceivedAt,
		OccurredAt:       in.ReceivedAt,
	}
	if in.Local.MessageTime != nil {
		tx.OccurredAt = *in.Local.MessageTime
	}

	tx.IsTransfer = isTransfer(in.Local, in.AI)
	if tx.IsTransfer {
		tx.Merchant = constants.TransferMerchant
		tx.Category = constants.CategoryTransfer
		tx.CategorySource = models.CategorySourceTransfer
	} else {
		tx.Merchant = constants.UnknownMerchant
		if merchantResolved {
			tx.Merchant = merchantName
		}
		tx.Category, tx.CategorySource = a.chooseCategory(ctx, tx.Merchant, merchantResolved, in.Local, in.AI)
	}

	a.convert(ctx, &tx)
	tx.IncludeInInsights = a.includeInInsights(ctx, tx)

	if err := models.ValidateTransaction(&tx); err != nil {
		return models.NormalizedTransaction{}, apperrors.ErrInternal.WithCause(err)
	}
	return tx, nil
}

// mergeAmount keeps amount and currency together: a currency is only taken from the
// same source as the amount, then from any other source, then the base currency.
func (a *Assembler) mergeAmount(local extraction.Fields, ai *oracle.Extraction) (decimal.Decimal, currency.Code, bool) {
	base := a.registry.Base()

	if local.Amount != nil {
		return *local.Amount, firstCode(base, local.Currency, aiCurrency(ai)), true
	}
	if ai != nil && ai.Amount != nil {
		return *ai.Amount, firstCode(base, ai.Currency, local.Currency), true
	}
	return decimal.Zero, firstCode(base, local.Currency, aiCurrency(ai)), false
}

func aiCurrency(ai *oracle.Extraction) *currency.Code {
	if ai == nil {
		return nil
	}
	return ai.Currency
}

func firstCode(fallback currency.Code, candidates ...*currency.Code) currency.Code {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return fallback
}

func mergeMerchant(local extraction.Fields, ai *oracle.Extraction) (string, bool) {
	if local.Merchant != nil && strings.TrimSpace(*local.Merchant) != "" {
		return strings.TrimSpace(*local.Merchant), true
	}
	if ai != nil && ai.Merchant != nil && strings.TrimSpace(*ai.Merchant) != "" {
		return strings.TrimSpace(*ai.Merchant), true
	}
	return "", false
}

func mergeCard(local extraction.Fields, ai *oracle.Extraction) *string {
	if local.CardLast4 != nil {
		card := *local.CardLast4
		return &card
	}
	if ai != nil && ai.CardLast4 != nil {
		card := *ai.CardLast4
		return &card
	}
	return nil
}

func isTransfer(local extraction.Fields, ai *oracle.Extraction) bool {
	if local.IsTransfer != nil && *local.IsTransfer {
		return true
	}
	return ai != nil && ai.IsTransfer != nil && *ai.IsTransfer
}

// chooseCategory applies history first, then a category proposed by extraction if it
// belongs to the configured list, then Other.
func (a *Assembler) chooseCategory(ctx context.Context, merchantName string, resolved bool, local extraction.Fields, ai *oracle.Extraction) (string, string) {
	if resolved && a.memory != nil && !merchant.Skippable(merchantName) {
		category, found, err := a.memory.PriorCategory(ctx, merchantName)
		switch {
		case err != nil:
			metrics.IncMerchantMemoryLookup("error")
			metrics.IncFallback(constants.ComponentMemory, "skip_history")
			a.logger.WarnwCtx(ctx, "Merchant history lookup failed, continuing without it",
				"component", constants.ComponentMemory,
				"merchant", merchantName,
				"error", err,
			)
		case found && strings.TrimSpace(category) != "":
			metrics.IncMerchantMemoryLookup("hit")
			return category, models.CategorySourceMemory
		default:
			metrics.IncMerchantMemoryLookup("miss")
		}
	}

	if local.Category != nil {
		if canonical, ok := a.categories[strings.ToLower(strings.TrimSpace(*local.Category))]; ok {
			return canonical, models.CategorySourceOracle
		}
	}
	if ai != nil && ai.Category != nil {
		if canonical, ok := a.categories[strings.ToLower(strings.TrimSpace(*ai.Category))]; ok {
			return canonical, models.CategorySourceOracle
		}
		a.logger.DebugwCtx(ctx, "Oracle category not in configured list",
			"component", constants.ComponentOracle,
			"category", *ai.Category,
		)
	}

	return constants.CategoryOther, models.CategorySourceDefault
}

// convert fills AmountBase. Without a rate the original amount is kept unconverted.
func (a *Assembler) convert(ctx context.Context, tx *models.NormalizedTransaction) {
	rate, err := a.rates.RateToBase(ctx, currency.Code(tx.OriginalCurrency))
	if err != nil {
		metrics.IncFallback(constants.ComponentRates, "unconverted_amount")
		a.logger.WarnwCtx(ctx, "Exchange rate unavailable, storing unconverted amount",
			"component", constants.ComponentRates,
			"currency", tx.OriginalCurrency,
			"error", err,
		)
		tx.AmountBase = tx.OriginalAmount.Round(2)
		tx.ExchangeRate = decimal.Zero
		tx.RateApplied = false
		return
	}

	tx.AmountBase = tx.OriginalAmount.Mul(rate).Round(2)
	tx.ExchangeRate = rate
	tx.RateApplied = true
}

// atmMention matches "ATM" wherever it closes a word or runs into a terminal
// number ("NBEATM", "ATM123") but not inside names like "Batman" or "Fatma".
var atmMention = regexp.MustCompile(`(?i)atm(?:\b|\d)`)

func (a *Assembler) includeInInsights(ctx context.Context, tx models.NormalizedTransaction) bool {
	if strings.Contains(strings.ToLower(tx.Merchant), "transfer") {
		return false
	}
	if atmMention.MatchString(tx.Merchant) {
		return false
	}
	if strings.EqualFold(tx.Category, constants.CategoryTransfer) {
		return false
	}

	rule, matched, err := a.rules.FirstMatch(ctx, tx.InsightsView())
	if err != nil {
		a.logger.WarnwCtx(ctx, "Insights rule evaluation failed",
			"component", constants.ComponentInsights,
			"error", err,
		)
	}
	if matched {
		a.logger.DebugwCtx(ctx, "Transaction excluded from insights by rule",
			"component", constants.ComponentInsights,
			"rule", rule,
		)
		return false
	}
	return true
}
