package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"txnsense/internal/currency"
	"txnsense/internal/logger"
	"txnsense/pkg/circuitbreaker"
	apperrors "txnsense/pkg/errors"
	"txnsense/pkg/metrics"
	"txnsense/pkg/tracing"
)

// Extraction is the validated output of the oracle. Fields that were missing or failed
// validation are nil.
type Extraction struct {
	Merchant   *string
	CardLast4  *string
	Currency   *currency.Code
	Amount     *decimal.Decimal
	Category   *string
	IsTransfer *bool
}

// Oracle is a best-effort remote extractor. Any error means "no signal" to callers.
type Oracle interface {
	Extract(ctx context.Context, text string) (*Extraction, error)
}

// Completer sends one system+user prompt pair and returns the raw completion text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Adapter turns a Completer into an Oracle: it builds the prompt, parses the
// completion defensively and normalizes every field.
type Adapter struct {
	completer Completer
	registry  *currency.Registry
	system    string
	logger    logger.Logger
}

func NewAdapter(completer Completer, registry *currency.Registry, categories []string, log logger.Logger) *Adapter {
	return &Adapter{
		completer: completer,
		registry:  registry,
		system:    BuildSystemPrompt(registry, categories),
		logger:    log,
	}
}

func (a *Adapter) Extract(ctx context.Context, text string) (*Extraction, error) {
	ctx, span := tracing.StartSpan(ctx, "oracle.extract")
	defer span.End()

	start := time.Now()
	completion, err := a.completer.Complete(ctx, a.system, text)
	if err != nil {
		metrics.ObserveOracleCall(time.Since(start), "error")
		tracing.RecordError(span, err)
		return nil, apperrors.ErrOracleUnavailable.WithCause(err)
	}

	raw, err := ParseResponse(completion)
	if err != nil {
		metrics.ObserveOracleCall(time.Since(start), "unparseable")
		tracing.RecordError(span, err)
		return nil, apperrors.ErrOracleUnavailable.
			WithDetail("completion", truncate(completion, 200)).
			WithCause(err)
	}

	metrics.ObserveOracleCall(time.Since(start), "success")
	extraction := Normalize(raw, a.registry)
	a.logger.DebugwCtx(ctx, "Oracle extraction normalized",
		"merchant_present", extraction.Merchant != nil,
		"amount_present", extraction.Amount != nil,
		"category_present", extraction.Category != nil,
	)
	return extraction, nil
}

// BuildSystemPrompt fixes the output schema and the category list the model may use.
func BuildSystemPrompt(registry *currency.Registry, categories []string) string {
	codes := registry.Supported()
	codeNames := make([]string, len(codes))
	for i, c := range codes {
		codeNames[i] = string(c)
	}

	var b strings.Builder
	b.WriteString("You extract card transactions from bank SMS and push notifications written in English or Arabic.\n")
	b.WriteString("Return ONLY one JSON object with exactly these keys, using null when a value is not present in the message:\n")
	b.WriteString("- \"merchant\": string, the shop or payee name as written\n")
	b.WriteString("- \"card_last4\": string of 4 digits\n")
	fmt.Fprintf(&b, "- \"currency\": ISO 4217 code, one of %s\n", strings.Join(codeNames, ", "))
	b.WriteString("- \"amount\": number, the charged or transferred amount, never a balance or credit limit\n")
	fmt.Fprintf(&b, "- \"category\": one of %s\n", strings.Join(categories, ", "))
	b.WriteString("- \"is_transfer\": boolean, true for transfers between people or accounts, wallet cash-outs and instant payments\n")
	b.WriteString("Do NOT wrap the response in code fences. Do NOT add any text before or after the JSON.\n")
	return b.String()
}

// Disabled is used when no oracle credentials are configured.
type Disabled struct{}

func (Disabled) Extract(context.Context, string) (*Extraction, error) {
	return nil, apperrors.ErrOracleUnavailable.WithMessage("extraction oracle is not configured")
}

type breakerOracle struct {
	next Oracle
	cb   *circuitbreaker.Wrapper
}

// WithBreaker skips the remote call while the oracle keeps failing.
func WithBreaker(next Oracle, cb *circuitbreaker.Wrapper) Oracle {
	return &breakerOracle{next: next, cb: cb}
}

func (o *breakerOracle) Extract(ctx context.Context, text string) (*Extraction, error) {
	result, err := circuitbreaker.Execute(ctx, o.cb, func(ctx context.Context) (*Extraction, error) {
		return o.next.Extract(ctx, text)
	})
	if err != nil && !apperrors.IsOracleUnavailable(err) {
		return nil, apperrors.ErrOracleUnavailable.WithCause(err)
	}
	return result, err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
