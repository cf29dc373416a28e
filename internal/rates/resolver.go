package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"txnsense/internal/config"
	"txnsense/internal/constants"
	"txnsense/internal/currency"
	"txnsense/internal/logger"
	apperrors "txnsense/pkg/errors"
	"txnsense/pkg/metrics"
	"txnsense/pkg/tracing"
)

// DefaultTTL is how long a fetched quote is reused.
const DefaultTTL = 6 * time.Hour

// Resolver converts foreign currencies to the base currency. Lookup order is base,
// operator override, fresh cache entry, then one call to the rate service.
type Resolver struct {
	registry  *currency.Registry
	overrides map[currency.Code]decimal.Decimal
	cache     Cache
	fetcher   Fetcher
	ttl       time.Duration
	now       func() time.Time
	logger    logger.Logger
}

type Option func(*Resolver)

// WithClock replaces time.Now for staleness checks.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

func NewResolver(registry *currency.Registry, cfg config.CurrencyConfig, cache Cache, fetcher Fetcher, log logger.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		registry:  registry,
		overrides: make(map[currency.Code]decimal.Decimal, len(cfg.Overrides)),
		cache:     cache,
		fetcher:   fetcher,
		ttl:       DefaultTTL,
		now:       time.Now,
		logger:    log,
	}

	if cfg.CacheTTL > 0 {
		r.ttl = cfg.CacheTTL
	}

	for code, rate := range cfg.Overrides {
		if rate <= 0 {
			continue
		}
		r.overrides[currency.Code(code)] = decimal.NewFromFloat(rate)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RateToBase returns how many base units one unit of code is worth. Failures wrap
// apperrors.ErrRateUnavailable.
func (r *Resolver) RateToBase(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	ctx, span := tracing.StartSpan(ctx, "rates.resolve", attribute.String("currency", string(code)))
	defer span.End()

	if r.registry.IsBase(code) {
		metrics.IncRateLookup(string(code), constants.RateSourceBase)
		return decimal.NewFromInt(1), nil
	}

	if rate, ok := r.overrides[code]; ok {
		metrics.IncRateLookup(string(code), constants.RateSourceOverride)
		return rate, nil
	}

	if quote, ok := r.cached(ctx, code); ok {
		metrics.IncRateLookup(string(code), constants.RateSourceCache)
		return quote.Rate, nil
	}

	if r.fetcher == nil {
		metrics.IncRateLookup(string(code), constants.RateSourceFailed)
		return decimal.Zero, apperrors.ErrRateUnavailable.WithDetail("currency", string(code)).
			WithMessage(fmt.Sprintf("no override or rate service for %s", code))
	}

	rate, err := r.fetcher.Fetch(ctx, code)
	if err != nil {
		metrics.IncRateLookup(string(code), constants.RateSourceFailed)
		tracing.RecordError(span, err)
		return decimal.Zero, apperrors.ErrRateUnavailable.WithDetail("currency", string(code)).WithCause(err)
	}
	if !rate.IsPositive() {
		metrics.IncRateLookup(string(code), constants.RateSourceFailed)
		return decimal.Zero, apperrors.ErrRateUnavailable.WithDetail("currency", string(code)).
			WithMessage(fmt.Sprintf("rate service returned non-positive rate %s for %s", rate, code))
	}

	quote := Quote{Currency: code, Rate: rate, ObservedAt: r.now()}
	if err := r.cache.Put(ctx, quote); err != nil {
		r.logger.WarnwCtx(ctx, "Failed to cache exchange rate",
			"component", constants.ComponentRates,
			"currency", code,
			"error", err,
		)
	}

	metrics.IncRateLookup(string(code), constants.RateSourceFetch)
	return rate, nil
}

func (r *Resolver) cached(ctx context.Context, code currency.Code) (Quote, bool) {
	quote, ok, err := r.cache.Get(ctx, code)
	if err != nil {
		r.logger.WarnwCtx(ctx, "Rate cache read failed, treating as miss",
			"component", constants.ComponentRates,
			"currency", code,
			"error", err,
		)
		return Quote{}, false
	}
	if !ok || !quote.Rate.IsPositive() {
		return Quote{}, false
	}
	if !quote.Fresh(r.now(), r.ttl) {
		return Quote{}, false
	}
	return quote, true
}
