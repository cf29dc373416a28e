package main

import (
	"context"
	"fmt"

	"txnsense/internal/config"
	"txnsense/internal/constants"
	"txnsense/internal/currency"
	"txnsense/internal/extraction"
	"txnsense/internal/ingest"
	"txnsense/internal/logger"
	"txnsense/internal/merchant"
	"txnsense/internal/oracle"
	"txnsense/internal/rates"
	"txnsense/internal/storage"
	"txnsense/internal/transfer"
	"txnsense/pkg/bootstrap"
	"txnsense/pkg/cel"
	"txnsense/pkg/circuitbreaker"
)

// buildPipeline wires the ingestion service from configuration and the already opened
// connections. A nil publisher disables event publication.
func buildPipeline(ctx context.Context, cfg *config.Config, log logger.Logger, conns *bootstrap.Connections, publisher ingest.Publisher) (*ingest.Service, error) {
	registry := currency.NewRegistry(cfg.Currency)

	extractor, err := extraction.New(registry, cfg.Extraction)
	if err != nil {
		return nil, fmt.Errorf("failed to build extractor: %w", err)
	}

	classifier := transfer.NewClassifier(cfg.Transfer.ExtraKeywords)

	store, memory, err := buildStore(cfg, conns)
	if err != nil {
		return nil, err
	}
	if cb := newBreaker(cfg, constants.ComponentMemory); cb != nil {
		memory = merchant.WithBreaker(memory, cb)
	}

	evaluator, err := cel.NewEvaluator()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL evaluator: %w", err)
	}
	rules, err := evaluator.CompileRules(cfg.Insights.ExclusionRules)
	if err != nil {
		return nil, fmt.Errorf("failed to compile insights rules: %w", err)
	}

	resolver := buildResolver(cfg, registry, conns, log)
	assembler := ingest.NewAssembler(registry, resolver, memory, cfg.Categories, rules, log.Named("assembler"))

	var opts []ingest.ServiceOption
	if publisher != nil {
		opts = append(opts, ingest.WithPublisher(publisher))
	}

	log.Infow("Pipeline ready",
		"driver", cfg.Database.Driver,
		"base_currency", registry.Base(),
		"rate_cache", cfg.Currency.CacheBackend,
		"oracle_enabled", cfg.Oracle.Enabled,
		"insights_rules", rules.Len(),
		"transfer_keywords", len(classifier.Keywords()),
	)

	return ingest.NewService(
		extractor,
		classifier,
		buildOracle(ctx, cfg, registry, log),
		assembler,
		store,
		log.Named("ingest"),
		opts...,
	), nil
}

func newBreaker(cfg *config.Config, name string) *circuitbreaker.Wrapper {
	cbConfig, ok := circuitbreaker.FromSettings(name, cfg.CircuitBreaker)
	if !ok {
		return nil
	}
	return circuitbreaker.NewWrapper(cbConfig)
}

func buildStore(cfg *config.Config, conns *bootstrap.Connections) (storage.Store, merchant.Memory, error) {
	switch cfg.Database.Driver {
	case constants.DriverPostgres:
		if conns == nil || conns.Postgres == nil {
			return nil, nil, fmt.Errorf("postgres driver selected but no connection is open")
		}
		return storage.NewPostgresStore(conns.Postgres), merchant.NewPostgresMemory(conns.Postgres), nil
	case constants.DriverMongoDB:
		if conns == nil || conns.MongoDB == nil {
			return nil, nil, fmt.Errorf("mongodb driver selected but no connection is open")
		}
		return storage.NewMongoStore(conns.MongoDB), merchant.NewMongoMemory(conns.MongoDB), nil
	case constants.DriverMemory:
		store := storage.NewMemoryStore()
		return store, merchant.NewStoreMemory(store), nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
}

func buildResolver(cfg *config.Config, registry *currency.Registry, conns *bootstrap.Connections, log logger.Logger) *rates.Resolver {
	var cache rates.Cache = rates.NewMemoryCache()
	if conns != nil && conns.Redis != nil {
		cache = rates.NewRedisCache(conns.Redis, cfg.Currency.CacheTTL)
	}

	var fetcher rates.Fetcher = rates.NewHTTPFetcher(cfg.Currency.RateService.URL, registry.Base(), cfg.Currency.RateService.Timeout)
	if cb := newBreaker(cfg, constants.ComponentRates); cb != nil {
		fetcher = rates.WrapFetcherWithBreaker(fetcher, cb)
	}

	return rates.NewResolver(registry, cfg.Currency, cache, fetcher, log.Named("rates"))
}

func buildOracle(ctx context.Context, cfg *config.Config, registry *currency.Registry, log logger.Logger) oracle.Oracle {
	if !cfg.Oracle.Enabled {
		return oracle.Disabled{}
	}

	completer, err := oracle.NewGeminiCompleter(ctx, cfg.Oracle)
	if err != nil {
		log.Warnw("Extraction oracle unavailable, continuing with local extraction only",
			"component", constants.ComponentOracle,
			"error", err,
		)
		return oracle.Disabled{}
	}

	var o oracle.Oracle = oracle.NewAdapter(completer, registry, cfg.Categories, log.Named("oracle"))
	if cb := newBreaker(cfg, constants.ComponentOracle); cb != nil {
		o = oracle.WithBreaker(o, cb)
	}
	return o
}
