package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	IngestMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_messages_total",
			Help: "Total number of notifications processed by the ingest pipeline (count)",
		},
		[]string{"status"},
	)

	IngestProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_processing_duration_ms",
			Help:    "End-to-end processing duration of one notification in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"status"},
	)

	ExtractorFieldMatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_field_matches_total",
			Help: "Pattern matches per extracted field and matcher (count)",
		},
		[]string{"field", "matcher"},
	)

	ExtractorFieldMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_field_misses_total",
			Help: "Notifications where no pattern matched a field (count)",
		},
		[]string{"field"},
	)

	RateLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fx_rate_lookups_total",
			Help: "Exchange rate resolutions by source: base, override, cache, network, unavailable (count)",
		},
		[]string{"currency", "source"},
	)

	RateFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fx_rate_fetch_duration_ms",
			Help:    "Duration of outbound exchange rate requests in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	OracleCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_calls_total",
			Help: "Extraction oracle invocations by outcome (count)",
		},
		[]string{"status"},
	)

	OracleCallDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oracle_call_duration_ms",
			Help:    "Duration of extraction oracle calls in milliseconds",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)

	MerchantMemoryLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "merchant_memory_lookups_total",
			Help: "Merchant category memory lookups by result: hit, miss, error (count)",
		},
		[]string{"result"},
	)

	TransactionsStoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_stored_total",
			Help: "Normalized transactions handed to storage by outcome (count)",
		},
		[]string{"status", "include_in_insights"},
	)

	FallbackUsageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_usage_total",
			Help: "Recovered failures that fell back to a degraded value (count)",
		},
		[]string{"component", "fallback"},
	)

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Ingested-transaction events written to the broker (count)",
		},
		[]string{"topic", "status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			IngestMessagesTotal,
			IngestProcessingDuration,
			ExtractorFieldMatches,
			ExtractorFieldMisses,
			RateLookupsTotal,
			RateFetchDuration,
			OracleCallsTotal,
			OracleCallDuration,
			MerchantMemoryLookups,
			TransactionsStoredTotal,
			FallbackUsageTotal,
			EventsPublishedTotal,
			CircuitBreakerState,
			CircuitBreakerRequests,
			CircuitBreakerFailures,
			RateLimitRequestsTotal,
		)
	})
}

func ObserveIngestDuration(duration time.Duration, status string) {
	IngestProcessingDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
	IngestMessagesTotal.WithLabelValues(status).Inc()
}

func IncFieldMatch(field, matcher string) {
	ExtractorFieldMatches.WithLabelValues(field, matcher).Inc()
}

func IncFieldMiss(field string) {
	ExtractorFieldMisses.WithLabelValues(field).Inc()
}

func IncRateLookup(currency, source string) {
	RateLookupsTotal.WithLabelValues(currency, source).Inc()
}

func ObserveRateFetch(duration time.Duration) {
	RateFetchDuration.Observe(float64(duration.Milliseconds()))
}

func ObserveOracleCall(duration time.Duration, status string) {
	OracleCallDuration.Observe(float64(duration.Milliseconds()))
	OracleCallsTotal.WithLabelValues(status).Inc()
}

func IncMerchantMemoryLookup(result string) {
	MerchantMemoryLookups.WithLabelValues(result).Inc()
}

func IncTransactionStored(status string, includeInInsights bool) {
	include := "false"
	if includeInInsights {
		include = "true"
	}
	TransactionsStoredTotal.WithLabelValues(status, include).Inc()
}

func IncFallback(component, fallback string) {
	FallbackUsageTotal.WithLabelValues(component, fallback).Inc()
}

func IncEventPublished(topic, status string) {
	EventsPublishedTotal.WithLabelValues(topic, status).Inc()
}
