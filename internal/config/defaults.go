package config

import (
	"time"

	"github.com/spf13/viper"
)

var DefaultCategories = []string{
	"Food & Dining",
	"Groceries",
	"Shopping",
	"Transportation",
	"Bills & Utilities",
	"Entertainment",
	"Health",
	"Travel",
	"Education",
	"Transfers",
	"Other",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("server.request_timeout_seconds", 20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.mongodb.database", "txnsense")
	v.SetDefault("database.connect.max_attempts", 5)
	v.SetDefault("database.connect.initial_interval", time.Second)
	v.SetDefault("database.connect.max_interval", 10*time.Second)
	v.SetDefault("database.connect.multiplier", 2.0)

	v.SetDefault("broker.kafka.output_topic", "transactions.ingested")

	v.SetDefault("currency.base", "EGP")
	v.SetDefault("currency.supported", []string{"EGP", "USD", "EUR", "GBP", "SAR", "AED", "KWD"})
	v.SetDefault("currency.cache_ttl", 6*time.Hour)
	v.SetDefault("currency.cache_backend", "memory")
	v.SetDefault("currency.rate_service.url", "https://open.er-api.com/v6/latest/{currency}")
	v.SetDefault("currency.rate_service.timeout", 5*time.Second)

	v.SetDefault("oracle.enabled", false)
	v.SetDefault("oracle.model", "gemini-2.5-flash")
	v.SetDefault("oracle.timeout", 15*time.Second)

	v.SetDefault("categories", DefaultCategories)
	v.SetDefault("extraction.utc_offset_hours", 2)

	v.SetDefault("rate_limit.rps", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.cleanup_interval", 300)
	v.SetDefault("rate_limit.max_age", 600)

	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)

	v.SetDefault("tracing.service_name", "ingest-service")
}
