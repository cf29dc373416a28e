package config

import (
	"fmt"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateDatabase(cfg.Database, cfg.Currency); err != nil {
		errors = append(errors, err)
	}

	if err := validateKafka(cfg.Broker.Kafka); err != nil {
		errors = append(errors, err)
	}

	if err := validateCurrency(cfg.Currency); err != nil {
		errors = append(errors, err)
	}

	if err := validateCategories(cfg.Categories); err != nil {
		errors = append(errors, err)
	}

	if err := validateExtraction(cfg.Extraction); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{Field: "server.read_timeout_seconds", Message: "read timeout must be positive"}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{Field: "server.write_timeout_seconds", Message: "write timeout must be positive"}
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return &ValidationError{Field: "server.request_timeout_seconds", Message: "request timeout must be positive"}
	}

	return nil
}

func validateDatabase(cfg DatabaseConfig, currency CurrencyConfig) error {
	switch cfg.Driver {
	case "postgres":
		if err := validatePostgres(cfg.Postgres); err != nil {
			return err
		}
	case "mongodb":
		if err := validateMongoDB(cfg.MongoDB); err != nil {
			return err
		}
	case "memory":
	default:
		return &ValidationError{
			Field:   "database.driver",
			Message: fmt.Sprintf("unknown driver: %s (supported: postgres, mongodb, memory)", cfg.Driver),
		}
	}

	if currency.CacheBackend == "redis" || cfg.Redis.Host != "" {
		if err := validateRedis(cfg.Redis); err != nil {
			return err
		}
	}

	return nil
}

func validatePostgres(cfg PostgresConfig) error {
	if cfg.Host == "" {
		return &ValidationError{Field: "database.postgres.host", Message: "PostgreSQL host is required"}
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "database.postgres.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.User == "" {
		return &ValidationError{Field: "database.postgres.user", Message: "PostgreSQL user is required"}
	}

	if cfg.DBName == "" {
		return &ValidationError{Field: "database.postgres.dbname", Message: "PostgreSQL database name is required"}
	}

	validSSLModes := map[string]bool{
		"disable": true, "allow": true, "prefer": true,
		"require": true, "verify-ca": true, "verify-full": true,
	}
	if cfg.SSLMode != "" && !validSSLModes[strings.ToLower(cfg.SSLMode)] {
		return &ValidationError{
			Field:   "database.postgres.sslmode",
			Message: fmt.Sprintf("invalid SSL mode: %s (valid: disable, allow, prefer, require, verify-ca, verify-full)", cfg.SSLMode),
		}
	}

	return nil
}

func validateRedis(cfg RedisConfig) error {
	if cfg.Host == "" {
		return &ValidationError{Field: "database.redis.host", Message: "Redis host is required"}
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "database.redis.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	return nil
}

func validateMongoDB(cfg MongoDBConfig) error {
	if cfg.URI == "" {
		return &ValidationError{Field: "database.mongodb.uri", Message: "MongoDB URI is required"}
	}

	if !strings.HasPrefix(cfg.URI, "mongodb://") && !strings.HasPrefix(cfg.URI, "mongodb+srv://") {
		return &ValidationError{Field: "database.mongodb.uri", Message: "MongoDB URI must start with mongodb:// or mongodb+srv://"}
	}

	if cfg.Database == "" {
		return &ValidationError{Field: "database.mongodb.database", Message: "MongoDB database name is required"}
	}

	return nil
}

func validateKafka(cfg KafkaConfig) error {
	for i, broker := range cfg.Brokers {
		if broker == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("broker.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.Enabled() && cfg.OutputTopic == "" {
		return &ValidationError{Field: "broker.kafka.output_topic", Message: "output topic is required when brokers are set"}
	}

	return nil
}

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

func validateCurrency(cfg CurrencyConfig) error {
	if !currencyCodePattern.MatchString(cfg.Base) {
		return &ValidationError{Field: "currency.base", Message: fmt.Sprintf("base currency must be a 3-letter code, got %q", cfg.Base)}
	}

	supported := make(map[string]bool, len(cfg.Supported))
	for i, code := range cfg.Supported {
		if !currencyCodePattern.MatchString(code) {
			return &ValidationError{
				Field:   fmt.Sprintf("currency.supported[%d]", i),
				Message: fmt.Sprintf("currency must be a 3-letter code, got %q", code),
			}
		}
		supported[code] = true
	}

	if !supported[cfg.Base] {
		return &ValidationError{Field: "currency.supported", Message: fmt.Sprintf("base currency %s must be listed as supported", cfg.Base)}
	}

	for code, rate := range cfg.Overrides {
		if !supported[code] {
			return &ValidationError{Field: "currency.overrides." + code, Message: "override given for unsupported currency"}
		}
		if rate <= 0 {
			return &ValidationError{Field: "currency.overrides." + code, Message: "override rate must be positive"}
		}
	}

	for alias, code := range cfg.Aliases {
		if !supported[strings.ToUpper(code)] {
			return &ValidationError{Field: "currency.aliases." + alias, Message: fmt.Sprintf("alias points at unsupported currency %q", code)}
		}
	}

	if cfg.CacheTTL <= 0 {
		return &ValidationError{Field: "currency.cache_ttl", Message: "cache TTL must be positive"}
	}

	switch cfg.CacheBackend {
	case "memory", "redis":
	default:
		return &ValidationError{Field: "currency.cache_backend", Message: fmt.Sprintf("unknown cache backend: %s (supported: memory, redis)", cfg.CacheBackend)}
	}

	if cfg.RateService.URL != "" && !strings.Contains(cfg.RateService.URL, "{currency}") {
		return &ValidationError{Field: "currency.rate_service.url", Message: "URL must contain the {currency} placeholder"}
	}

	return nil
}

func validateCategories(categories []string) error {
	seen := make(map[string]bool, len(categories))
	for i, c := range categories {
		name := strings.TrimSpace(c)
		if name == "" {
			return &ValidationError{Field: fmt.Sprintf("categories[%d]", i), Message: "category name cannot be empty"}
		}
		seen[strings.ToLower(name)] = true
	}

	for _, required := range []string{"Other", "Transfers"} {
		if !seen[strings.ToLower(required)] {
			return &ValidationError{Field: "categories", Message: fmt.Sprintf("category %q is required", required)}
		}
	}

	return nil
}

func validateExtraction(cfg ExtractionConfig) error {
	if cfg.UTCOffsetHours < -12 || cfg.UTCOffsetHours > 14 {
		return &ValidationError{
			Field:   "extraction.utc_offset_hours",
			Message: fmt.Sprintf("offset must be between -12 and 14, got %d", cfg.UTCOffsetHours),
		}
	}

	groups := map[string][]string{
		"amount":   cfg.CustomPatterns.Amount,
		"merchant": cfg.CustomPatterns.Merchant,
		"card":     cfg.CustomPatterns.Card,
	}
	for group, patterns := range groups {
		for i, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return &ValidationError{
					Field:   fmt.Sprintf("extraction.custom_patterns.%s[%d]", group, i),
					Message: fmt.Sprintf("invalid regex: %v", err),
				}
			}
			if re.SubexpIndex(group) < 0 {
				return &ValidationError{
					Field:   fmt.Sprintf("extraction.custom_patterns.%s[%d]", group, i),
					Message: fmt.Sprintf("pattern must define a named group (?P<%s>...)", group),
				}
			}
		}
	}

	return nil
}
