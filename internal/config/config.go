package config

import (
	"time"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Broker         BrokerConfig         `mapstructure:"broker"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Currency       CurrencyConfig       `mapstructure:"currency"`
	Oracle         OracleConfig         `mapstructure:"oracle"`
	Categories     []string             `mapstructure:"categories"`
	Extraction     ExtractionConfig     `mapstructure:"extraction"`
	Transfer       TransferConfig       `mapstructure:"transfer"`
	Insights       InsightsConfig       `mapstructure:"insights"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port                int `mapstructure:"port"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds"`
	// RequestTimeoutSeconds bounds one ingestion including its outbound calls.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

type DatabaseConfig struct {
	Driver        string         `mapstructure:"driver"` // postgres, mongodb, memory
	Postgres      PostgresConfig `mapstructure:"postgres"`
	Redis         RedisConfig    `mapstructure:"redis"`
	MongoDB       MongoDBConfig  `mapstructure:"mongodb"`
	RunMigrations bool           `mapstructure:"run_migrations"`
	Connect       RetryConfig    `mapstructure:"connect"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MongoDBConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

type BrokerConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers     []string `mapstructure:"brokers"`
	OutputTopic string   `mapstructure:"output_topic"`
}

// Enabled reports whether ingested-transaction events should be published.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CurrencyConfig struct {
	Base      string             `mapstructure:"base"`
	Supported []string           `mapstructure:"supported"`
	Aliases   map[string]string  `mapstructure:"aliases"`
	Overrides map[string]float64 `mapstructure:"overrides"`
	CacheTTL  time.Duration      `mapstructure:"cache_ttl"`
	// CacheBackend is "memory" or "redis".
	CacheBackend string            `mapstructure:"cache_backend"`
	RateService  RateServiceConfig `mapstructure:"rate_service"`
}

type RateServiceConfig struct {
	// URL must contain {currency}; e.g. https://open.er-api.com/v6/latest/{currency}
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OracleConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ExtractionConfig struct {
	UTCOffsetHours int            `mapstructure:"utc_offset_hours"`
	CustomPatterns CustomPatterns `mapstructure:"custom_patterns"`
}

// CustomPatterns are operator regexes tried before the built-in matchers. Each must
// carry the named groups its field needs: amount (+ optional currency), merchant, card.
type CustomPatterns struct {
	Amount   []string `mapstructure:"amount"`
	Merchant []string `mapstructure:"merchant"`
	Card     []string `mapstructure:"card"`
}

type TransferConfig struct {
	ExtraKeywords []string `mapstructure:"extra_keywords"`
}

type InsightsConfig struct {
	// ExclusionRules are CEL expressions over the assembled record; any true result
	// excludes the transaction from insights.
	ExclusionRules []string `mapstructure:"exclusion_rules"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ServiceName string        `mapstructure:"service_name"`
	OTLP        OTLPConfig    `mapstructure:"otlp"`
	Sampler     SamplerConfig `mapstructure:"sampler"`
}

type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type SamplerConfig struct {
	Type  string  `mapstructure:"type"`
	Param float64 `mapstructure:"param"`
}

// UTCOffset returns the fixed zone used to interpret timestamps found in messages.
func (c ExtractionConfig) UTCOffset() *time.Location {
	return time.FixedZone("bank-local", c.UTCOffsetHours*3600)
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
