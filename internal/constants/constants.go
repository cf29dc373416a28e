package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultHTTPTimeout = 10 * time.Second
)

const (
	CacheKeyPrefixRate = "fx:"
)

const (
	DefaultOutputTopic = "transactions.ingested"
)

const (
	DefaultMongoDBName          = "txnsense"
	MongoTransactionsCollection = "transactions"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// MaxMessageBytes caps inbound message bodies.
	MaxMessageBytes = 16 * 1024
	// DefaultTruncateLen bounds raw text echoed into logs.
	DefaultTruncateLen = 100
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)

const (
	UnknownMerchant  = "Unknown Merchant"
	TransferMerchant = "Transfer"
	CategoryOther    = "Other"
	CategoryTransfer = "Transfers"
)

const (
	RateSourceBase     = "base"
	RateSourceOverride = "override"
	RateSourceCache    = "cache"
	RateSourceFetch    = "fetch"
	RateSourceFailed   = "unavailable"
)

const (
	ComponentExtractor = "extractor"
	ComponentRates     = "rates"
	ComponentOracle    = "oracle"
	ComponentMemory    = "merchant_memory"
	ComponentStore     = "store"
	ComponentPublisher = "publisher"
	ComponentInsights  = "insights"
)

const (
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
	DriverMemory   = "memory"
)
