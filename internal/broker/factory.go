package broker

import (
	"txnsense/internal/config"
	"txnsense/internal/constants"
	"txnsense/internal/logger"
)

func NewProducer(cfg config.BrokerConfig, log logger.Logger) Producer {
	if !cfg.Kafka.Enabled() {
		log.Infow("Kafka brokers not configured, transaction events disabled",
			"component", constants.ComponentPublisher,
		)
		return NopProducer{}
	}
	return NewKafkaProducer(cfg.Kafka, log)
}
