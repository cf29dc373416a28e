package broker

import (
	"context"

	"txnsense/pkg/models"
)

type Producer interface {
	Publish(ctx context.Context, event *models.TransactionEvent) error
	Close() error
}

// NopProducer stands in when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Publish(context.Context, *models.TransactionEvent) error { return nil }

func (NopProducer) Close() error { return nil }
