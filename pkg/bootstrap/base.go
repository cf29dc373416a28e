package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"txnsense/internal/broker"
	"txnsense/internal/config"
	"txnsense/internal/logger"
)

// Base holds what every entry point shares: configuration, the logger, the event
// producer and the resources to release on shutdown.
type Base struct {
	Config   *config.Config
	Logger   logger.Logger
	Producer broker.Producer

	closers []closer
}

type closer struct {
	name string
	fn   func(ctx context.Context) error
}

func NewBase(cfg *config.Config, log logger.Logger) *Base {
	return &Base{
		Config: cfg,
		Logger: log,
	}
}

// OnShutdown registers fn to run during Shutdown. Closers run in reverse registration
// order so later resources, which may depend on earlier ones, are released first.
func (b *Base) OnShutdown(name string, fn func(ctx context.Context) error) {
	b.closers = append(b.closers, closer{name: name, fn: fn})
}

// InitBroker sets up the transaction event producer. Without brokers it is a no-op
// producer.
func (b *Base) InitBroker() {
	b.Producer = broker.NewProducer(b.Config.Broker, b.Logger)
	b.OnShutdown("producer", func(context.Context) error {
		return b.Producer.Close()
	})
}

// Shutdown runs every registered closer, even after failures, and joins their errors.
func (b *Base) Shutdown(ctx context.Context) error {
	b.Logger.Info("Shutting down application...")

	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		c := b.closers[i]
		if err := c.fn(ctx); err != nil {
			b.Logger.Warnw("Shutdown step failed", "step", c.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	b.closers = nil

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	b.Logger.Info("Application exited successfully")
	return nil
}
