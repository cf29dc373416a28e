package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"

	"txnsense/internal/config"
	"txnsense/internal/constants"
	"txnsense/internal/logger"
	"txnsense/pkg/metrics"
	"txnsense/pkg/models"
	"txnsense/pkg/tracing"
)

// KafkaProducer publishes one JSON event per stored transaction, keyed by the
// transaction ID so all events for a record land on the same partition.
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
	logger logger.Logger
}

func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	topic := cfg.OutputTopic
	if topic == "" {
		topic = constants.DefaultOutputTopic
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           constants.KafkaBatchTimeout,
		WriteTimeout:           constants.KafkaWriteTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{writer: w, topic: topic, logger: log}
}

func (p *KafkaProducer) Publish(ctx context.Context, event *models.TransactionEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.publish", attribute.String("messaging.destination.name", p.topic))
	defer span.End()

	msg, err := buildMessage(ctx, event)
	if err != nil {
		metrics.IncEventPublished(p.topic, "encode_failed")
		tracing.RecordError(span, err)
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.IncEventPublished(p.topic, "failed")
		tracing.RecordError(span, err)
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	metrics.IncEventPublished(p.topic, "published")
	p.logger.DebugwCtx(ctx, "Transaction event published",
		"component", constants.ComponentPublisher,
		"topic", p.topic,
		"transaction_id", event.Transaction.ID,
	)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

func buildMessage(ctx context.Context, event *models.TransactionEvent) (kafka.Message, error) {
	if event == nil {
		return kafka.Message{}, fmt.Errorf("event is nil")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(event.EventType)}}
	headers = tracing.InjectTraceContext(ctx, headers)

	return kafka.Message{
		Key:     []byte(event.Transaction.ID),
		Value:   body,
		Headers: headers,
		Time:    event.Timestamp,
	}, nil
}
