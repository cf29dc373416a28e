//go:build integration

package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txnsense/internal/config"
	"txnsense/internal/logger"
	"txnsense/internal/testinfra"
	"txnsense/pkg/models"
)

func TestKafkaProducer_Publish(t *testing.T) {
	brokers := testinfra.Kafka(t)
	topic := "transactions.ingested.test"

	producer := NewKafkaProducer(config.KafkaConfig{Brokers: brokers, OutputTopic: topic}, logger.NopLogger())
	t.Cleanup(func() { _ = producer.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	event := testEvent()
	require.Eventually(t, func() bool {
		return producer.Publish(ctx, event) == nil
	}, 30*time.Second, time.Second, "topic should be auto-created")

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = reader.Close() })

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.Transaction.ID, string(msg.Key))

	var got models.TransactionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, models.EventTypeTransactionIngested, got.EventType)
	assert.Equal(t, "Starbucks", got.Transaction.Merchant)
	assert.Equal(t, "150.00", got.Transaction.AmountBase.StringFixed(2))
}
