package models

import "time"

const EventTypeTransactionIngested = "transaction.ingested"

// TransactionEvent is published after a transaction has been stored.
type TransactionEvent struct {
	EventType   string                `json:"event_type"`
	Timestamp   time.Time             `json:"timestamp"`
	TraceID     string                `json:"trace_id,omitempty"`
	RequestID   string                `json:"request_id,omitempty"`
	Transaction NormalizedTransaction `json:"transaction"`
}

type TransactionEventBuilder struct {
	event *TransactionEvent
}

func NewTransactionEventBuilder(tx NormalizedTransaction) *TransactionEventBuilder {
	return &TransactionEventBuilder{
		event: &TransactionEvent{
			EventType:   EventTypeTransactionIngested,
			Transaction: tx,
		},
	}
}

func (b *TransactionEventBuilder) WithTimestamp(timestamp time.Time) *TransactionEventBuilder {
	b.event.Timestamp = timestamp
	return b
}

func (b *TransactionEventBuilder) WithTraceID(traceID string) *TransactionEventBuilder {
	b.event.TraceID = traceID
	return b
}

func (b *TransactionEventBuilder) WithRequestID(requestID string) *TransactionEventBuilder {
	b.event.RequestID = requestID
	return b
}

func (b *TransactionEventBuilder) Build() *TransactionEvent {
	if b.event.Timestamp.IsZero() {
		b.event.Timestamp = time.Now()
	}
	return b.event
}
