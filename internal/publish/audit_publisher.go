package publish

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// auditEvent records one submit/cancel/modify call for downstream audit
// consumers. This is event distribution, never a replay source: the core
// carries no persistence layer.
type auditEvent struct {
	Type      string `json:"type"`
	Symbol    string `json:"symbol"`
	OrderID   uint64 `json:"order_id"`
	Quantity  uint32 `json:"quantity,omitempty"`
	Timestamp int64  `json:"timestamp_unix_ns"`
}

// AuditPublisher publishes one JSON event per engine mutation to Kafka via
// kafka-go, independent of the execution-report stream.
type AuditPublisher struct {
	writer *kafka.Writer
}

// NewAuditPublisher constructs a publisher writing to topic on brokers.
func NewAuditPublisher(brokers []string, topic string) *AuditPublisher {
	return &AuditPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (a *AuditPublisher) publish(ctx context.Context, ev auditEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return a.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Symbol),
		Value: payload,
	})
}

// PublishSubmit records an order submission.
func (a *AuditPublisher) PublishSubmit(ctx context.Context, symbol string, id uint64, quantity uint32, whenUnixNs int64) error {
	return a.publish(ctx, auditEvent{Type: "submit", Symbol: symbol, OrderID: id, Quantity: quantity, Timestamp: whenUnixNs})
}

// PublishCancel records an order cancellation.
func (a *AuditPublisher) PublishCancel(ctx context.Context, symbol string, id uint64, whenUnixNs int64) error {
	return a.publish(ctx, auditEvent{Type: "cancel", Symbol: symbol, OrderID: id, Timestamp: whenUnixNs})
}

// PublishModify records an order quantity modification.
func (a *AuditPublisher) PublishModify(ctx context.Context, symbol string, id uint64, newQuantity uint32, whenUnixNs int64) error {
	return a.publish(ctx, auditEvent{Type: "modify", Symbol: symbol, OrderID: id, Quantity: newQuantity, Timestamp: whenUnixNs})
}

// Close releases the underlying writer.
func (a *AuditPublisher) Close() error {
	return a.writer.Close()
}
