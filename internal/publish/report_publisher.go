// Package publish drains the engine's execution queue and audits order
// events to Kafka, grounded on a broadcaster/producer pair but
// reading straight from in-memory state instead of a durable outbox — the
// core carries no persistence layer.
package publish

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	"lob/internal/engine"
)

// reportEvent is the JSON wire shape published for each execution report,
// matching the engine's execution report fields.
type reportEvent struct {
	OrderID          uint64 `json:"order_id"`
	MatchID          uint64 `json:"match_id"`
	Timestamp        uint64 `json:"timestamp"`
	Price            uint32 `json:"price"`
	ExecutedQuantity uint32 `json:"executed_quantity"`
	Side             string `json:"side"`
	IsFullFill       bool   `json:"is_full_fill"`
}

// ReportPublisher drains an engine's execution queue on an interval and
// publishes each report to Kafka via a sarama.SyncProducer.
type ReportPublisher struct {
	eng      *engine.MatchingEngine
	producer sarama.SyncProducer
	topic    string

	published uint64
	failed    uint64
}

// NewReportPublisher dials brokers and returns a publisher for topic.
func NewReportPublisher(eng *engine.MatchingEngine, brokers []string, topic string) (*ReportPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &ReportPublisher{
		eng:      eng,
		producer: producer,
		topic:    topic,
	}, nil
}

// Run drains the queue every interval until ctx is cancelled.
func (p *ReportPublisher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.drainOnce()
		}
	}
}

func (p *ReportPublisher) drainOnce() {
	for {
		r, ok := p.eng.PopExecutionReport()
		if !ok {
			return
		}

		ev := reportEvent{
			OrderID:          r.AggressorOrderID,
			MatchID:          r.MatchID,
			Timestamp:        r.Timestamp,
			Price:            r.Price,
			ExecutedQuantity: r.ExecutedQuantity,
			Side:             r.AggressorSide.String(),
			IsFullFill:       r.IsFullFill,
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			p.failed++
			continue
		}

		msg := &sarama.ProducerMessage{
			Topic: p.topic,
			Value: sarama.ByteEncoder(payload),
		}
		if _, _, err := p.producer.SendMessage(msg); err != nil {
			p.failed++
			continue
		}
		p.published++
	}
}

// Published returns the count of reports successfully sent to Kafka.
func (p *ReportPublisher) Published() uint64 { return p.published }

// Failed returns the count of reports that could not be marshalled or sent.
func (p *ReportPublisher) Failed() uint64 { return p.failed }

// Close releases the underlying producer.
func (p *ReportPublisher) Close() error {
	return p.producer.Close()
}
