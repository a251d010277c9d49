// Package kafka publishes stock events relayed from the transactional outbox.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"stockhub/internal/infrastructure/storage/postgres"
)

// DefaultTopic carries stock status transition events.
const DefaultTopic = "stock-events"

// Producer writes outbox messages to a Kafka topic. It implements
// postgres.OutboxHandler for the worker's relay loop.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a producer for the given brokers and topic.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Handle publishes one outbox message. Keyed by aggregate ID so events for the
// same (sku, warehouse) stay ordered within a partition.
func (p *Producer) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.AggregateID),
		Value: msg.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(msg.EventType)},
			{Key: "aggregate_type", Value: []byte(msg.AggregateType)},
			{Key: "message_id", Value: []byte(msg.ID.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
