package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/launch-site-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces one message per launch decision.
// It implements pipeline.Notifier.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the decision topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Channel names this notifier in metrics and logs.
func (p *Publisher) Channel() string { return "kafka" }

// Notify publishes the decision keyed by its run ID.
func (p *Publisher) Notify(ctx context.Context, d domain.Decision) error {
	msg, err := serializeToMessage(d)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish decision: %w", err)
	}
	p.logger.Info("decision published", "run_id", d.RunID, "topic", p.writer.Topic)
	return nil
}

// Close flushes pending writes.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a Decision into a Kafka message.
func serializeToMessage(d domain.Decision) (kafkago.Message, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize decision: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(d.RunID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "location", Value: []byte(d.Winner.Location)},
			{Key: "decided_at", Value: []byte(d.DecidedAt.Format(time.RFC3339))},
		},
	}, nil
}
