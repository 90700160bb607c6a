package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/artcc-atlas/internal/config"
	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces interaction events to a Kafka topic.
// It implements viewsync.EventSink.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates an asynchronous Kafka producer for the configured
// interaction topic. Writes return immediately; delivery failures are logged
// and counted from the completion callback.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	p := &Publisher{logger: logger, metrics: metrics}
	p.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion:   p.complete,
	}
	return p
}

// Publish serializes and enqueues one event.
func (p *Publisher) Publish(ctx context.Context, event domain.InteractionEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) complete(messages []kafkago.Message, err error) {
	if err == nil {
		return
	}
	p.metrics.PublishErrors.Add(float64(len(messages)))
	p.logger.Warn("interaction delivery failed", "error", err, "messages", len(messages))
}

// serializeToMessage marshals an InteractionEvent into a Kafka message keyed
// by attribute, so events about one attribute stay ordered on one partition.
func serializeToMessage(event domain.InteractionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize interaction event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Attribute),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "occurred_at", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}
