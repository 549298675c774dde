package eventpublisher

import (
	"context"

	"github.com/segmentio/kafka-go"

	eventpublisherv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/event-publisher/v1"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/config"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/errors"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/logger"
)

// Publisher writes emitted book records to the event topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for emitted book records.
func NewPublisher(cfg config.EventPublisherConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// Publish publishes a single event to the event topic.
func (p *Publisher) Publish(ctx context.Context, event *eventpublisherv1.Event) error {
	msg := kafka.Message{
		Value: eventpublisherv1.ToBytes(event),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "eventType", Value: event.Type},
		)
		return errors.NewTracer("failed to publish event").Wrap(err)
	}
	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
