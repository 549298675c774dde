package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderbookv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/orderbook/v1"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/config"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/logger"
)

// Reader consumes order commands from the order topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface
}

// NewReader creates a new Kafka reader for consuming order commands.
// It returns an implementation of the OrderReader interface.
func NewReader(cfg config.KafkaConfig, log logger.Interface) Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

func (r Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads a message from the order topic and parses it as a command.
func (r Reader) ReadMessage(ctx context.Context) (kafka.Message, orderbookv1.OrderRequest, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{}, orderbookv1.OrderRequest{}, err
	}

	var request orderbookv1.OrderRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		r.logError(err, "UnmarshalOrderRequest")
		return kafka.Message{}, orderbookv1.OrderRequest{}, err
	}

	r.logger.Info("ReadMessage",
		logger.Field{Key: "type", Value: request.Type},
		logger.Field{Key: "owner", Value: request.Owner},
		logger.Field{Key: "side", Value: request.Side},
		logger.Field{Key: "price", Value: request.Price},
		logger.Field{Key: "amount", Value: request.Amount},
	)

	request.Offset = msg.Offset

	return msg, request, nil
}

// Close properly closes the Kafka reader.
func (r Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

// CommitMessages commits the messages after processing. The reader runs on an
// explicit partition offset restored from snapshots, so there is no consumer
// group state to commit.
func (r Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return nil
}
