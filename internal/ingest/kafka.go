package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"fleettrack/internal/models"
	"fleettrack/internal/service"
)

const (
	kafkaMinBytes   = 10_000
	kafkaMaxBytes   = 10_000_000
	storeRetryDelay = 2 * time.Second
)

// Appender is the store side of ingestion.
type Appender interface {
	Append(ctx context.Context, input service.PingInput) (*models.LocationPing, error)
}

// MessageReader abstracts *kafka.Reader for tests.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads raw location tuples from Kafka and appends them to the
// store. Malformed or rejected tuples are committed and skipped; store
// outages leave the message uncommitted so it is redelivered.
type Consumer struct {
	reader   MessageReader
	appender Appender
	logger   *zap.Logger
}

// NewReader builds a kafka.Reader for the ingest topic.
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: kafkaMinBytes,
		MaxBytes: kafkaMaxBytes,
		MaxWait:  time.Second,
	})
}

// NewConsumer returns consumer.
func NewConsumer(reader MessageReader, appender Appender, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:   reader,
		appender: appender,
		logger:   logger,
	}
}

// Close releases the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Run consumes until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		if err := c.handle(ctx, msg); err != nil {
			// Store outage: leave uncommitted, back off and let the
			// message be redelivered.
			c.logger.Error("ingest append failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(storeRetryDelay):
			}
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("ingest commit failed", zap.Error(err))
		}
	}
}

// handle appends one message. Caller-class rejections return nil so the
// message gets committed; only transient store failures propagate.
func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var input service.PingInput
	if err := json.Unmarshal(msg.Value, &input); err != nil {
		c.logger.Warn("ingest skipping malformed message",
			zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}

	_, err := c.appender.Append(ctx, input)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrInvalidCoordinate), errors.Is(err, models.ErrUnknownVehicle):
		c.logger.Warn("ingest rejecting ping",
			zap.String("vehicle_id", input.VehicleID),
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		return nil
	default:
		return err
	}
}
