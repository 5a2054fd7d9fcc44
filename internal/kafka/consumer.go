package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// DatasetHandler reacts to a newly published dataset
type DatasetHandler interface {
	OnDatasetPublished(ctx context.Context, event models.DatasetEvent) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer handles consuming dataset events from Kafka
type Consumer struct {
	reader  messageReader
	handler DatasetHandler
	ticker  string
	log     *logger.Logger
}

// NewConsumer creates a Kafka consumer for dataset events of ticker.
// An empty ticker accepts events for every ticker.
func NewConsumer(brokers []string, topic, groupID, ticker string, handler DatasetHandler, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		ticker:  ticker,
		log:     log.With("component", "kafka_consumer", "topic", topic),
	}
}

// Start consumes messages until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Infow("Starting Kafka consumer")

	for {
		select {
		case <-ctx.Done():
			c.log.Infow("Kafka consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.log.Infow("Kafka consumer shutting down")
					return c.reader.Close()
				}
				c.log.Errorw("Error reading message", "error", err)
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.log.Errorw("Error processing message", "partition", msg.Partition, "offset", msg.Offset, "error", err)
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.DatasetEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal dataset event: %w", err)
	}

	if event.EventType != models.EventDatasetPublished {
		c.log.Debugw("Ignoring event type", "event_type", event.EventType)
		return nil
	}
	if c.ticker != "" && event.Ticker != c.ticker {
		return nil
	}

	if err := c.handler.OnDatasetPublished(ctx, event); err != nil {
		return fmt.Errorf("failed to handle dataset event %s: %w", event.RunID, err)
	}

	c.log.Infow("Handled dataset event", "run_id", event.RunID, "ticker", event.Ticker, "records", event.Records)
	return nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
