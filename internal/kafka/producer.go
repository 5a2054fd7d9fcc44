package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles publishing events to Kafka
type Producer struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
		now:    time.Now,
	}
}

// PublishDatasetPublished announces a newly persisted dataset, keyed by
// ticker so events for one ticker stay ordered
func (p *Producer) PublishDatasetPublished(ctx context.Context, run models.DatasetRun, correlation *float64) error {
	event := models.DatasetEvent{
		EventType:   models.EventDatasetPublished,
		RunID:       run.RunID,
		Ticker:      run.Ticker,
		Ref:         run.Ref,
		Records:     run.Records,
		Correlation: correlation,
		Timestamp:   p.now().UTC(),
	}
	return p.publish(ctx, run.Ticker, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.DatasetEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
