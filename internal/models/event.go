package models

import "time"

// Event type constants
const (
	EventDatasetPublished = "DATASET_PUBLISHED"
)

// DatasetEvent represents a Kafka event emitted after a processor run
type DatasetEvent struct {
	EventType   string    `json:"event_type"`
	RunID       string    `json:"run_id"`
	Ticker      string    `json:"ticker"`
	Ref         string    `json:"ref"`
	Records     int       `json:"records"`
	Correlation *float64  `json:"correlation,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
