package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MergedRecord is one row of the final dataset: a trading date with its
// close, price change and the sentiment observed on that date
type MergedRecord struct {
	Date      time.Time       `json:"date"`
	Close     decimal.Decimal `json:"close"`
	Change    float64         `json:"price_change"`
	Sentiment float64         `json:"sentiment_score"`
}

// DatasetRun describes a persisted final dataset
type DatasetRun struct {
	RunID     string    `json:"run_id"`
	Ticker    string    `json:"ticker"`
	Ref       string    `json:"ref"`
	Records   int       `json:"records"`
	CreatedAt time.Time `json:"created_at"`
}
