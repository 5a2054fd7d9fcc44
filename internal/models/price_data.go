package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar represents a raw daily OHLCV row as delivered by price ingestion.
// Only Date and Close are consumed by the pipeline.
type PriceBar struct {
	ID        int             `json:"id,omitempty"`
	Symbol    string          `json:"symbol"`
	Date      time.Time       `json:"date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// DailyPrice is a trading date's close and its fractional change from the
// previous trading date. Change is nil for the first date of a series.
type DailyPrice struct {
	Date   time.Time       `json:"date"`
	Close  decimal.Decimal `json:"close"`
	Change *float64        `json:"price_change"`
}
