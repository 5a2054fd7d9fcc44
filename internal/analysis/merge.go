package analysis

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// NeutralSentiment fills trading dates that had no news.
//
// This treats "no news" the same as "neutral news"; the dataset depends on it
// so that every trading date survives the join.
const NeutralSentiment = 0.0

// JoinedRecord is a left-join row before incomplete rows are dropped
type JoinedRecord struct {
	Date      time.Time
	Close     decimal.Decimal
	Change    *float64
	Sentiment float64
	HasNews   bool
}

// Join left-joins prices against sentiments on calendar date. Every price
// date appears exactly once, in price order; sentiment dates without a price
// are dropped.
func Join(prices []models.DailyPrice, sentiments []models.DailySentiment) []JoinedRecord {
	byDate := make(map[time.Time]float64, len(sentiments))
	for _, s := range sentiments {
		byDate[models.CalendarDate(s.Date)] = s.Score
	}

	out := make([]JoinedRecord, 0, len(prices))
	for _, p := range prices {
		score, ok := byDate[models.CalendarDate(p.Date)]
		if !ok {
			score = NeutralSentiment
		}
		out = append(out, JoinedRecord{
			Date:      p.Date,
			Close:     p.Close,
			Change:    p.Change,
			Sentiment: score,
			HasNews:   ok,
		})
	}
	return out
}

// Merge joins prices and sentiments and drops rows with a null field, which
// removes the first price date since its change is undefined.
func Merge(prices []models.DailyPrice, sentiments []models.DailySentiment) []models.MergedRecord {
	joined := Join(prices, sentiments)

	out := make([]models.MergedRecord, 0, len(joined))
	for _, j := range joined {
		if j.Change == nil {
			continue
		}
		out = append(out, models.MergedRecord{
			Date:      j.Date,
			Close:     j.Close,
			Change:    *j.Change,
			Sentiment: j.Sentiment,
		})
	}
	return out
}
