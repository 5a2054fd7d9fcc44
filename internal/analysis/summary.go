package analysis

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// Summary holds the headline metrics for a window of the dataset
type Summary struct {
	Records             int             `json:"records"`
	Start               time.Time       `json:"start"`
	End                 time.Time       `json:"end"`
	LatestClose         decimal.Decimal `json:"latest_close"`
	AverageSentiment    float64         `json:"average_sentiment"`
	CumulativeChangePct float64         `json:"cumulative_change_pct"`
	NonNeutralDays      int             `json:"non_neutral_days"`
}

// Summarize computes the metrics over records, which must be date ordered.
// CumulativeChangePct is the plain sum of daily changes in percent.
func Summarize(records []models.MergedRecord) (Summary, bool) {
	if len(records) == 0 {
		return Summary{}, false
	}

	var sentimentSum, changeSum float64
	nonNeutral := 0
	for _, r := range records {
		sentimentSum += r.Sentiment
		changeSum += r.Change
		if r.Sentiment != NeutralSentiment {
			nonNeutral++
		}
	}

	last := records[len(records)-1]
	return Summary{
		Records:             len(records),
		Start:               records[0].Date,
		End:                 last.Date,
		LatestClose:         last.Close,
		AverageSentiment:    sentimentSum / float64(len(records)),
		CumulativeChangePct: changeSum * 100,
		NonNeutralDays:      nonNeutral,
	}, true
}

// FilterRange keeps records dated within [start, end]. A zero bound is open.
func FilterRange(records []models.MergedRecord, start, end time.Time) []models.MergedRecord {
	out := make([]models.MergedRecord, 0, len(records))
	for _, r := range records {
		if !start.IsZero() && r.Date.Before(start) {
			continue
		}
		if !end.IsZero() && r.Date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}
