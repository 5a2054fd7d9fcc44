package prices

import (
	"sort"

	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// Rejection describes a price row dropped for data quality
type Rejection struct {
	Bar    models.PriceBar
	Reason string
}

// Rejection reasons
const (
	ReasonNonPositiveClose = "non_positive_close"
	ReasonMissingDate      = "missing_date"
	ReasonDuplicateDate    = "duplicate_date"
)

// Transform maps raw bars to a date-ordered DailyPrice series.
//
// Rows with a missing date or a non-positive close are rejected rather than
// coerced. Input order does not matter: bars are sorted by calendar date
// before changes are computed, and when a date repeats the later bar in
// input order wins. The first date has a nil change.
func Transform(bars []models.PriceBar) ([]models.DailyPrice, []Rejection) {
	var rejected []Rejection

	valid := make([]models.PriceBar, 0, len(bars))
	for _, bar := range bars {
		switch {
		case bar.Date.IsZero():
			rejected = append(rejected, Rejection{Bar: bar, Reason: ReasonMissingDate})
		case !bar.Close.IsPositive():
			rejected = append(rejected, Rejection{Bar: bar, Reason: ReasonNonPositiveClose})
		default:
			bar.Date = models.CalendarDate(bar.Date)
			valid = append(valid, bar)
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Date.Before(valid[j].Date)
	})

	out := make([]models.DailyPrice, 0, len(valid))
	for i, bar := range valid {
		if i > 0 && valid[i-1].Date.Equal(bar.Date) {
			rejected = append(rejected, Rejection{Bar: valid[i-1], Reason: ReasonDuplicateDate})
			out = out[:len(out)-1]
		}
		out = append(out, models.DailyPrice{Date: bar.Date, Close: bar.Close})
	}

	for i := 1; i < len(out); i++ {
		prev := out[i-1].Close
		change := out[i].Close.Sub(prev).Div(prev).InexactFloat64()
		out[i].Change = &change
	}

	return out, rejected
}
