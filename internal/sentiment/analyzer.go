package sentiment

import (
	"sort"
	"time"

	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// ScoredItem is a news item with its per-item score
type ScoredItem struct {
	Date  time.Time
	Score float64
}

// Analyzer filters, scores and aggregates news items with one strategy
type Analyzer struct {
	strategy Strategy
}

// NewAnalyzer creates an Analyzer for strategy
func NewAnalyzer(strategy Strategy) *Analyzer {
	return &Analyzer{strategy: strategy}
}

// Strategy returns the name of the scoring strategy in use
func (a *Analyzer) Strategy() string {
	return a.strategy.Name
}

// Filter drops items without a title, body or publication timestamp.
// Dropped items are excluded from scoring entirely, not scored as zero.
func (a *Analyzer) Filter(items []models.NewsItem) (kept []models.NewsItem, dropped int) {
	kept = make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		if !item.Complete() {
			dropped++
			continue
		}
		kept = append(kept, item)
	}
	return kept, dropped
}

// ScoreItems scores each item and stamps it with its publication date
func (a *Analyzer) ScoreItems(items []models.NewsItem) []ScoredItem {
	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, ScoredItem{
			Date:  models.CalendarDate(item.PublishedAt),
			Score: a.strategy.Scorer.Score(a.strategy.Text(item)),
		})
	}
	return scored
}

// Daily filters, scores and averages items per calendar date
func (a *Analyzer) Daily(items []models.NewsItem) ([]models.DailySentiment, int) {
	kept, dropped := a.Filter(items)
	return Aggregate(a.ScoreItems(kept)), dropped
}

// Aggregate averages scores per date. The result holds one record per date,
// ascending by date.
func Aggregate(scored []ScoredItem) []models.DailySentiment {
	type acc struct {
		sum   float64
		count int
	}
	byDate := make(map[time.Time]*acc)
	for _, s := range scored {
		d := models.CalendarDate(s.Date)
		a, ok := byDate[d]
		if !ok {
			a = &acc{}
			byDate[d] = a
		}
		a.sum += s.Score
		a.count++
	}

	out := make([]models.DailySentiment, 0, len(byDate))
	for d, a := range byDate {
		out = append(out, models.DailySentiment{
			Date:         d,
			Score:        a.sum / float64(a.count),
			ArticleCount: a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
