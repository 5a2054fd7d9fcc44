package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/metrics"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// PriceFetcher retrieves daily bars from a market data provider
type PriceFetcher interface {
	DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]models.PriceBar, error)
}

// NewsFetcher retrieves articles from a news provider
type NewsFetcher interface {
	FetchRange(ctx context.Context, query string, start, end time.Time) ([]models.NewsItem, error)
	TopHeadlines(ctx context.Context, query string) ([]models.NewsItem, error)
}

// RawSink persists raw ingestion rows
type RawSink interface {
	SavePriceBars(ctx context.Context, runID, ticker string, bars []models.PriceBar) (string, error)
	SaveNews(ctx context.Context, runID, query string, items []models.NewsItem) (string, error)
}

// CollectResult summarizes one collector run
type CollectResult struct {
	RunID       string
	Start       time.Time
	End         time.Time
	PriceBars   int
	PricesRef   string
	NewsItems   int
	NewsRef     string
	Headlines   int
	HeadlineRef string
}

// Collector fetches prices and news over a lookback window and stores them
type Collector struct {
	ticker       string
	query        string
	lookbackDays int
	prices       PriceFetcher
	news         NewsFetcher
	sink         RawSink
	newRunID     func() string
	log          *logger.Logger
}

// NewCollector creates a Collector
func NewCollector(ticker, query string, lookbackDays int, priceFetcher PriceFetcher, newsFetcher NewsFetcher, sink RawSink, log *logger.Logger) *Collector {
	return &Collector{
		ticker:       ticker,
		query:        query,
		lookbackDays: lookbackDays,
		prices:       priceFetcher,
		news:         newsFetcher,
		sink:         sink,
		newRunID:     uuid.NewString,
		log:          log.With("component", "collector", "ticker", ticker),
	}
}

// HeadlinesSubject is the storage subject for current headlines of query
func HeadlinesSubject(query string) string {
	return query + "_headlines"
}

// Run collects [end-lookback, end]. Prices are stored before news is
// fetched, so a news failure leaves the price artifact in place.
func (c *Collector) Run(ctx context.Context, end time.Time) (result CollectResult, err error) {
	started := time.Now()
	defer func() { metrics.RecordRun("collector", time.Since(started), err) }()

	result.RunID = c.newRunID()
	result.End = models.CalendarDate(end)
	result.Start = result.End.AddDate(0, 0, -c.lookbackDays)
	log := c.log.With("run_id", result.RunID)
	log.Infow("Collecting",
		"query", c.query,
		"start", result.Start.Format(models.DateLayout),
		"end", result.End.Format(models.DateLayout),
	)

	bars, err := c.prices.DailyBars(ctx, c.ticker, result.Start, result.End)
	if err != nil {
		return result, fmt.Errorf("failed to fetch prices: %w", err)
	}
	if len(bars) == 0 {
		return result, apperrors.NewMissingInput("price ingestion", fmt.Sprintf("no price bars for %s", c.ticker))
	}
	result.PriceBars = len(bars)
	if result.PricesRef, err = c.sink.SavePriceBars(ctx, result.RunID, c.ticker, bars); err != nil {
		return result, fmt.Errorf("failed to save prices: %w", err)
	}

	items, err := c.news.FetchRange(ctx, c.query, result.Start, result.End)
	if err != nil {
		return result, fmt.Errorf("failed to fetch news: %w", err)
	}
	if len(items) == 0 {
		return result, apperrors.NewMissingInput("news ingestion", fmt.Sprintf("no news found for %q", c.query))
	}
	result.NewsItems = len(items)
	if result.NewsRef, err = c.sink.SaveNews(ctx, result.RunID, c.query, items); err != nil {
		return result, fmt.Errorf("failed to save news: %w", err)
	}

	headlines, err := c.news.TopHeadlines(ctx, c.query)
	if err != nil {
		log.Warnw("Failed to fetch headlines", "error", err)
	} else if len(headlines) > 0 {
		result.Headlines = len(headlines)
		if result.HeadlineRef, err = c.sink.SaveNews(ctx, result.RunID, HeadlinesSubject(c.query), headlines); err != nil {
			return result, fmt.Errorf("failed to save headlines: %w", err)
		}
	}

	log.Infow("Collector run complete",
		"price_bars", result.PriceBars,
		"news_items", result.NewsItems,
		"headlines", result.Headlines,
	)
	return result, nil
}
