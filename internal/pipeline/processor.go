package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trogers1052/stock-sentiment-service/internal/analysis"
	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/metrics"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
	"github.com/trogers1052/stock-sentiment-service/internal/prices"
	"github.com/trogers1052/stock-sentiment-service/internal/sentiment"
)

// Correlation outcomes reported by a run
const (
	CorrelationOK               = "ok"
	CorrelationInsufficientData = "insufficient_data"
	CorrelationUndefined        = "undefined"
)

// PriceSource provides raw price bars for a ticker
type PriceSource interface {
	LoadPriceBars(ctx context.Context, ticker string) ([]models.PriceBar, error)
}

// NewsSource provides raw news items for a search query
type NewsSource interface {
	LoadNews(ctx context.Context, query string) ([]models.NewsItem, error)
}

// DatasetSink persists a final dataset
type DatasetSink interface {
	SaveDataset(ctx context.Context, runID, ticker string, records []models.MergedRecord) (models.DatasetRun, error)
}

// EventPublisher announces a persisted dataset
type EventPublisher interface {
	PublishDatasetPublished(ctx context.Context, run models.DatasetRun, correlation *float64) error
}

// RunResult summarizes one processor run
type RunResult struct {
	RunID             string
	Ref               string
	NewsItems         int
	NewsDropped       int
	SentimentDays     int
	PriceBars         int
	PricesRejected    int
	Records           int
	Correlation       *float64
	CorrelationStatus string
}

// Processor turns raw prices and news into the final dataset
type Processor struct {
	ticker    string
	query     string
	prices    PriceSource
	news      NewsSource
	sink      DatasetSink
	publisher EventPublisher
	analyzer  *sentiment.Analyzer
	newRunID  func() string
	log       *logger.Logger
}

// NewProcessor creates a Processor for ticker and the news search query
func NewProcessor(ticker, query string, priceSource PriceSource, newsSource NewsSource, sink DatasetSink, analyzer *sentiment.Analyzer, log *logger.Logger) *Processor {
	return &Processor{
		ticker:   ticker,
		query:    query,
		prices:   priceSource,
		news:     newsSource,
		sink:     sink,
		analyzer: analyzer,
		newRunID: uuid.NewString,
		log:      log.With("component", "processor", "ticker", ticker),
	}
}

// WithPublisher enables dataset events
func (p *Processor) WithPublisher(publisher EventPublisher) *Processor {
	p.publisher = publisher
	return p
}

// Run executes load, score, transform, merge and persist, then reports the
// lag correlation of the new dataset
func (p *Processor) Run(ctx context.Context) (result RunResult, err error) {
	started := time.Now()
	defer func() { metrics.RecordRun("processor", time.Since(started), err) }()

	result.RunID = p.newRunID()
	log := p.log.With("run_id", result.RunID)

	items, err := p.news.LoadNews(ctx, p.query)
	if err != nil {
		return result, fmt.Errorf("failed to load news: %w", err)
	}
	if len(items) == 0 {
		return result, apperrors.NewMissingInput("news ingestion", fmt.Sprintf("no news items for %q", p.query))
	}

	bars, err := p.prices.LoadPriceBars(ctx, p.ticker)
	if err != nil {
		return result, fmt.Errorf("failed to load prices: %w", err)
	}
	if len(bars) == 0 {
		return result, apperrors.NewMissingInput("price ingestion", fmt.Sprintf("no price bars for %s", p.ticker))
	}
	result.NewsItems = len(items)
	result.PriceBars = len(bars)

	daily, dropped := p.analyzer.Daily(items)
	result.NewsDropped = dropped
	result.SentimentDays = len(daily)
	if dropped > 0 {
		log.Warnw("Dropped incomplete news items", "dropped", dropped, "total", len(items))
		metrics.RecordDropped("news", "incomplete", dropped)
	}

	series, rejected := prices.Transform(bars)
	result.PricesRejected = len(rejected)
	if len(rejected) > 0 {
		byReason := make(map[string]int)
		for _, r := range rejected {
			byReason[r.Reason]++
		}
		for reason, n := range byReason {
			log.Warnw("Rejected price rows", "reason", reason, "count", n)
			metrics.RecordDropped("prices", reason, n)
		}
	}

	if len(series) == 0 {
		return result, apperrors.NewMissingInput("price ingestion", fmt.Sprintf("all %d price bars for %s were rejected", len(bars), p.ticker))
	}

	records := analysis.Merge(series, daily)
	result.Records = len(records)
	if len(records) == 0 {
		return result, apperrors.NewMissingInput("price ingestion", fmt.Sprintf("fewer than two usable price dates for %s", p.ticker))
	}

	run, err := p.sink.SaveDataset(ctx, result.RunID, p.ticker, records)
	if err != nil {
		return result, fmt.Errorf("failed to save dataset: %w", err)
	}
	result.Ref = run.Ref

	r, corrErr := analysis.LagCorrelate(records)
	switch {
	case corrErr == nil:
		result.Correlation = &r
		result.CorrelationStatus = CorrelationOK
		metrics.LagCorrelation.WithLabelValues(p.ticker).Set(r)
	case apperrors.Is(corrErr, apperrors.ErrInsufficientData):
		result.CorrelationStatus = CorrelationInsufficientData
	case apperrors.Is(corrErr, apperrors.ErrUndefinedCorrelation):
		result.CorrelationStatus = CorrelationUndefined
	default:
		return result, fmt.Errorf("failed to correlate: %w", corrErr)
	}

	if p.publisher != nil {
		if err := p.publisher.PublishDatasetPublished(ctx, run, result.Correlation); err != nil {
			log.Errorw("Failed to publish dataset event", "error", err)
		}
	}

	log.Infow("Processor run complete",
		"ref", result.Ref,
		"strategy", p.analyzer.Strategy(),
		"news_items", result.NewsItems,
		"sentiment_days", result.SentimentDays,
		"price_bars", result.PriceBars,
		"records", result.Records,
		"correlation_status", result.CorrelationStatus,
	)
	if result.Correlation != nil {
		log.Infow("Lag-1 correlation", "r", *result.Correlation, "strength", analysis.Interpret(*result.Correlation))
	}
	return result, nil
}
