package pipeline

import (
	"context"
	"time"

	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// MockStore implements the source and sink interfaces for testing
type MockStore struct {
	bars      []models.PriceBar
	news      map[string][]models.NewsItem
	loadErr   error
	saved     []models.MergedRecord
	savedRuns []models.DatasetRun

	// Track method calls for verification
	SavePriceBarsCalls int
	SaveNewsCalls      int
	SaveDatasetCalls   int
}

func NewMockStore() *MockStore {
	return &MockStore{news: make(map[string][]models.NewsItem)}
}

func (m *MockStore) LoadPriceBars(ctx context.Context, ticker string) ([]models.PriceBar, error) {
	return m.bars, m.loadErr
}

func (m *MockStore) LoadNews(ctx context.Context, query string) ([]models.NewsItem, error) {
	return m.news[query], m.loadErr
}

func (m *MockStore) SavePriceBars(ctx context.Context, runID, ticker string, bars []models.PriceBar) (string, error) {
	m.SavePriceBarsCalls++
	m.bars = bars
	return "mem://prices/" + ticker, nil
}

func (m *MockStore) SaveNews(ctx context.Context, runID, query string, items []models.NewsItem) (string, error) {
	m.SaveNewsCalls++
	m.news[query] = items
	return "mem://news/" + query, nil
}

func (m *MockStore) SaveDataset(ctx context.Context, runID, ticker string, records []models.MergedRecord) (models.DatasetRun, error) {
	m.SaveDatasetCalls++
	m.saved = records
	run := models.DatasetRun{RunID: runID, Ticker: ticker, Ref: "mem://dataset/" + runID, Records: len(records)}
	m.savedRuns = append(m.savedRuns, run)
	return run, nil
}

// MockPublisher records published dataset events
type MockPublisher struct {
	Runs         []models.DatasetRun
	Correlations []*float64
	Err          error
}

func (m *MockPublisher) PublishDatasetPublished(ctx context.Context, run models.DatasetRun, correlation *float64) error {
	m.Runs = append(m.Runs, run)
	m.Correlations = append(m.Correlations, correlation)
	return m.Err
}

// MockFetcher implements PriceFetcher and NewsFetcher
type MockFetcher struct {
	bars         []models.PriceBar
	news         []models.NewsItem
	headlines    []models.NewsItem
	priceErr     error
	headlinesErr error

	gotStart time.Time
	gotEnd   time.Time
}

func (m *MockFetcher) DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]models.PriceBar, error) {
	m.gotStart, m.gotEnd = start, end
	return m.bars, m.priceErr
}

func (m *MockFetcher) FetchRange(ctx context.Context, query string, start, end time.Time) ([]models.NewsItem, error) {
	return m.news, nil
}

func (m *MockFetcher) TopHeadlines(ctx context.Context, query string) ([]models.NewsItem, error) {
	return m.headlines, m.headlinesErr
}
