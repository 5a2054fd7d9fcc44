package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/metrics"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

const (
	rawDir   = "raw"
	finalDir = "final"

	// tokenLayout is the run-date token embedded in artifact names; it sorts
	// lexicographically in time order
	tokenLayout = "20060102T150405"
)

var (
	priceColumns   = []string{"date", "open", "high", "low", "close", "volume"}
	newsColumns    = []string{"published_at", "title", "description", "body", "url", "source"}
	datasetColumns = []string{"date", "close", "price_change", "sentiment_score"}

	priceAliases = map[string]string{"adj close": "adj_close"}
	newsAliases  = map[string]string{"publishedat": "published_at", "content": "body"}
)

// Store persists raw and final tabular artifacts as CSV files under a data
// directory. The latest artifact per kind and subject is tracked in a
// manifest; when the manifest has no entry, the lexicographically last file
// with the expected prefix is used.
type Store struct {
	dir string
	now func() time.Time
	log *logger.Logger
	mu  sync.Mutex
}

// New creates a Store rooted at dir, creating its sub-directories
func New(dir string, log *logger.Logger) (*Store, error) {
	for _, sub := range []string{rawDir, finalDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return &Store{dir: dir, now: time.Now, log: log.With("component", "store")}, nil
}

// SavePriceBars writes a raw price artifact for ticker
func (s *Store) SavePriceBars(ctx context.Context, runID, ticker string, bars []models.PriceBar) (string, error) {
	rows := make([][]string, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, []string{
			b.Date.Format(models.DateLayout),
			b.Open.String(),
			b.High.String(),
			b.Low.String(),
			b.Close.String(),
			strconv.FormatInt(b.Volume, 10),
		})
	}
	entry, err := s.save(rawDir, KindPrices, ticker, runID, priceColumns, rows)
	return entry.Path, err
}

// SaveNews writes a raw news artifact for query
func (s *Store) SaveNews(ctx context.Context, runID, query string, items []models.NewsItem) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, n := range items {
		published := ""
		if !n.PublishedAt.IsZero() {
			published = n.PublishedAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{published, n.Title, n.Description, n.Body, n.URL, n.Source})
	}
	entry, err := s.save(rawDir, KindNews, query, runID, newsColumns, rows)
	return entry.Path, err
}

// SaveDataset writes the final dataset for ticker and returns its run record
func (s *Store) SaveDataset(ctx context.Context, runID, ticker string, records []models.MergedRecord) (models.DatasetRun, error) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date.Format(models.DateLayout),
			r.Close.String(),
			strconv.FormatFloat(r.Change, 'f', -1, 64),
			strconv.FormatFloat(r.Sentiment, 'f', -1, 64),
		})
	}
	entry, err := s.save(finalDir, KindDataset, ticker, runID, datasetColumns, rows)
	if err != nil {
		return models.DatasetRun{}, err
	}
	return models.DatasetRun{
		RunID:     runID,
		Ticker:    ticker,
		Ref:       entry.Path,
		Records:   entry.Records,
		CreatedAt: entry.CreatedAt,
	}, nil
}

// LoadPriceBars reads the latest raw price artifact for ticker
func (s *Store) LoadPriceBars(ctx context.Context, ticker string) ([]models.PriceBar, error) {
	path, err := s.latest(rawDir, KindPrices, ticker)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	bars, dropped, err := ReadPriceBars(filepath.Base(path), ticker, f)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		s.log.Warnw("Dropped malformed price rows", "file", path, "dropped", dropped)
		metrics.RecordDropped("price_file", "malformed", dropped)
	}
	return bars, nil
}

// LoadNews reads the latest raw news artifact for query
func (s *Store) LoadNews(ctx context.Context, query string) ([]models.NewsItem, error) {
	path, err := s.latest(rawDir, KindNews, query)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	items, dropped, err := ReadNews(filepath.Base(path), f)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		s.log.Warnw("Dropped malformed news rows", "file", path, "dropped", dropped)
		metrics.RecordDropped("news_file", "malformed", dropped)
	}
	return items, nil
}

// LoadDataset reads the latest final dataset for ticker
func (s *Store) LoadDataset(ctx context.Context, ticker string) ([]models.MergedRecord, models.DatasetRun, error) {
	path, err := s.latest(finalDir, KindDataset, ticker)
	if err != nil {
		return nil, models.DatasetRun{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, models.DatasetRun{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadDataset(filepath.Base(path), f)
	if err != nil {
		return nil, models.DatasetRun{}, err
	}

	run := models.DatasetRun{Ticker: ticker, Ref: path, Records: len(records)}
	if entry, ok, _ := s.lookup(KindDataset, ticker); ok {
		run.RunID = entry.RunID
		run.CreatedAt = entry.CreatedAt
	}
	return records, run, nil
}

// save writes a new CSV artifact and records it in the manifest. The
// returned entry carries the full path of the file.
func (s *Store) save(sub, kind, subject, runID string, header []string, rows [][]string) (Entry, error) {
	now := s.now().UTC()
	name := fmt.Sprintf("%s%s%s.csv", prefix(kind, subject), now.Format(tokenLayout), shortRunID(runID))
	path := filepath.Join(s.dir, sub, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return Entry{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return Entry{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return Entry{}, fmt.Errorf("failed to close %s: %w", path, err)
	}

	entry := Entry{
		Kind:      kind,
		Subject:   subject,
		Path:      filepath.Join(sub, name),
		RunID:     runID,
		Records:   len(rows),
		CreatedAt: now,
	}
	if err := s.record(entry); err != nil {
		return Entry{}, err
	}

	s.log.Infow("Saved artifact", "kind", kind, "subject", subject, "path", path, "records", len(rows))
	entry.Path = path
	return entry, nil
}

// latest resolves the newest artifact for kind and subject
func (s *Store) latest(sub, kind, subject string) (string, error) {
	entry, ok, err := s.lookup(kind, subject)
	if err != nil {
		return "", err
	}
	if ok {
		return filepath.Join(s.dir, entry.Path), nil
	}

	entries, err := os.ReadDir(filepath.Join(s.dir, sub))
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", sub, err)
	}
	p := prefix(kind, subject)
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), p) && strings.HasSuffix(e.Name(), ".csv") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", apperrors.NewMissingInput(collaborator(kind), fmt.Sprintf("no %s artifact for %s in %s", kind, subject, s.dir))
	}
	sort.Strings(names)
	return filepath.Join(s.dir, sub, names[len(names)-1]), nil
}

func prefix(kind, subject string) string {
	return strings.ReplaceAll(subject, " ", "_") + "_" + kind + "_"
}

func shortRunID(runID string) string {
	if runID == "" {
		return ""
	}
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return "_" + runID
}

func collaborator(kind string) string {
	switch kind {
	case KindPrices:
		return "price ingestion"
	case KindNews:
		return "news ingestion"
	default:
		return "processor"
	}
}

// ReadPriceBars decodes a price CSV. Only date and close are required; rows
// whose date or close cannot be parsed are skipped and counted.
func ReadPriceBars(source, symbol string, r io.Reader) ([]models.PriceBar, int, error) {
	t, err := openTable(source, r, []string{"date", "close"}, priceAliases)
	if err != nil {
		return nil, 0, err
	}

	var bars []models.PriceBar
	dropped := 0
	for {
		record, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read %s: %w", source, err)
		}

		date, err := parseTimestamp(t.get(record, "date"))
		if err != nil {
			dropped++
			continue
		}
		closePrice, err := decimal.NewFromString(t.get(record, "close"))
		if err != nil {
			dropped++
			continue
		}

		bar := models.PriceBar{Symbol: symbol, Date: date, Close: closePrice}
		bar.Open, _ = decimal.NewFromString(t.get(record, "open"))
		bar.High, _ = decimal.NewFromString(t.get(record, "high"))
		bar.Low, _ = decimal.NewFromString(t.get(record, "low"))
		bar.Volume, _ = strconv.ParseInt(t.get(record, "volume"), 10, 64)
		bars = append(bars, bar)
	}
	return bars, dropped, nil
}

// ReadNews decodes a news CSV. published_at, title and body are required
// columns; rows with an unparsable timestamp are skipped and counted. Empty
// text cells are kept for the scorer's filter to judge.
func ReadNews(source string, r io.Reader) ([]models.NewsItem, int, error) {
	t, err := openTable(source, r, []string{"published_at", "title", "body"}, newsAliases)
	if err != nil {
		return nil, 0, err
	}

	var items []models.NewsItem
	dropped := 0
	for {
		record, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read %s: %w", source, err)
		}

		published, err := parseTimestamp(t.get(record, "published_at"))
		if err != nil {
			dropped++
			continue
		}
		items = append(items, models.NewsItem{
			PublishedAt: published,
			Title:       t.get(record, "title"),
			Description: t.get(record, "description"),
			Body:        t.get(record, "body"),
			URL:         t.get(record, "url"),
			Source:      t.get(record, "source"),
		})
	}
	return items, dropped, nil
}

// ReadDataset decodes a final dataset CSV. Every column is required and a
// malformed cell is an error, since the dataset has no nulls by construction.
func ReadDataset(source string, r io.Reader) ([]models.MergedRecord, error) {
	t, err := openTable(source, r, datasetColumns, nil)
	if err != nil {
		return nil, err
	}

	var records []models.MergedRecord
	line := 1
	for {
		record, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		line++

		date, err := models.ParseDate(t.get(record, "date"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid date: %w", source, line, err)
		}
		closePrice, err := decimal.NewFromString(t.get(record, "close"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid close: %w", source, line, err)
		}
		change, err := strconv.ParseFloat(t.get(record, "price_change"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid price_change: %w", source, line, err)
		}
		score, err := strconv.ParseFloat(t.get(record, "sentiment_score"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid sentiment_score: %w", source, line, err)
		}

		records = append(records, models.MergedRecord{
			Date:      date,
			Close:     closePrice,
			Change:    change,
			Sentiment: score,
		})
	}
	return records, nil
}
