package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), logger.Nop())
	require.NoError(t, err)

	clock := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func date(s string) time.Time {
	d, _ := models.ParseDate(s)
	return d
}

func TestStore_PriceBars(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		s := newTestStore(t)
		bars := []models.PriceBar{
			{Date: date("2024-01-02"), Open: decimal.NewFromFloat(10.1), High: decimal.NewFromFloat(10.5), Low: decimal.NewFromFloat(9.9), Close: decimal.NewFromFloat(10.2), Volume: 1000},
			{Date: date("2024-01-03"), Close: decimal.NewFromFloat(10.8), Volume: 1200},
		}

		path, err := s.SavePriceBars(ctx, "run-1", "PETR4.SA", bars)
		require.NoError(t, err)
		assert.FileExists(t, path)

		loaded, err := s.LoadPriceBars(ctx, "PETR4.SA")
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.True(t, loaded[0].Close.Equal(decimal.NewFromFloat(10.2)))
		assert.Equal(t, int64(1000), loaded[0].Volume)
		assert.Equal(t, "PETR4.SA", loaded[1].Symbol)
		assert.Equal(t, date("2024-01-03"), loaded[1].Date)
	})

	t.Run("missing artifact is a missing input", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.LoadPriceBars(ctx, "PETR4.SA")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrMissingInput))
		assert.Contains(t, err.Error(), "price ingestion")
	})
}

func TestStore_News(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	published := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	items := []models.NewsItem{
		{PublishedAt: published, Title: "Petrobras anuncia lucro", Description: "resultado, forte", Body: "texto\ncom quebra", URL: "https://x", Source: "Valor"},
	}

	_, err := s.SaveNews(ctx, "run-1", "Petrobras", items)
	require.NoError(t, err)

	loaded, err := s.LoadNews(ctx, "Petrobras")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, published.Equal(loaded[0].PublishedAt))
	assert.Equal(t, "resultado, forte", loaded[0].Description)
	assert.Equal(t, "texto\ncom quebra", loaded[0].Body)
}

func TestStore_Dataset(t *testing.T) {
	ctx := context.Background()
	records := []models.MergedRecord{
		{Date: date("2024-01-03"), Close: decimal.NewFromFloat(11), Change: 0.1, Sentiment: 0.5},
		{Date: date("2024-01-04"), Close: decimal.NewFromFloat(9), Change: -0.18181818181818182, Sentiment: 0},
	}

	t.Run("round trip keeps float precision", func(t *testing.T) {
		s := newTestStore(t)
		run, err := s.SaveDataset(ctx, "0f8fad5b-d9cb-469f-a165-70867728950e", "PETR4.SA", records)
		require.NoError(t, err)
		assert.Equal(t, 2, run.Records)
		assert.Contains(t, filepath.Base(run.Ref), "PETR4.SA_final_dataset_")
		assert.True(t, strings.HasSuffix(run.Ref, "_0f8fad5b.csv"))

		loaded, loadedRun, err := s.LoadDataset(ctx, "PETR4.SA")
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, -0.18181818181818182, loaded[1].Change)
		assert.Equal(t, 0.5, loaded[0].Sentiment)
		assert.Equal(t, run.RunID, loadedRun.RunID)
	})

	t.Run("manifest wins over file name order", func(t *testing.T) {
		s := newTestStore(t)
		first, err := s.SaveDataset(ctx, "bbbbbbbb", "PETR4.SA", records[:1])
		require.NoError(t, err)

		// a later-sorting file written outside the store is ignored
		stray := filepath.Join(s.dir, finalDir, "PETR4.SA_final_dataset_99999999T000000.csv")
		require.NoError(t, os.WriteFile(stray, []byte("date,close,price_change,sentiment_score\n"), 0o644))

		loaded, run, err := s.LoadDataset(ctx, "PETR4.SA")
		require.NoError(t, err)
		assert.Len(t, loaded, 1)
		assert.Equal(t, first.Ref, run.Ref)
	})

	t.Run("falls back to latest file name without manifest", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.SaveDataset(ctx, "aaaaaaaa", "PETR4.SA", records[:1])
		require.NoError(t, err)
		_, err = s.SaveDataset(ctx, "bbbbbbbb", "PETR4.SA", records)
		require.NoError(t, err)
		require.NoError(t, os.Remove(filepath.Join(s.dir, manifestFile)))

		loaded, _, err := s.LoadDataset(ctx, "PETR4.SA")
		require.NoError(t, err)
		assert.Len(t, loaded, 2)
	})

	t.Run("runs never overwrite each other", func(t *testing.T) {
		s := newTestStore(t)
		a, err := s.SaveDataset(ctx, "aaaaaaaa", "PETR4.SA", records)
		require.NoError(t, err)
		b, err := s.SaveDataset(ctx, "bbbbbbbb", "PETR4.SA", records)
		require.NoError(t, err)
		assert.NotEqual(t, a.Ref, b.Ref)
		assert.FileExists(t, a.Ref)
		assert.FileExists(t, b.Ref)
	})
}

func TestReaders(t *testing.T) {
	t.Run("price schema mismatch lists missing columns", func(t *testing.T) {
		_, _, err := ReadPriceBars("prices.csv", "X", strings.NewReader("day,open\n2024-01-02,1\n"))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrSchemaMismatch))
		assert.Contains(t, err.Error(), "date, close")
	})

	t.Run("empty file is a schema mismatch", func(t *testing.T) {
		_, err := ReadDataset("final.csv", strings.NewReader(""))
		assert.True(t, apperrors.Is(err, apperrors.ErrSchemaMismatch))
	})

	t.Run("price headers are case insensitive and bad rows are counted", func(t *testing.T) {
		csv := "\ufeffDate,Open,High,Low,Close,Volume\n" +
			"2024-01-02,1,1,1,10,5\n" +
			"not-a-date,1,1,1,11,5\n" +
			"2024-01-04,1,1,1,,5\n" +
			"2024-01-05 00:00:00-03:00,1,1,1,12,5\n"
		bars, dropped, err := ReadPriceBars("prices.csv", "X", strings.NewReader(csv))
		require.NoError(t, err)
		assert.Len(t, bars, 2)
		assert.Equal(t, 2, dropped)
	})

	t.Run("news accepts api field names", func(t *testing.T) {
		csv := "publishedAt,title,description,content,url\n" +
			"2024-01-02T10:00:00Z,Alta,desc,corpo,https://x\n"
		items, dropped, err := ReadNews("news.csv", strings.NewReader(csv))
		require.NoError(t, err)
		assert.Zero(t, dropped)
		require.Len(t, items, 1)
		assert.Equal(t, "corpo", items[0].Body)
		assert.Empty(t, items[0].Source)
	})

	t.Run("dataset rejects malformed cells", func(t *testing.T) {
		csv := "date,close,price_change,sentiment_score\n2024-01-02,10,abc,0\n"
		_, err := ReadDataset("final.csv", strings.NewReader(csv))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price_change")
	})
}
