package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

func TestPriceBarsRepository(t *testing.T) {
	testDB := newIntegrationDB(t)
	ctx := context.Background()

	t.Run("SavePriceBars upserts on symbol and date", func(t *testing.T) {
		testDB.reset(t)

		day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		_, err := testDB.SavePriceBars(ctx, uuid.New().String(), "PETR4.SA", []models.PriceBar{
			{Date: day, Close: decimal.NewFromFloat(37.5), Volume: 100},
		})
		require.NoError(t, err)

		_, err = testDB.SavePriceBars(ctx, uuid.New().String(), "PETR4.SA", []models.PriceBar{
			{Date: day, Close: decimal.NewFromFloat(38.25), Volume: 200},
			{Date: day.AddDate(0, 0, 1), Close: decimal.NewFromFloat(38.5), Volume: 300},
		})
		require.NoError(t, err)

		bars, err := testDB.LoadPriceBars(ctx, "PETR4.SA")
		require.NoError(t, err)
		require.Len(t, bars, 2)
		assert.True(t, decimal.NewFromFloat(38.25).Equal(bars[0].Close))
		assert.Equal(t, int64(200), bars[0].Volume)
		assert.Equal(t, "PETR4.SA", bars[1].Symbol)
	})

	t.Run("LoadPriceBars returns nothing for unknown ticker", func(t *testing.T) {
		testDB.reset(t)

		bars, err := testDB.LoadPriceBars(ctx, "VALE3.SA")
		require.NoError(t, err)
		assert.Empty(t, bars)
	})
}

func TestNewsItemsRepository(t *testing.T) {
	testDB := newIntegrationDB(t)
	ctx := context.Background()

	t.Run("SaveNews stores and deduplicates items", func(t *testing.T) {
		testDB.reset(t)

		published := time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC)
		items := []models.NewsItem{
			{PublishedAt: published, Title: "Petrobras sobe", Body: "alta forte", Source: "Valor"},
			{PublishedAt: published.Add(time.Hour), Title: "Petrobras cai", Body: "queda"},
			{Title: "sem data", Body: "ignorado"},
		}
		_, err := testDB.SaveNews(ctx, "", "Petrobras", items)
		require.NoError(t, err)
		_, err = testDB.SaveNews(ctx, "", "Petrobras", items[:1])
		require.NoError(t, err)

		loaded, err := testDB.LoadNews(ctx, "Petrobras")
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, "Petrobras sobe", loaded[0].Title)
		assert.Equal(t, 2, testDB.rowCount(t, "news_items", "query = $1", "Petrobras"))
		assert.True(t, published.Equal(loaded[0].PublishedAt))
	})
}

func TestDatasetRepository(t *testing.T) {
	testDB := newIntegrationDB(t)
	ctx := context.Background()

	records := []models.MergedRecord{
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: decimal.NewFromFloat(11), Change: 0.1, Sentiment: 0.4},
		{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Close: decimal.NewFromFloat(9), Change: -0.18181818181818182, Sentiment: 0},
	}

	t.Run("LoadDataset returns the most recent run", func(t *testing.T) {
		testDB.reset(t)

		_, err := testDB.SaveDataset(ctx, uuid.New().String(), "PETR4.SA", records[:1])
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
		latest, err := testDB.SaveDataset(ctx, uuid.New().String(), "PETR4.SA", records)
		require.NoError(t, err)

		loaded, run, err := testDB.LoadDataset(ctx, "PETR4.SA")
		require.NoError(t, err)
		assert.Equal(t, latest.RunID, run.RunID)
		assert.Equal(t, 2, testDB.rowCount(t, "dataset_runs", ""))
		assert.Equal(t, 2, testDB.rowCount(t, "dataset_records", "run_id = $1", latest.RunID))
		require.Len(t, loaded, 2)
		assert.Equal(t, -0.18181818181818182, loaded[1].Change)
		assert.Equal(t, records[0].Date, loaded[0].Date)
	})

	t.Run("LoadDataset without runs is a missing input", func(t *testing.T) {
		testDB.reset(t)

		_, _, err := testDB.LoadDataset(ctx, "PETR4.SA")
		assert.True(t, apperrors.Is(err, apperrors.ErrMissingInput))
	})
}
