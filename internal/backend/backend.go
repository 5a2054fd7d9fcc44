package backend

import (
	"context"
	"fmt"

	"github.com/trogers1052/stock-sentiment-service/internal/config"
	"github.com/trogers1052/stock-sentiment-service/internal/database"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
	"github.com/trogers1052/stock-sentiment-service/internal/store"
)

// Backend reads and writes raw rows and final datasets
type Backend interface {
	SavePriceBars(ctx context.Context, runID, ticker string, bars []models.PriceBar) (string, error)
	SaveNews(ctx context.Context, runID, query string, items []models.NewsItem) (string, error)
	LoadPriceBars(ctx context.Context, ticker string) ([]models.PriceBar, error)
	LoadNews(ctx context.Context, query string) ([]models.NewsItem, error)
	SaveDataset(ctx context.Context, runID, ticker string, records []models.MergedRecord) (models.DatasetRun, error)
	LoadDataset(ctx context.Context, ticker string) ([]models.MergedRecord, models.DatasetRun, error)
}

var (
	_ Backend = (*store.Store)(nil)
	_ Backend = (*database.DB)(nil)
)

// Open returns the configured backend and a function that releases it
func Open(cfg *config.Config, log *logger.Logger) (Backend, func() error, error) {
	switch cfg.Pipeline.StorageBackend {
	case config.BackendFile:
		s, err := store.New(cfg.Pipeline.DataDir, log)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("Using file storage", "dir", cfg.Pipeline.DataDir)
		return s, func() error { return nil }, nil
	case config.BackendPostgres:
		db, err := database.New(cfg.Database.ConnectionString())
		if err != nil {
			return nil, nil, err
		}
		log.Infow("Using postgres storage", "host", cfg.Database.Host, "database", cfg.Database.DBName)
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Pipeline.StorageBackend)
	}
}
