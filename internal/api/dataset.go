package api

import (
	"context"
	"sync"

	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// DatasetSource loads the latest final dataset for a ticker
type DatasetSource interface {
	LoadDataset(ctx context.Context, ticker string) ([]models.MergedRecord, models.DatasetRun, error)
}

// datasetCache holds the last loaded dataset. With live set every read goes
// to the source; otherwise the dataset is loaded once and replaced on reload.
type datasetCache struct {
	source DatasetSource
	ticker string
	live   bool

	mu      sync.RWMutex
	loaded  bool
	records []models.MergedRecord
	run     models.DatasetRun
}

func (c *datasetCache) get(ctx context.Context) ([]models.MergedRecord, models.DatasetRun, error) {
	if c.live {
		return c.source.LoadDataset(ctx, c.ticker)
	}

	c.mu.RLock()
	if c.loaded {
		records, run := c.records, c.run
		c.mu.RUnlock()
		return records, run, nil
	}
	c.mu.RUnlock()

	return c.reload(ctx)
}

func (c *datasetCache) reload(ctx context.Context) ([]models.MergedRecord, models.DatasetRun, error) {
	records, run, err := c.source.LoadDataset(ctx, c.ticker)
	if err != nil {
		return nil, models.DatasetRun{}, err
	}

	c.mu.Lock()
	c.records, c.run, c.loaded = records, run, true
	c.mu.Unlock()
	return records, run, nil
}
