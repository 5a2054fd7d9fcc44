package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/stock-sentiment-service/internal/config"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/store"
)

func TestOpen(t *testing.T) {
	t.Run("file backend", func(t *testing.T) {
		cfg := &config.Config{Pipeline: config.PipelineConfig{StorageBackend: config.BackendFile, DataDir: t.TempDir()}}
		b, closeFn, err := Open(cfg, logger.Nop())
		require.NoError(t, err)
		assert.IsType(t, &store.Store{}, b)
		assert.NoError(t, closeFn())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := &config.Config{Pipeline: config.PipelineConfig{StorageBackend: "s3"}}
		_, _, err := Open(cfg, logger.Nop())
		assert.ErrorContains(t, err, "s3")
	})
}
