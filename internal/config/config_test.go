package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Load()

		assert.Equal(t, "PETR4.SA", cfg.Pipeline.Ticker)
		assert.Equal(t, "Petrobras", cfg.Pipeline.SearchTerm)
		assert.Equal(t, 30, cfg.Pipeline.LookbackDays)
		assert.Equal(t, "keyword", cfg.Pipeline.Scorer)
		assert.Equal(t, BackendFile, cfg.Pipeline.StorageBackend)
		assert.Equal(t, 5, cfg.NewsAPI.PageSize)
		assert.Equal(t, 30*time.Second, cfg.NewsAPI.Timeout)
		assert.False(t, cfg.Kafka.Enabled)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TICKER", "VALE3.SA")
		t.Setenv("LOOKBACK_DAYS", "14")
		t.Setenv("KAFKA_ENABLED", "true")
		t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
		t.Setenv("REDIS_TTL", "2h")

		cfg := Load()

		assert.Equal(t, "VALE3.SA", cfg.Pipeline.Ticker)
		assert.Equal(t, 14, cfg.Pipeline.LookbackDays)
		assert.True(t, cfg.Kafka.Enabled)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, 2*time.Hour, cfg.Redis.TTL)
	})

	t.Run("malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("LOOKBACK_DAYS", "thirty")
		cfg := Load()
		assert.Equal(t, 30, cfg.Pipeline.LookbackDays)
	})
}

func TestValidate(t *testing.T) {
	t.Run("collector requires api key", func(t *testing.T) {
		t.Setenv("NEWSAPI_KEY", "")
		cfg := Load()
		cfg.NewsAPI.APIKey = ""
		err := cfg.ValidateCollector()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NEWSAPI_KEY")
	})

	t.Run("processor rejects unknown backend", func(t *testing.T) {
		cfg := Load()
		cfg.Pipeline.StorageBackend = "s3"
		assert.Error(t, cfg.ValidateProcessor())
	})

	t.Run("processor accepts defaults", func(t *testing.T) {
		cfg := Load()
		assert.NoError(t, cfg.ValidateProcessor())
	})
}

func TestConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", d.ConnectionString())
}
