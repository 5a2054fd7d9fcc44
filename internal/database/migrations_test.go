package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	testDB := newIntegrationDB(t)

	t.Run("all tables exist", func(t *testing.T) {
		expectedTables := []string{
			"price_bars",
			"news_items",
			"dataset_runs",
			"dataset_records",
		}

		for _, tableName := range expectedTables {
			var exists bool
			err := testDB.conn.QueryRow(`
				SELECT EXISTS (
					SELECT FROM information_schema.tables
					WHERE table_schema = 'public'
					AND table_name = $1
				)
			`, tableName).Scan(&exists)

			require.NoError(t, err, "failed to check table existence for %s", tableName)
			assert.True(t, exists, "table %s should exist", tableName)
		}
	})

	t.Run("dataset_records table has correct columns", func(t *testing.T) {
		expectedColumns := map[string]string{
			"run_id":          "uuid",
			"date":            "date",
			"close":           "numeric",
			"price_change":    "double precision",
			"sentiment_score": "double precision",
		}

		for colName, expectedType := range expectedColumns {
			var actualType string
			err := testDB.conn.QueryRow(`
				SELECT data_type
				FROM information_schema.columns
				WHERE table_name = 'dataset_records' AND column_name = $1
			`, colName).Scan(&actualType)

			require.NoError(t, err, "column %s should exist in dataset_records table", colName)
			assert.Equal(t, expectedType, actualType, "column %s should have type %s", colName, expectedType)
		}
	})

	t.Run("indexes exist", func(t *testing.T) {
		expectedIndexes := []struct {
			table string
			index string
		}{
			{"price_bars", "idx_price_bars_symbol_date"},
			{"news_items", "idx_news_items_query_published"},
			{"dataset_runs", "idx_dataset_runs_ticker_created"},
		}

		for _, idx := range expectedIndexes {
			var exists bool
			err := testDB.conn.QueryRow(`
				SELECT EXISTS (
					SELECT FROM pg_indexes
					WHERE tablename = $1 AND indexname = $2
				)
			`, idx.table, idx.index).Scan(&exists)

			require.NoError(t, err)
			assert.True(t, exists, "index %s should exist on table %s", idx.index, idx.table)
		}
	})

	t.Run("dataset_records references dataset_runs", func(t *testing.T) {
		var fk bool
		err := testDB.conn.QueryRow(`
			SELECT EXISTS (
				SELECT FROM pg_constraint c
				JOIN pg_class t ON c.conrelid = t.oid
				WHERE t.relname = 'dataset_records'
				AND c.contype = 'f'
			)
		`).Scan(&fk)
		require.NoError(t, err)
		assert.True(t, fk, "dataset_records should have foreign key to dataset_runs")
	})
}
