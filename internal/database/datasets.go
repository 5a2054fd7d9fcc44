package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// SaveDataset stores a final dataset as a new run. Earlier runs are kept;
// readers pick the most recent one.
func (db *DB) SaveDataset(ctx context.Context, runID, ticker string, records []models.MergedRecord) (models.DatasetRun, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.DatasetRun{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	run := models.DatasetRun{
		RunID:     runID,
		Ticker:    ticker,
		Ref:       reference("dataset_runs", ticker, runID),
		Records:   len(records),
		CreatedAt: time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dataset_runs (run_id, ticker, records, created_at)
		VALUES ($1, $2, $3, $4)
	`, run.RunID, run.Ticker, run.Records, run.CreatedAt)
	if err != nil {
		return models.DatasetRun{}, fmt.Errorf("failed to create dataset run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dataset_records (run_id, date, close, price_change, sentiment_score)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return models.DatasetRun{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, r.Date, r.Close, r.Change, r.Sentiment); err != nil {
			return models.DatasetRun{}, fmt.Errorf("failed to insert dataset record for %s: %w", r.Date.Format(models.DateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.DatasetRun{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return run, nil
}

// LoadDataset retrieves the records of the most recent run for ticker
func (db *DB) LoadDataset(ctx context.Context, ticker string) ([]models.MergedRecord, models.DatasetRun, error) {
	run, err := db.LatestRun(ctx, ticker)
	if err != nil {
		return nil, models.DatasetRun{}, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT date, close, price_change, sentiment_score
		FROM dataset_records
		WHERE run_id = $1
		ORDER BY date ASC
	`, run.RunID)
	if err != nil {
		return nil, models.DatasetRun{}, fmt.Errorf("failed to get dataset records: %w", err)
	}
	defer rows.Close()

	var records []models.MergedRecord
	for rows.Next() {
		var r models.MergedRecord
		if err := rows.Scan(&r.Date, &r.Close, &r.Change, &r.Sentiment); err != nil {
			return nil, models.DatasetRun{}, fmt.Errorf("failed to scan dataset record: %w", err)
		}
		r.Date = models.CalendarDate(r.Date)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, models.DatasetRun{}, fmt.Errorf("failed to iterate dataset records: %w", err)
	}
	return records, run, nil
}

// LatestRun returns the most recent dataset run for ticker
func (db *DB) LatestRun(ctx context.Context, ticker string) (models.DatasetRun, error) {
	var run models.DatasetRun
	err := db.conn.QueryRowContext(ctx, `
		SELECT run_id, ticker, records, created_at
		FROM dataset_runs
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, ticker).Scan(&run.RunID, &run.Ticker, &run.Records, &run.CreatedAt)

	if err == sql.ErrNoRows {
		return models.DatasetRun{}, apperrors.NewMissingInput("processor", fmt.Sprintf("no dataset run stored for %s", ticker))
	}
	if err != nil {
		return models.DatasetRun{}, fmt.Errorf("failed to get latest dataset run: %w", err)
	}
	run.Ref = reference("dataset_runs", ticker, run.RunID)
	return run, nil
}
