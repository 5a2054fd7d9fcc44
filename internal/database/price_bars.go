package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// SavePriceBars upserts raw price bars for ticker and returns a reference
// to the stored batch
func (db *DB) SavePriceBars(ctx context.Context, runID, ticker string, bars []models.PriceBar) (string, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_bars (symbol, date, open, high, low, close, volume, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			run_id = EXCLUDED.run_id
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		_, err := stmt.ExecContext(ctx,
			ticker, models.CalendarDate(b.Date), b.Open, b.High, b.Low, b.Close, b.Volume, nullString(runID),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert price bar for %s on %s: %w", ticker, b.Date.Format(models.DateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return reference("price_bars", ticker, runID), nil
}

// LoadPriceBars retrieves all stored price bars for ticker, ordered by date
func (db *DB) LoadPriceBars(ctx context.Context, ticker string) ([]models.PriceBar, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume, created_at
		FROM price_bars
		WHERE symbol = $1
		ORDER BY date ASC
	`
	rows, err := db.conn.QueryContext(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to get price bars: %w", err)
	}
	defer rows.Close()

	var bars []models.PriceBar
	for rows.Next() {
		var b models.PriceBar
		err := rows.Scan(&b.ID, &b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price bar: %w", err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price bars: %w", err)
	}
	return bars, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func reference(table, subject, runID string) string {
	if runID == "" {
		return "postgres://" + table + "/" + subject
	}
	return "postgres://" + table + "/" + subject + "?run_id=" + runID
}
