package database

import (
	"context"
	"fmt"

	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// SaveNews upserts raw news items collected for query
func (db *DB) SaveNews(ctx context.Context, runID, query string, items []models.NewsItem) (string, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO news_items (query, published_at, title, description, body, url, source, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (query, published_at, title) DO UPDATE SET
			description = EXCLUDED.description,
			body = EXCLUDED.body,
			url = EXCLUDED.url,
			source = EXCLUDED.source,
			run_id = EXCLUDED.run_id
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, n := range items {
		// rows without a timestamp cannot be keyed; the analyzer would drop them anyway
		if n.PublishedAt.IsZero() {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			query, n.PublishedAt, n.Title, n.Description, n.Body, n.URL, n.Source, nullString(runID),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert news item %q: %w", n.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return reference("news_items", query, runID), nil
}

// LoadNews retrieves all stored news items for query, oldest first
func (db *DB) LoadNews(ctx context.Context, query string) ([]models.NewsItem, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, published_at, title, description, body, url, source
		FROM news_items
		WHERE query = $1
		ORDER BY published_at ASC
	`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get news items: %w", err)
	}
	defer rows.Close()

	var items []models.NewsItem
	for rows.Next() {
		var n models.NewsItem
		if err := rows.Scan(&n.ID, &n.PublishedAt, &n.Title, &n.Description, &n.Body, &n.URL, &n.Source); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news items: %w", err)
	}
	return items, nil
}
