package models

import (
	"strings"
	"time"
)

// NewsItem represents a single article returned by news ingestion
type NewsItem struct {
	ID          int       `json:"id,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"`
}

// FullText joins title, description and body for whole-article scoring
func (n NewsItem) FullText() string {
	return n.Title + " " + n.Description + " " + n.Body
}

// Complete reports whether the item carries enough text to be scored
func (n NewsItem) Complete() bool {
	return strings.TrimSpace(n.Title) != "" &&
		strings.TrimSpace(n.Body) != "" &&
		!n.PublishedAt.IsZero()
}

// DailySentiment is the mean sentiment score of all news published on Date
type DailySentiment struct {
	Date         time.Time `json:"date"`
	Score        float64   `json:"sentiment_score"`
	ArticleCount int       `json:"article_count"`
}
