package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/trogers1052/stock-sentiment-service/internal/config"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/metrics"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

const (
	endpointEverything   = "everything"
	endpointTopHeadlines = "top-headlines"

	headlinesPageSize = 10
)

// Cache stores decoded per-day responses
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// APIError is a non-ok response from NewsAPI
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("newsapi error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("newsapi error %d: %s", e.StatusCode, e.Message)
}

// Client fetches articles from NewsAPI.org
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
	pageSize   int
	country    string
	category   string
	cache      Cache
	cacheTTL   time.Duration
	now        func() time.Time
	log        *logger.Logger
}

// NewClient creates a NewsAPI client
func NewClient(cfg config.NewsAPIConfig, language string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		language:   language,
		pageSize:   cfg.PageSize,
		country:    cfg.Country,
		category:   cfg.Category,
		now:        time.Now,
		log:        log.With("component", "newsapi"),
	}
}

// WithCache enables caching of completed days
func (c *Client) WithCache(cache Cache, ttl time.Duration) *Client {
	c.cache = cache
	c.cacheTTL = ttl
	return c
}

type response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (a article) toNewsItem() models.NewsItem {
	// an unparsable timestamp stays zero and the analyzer drops the item
	published, _ := time.Parse(time.RFC3339, a.PublishedAt)
	return models.NewsItem{
		PublishedAt: published,
		Title:       a.Title,
		Description: a.Description,
		Body:        a.Content,
		URL:         a.URL,
		Source:      a.Source.Name,
	}
}

// FetchRange queries the everything endpoint once per calendar day in
// [start, end]. A failed day is logged and skipped; the collected items of
// the remaining days are returned.
func (c *Client) FetchRange(ctx context.Context, query string, start, end time.Time) ([]models.NewsItem, error) {
	var items []models.NewsItem
	failed := 0

	for day := models.CalendarDate(start); !day.After(models.CalendarDate(end)); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		dayItems, err := c.Everything(ctx, query, day)
		if err != nil {
			failed++
			c.log.Warnw("Failed to fetch news for day", "query", query, "day", day.Format(models.DateLayout), "error", err)
			continue
		}
		c.log.Debugw("Fetched news for day", "query", query, "day", day.Format(models.DateLayout), "articles", len(dayItems))
		items = append(items, dayItems...)
	}

	c.log.Infow("News fetch complete", "query", query, "articles", len(items), "failed_days", failed)
	return items, nil
}

// Everything returns the articles published on day that match query
func (c *Client) Everything(ctx context.Context, query string, day time.Time) ([]models.NewsItem, error) {
	date := models.CalendarDate(day).Format(models.DateLayout)
	key := fmt.Sprintf("newsapi:%s:%s:%s", endpointEverything, query, date)
	cacheable := c.cache != nil && date < models.CalendarDate(c.now().UTC()).Format(models.DateLayout)

	if cacheable {
		var cached []models.NewsItem
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			metrics.NewsFetched.WithLabelValues(endpointEverything, "hit").Add(float64(len(cached)))
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", date)
	params.Set("to", date)
	params.Set("language", c.language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(c.pageSize))

	items, err := c.get(ctx, endpointEverything, params)
	if err != nil {
		return nil, err
	}

	label := "off"
	if cacheable {
		label = "miss"
		if err := c.cache.Set(ctx, key, items, c.cacheTTL); err != nil {
			c.log.Warnw("Failed to cache news", "key", key, "error", err)
		}
	}
	metrics.NewsFetched.WithLabelValues(endpointEverything, label).Add(float64(len(items)))
	return items, nil
}

// TopHeadlines returns the current business headlines matching query
func (c *Client) TopHeadlines(ctx context.Context, query string) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("country", c.country)
	params.Set("category", c.category)
	params.Set("pageSize", strconv.Itoa(headlinesPageSize))

	items, err := c.get(ctx, endpointTopHeadlines, params)
	if err != nil {
		return nil, err
	}
	metrics.NewsFetched.WithLabelValues(endpointTopHeadlines, "off").Add(float64(len(items)))
	return items, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]models.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	var decoded response
	if err := json.Unmarshal(body, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		}
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK || decoded.Status != "ok" {
		msg := decoded.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Code: decoded.Code, Message: msg}
	}

	items := make([]models.NewsItem, 0, len(decoded.Articles))
	for _, a := range decoded.Articles {
		items = append(items, a.toNewsItem())
	}
	return items, nil
}
