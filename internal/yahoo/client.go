package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/stock-sentiment-service/internal/config"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

const userAgent = "Mozilla/5.0 (compatible; stock-sentiment-service/1.0)"

// Client fetches daily bars from the Yahoo Finance chart API
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// NewClient creates a Yahoo Finance client
func NewClient(cfg config.YahooConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		log:        log.With("component", "yahoo"),
	}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol       string `json:"symbol"`
		Currency     string `json:"currency"`
		GMTOffset    int    `json:"gmtoffset"`
		ExchangeZone string `json:"exchangeTimezoneName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// DailyBars returns the daily bars of ticker between start and end
// inclusive. Bars without a close are skipped.
func (c *Client) DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(models.CalendarDate(start).Unix(), 10))
	params.Set("period2", strconv.FormatInt(models.CalendarDate(end).AddDate(0, 0, 1).Unix(), 10))
	params.Set("interval", "1d")
	params.Set("events", "history")

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(ticker), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	var decoded chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode chart for %s (status %d): %w", ticker, resp.StatusCode, err)
	}
	if decoded.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s: %s", ticker, decoded.Chart.Error.Code, decoded.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart returned status %d for %s", resp.StatusCode, ticker)
	}
	if len(decoded.Chart.Result) == 0 {
		return nil, nil
	}

	bars, skipped := decoded.Chart.Result[0].bars(ticker)
	if skipped > 0 {
		c.log.Warnw("Skipped bars without close", "ticker", ticker, "skipped", skipped)
	}
	c.log.Infow("Fetched price bars", "ticker", ticker, "bars", len(bars))
	return bars, nil
}

func (r chartResult) bars(ticker string) ([]models.PriceBar, int) {
	if len(r.Indicators.Quote) == 0 {
		return nil, len(r.Timestamp)
	}
	q := r.Indicators.Quote[0]
	zone := time.FixedZone(r.Meta.ExchangeZone, r.Meta.GMTOffset)

	var bars []models.PriceBar
	skipped := 0
	for i, ts := range r.Timestamp {
		closePrice := at(q.Close, i)
		if closePrice == nil {
			skipped++
			continue
		}
		bar := models.PriceBar{
			Symbol: ticker,
			Date:   models.CalendarDate(time.Unix(ts, 0).In(zone)),
			Close:  decimal.NewFromFloat(*closePrice),
		}
		if v := at(q.Open, i); v != nil {
			bar.Open = decimal.NewFromFloat(*v)
		}
		if v := at(q.High, i); v != nil {
			bar.High = decimal.NewFromFloat(*v)
		}
		if v := at(q.Low, i); v != nil {
			bar.Low = decimal.NewFromFloat(*v)
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			bar.Volume = *q.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, skipped
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
