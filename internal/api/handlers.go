package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/trogers1052/stock-sentiment-service/internal/analysis"
	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// Correlation response statuses
const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient_data"
	StatusUndefined        = "undefined"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	cache  *datasetCache
	ticker string
	log    *logger.Logger
}

// NewHandler creates a new Handler. When live is true the dataset is read
// from source on every request; otherwise it is cached until the next
// dataset event.
func NewHandler(source DatasetSource, ticker string, live bool, log *logger.Logger) *Handler {
	return &Handler{
		cache:  &datasetCache{source: source, ticker: ticker, live: live},
		ticker: ticker,
		log:    log.With("component", "api"),
	}
}

// OnDatasetPublished reloads the cached dataset
func (h *Handler) OnDatasetPublished(ctx context.Context, event models.DatasetEvent) error {
	records, run, err := h.cache.reload(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload dataset: %w", err)
	}
	h.log.Infow("Reloaded dataset", "run_id", run.RunID, "event_run_id", event.RunID, "records", len(records))
	return nil
}

type recordView struct {
	Date           string  `json:"date"`
	Close          float64 `json:"close"`
	PriceChange    float64 `json:"price_change"`
	SentimentScore float64 `json:"sentiment_score"`
	Display        struct {
		Close          string `json:"close"`
		PriceChange    string `json:"price_change"`
		SentimentScore string `json:"sentiment_score"`
	} `json:"display"`
}

func newRecordView(r models.MergedRecord) recordView {
	v := recordView{
		Date:           r.Date.Format(models.DateLayout),
		Close:          r.Close.InexactFloat64(),
		PriceChange:    r.Change,
		SentimentScore: r.Sentiment,
	}
	v.Display.Close = r.Close.StringFixed(2)
	v.Display.PriceChange = strconv.FormatFloat(r.Change, 'f', 4, 64)
	v.Display.SentimentScore = strconv.FormatFloat(r.Sentiment, 'f', 4, 64)
	return v
}

// GetDataset handles GET /api/v1/dataset
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	records, run, ok := h.window(w, r)
	if !ok {
		return
	}

	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		views = append(views, newRecordView(rec))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  h.ticker,
		"run":     run,
		"count":   len(views),
		"records": views,
	})
}

// GetMetrics handles GET /api/v1/metrics
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	records, _, ok := h.window(w, r)
	if !ok {
		return
	}

	summary, ok := analysis.Summarize(records)
	if !ok {
		respondJSON(w, http.StatusOK, map[string]interface{}{"ticker": h.ticker, "status": "no_data", "records": 0})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  h.ticker,
		"status":  StatusOK,
		"summary": summary,
		"display": map[string]string{
			"latest_close":          summary.LatestClose.StringFixed(2),
			"average_sentiment":     strconv.FormatFloat(summary.AverageSentiment, 'f', 3, 64),
			"cumulative_change_pct": strconv.FormatFloat(summary.CumulativeChangePct, 'f', 2, 64) + "%",
		},
	})
}

// GetCorrelation handles GET /api/v1/correlation
func (h *Handler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	records, _, ok := h.window(w, r)
	if !ok {
		return
	}

	pairs := analysis.LagPairs(records)
	body := map[string]interface{}{
		"ticker":  h.ticker,
		"lag":     1,
		"pairs":   len(pairs),
		"scatter": pairs,
	}

	coefficient, err := analysis.Pearson(pairs)
	switch {
	case err == nil:
		body["status"] = StatusOK
		body["coefficient"] = coefficient
		body["interpretation"] = analysis.Interpret(coefficient)
	case apperrors.Is(err, apperrors.ErrInsufficientData):
		body["status"] = StatusInsufficientData
	case apperrors.Is(err, apperrors.ErrUndefinedCorrelation):
		body["status"] = StatusUndefined
	default:
		h.log.Errorw("Failed to compute correlation", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to compute correlation")
		return
	}

	if len(pairs) > 0 {
		line, err := analysis.FitTrendline(pairs)
		if err != nil {
			body["trendline_error"] = err.Error()
		} else {
			body["trendline"] = line
		}
	}

	respondJSON(w, http.StatusOK, body)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// window loads the dataset and applies the start/end query filter. It
// writes the error response itself and reports false on failure.
func (h *Handler) window(w http.ResponseWriter, r *http.Request) ([]models.MergedRecord, models.DatasetRun, bool) {
	start, err := parseDateParam(r, "start")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, models.DatasetRun{}, false
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, models.DatasetRun{}, false
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		respondError(w, http.StatusBadRequest, "end must not be before start")
		return nil, models.DatasetRun{}, false
	}

	records, run, err := h.cache.get(r.Context())
	if err != nil {
		if apperrors.Is(err, apperrors.ErrMissingInput) {
			respondError(w, http.StatusNotFound, "dataset not found: run the collector and processor first")
			return nil, models.DatasetRun{}, false
		}
		h.log.Errorw("Failed to load dataset", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load dataset")
		return nil, models.DatasetRun{}, false
	}

	return analysis.FilterRange(records, start, end), run, true
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", name, value)
	}
	return d, nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
