package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pipeline metrics
	PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocksentiment_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"stage", "status"}, // stage: collector|processor, status: success|error
	)

	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stocksentiment_pipeline_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
		},
		[]string{"stage"},
	)

	RowsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocksentiment_rows_dropped_total",
			Help: "Rows dropped for data quality",
		},
		[]string{"source", "reason"},
	)

	NewsFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocksentiment_news_fetched_total",
			Help: "News items fetched from the news API",
		},
		[]string{"endpoint", "cache"}, // cache: hit|miss|off
	)

	LagCorrelation = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stocksentiment_lag_correlation",
			Help: "Latest lag-1 sentiment/price-change correlation",
		},
		[]string{"ticker"},
	)

	// API metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocksentiment_http_requests_total",
			Help: "Dashboard API requests",
		},
		[]string{"route", "code"},
	)
)

func init() {
	prometheus.MustRegister(PipelineRuns)
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(RowsDropped)
	prometheus.MustRegister(NewsFetched)
	prometheus.MustRegister(LagCorrelation)
	prometheus.MustRegister(HTTPRequests)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRun records a pipeline stage execution
func RecordRun(stage string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	PipelineRuns.WithLabelValues(stage, status).Inc()
	PipelineDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordDropped adds n dropped rows for source and reason
func RecordDropped(source, reason string, n int) {
	if n > 0 {
		RowsDropped.WithLabelValues(source, reason).Add(float64(n))
	}
}
