package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/trogers1052/stock-sentiment-service/internal/metrics"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(instrument)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Dataset routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/dataset", handler.GetDataset).Methods("GET")
	api.HandleFunc("/metrics", handler.GetMetrics).Methods("GET")
	api.HandleFunc("/correlation", handler.GetCorrelation).Methods("GET")

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument counts requests per route template and status code
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}
