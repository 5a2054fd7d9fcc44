package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trogers1052/stock-sentiment-service/internal/api"
	"github.com/trogers1052/stock-sentiment-service/internal/backend"
	"github.com/trogers1052/stock-sentiment-service/internal/config"
	"github.com/trogers1052/stock-sentiment-service/internal/kafka"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()

	if err := run(cfg, log); err != nil {
		log.Errorw("Dashboard failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run serves until a signal arrives or the server fails. It returns instead
// of exiting so deferred closes always execute.
func run(cfg *config.Config, log *logger.Logger) error {
	if err := cfg.ValidateProcessor(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, closeStore, err := backend.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// without events there is nothing to invalidate the cache, so read through
	handler := api.NewHandler(store, cfg.Pipeline.Ticker, !cfg.Kafka.Enabled, log)

	consumerDone := make(chan struct{})
	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, cfg.Pipeline.Ticker, handler, log)
		go func() {
			defer close(consumerDone)
			if err := consumer.Start(ctx); err != nil {
				log.Errorw("Kafka consumer stopped", "error", err)
			}
		}()
	} else {
		close(consumerDone)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.SetupRoutes(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("Dashboard API listening", "addr", srv.Addr, "ticker", cfg.Pipeline.Ticker)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		log.Info("Shutting down...")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("HTTP server shutdown error", "error", err)
	}
	<-consumerDone

	log.Info("Shutdown complete")
	return runErr
}
