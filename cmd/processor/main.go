package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/trogers1052/stock-sentiment-service/internal/backend"
	"github.com/trogers1052/stock-sentiment-service/internal/config"
	"github.com/trogers1052/stock-sentiment-service/internal/kafka"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/pipeline"
	"github.com/trogers1052/stock-sentiment-service/internal/sentiment"
)

func main() {
	scorer := flag.String("scorer", "", "sentiment scorer: keyword or lexicon (overrides SENTIMENT_SCORER)")
	flag.Parse()

	cfg := config.Load()
	if *scorer != "" {
		cfg.Pipeline.Scorer = *scorer
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()

	if err := run(cfg, log); err != nil {
		log.Errorw("Processor failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run returns instead of exiting so deferred closes always execute
func run(cfg *config.Config, log *logger.Logger) error {
	if err := cfg.ValidateProcessor(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	strategy, err := sentiment.New(cfg.Pipeline.Scorer, cfg.Pipeline.LexiconPath)
	if err != nil {
		return fmt.Errorf("failed to build sentiment scorer: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := backend.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStore()

	processor := pipeline.NewProcessor(
		cfg.Pipeline.Ticker,
		cfg.Pipeline.SearchTerm,
		store,
		store,
		store,
		sentiment.NewAnalyzer(strategy),
		log,
	)

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		processor.WithPublisher(producer)
	}

	result, err := processor.Run(ctx)
	if err != nil {
		return fmt.Errorf("processor run failed: %w", err)
	}
	log.Infow("Processing finished",
		"run_id", result.RunID,
		"dataset", result.Ref,
		"records", result.Records,
		"correlation_status", result.CorrelationStatus,
	)
	return nil
}
