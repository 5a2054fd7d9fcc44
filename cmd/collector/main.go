package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trogers1052/stock-sentiment-service/internal/backend"
	"github.com/trogers1052/stock-sentiment-service/internal/cache"
	"github.com/trogers1052/stock-sentiment-service/internal/config"
	"github.com/trogers1052/stock-sentiment-service/internal/logger"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
	"github.com/trogers1052/stock-sentiment-service/internal/newsapi"
	"github.com/trogers1052/stock-sentiment-service/internal/pipeline"
	"github.com/trogers1052/stock-sentiment-service/internal/yahoo"
)

func main() {
	endFlag := flag.String("end", "", "last day to collect, YYYY-MM-DD (default today)")
	lookback := flag.Int("lookback", 0, "days to look back (overrides LOOKBACK_DAYS)")
	flag.Parse()

	cfg := config.Load()
	if *lookback > 0 {
		cfg.Pipeline.LookbackDays = *lookback
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()

	if err := run(cfg, *endFlag, log); err != nil {
		log.Errorw("Collector failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run returns instead of exiting so deferred closes always execute
func run(cfg *config.Config, endFlag string, log *logger.Logger) error {
	if err := cfg.ValidateCollector(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	end := time.Now()
	if endFlag != "" {
		d, err := models.ParseDate(endFlag)
		if err != nil {
			return fmt.Errorf("invalid -end date: %w", err)
		}
		end = d
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := backend.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStore()

	news := newsapi.NewClient(cfg.NewsAPI, cfg.Pipeline.Language, log)
	if cfg.Redis.Enabled {
		rc, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warnw("Redis unavailable, news cache disabled", "error", err)
		} else {
			defer rc.Close()
			news.WithCache(rc, cfg.Redis.TTL)
		}
	}

	collector := pipeline.NewCollector(
		cfg.Pipeline.Ticker,
		cfg.Pipeline.SearchTerm,
		cfg.Pipeline.LookbackDays,
		yahoo.NewClient(cfg.Yahoo, log),
		news,
		store,
		log,
	)

	result, err := collector.Run(ctx, end)
	if err != nil {
		return fmt.Errorf("collector run failed: %w", err)
	}
	log.Infow("Collection finished",
		"run_id", result.RunID,
		"prices", result.PricesRef,
		"news", result.NewsRef,
		"headlines", result.HeadlineRef,
	)
	return nil
}
