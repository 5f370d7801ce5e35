// Command fetch backfills historical bars from Alpaca into the local Parquet
// and SQLite stores.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"smart100/internal/config"
	"smart100/internal/gather"
	"smart100/internal/marketdata"
	"smart100/internal/store"
	"smart100/internal/util"
)

func main() {
	var (
		cfgPath    = flag.String("config", "", "path to YAML config (default: config/smart100.yaml if present)")
		symbolsCSV = flag.String("symbols", "", "comma-separated symbols to backfill (required)")
		startStr   = flag.String("start", "", "start date, YYYY-MM-DD (required)")
		endStr     = flag.String("end", "", "end date, YYYY-MM-DD (default: today)")
		interval   = flag.String("interval", "", "bar interval (default from config)")
	)
	flag.Parse()

	if *symbolsCSV == "" || *startStr == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := loadConfig(*cfgPath)
	logger := util.NewLogger(cfg.Logging.Level)
	util.SetDefault(logger)

	if cfg.Alpaca.APIKey == "" || cfg.Alpaca.APISecret == "" {
		log.Fatal("alpaca credentials are required (set APCA_API_KEY_ID / APCA_API_SECRET_KEY)")
	}

	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if *endStr != "" {
		end, err = time.Parse("2006-01-02", *endStr)
		if err != nil {
			log.Fatalf("invalid -end: %v", err)
		}
	}

	var symbols []string
	for _, s := range strings.Split(*symbolsCSV, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}

	db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening sqlite store: %v", err)
	}
	defer db.Close()
	pstore := store.NewParquetStore(cfg.Storage.DataDir)

	source := marketdata.NewAlpacaSource(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret,
		cfg.Alpaca.DataURL, cfg.Alpaca.RateLimitPerMin, cfg.Alpaca.Retries, logger)
	backfiller := gather.NewBackfiller(source, []store.BarStore{db, pstore}, logger)

	barInterval := *interval
	if barInterval == "" {
		barInterval = cfg.Backtest.Interval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := backfiller.Run(ctx, symbols, start, end, barInterval); err != nil {
		log.Fatalf("backfill failed: %v", err)
	}
}

// loadConfig reads the given config path, or falls back to the default path
// and finally to environment-only defaults.
func loadConfig(path string) *config.Config {
	if path == "" {
		path = "config/smart100.yaml"
		if p := os.Getenv("SMART100_CONFIG"); p != "" {
			path = p
		}
		if _, err := os.Stat(path); err != nil {
			return config.FromEnv()
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
