// Command backtest runs one strategy over a historical range and prints the
// resulting report as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"smart100/internal/backtest"
	"smart100/internal/config"
	"smart100/internal/domain"
	"smart100/internal/evaluate"
	"smart100/internal/marketdata"
	"smart100/internal/optimize"
	"smart100/internal/selector"
	"smart100/internal/store"
	"smart100/internal/strategy"
	"smart100/internal/strategy/builtins"
	"smart100/internal/util"
)

func main() {
	var (
		cfgPath    = flag.String("config", "", "path to YAML config (default: config/smart100.yaml if present)")
		symbol     = flag.String("symbol", "", "symbol to backtest (required)")
		strategyID = flag.String("strategy", "threshold", "strategy ID to run")
		startStr   = flag.String("start", "", "start date, YYYY-MM-DD (required)")
		endStr     = flag.String("end", "", "end date, YYYY-MM-DD (required)")
		cash       = flag.Float64("cash", 0, "initial cash (default from config)")
		interval   = flag.String("interval", "", "bar interval (default from config)")
		paramsJSON = flag.String("params", "", "strategy parameters as a JSON object")
	)
	flag.Parse()

	if *symbol == "" || *startStr == "" || *endStr == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := loadConfig(*cfgPath)
	logger := util.NewLogger(cfg.Logging.Level)
	util.SetDefault(logger)

	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}
	end, err := time.Parse("2006-01-02", *endStr)
	if err != nil {
		log.Fatalf("invalid -end: %v", err)
	}

	params := domain.Params{}
	if *paramsJSON != "" {
		if err := json.Unmarshal([]byte(*paramsJSON), &params); err != nil {
			log.Fatalf("invalid -params: %v", err)
		}
	}

	db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening sqlite store: %v", err)
	}
	defer db.Close()

	registry := strategy.NewRegistry()
	builtins.RegisterAll(registry)

	grid := optimize.NewGrid(cfg.Selector.GridWarnThreshold, logger)
	sel := selector.New(registry, grid, selector.NewStoreCache(db, logger), selector.Config{
		Lookback:     cfg.Selector.LookbackPeriod,
		Metric:       evaluate.Metric(cfg.Selector.Metric),
		Optimize:     cfg.Selector.Optimize,
		CandidateIDs: cfg.Selector.Candidates,
	}, logger)
	registry.Register(sel)

	engine := backtest.NewEngine(registry, buildSource(cfg, db, logger), cfg.Backtest.TrackEquityCurve, logger)

	initialCash := *cash
	if initialCash <= 0 {
		initialCash = cfg.Backtest.InitialCash
	}
	barInterval := *interval
	if barInterval == "" {
		barInterval = cfg.Backtest.Interval
	}

	result, err := engine.Run(context.Background(), backtest.Request{
		Symbol:      *symbol,
		Start:       start,
		End:         end,
		InitialCash: initialCash,
		StrategyID:  *strategyID,
		Params:      params,
		Interval:    barInterval,
	})
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encoding result: %v", err)
	}
	fmt.Println(string(out))
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

// buildSource wires the bar source: Alpaca with a SQLite cache when
// credentials are configured, otherwise the local store only.
func buildSource(cfg *config.Config, db *store.SQLiteStore, logger *slog.Logger) marketdata.BarSource {
	if cfg.Alpaca.APIKey != "" && cfg.Alpaca.APISecret != "" {
		remote := marketdata.NewAlpacaSource(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret,
			cfg.Alpaca.DataURL, cfg.Alpaca.RateLimitPerMin, cfg.Alpaca.Retries, logger)
		return marketdata.NewCachedSource(remote, db, logger)
	}
	logger.Info("no alpaca credentials, reading bars from local store only")
	return marketdata.NewStoreSource(db)
}
