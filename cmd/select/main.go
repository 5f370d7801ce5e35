// Command select runs the AI strategy selector over a historical range and
// reports the backtest result together with the final active choice.
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
		symbol     = flag.String("symbol", "", "symbol to run the selector on (required)")
		startStr   = flag.String("start", "", "start date, YYYY-MM-DD (required)")
		endStr     = flag.String("end", "", "end date, YYYY-MM-DD (required)")
		lookback   = flag.Int("lookback", 0, "evaluation lookback in bars (default from config)")
		metric     = flag.String("metric", "", "evaluation metric: pnl, winRate, or sharpe (default from config)")
		doOptimize = flag.Bool("optimize", false, "grid-search candidate parameters")
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

	db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening sqlite store: %v", err)
	}
	defer db.Close()

	selCfg := selector.Config{
		Lookback:     cfg.Selector.LookbackPeriod,
		Metric:       evaluate.Metric(cfg.Selector.Metric),
		Optimize:     cfg.Selector.Optimize || *doOptimize,
		CandidateIDs: cfg.Selector.Candidates,
	}
	if *lookback > 0 {
		selCfg.Lookback = *lookback
	}
	if *metric != "" {
		selCfg.Metric = evaluate.Metric(*metric)
	}

	registry := strategy.NewRegistry()
	builtins.RegisterAll(registry)

	grid := optimize.NewGrid(cfg.Selector.GridWarnThreshold, logger)
	sel := selector.New(registry, grid, selector.NewStoreCache(db, logger), selCfg, logger)
	registry.Register(sel)

	engine := backtest.NewEngine(registry, buildSource(cfg, db, logger), cfg.Backtest.TrackEquityCurve, logger)

	result, err := engine.Run(context.Background(), backtest.Request{
		Symbol:      *symbol,
		Start:       start,
		End:         end,
		InitialCash: cfg.Backtest.InitialCash,
		StrategyID:  sel.ID(),
		Interval:    cfg.Backtest.Interval,
	})
	if err != nil {
		log.Fatalf("selector run failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encoding result: %v", err)
	}
	fmt.Println(string(out))

	if choice, ok := sel.ActiveChoice(*symbol); ok {
		fmt.Printf("active choice: %s (%s) params=%v\n",
			choice.StrategyID, choice.StrategyName, choice.Params)
	} else {
		fmt.Println("active choice: none")
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
