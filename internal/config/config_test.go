package config

import (
	"os"
	"testing"
)

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATA_DIR", "SQLITE_PATH",
		"ALPACA_API_KEY", "ALPACA_API_SECRET", "ALPACA_DATA_URL",
		"LOG_LEVEL", "APCA_API_KEY_ID", "APCA_API_SECRET_KEY",
	} {
		os.Unsetenv(k)
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "smart100-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}
	return tmpFile.Name()
}

func TestLoadFullConfig(t *testing.T) {
	clearEnvOverrides(t)

	path := writeTempConfig(t, `
storage:
  data_dir: "/tmp/smart100/data"
  sqlite_path: "/tmp/smart100/smart100.db"
alpaca:
  api_key: "test-key"
  api_secret: "test-secret"
  data_url: "https://data.alpaca.markets"
  rate_limit_per_min: 100
  retries: 5
logging:
  level: "debug"
  format: "text"
backtest:
  initial_cash: 25000
  interval: "1h"
  track_equity_curve: false
selector:
  lookback_period: 60
  metric: "sharpe"
  optimize: true
  grid_warn_threshold: 500
  candidates: ["sma-cross", "threshold"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// -- Storage --
	if cfg.Storage.DataDir != "/tmp/smart100/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/tmp/smart100/data")
	}
	if cfg.Storage.SQLitePath != "/tmp/smart100/smart100.db" {
		t.Errorf("Storage.SQLitePath = %q, want %q", cfg.Storage.SQLitePath, "/tmp/smart100/smart100.db")
	}

	// -- Alpaca --
	if cfg.Alpaca.APIKey != "test-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q", cfg.Alpaca.APIKey, "test-key")
	}
	if cfg.Alpaca.APISecret != "test-secret" {
		t.Errorf("Alpaca.APISecret = %q, want %q", cfg.Alpaca.APISecret, "test-secret")
	}
	if cfg.Alpaca.RateLimitPerMin != 100 {
		t.Errorf("Alpaca.RateLimitPerMin = %d, want %d", cfg.Alpaca.RateLimitPerMin, 100)
	}
	if cfg.Alpaca.Retries != 5 {
		t.Errorf("Alpaca.Retries = %d, want %d", cfg.Alpaca.Retries, 5)
	}

	// -- Logging --
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "text")
	}

	// -- Backtest --
	if cfg.Backtest.InitialCash != 25000 {
		t.Errorf("Backtest.InitialCash = %v, want %v", cfg.Backtest.InitialCash, 25000.0)
	}
	if cfg.Backtest.Interval != "1h" {
		t.Errorf("Backtest.Interval = %q, want %q", cfg.Backtest.Interval, "1h")
	}
	if cfg.Backtest.TrackEquityCurve {
		t.Error("Backtest.TrackEquityCurve = true, want false")
	}

	// -- Selector --
	if cfg.Selector.LookbackPeriod != 60 {
		t.Errorf("Selector.LookbackPeriod = %d, want %d", cfg.Selector.LookbackPeriod, 60)
	}
	if cfg.Selector.Metric != "sharpe" {
		t.Errorf("Selector.Metric = %q, want %q", cfg.Selector.Metric, "sharpe")
	}
	if !cfg.Selector.Optimize {
		t.Error("Selector.Optimize = false, want true")
	}
	if len(cfg.Selector.Candidates) != 2 || cfg.Selector.Candidates[0] != "sma-cross" {
		t.Errorf("Selector.Candidates = %v, want [sma-cross threshold]", cfg.Selector.Candidates)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	clearEnvOverrides(t)

	path := writeTempConfig(t, `
storage:
  data_dir: "/custom/data"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Storage.DataDir != "/custom/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/custom/data")
	}
	// Untouched sections keep their defaults.
	if cfg.Backtest.InitialCash != 10000 {
		t.Errorf("Backtest.InitialCash = %v, want default 10000", cfg.Backtest.InitialCash)
	}
	if cfg.Selector.LookbackPeriod != 30 {
		t.Errorf("Selector.LookbackPeriod = %d, want default 30", cfg.Selector.LookbackPeriod)
	}
	if cfg.Selector.Metric != "pnl" {
		t.Errorf("Selector.Metric = %q, want default pnl", cfg.Selector.Metric)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnvOverrides(t)

	path := writeTempConfig(t, `
alpaca:
  api_key: "yaml-key"
  api_secret: "yaml-secret"
storage:
  data_dir: "/original/data"
`)

	os.Setenv("ALPACA_API_KEY", "env-key")
	os.Setenv("DATA_DIR", "/env/data")
	defer os.Unsetenv("ALPACA_API_KEY")
	defer os.Unsetenv("DATA_DIR")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Alpaca.APIKey != "env-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q (env override)", cfg.Alpaca.APIKey, "env-key")
	}
	// api_secret should remain from YAML since no env override was set.
	if cfg.Alpaca.APISecret != "yaml-secret" {
		t.Errorf("Alpaca.APISecret = %q, want %q (from YAML)", cfg.Alpaca.APISecret, "yaml-secret")
	}
	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}
}

func TestCanonicalAlpacaEnvWins(t *testing.T) {
	clearEnvOverrides(t)

	os.Setenv("ALPACA_API_KEY", "legacy-key")
	os.Setenv("APCA_API_KEY_ID", "canonical-key")
	defer os.Unsetenv("ALPACA_API_KEY")
	defer os.Unsetenv("APCA_API_KEY_ID")

	cfg := FromEnv()
	if cfg.Alpaca.APIKey != "canonical-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q (APCA_* wins)", cfg.Alpaca.APIKey, "canonical-key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/no/such/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
