// Package config loads the smart100 YAML configuration with environment
// variable overrides.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the smart100 platform.
type Config struct {
	Storage  Storage        `yaml:"storage"`
	Alpaca   Alpaca         `yaml:"alpaca"`
	Logging  Logging        `yaml:"logging"`
	Backtest BacktestConfig `yaml:"backtest"`
	Selector SelectorConfig `yaml:"selector"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API.
type Alpaca struct {
	APIKey          string `yaml:"api_key"`
	APISecret       string `yaml:"api_secret"`
	DataURL         string `yaml:"data_url"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
	Retries         int    `yaml:"retries"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BacktestConfig defines backtest run defaults.
type BacktestConfig struct {
	InitialCash      float64 `yaml:"initial_cash"`
	Interval         string  `yaml:"interval"`
	TrackEquityCurve bool    `yaml:"track_equity_curve"`
}

// SelectorConfig defines defaults for the AI strategy selector.
type SelectorConfig struct {
	LookbackPeriod    int      `yaml:"lookback_period"`
	Metric            string   `yaml:"metric"`
	Optimize          bool     `yaml:"optimize"`
	GridWarnThreshold int      `yaml:"grid_warn_threshold"`
	Candidates        []string `yaml:"candidates"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the built-in defaults used when no config file is given.
func Default() *Config {
	return &Config{
		Storage: Storage{
			DataDir:    "data",
			SQLitePath: "data/smart100.db",
		},
		Alpaca: Alpaca{
			RateLimitPerMin: 200,
			Retries:         3,
		},
		Logging: Logging{Level: "info", Format: "json"},
		Backtest: BacktestConfig{
			InitialCash:      10000,
			Interval:         "1d",
			TrackEquityCurve: true,
		},
		Selector: SelectorConfig{
			LookbackPeriod:    30,
			Metric:            "pnl",
			Optimize:          false,
			GridWarnThreshold: 1000,
		},
	}
}

// FromEnv returns the defaults with environment variable overrides applied,
// for use when no configuration file exists.
func FromEnv() *Config {
	cfg := Default()
	applyEnvOverrides(cfg)
	return cfg
}

// Load reads the YAML configuration file at the given path, parses it over
// the defaults, and then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Standard Alpaca env vars (highest priority — canonical names used by SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
