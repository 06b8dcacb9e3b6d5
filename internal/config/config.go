package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTickers is the NIFTY sample universe.
var DefaultTickers = []string{
	"RELIANCE", "TCS", "INFY", "HDFCBANK", "ICICIBANK", "SBIN", "BHARTIARTL",
	"ITC", "KOTAKBANK", "LT", "AXISBANK", "HUL", "TATAMOTORS", "MARUTI", "WIPRO",
}

// DefaultSymbolMap covers default tickers whose Yahoo symbol is not ticker+".NS".
var DefaultSymbolMap = map[string]string{
	"HUL": "HINDUNILVR.NS",
}

// Config holds all application configuration.
type Config struct {
	App struct {
		Name     string `yaml:"name"`
		LogLevel string `yaml:"log_level"`
		Currency string `yaml:"currency"`
	} `yaml:"app"`
	Universe struct {
		Tickers []string `yaml:"tickers"`
		Suffix  string   `yaml:"suffix"`
	} `yaml:"universe"`
	DataSource struct {
		Provider  string `yaml:"provider"` // "yahoo", "alpaca" or "mock"
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		Feed      string `yaml:"feed"`
		Range     string `yaml:"range"`
		Interval  string `yaml:"interval"`
		// Yahoo only: full provider symbol for tickers that differ, e.g. HUL: HINDUNILVR.NS
		SymbolMap map[string]string `yaml:"symbol_map"`
	} `yaml:"data_source"`
	Scan struct {
		Workers      int           `yaml:"workers"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		MinBars      int           `yaml:"min_bars"`
	} `yaml:"scan"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	API struct {
		Addr   string `yaml:"addr"`
		APIKey string `yaml:"api_key"`
	} `yaml:"api"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error: defaults and environment still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Cache.Enabled = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SCREENER_TICKERS"); v != "" {
		cfg.Universe.Tickers = splitList(v)
	}
	if v, ok := os.LookupEnv("SCREENER_SUFFIX"); ok {
		cfg.Universe.Suffix = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.DataSource.APISecret = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.Workers = n
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		cfg.API.Addr = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.API.APIKey = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}

	// Defaults
	if cfg.App.Name == "" {
		cfg.App.Name = "TrendScreener"
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.App.Currency == "" {
		cfg.App.Currency = "₹"
	}
	if len(cfg.Universe.Tickers) == 0 {
		cfg.Universe.Tickers = append([]string(nil), DefaultTickers...)
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Universe.Suffix == "" && cfg.DataSource.Provider == "yahoo" {
		if _, set := os.LookupEnv("SCREENER_SUFFIX"); !set {
			cfg.Universe.Suffix = ".NS"
		}
	}
	if cfg.DataSource.SymbolMap == nil && cfg.DataSource.Provider == "yahoo" && cfg.Universe.Suffix == ".NS" {
		cfg.DataSource.SymbolMap = make(map[string]string, len(DefaultSymbolMap))
		for k, v := range DefaultSymbolMap {
			cfg.DataSource.SymbolMap[k] = v
		}
	}
	if cfg.DataSource.Range == "" {
		cfg.DataSource.Range = "1y"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "1d"
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = 4
	}
	if cfg.Scan.FetchTimeout == 0 {
		cfg.Scan.FetchTimeout = 20 * time.Second
	}
	if cfg.Scan.MinBars == 0 {
		cfg.Scan.MinBars = 200
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Hour
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 */30 9-15 * * 1-5"
	}
	if cfg.API.Addr == "" {
		cfg.API.Addr = ":8080"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "alpaca":
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return fmt.Errorf("data_source.api_key and data_source.api_secret are required for alpaca")
		}
		if c.Universe.Suffix != "" {
			return fmt.Errorf("universe.suffix %q is not supported by alpaca, leave it empty", c.Universe.Suffix)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1")
	}
	if c.Scan.FetchTimeout <= 0 {
		return fmt.Errorf("scan.fetch_timeout must be positive")
	}
	if c.Scan.MinBars < 200 {
		return fmt.Errorf("scan.min_bars must be at least 200")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	for _, t := range c.Universe.Tickers {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("universe.tickers contains an empty symbol")
		}
	}
	return nil
}

// Window names the fetch parameters, used as part of the cache key.
func (c *Config) Window() string {
	return c.DataSource.Range + "/" + c.DataSource.Interval
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}
