package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "screener-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.App.Currency != "$" {
		t.Fatalf("unexpected currency: %s", cfg.App.Currency)
	}
	if len(cfg.Universe.Tickers) != 3 || cfg.Universe.Tickers[2] != "NVDA" {
		t.Fatalf("unexpected tickers: %+v", cfg.Universe.Tickers)
	}
	if cfg.Universe.Suffix != "" {
		t.Fatalf("expected empty suffix for alpaca, got %q", cfg.Universe.Suffix)
	}
	if cfg.DataSource.Provider != "alpaca" || cfg.DataSource.APIKey != "test-key" {
		t.Fatalf("unexpected data source: %+v", cfg.DataSource)
	}
	if cfg.Scan.Workers != 8 {
		t.Fatalf("unexpected workers: %d", cfg.Scan.Workers)
	}
	if cfg.Scan.FetchTimeout != 5*time.Second {
		t.Fatalf("unexpected fetch timeout: %v", cfg.Scan.FetchTimeout)
	}
	if cfg.Scan.MinBars != 200 {
		t.Fatalf("expected default min bars 200, got %d", cfg.Scan.MinBars)
	}
	if cfg.Cache.Enabled {
		t.Fatalf("expected cache disabled")
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Fatalf("unexpected cache ttl: %v", cfg.Cache.TTL)
	}
	if cfg.Schedule.ScanCron != "0 0 17 * * 1-5" {
		t.Fatalf("unexpected cron: %s", cfg.Schedule.ScanCron)
	}
	if cfg.API.Addr != ":9090" || cfg.API.APIKey != "letmein" {
		t.Fatalf("unexpected api config: %+v", cfg.API)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Universe.Tickers) != len(DefaultTickers) || cfg.Universe.Tickers[0] != "RELIANCE" {
		t.Fatalf("expected default universe, got %+v", cfg.Universe.Tickers)
	}
	if cfg.Universe.Suffix != ".NS" {
		t.Fatalf("expected .NS suffix, got %q", cfg.Universe.Suffix)
	}
	if cfg.DataSource.Provider != "yahoo" || cfg.Window() != "1y/1d" {
		t.Fatalf("unexpected data source defaults: %+v", cfg.DataSource)
	}
	if cfg.DataSource.SymbolMap["HUL"] != "HINDUNILVR.NS" {
		t.Fatalf("expected HUL mapped to HINDUNILVR.NS, got %+v", cfg.DataSource.SymbolMap)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != time.Hour {
		t.Fatalf("expected 1h cache enabled, got %+v", cfg.Cache)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCREENER_TICKERS", " tcs, infy ,,sbin")
	t.Setenv("SCAN_WORKERS", "2")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := []string{"TCS", "INFY", "SBIN"}
	if len(cfg.Universe.Tickers) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Universe.Tickers)
	}
	for i := range want {
		if cfg.Universe.Tickers[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, cfg.Universe.Tickers)
		}
	}
	if cfg.Scan.Workers != 2 || cfg.Cache.TTL != 15*time.Minute || cfg.App.LogLevel != "warn" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join("testdata", "absent.yaml"))
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"alpaca without keys", func(c *Config) { c.DataSource.Provider = "alpaca" }},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }},
		{"short min bars", func(c *Config) { c.Scan.MinBars = 100 }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"blank ticker", func(c *Config) { c.Universe.Tickers = []string{"TCS", " "} }},
		{"alpaca with exchange suffix", func(c *Config) {
			c.DataSource.Provider = "alpaca"
			c.DataSource.APIKey = "k"
			c.DataSource.APISecret = "s"
			c.Universe.Suffix = ".NS"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoad_SymbolMapFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("data_source:\n  symbol_map:\n    BAJAJAUTO: BAJAJ-AUTO.NS\n    HUL: HINDUNILVR.NS\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.DataSource.SymbolMap) != 2 || cfg.DataSource.SymbolMap["BAJAJAUTO"] != "BAJAJ-AUTO.NS" {
		t.Fatalf("unexpected symbol map: %+v", cfg.DataSource.SymbolMap)
	}
}

func TestLoad_ProviderAwareSuffix(t *testing.T) {
	t.Setenv("DATA_PROVIDER", "alpaca")
	t.Setenv("ALPACA_API_KEY", "k")
	t.Setenv("ALPACA_API_SECRET", "s")

	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Universe.Suffix != "" {
		t.Fatalf("expected no suffix for alpaca, got %q", cfg.Universe.Suffix)
	}
	if len(cfg.DataSource.SymbolMap) != 0 {
		t.Fatalf("expected no yahoo symbol map for alpaca, got %+v", cfg.DataSource.SymbolMap)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected sample config to validate for alpaca, got %v", err)
	}
}
