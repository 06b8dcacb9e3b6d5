package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"TrendScreener/internal/api"
	"TrendScreener/internal/collector"
	"TrendScreener/internal/config"
	"TrendScreener/internal/logging"
	"TrendScreener/internal/metrics"
	"TrendScreener/internal/report"
	"TrendScreener/internal/scanner"
	"TrendScreener/internal/scheduler"
)

func main() {
	serve := flag.Bool("serve", false, "run the cron rescan and HTTP API instead of a single scan")
	status := flag.String("status", "all", "dashboard filter: all, strong-buy or exit")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLoggerTo(os.Stderr, cfg.App.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation")
	}

	filter, err := report.ParseStatusFilter(*status)
	if err != nil {
		logger.Fatal().Err(err).Msg("bad -status")
	}

	fetcher := newFetcher(cfg)
	logger.Info().
		Str("source", fetcher.Name()).
		Int("tickers", len(cfg.Universe.Tickers)).
		Int("workers", cfg.Scan.Workers).
		Msg("screener starting")

	sc := scanner.NewScanner(fetcher, cfg.Scan.Workers, cfg.Scan.FetchTimeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !*serve {
		table := sc.Run(ctx, cfg.Universe.Tickers, func(done, total int, fraction float64) {
			logger.Debug().Int("done", done).Int("total", total).Float64("fraction", fraction).Msg("scan progress")
		})
		fmt.Print(report.FormatDashboard(table, filter, cfg.App.Currency))
		return
	}

	runServer(ctx, cfg, sc, logger)
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "alpaca":
		af := collector.NewAlpacaFetcher(cfg.DataSource.APIKey, cfg.DataSource.APISecret,
			cfg.DataSource.Feed, cfg.Universe.Suffix, cfg.DataSource.BaseURL, cfg.Scan.FetchTimeout)
		af.MinBars = cfg.Scan.MinBars
		fetcher = af
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100, MinBars: cfg.Scan.MinBars}
	default:
		yf := collector.NewYahooFetcher(cfg.Universe.Suffix, cfg.Proxy, cfg.Scan.FetchTimeout)
		if cfg.DataSource.BaseURL != "" {
			yf.BaseURL = cfg.DataSource.BaseURL
		}
		yf.Range = cfg.DataSource.Range
		yf.Interval = cfg.DataSource.Interval
		yf.MinBars = cfg.Scan.MinBars
		for ticker, symbol := range cfg.DataSource.SymbolMap {
			yf.SymbolMap[strings.ToUpper(ticker)] = symbol
		}
		fetcher = yf
	}
	if cfg.Cache.Enabled {
		fetcher = collector.NewCachedFetcher(fetcher, cfg.Cache.TTL, cfg.Window())
	}
	return fetcher
}

func runServer(ctx context.Context, cfg *config.Config, sc *scanner.Scanner, logger zerolog.Logger) {
	sched := scheduler.NewScheduler(ctx, sc, cfg.Universe.Tickers, logger)
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		logger.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	sched.TryRunNow()

	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           api.NewServer(sched, cfg.App.Currency, cfg.API.APIKey, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("api server")
		}
	}()

	var metricsSrv *http.Server
	if cfg.Metrics.Addr != "" && cfg.Metrics.Addr != cfg.API.Addr {
		metricsSrv = metrics.Serve(cfg.Metrics.Addr)
		logger.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics listening")
	}

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	sched.Stop()
	logger.Info().Msg("screener stopped")
}
