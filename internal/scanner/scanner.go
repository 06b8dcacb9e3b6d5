package scanner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"TrendScreener/internal/collector"
	"TrendScreener/internal/metrics"
	"TrendScreener/internal/model"
	"TrendScreener/internal/strategy"
)

// ProgressFunc receives the fraction of tickers processed, in (0, 1].
type ProgressFunc func(done, total int, fraction float64)

// AnalyzeFunc scores one ticker's history.
type AnalyzeFunc func(ticker string, history *model.PriceHistory) (*model.SignalRecord, error)

// Scanner runs the fetch-then-analyze pipeline over a ticker universe.
type Scanner struct {
	Fetcher      collector.Fetcher
	Analyze      AnalyzeFunc
	Workers      int
	FetchTimeout time.Duration
	Logger       zerolog.Logger
}

// NewScanner creates a Scanner using the default signal engine.
func NewScanner(fetcher collector.Fetcher, workers int, fetchTimeout time.Duration, logger zerolog.Logger) *Scanner {
	if workers <= 0 {
		workers = 1
	}
	return &Scanner{
		Fetcher:      fetcher,
		Analyze:      strategy.Analyze,
		Workers:      workers,
		FetchTimeout: fetchTimeout,
		Logger:       logger,
	}
}

// Run processes every ticker once and returns the records in input order.
// Per-ticker failures are logged and skipped; they never fail the run. Once
// ctx is done no new fetches are issued.
func (s *Scanner) Run(ctx context.Context, tickers []string, progress ProgressFunc) *model.ResultTable {
	start := time.Now()
	total := len(tickers)
	slots := make([]*model.SignalRecord, total)

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		if progress != nil {
			progress(done, total, float64(done)/float64(total))
		}
	}

	var g errgroup.Group
	g.SetLimit(s.workers())
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			defer report()
			slots[i] = s.scanOne(ctx, ticker)
			return nil
		})
	}
	_ = g.Wait()

	table := &model.ResultTable{Total: total, ScannedAt: time.Now()}
	for _, rec := range slots {
		if rec != nil {
			table.Records = append(table.Records, *rec)
		}
	}
	table.Skipped = total - len(table.Records)

	metrics.ScanSeconds.Observe(time.Since(start).Seconds())
	for _, st := range []model.Status{model.StatusStrongBuy, model.StatusHold, model.StatusExit} {
		metrics.LastScanRecords.WithLabelValues(string(st)).Set(float64(len(table.Tickers(st))))
	}
	s.Logger.Info().
		Int("total", total).
		Int("records", len(table.Records)).
		Int("skipped", table.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("scan finished")
	return table
}

func (s *Scanner) scanOne(ctx context.Context, ticker string) *model.SignalRecord {
	log := s.Logger.With().Str("ticker", ticker).Logger()
	if ctx.Err() != nil {
		metrics.TickersTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
		log.Debug().Msg("scan cancelled, not fetching")
		return nil
	}

	fetchCtx := ctx
	if s.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.FetchTimeout)
		defer cancel()
	}

	fetchStart := time.Now()
	history, err := s.Fetcher.FetchHistory(fetchCtx, ticker)
	metrics.FetchSeconds.WithLabelValues(s.Fetcher.Name()).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		outcome := metrics.OutcomeFetchFailed
		if errors.Is(err, collector.ErrInsufficientHistory) {
			outcome = metrics.OutcomeInsufficient
		}
		metrics.TickersTotal.WithLabelValues(outcome).Inc()
		log.Warn().Err(err).Msg("skipping ticker")
		return nil
	}

	rec, err := s.Analyze(ticker, history)
	if err != nil {
		outcome := metrics.OutcomeComputation
		if errors.Is(err, strategy.ErrInsufficientHistory) {
			outcome = metrics.OutcomeInsufficient
		}
		metrics.TickersTotal.WithLabelValues(outcome).Inc()
		log.Warn().Err(err).Msg("skipping ticker")
		return nil
	}

	metrics.TickersTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Debug().Int("score", rec.Score).Str("status", string(rec.Status)).Msg("ticker scored")
	return rec
}

func (s *Scanner) workers() int {
	if s.Workers <= 0 {
		return 1
	}
	return s.Workers
}
