package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"TrendScreener/internal/model"
	"TrendScreener/internal/scanner"
)

// Runner is the part of the scanner the scheduler drives.
type Runner interface {
	Run(ctx context.Context, tickers []string, progress scanner.ProgressFunc) *model.ResultTable
}

// Progress is the state of the scan in flight, if any.
type Progress struct {
	Running  bool    `json:"running"`
	Done     int     `json:"done"`
	Total    int     `json:"total"`
	Fraction float64 `json:"fraction"`
}

// Scheduler reruns the scan on a cron schedule and keeps the latest table
// in memory for presentation layers to poll.
type Scheduler struct {
	Cron    *cron.Cron
	Scanner Runner
	Tickers []string
	Logger  zerolog.Logger
	Ctx     context.Context

	scanMu   sync.Mutex // one scan at a time
	latest   atomic.Pointer[model.ResultTable]
	progress atomic.Pointer[Progress]
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner Runner, tickers []string, logger zerolog.Logger) *Scheduler {
	s := &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Scanner: runner,
		Tickers: tickers,
		Logger:  logger,
		Ctx:     ctx,
	}
	s.progress.Store(&Progress{})
	return s
}

// Register schedules the periodic rescan.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	// a TryRunNow scan is not tracked by cron
	s.scanMu.Lock()
	s.scanMu.Unlock()
	s.Logger.Info().Msg("scheduler stopped")
}

// RunNow executes a scan immediately and returns its table. If a scan is
// already running, RunNow waits for it and then scans again.
func (s *Scheduler) RunNow() *model.ResultTable {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	return s.run()
}

// TryRunNow starts a scan in the background and reports true, or reports
// false without doing anything when a scan is already running.
func (s *Scheduler) TryRunNow() bool {
	if !s.scanMu.TryLock() {
		return false
	}
	go func() {
		defer s.scanMu.Unlock()
		s.run()
	}()
	return true
}

func (s *Scheduler) run() *model.ResultTable {
	s.Logger.Info().Int("tickers", len(s.Tickers)).Msg("running scan")
	s.progress.Store(&Progress{Running: true, Total: len(s.Tickers)})
	table := s.Scanner.Run(s.Ctx, s.Tickers, func(done, total int, fraction float64) {
		s.progress.Store(&Progress{Running: true, Done: done, Total: total, Fraction: fraction})
	})
	final := &Progress{Done: len(s.Tickers), Total: len(s.Tickers), Fraction: 1}
	if len(s.Tickers) == 0 {
		final.Fraction = 0
	}
	s.progress.Store(final)

	if s.Ctx.Err() != nil {
		s.Logger.Warn().Msg("scan interrupted by shutdown, keeping previous table")
		return table
	}
	s.latest.Store(table)
	if table.Empty() {
		s.Logger.Warn().Msg("scan produced no data")
	}
	return table
}

// Latest returns the most recent completed table, or nil before the first scan.
func (s *Scheduler) Latest() *model.ResultTable {
	return s.latest.Load()
}

// Progress returns the state of the current or last scan.
func (s *Scheduler) Progress() Progress {
	return *s.progress.Load()
}

func (s *Scheduler) scanTask() {
	if !s.scanMu.TryLock() {
		s.Logger.Warn().Msg("previous scan still running, skipping this tick")
		return
	}
	defer s.scanMu.Unlock()
	s.run()
}
