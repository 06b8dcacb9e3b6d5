package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"TrendScreener/internal/model"
	"TrendScreener/internal/scanner"
)

type fakeRunner struct {
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, tickers []string, progress scanner.ProgressFunc) *model.ResultTable {
	f.calls++
	table := &model.ResultTable{Total: len(tickers), ScannedAt: time.Now()}
	for i, tk := range tickers {
		table.Records = append(table.Records, model.SignalRecord{Ticker: tk, Status: model.StatusHold, Score: 1})
		if progress != nil {
			progress(i+1, len(tickers), float64(i+1)/float64(len(tickers)))
		}
	}
	return table
}

func TestRunNow_StoresLatest(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(context.Background(), runner, []string{"TCS", "INFY"}, zerolog.Nop())

	if s.Latest() != nil {
		t.Fatal("expected no table before first scan")
	}
	table := s.RunNow()
	if s.Latest() != table {
		t.Fatal("expected latest to be the returned table")
	}
	if len(table.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(table.Records))
	}
	p := s.Progress()
	if p.Running || p.Done != 2 || p.Fraction != 1 {
		t.Errorf("unexpected final progress: %+v", p)
	}
}

func TestRunNow_ShutdownKeepsPreviousTable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &fakeRunner{}
	s := NewScheduler(ctx, runner, []string{"TCS"}, zerolog.Nop())

	first := s.RunNow()
	cancel()
	s.RunNow()
	if s.Latest() != first {
		t.Error("expected table from before shutdown to be kept")
	}
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeRunner{}, nil, zerolog.Nop())
	if err := s.Register("0 */30 9-15 * * 1-5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Register("not a cron"); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("expected 1 entry, got %d", len(s.Cron.Entries()))
	}
}

func TestScanTask_RunsScan(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(context.Background(), runner, []string{"SBIN"}, zerolog.Nop())
	s.scanTask()
	if runner.calls != 1 || s.Latest() == nil {
		t.Fatalf("expected scan to run, calls=%d", runner.calls)
	}
}

func TestTryRunNow_RefusesWhileScanRuns(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(context.Background(), runner, []string{"TCS"}, zerolog.Nop())

	s.scanMu.Lock()
	if s.TryRunNow() {
		t.Fatal("expected TryRunNow to refuse while a scan holds the lock")
	}
	s.scanMu.Unlock()

	if !s.TryRunNow() {
		t.Fatal("expected TryRunNow to start a scan when idle")
	}
	s.Stop()
	if runner.calls != 1 || s.Latest() == nil {
		t.Fatalf("expected one background scan, calls=%d", runner.calls)
	}
}
