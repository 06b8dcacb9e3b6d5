package calculator

import (
	"math"
	"testing"
	"time"

	"TrendScreener/internal/model"
)

func barsFromCloses(closes []float64) []model.OHLCV {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return bars
}

func TestSMASeries(t *testing.T) {
	got := SMASeries([]float64{1, 2, 3, 4, 5}, 3)
	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Errorf("index %d: expected NaN, got %v", i, got[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if got[i+2] != w {
			t.Errorf("index %d: expected %v, got %v", i+2, w, got[i+2])
		}
	}

	last, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil || last != 4 {
		t.Fatalf("CalculateSMA = %v, %v; want 4", last, err)
	}
	if _, err := CalculateSMA([]float64{1, 2}, 3); err == nil {
		t.Fatal("expected error for short input")
	}
}

func TestMA50_LastWindow(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	ma, err := CalculateMA50(barsFromCloses(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// mean of 11..60
	if ma != 35.5 {
		t.Errorf("expected 35.5, got %v", ma)
	}
	if _, err := CalculateMA50(barsFromCloses(closes[:49])); err == nil {
		t.Fatal("expected error with 49 bars")
	}
}

func TestMA200_RequiresFullWindow(t *testing.T) {
	closes := make([]float64, 199)
	for i := range closes {
		closes[i] = 100
	}
	if _, err := CalculateMA200(barsFromCloses(closes)); err == nil {
		t.Fatal("expected error with 199 bars")
	}
	closes = append(closes, 300)
	ma, err := CalculateMA200(barsFromCloses(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ma != 101 {
		t.Errorf("expected 101, got %v", ma)
	}
}

func TestRSI_AllGainsIs100(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, err := CalculateRSI(barsFromCloses(closes), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("expected 100 with no losses, got %v", rsi)
	}
}

func TestRSI_FlatIs100(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 42
	}
	rsi, err := CalculateRSI(barsFromCloses(closes), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("expected 100 for flat prices, got %v", rsi)
	}
}

func TestRSISeries_DefinedFromPeriod(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i%3)
	}
	series := RSISeries(closes, 14)
	for i := 0; i < 14; i++ {
		if !math.IsNaN(series[i]) {
			t.Errorf("index %d: expected NaN, got %v", i, series[i])
		}
	}
	for i := 14; i < len(series); i++ {
		if math.IsNaN(series[i]) || series[i] < 0 || series[i] > 100 {
			t.Errorf("index %d: expected value in [0,100], got %v", i, series[i])
		}
	}
}

func TestRSI_KnownSeed(t *testing.T) {
	// 7 gains of 2 and 7 losses of 1: avgGain=1, avgLoss=0.5, RS=2.
	closes := []float64{100}
	for i := 0; i < 7; i++ {
		closes = append(closes, closes[len(closes)-1]+2)
	}
	for i := 0; i < 7; i++ {
		closes = append(closes, closes[len(closes)-1]-1)
	}
	rsi, err := CalculateRSI(barsFromCloses(closes), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 100 - 100/3.0
	if math.Abs(rsi-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, rsi)
	}
}

func TestTrueRange_UsesPreviousClose(t *testing.T) {
	bars := []model.OHLCV{
		{High: 11, Low: 9, Close: 10},
		{High: 15, Low: 13, Close: 14}, // gap up: high-prevClose = 5
		{High: 9, Low: 8, Close: 8.5},  // gap down: |low-prevClose| = 6
	}
	tr := TrueRange(bars)
	want := []float64{2, 5, 6}
	for i := range want {
		if tr[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], tr[i])
		}
	}
}

func TestATRSeries_SeedAndSmoothing(t *testing.T) {
	closes := make([]float64, 16)
	for i := range closes {
		closes[i] = 100
	}
	bars := barsFromCloses(closes)
	bars[15].High = 116 // TR = 17 on the last bar

	series := ATRSeries(bars, 14)
	for i := 0; i < 13; i++ {
		if !math.IsNaN(series[i]) {
			t.Errorf("index %d: expected NaN, got %v", i, series[i])
		}
	}
	if series[13] != 2 {
		t.Errorf("seed: expected 2, got %v", series[13])
	}
	if series[14] != 2 {
		t.Errorf("index 14: expected 2, got %v", series[14])
	}
	want := (2.0*13 + 17) / 14
	atr, err := CalculateATR(bars, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(atr-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, atr)
	}
}

func TestWindowRange(t *testing.T) {
	bars := barsFromCloses([]float64{10, 30, 20})
	high, low, err := WindowRange(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 31 || low != 9 {
		t.Errorf("expected 31/9, got %v/%v", high, low)
	}
	if _, _, err := WindowRange(nil); err == nil {
		t.Error("expected error for empty bars")
	}
}

func TestCalculate52WeekPosition(t *testing.T) {
	tests := []struct {
		current, high, low float64
		want               float64
	}{
		{150, 200, 100, 0.5},
		{250, 200, 100, 1},
		{50, 200, 100, 0},
		{100, 100, 100, 0.5},
	}
	for _, tt := range tests {
		got, err := Calculate52WeekPosition(tt.current, tt.high, tt.low)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("position(%v,%v,%v) = %v, want %v", tt.current, tt.high, tt.low, got, tt.want)
		}
	}
	if _, err := Calculate52WeekPosition(1, 1, 2); err == nil {
		t.Error("expected error when high < low")
	}
}
