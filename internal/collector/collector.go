package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"TrendScreener/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Days    int
	Bars    map[string][]model.OHLCV
	Errors  map[string]error
	MinBars int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(ctx context.Context, ticker string) (*model.PriceHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailure, ticker, err)
	}
	if err, ok := m.Errors[ticker]; ok {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailure, ticker, err)
	}
	bars, ok := m.Bars[ticker]
	if !ok {
		days := m.Days
		if days == 0 {
			days = 250
		}
		bars = generateMockBars(m.Price, days)
	}
	h := &model.PriceHistory{Symbol: ticker, Bars: bars, FetchedAt: time.Now()}
	if err := Validate(h, m.MinBars); err != nil {
		return nil, err
	}
	return h, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	if basePrice == 0 {
		basePrice = 100
	}
	end := time.Now().Truncate(24 * time.Hour)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Validate rejects histories the engine cannot score: empty, shorter than
// minBars, out of order or carrying non-finite or non-positive prices.
// A minBars of zero means DefaultMinBars.
func Validate(h *model.PriceHistory, minBars int) error {
	if minBars <= 0 {
		minBars = DefaultMinBars
	}
	if h.Len() == 0 {
		return ErrEmptyHistory
	}
	if h.Len() < minBars {
		return fmt.Errorf("%w: %s has %d bars, need %d", ErrInsufficientHistory, h.Symbol, h.Len(), minBars)
	}
	for i, b := range h.Bars {
		for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				return fmt.Errorf("%w: %s bar %d has invalid price %v", ErrFetchFailure, h.Symbol, i, v)
			}
		}
		if i > 0 && !b.Time.After(h.Bars[i-1].Time) {
			return fmt.Errorf("%w: %s bar %d is not after bar %d", ErrFetchFailure, h.Symbol, i, i-1)
		}
	}
	return nil
}
