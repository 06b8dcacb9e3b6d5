package calculator

import (
	"errors"
	"math"

	"TrendScreener/internal/model"
)

// TrueRange returns the per-bar true range. The first bar has no previous
// close, so its range is high-low.
func TrueRange(bars []model.OHLCV) []float64 {
	tr := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			tr[i] = b.High - b.Low
			continue
		}
		prevClose := bars[i-1].Close
		tr[i] = math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
	}
	return tr
}

// ATRSeries returns the per-bar Wilder average true range. The value at
// period-1 is the mean of the first period true ranges; earlier values are NaN.
func ATRSeries(bars []model.OHLCV, period int) []float64 {
	out := make([]float64, len(bars))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(bars) < period {
		return out
	}

	tr := TrueRange(bars)
	atr := 0.0
	for i := 0; i < period; i++ {
		atr += tr[i]
	}
	atr /= float64(period)
	out[period-1] = atr

	for i := period; i < len(bars); i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out[i] = atr
	}
	return out
}

// CalculateATR returns the Wilder ATR of the last bar.
func CalculateATR(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period {
		return 0, errors.New("not enough data for ATR calculation")
	}
	return LastDefined(ATRSeries(bars, period))
}
