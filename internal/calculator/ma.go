package calculator

import (
	"errors"
	"fmt"
	"math"

	"TrendScreener/internal/model"
)

// CalculateSMA returns the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("SMA%d needs %d prices, have %d", period, period, len(prices))
	}
	return LastDefined(SMASeries(prices, period))
}

// SMASeries returns the per-bar simple moving average. Bars before index period-1 are NaN.
func SMASeries(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if period <= 0 || i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

// CalculateMA50 returns the 50-day simple moving average from daily bars.
func CalculateMA50(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(extractCloses(dailyBars), 50)
}

// CalculateMA200 returns the 200-day simple moving average from daily bars.
func CalculateMA200(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(extractCloses(dailyBars), 200)
}

// LastDefined returns the final value of a series, failing when it is undefined.
func LastDefined(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, errors.New("empty series")
	}
	v := series[len(series)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("last value undefined")
	}
	return v, nil
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
