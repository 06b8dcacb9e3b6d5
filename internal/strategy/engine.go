package strategy

import (
	"errors"
	"fmt"
	"math"

	"TrendScreener/internal/calculator"
	"TrendScreener/internal/model"
)

// MinBars is the shortest history the engine will score; SMA200 needs it.
const MinBars = 200

// Wilder smoothing periods.
const (
	RSIPeriod = 14
	ATRPeriod = 14
)

var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrComputation         = errors.New("computation fault")
)

// Status thresholds, evaluated top-down.
const (
	StrongBuyMinScore = 3
	ExitMaxScore      = 0
)

// Risk level multipliers applied to ATR14.
const (
	EntryATRPad     = 0.5
	TargetATRMult   = 4.0
	StopLossATRMult = 2.0
)

// MapStatus maps a total score to a Status.
func MapStatus(score int) model.Status {
	switch {
	case score >= StrongBuyMinScore:
		return model.StatusStrongBuy
	case score <= ExitMaxScore:
		return model.StatusExit
	default:
		return model.StatusHold
	}
}

// RiskLevels returns the breakout entry, target and stop loss for a set of indicators.
func RiskLevels(ind *model.IndicatorSet) (entry, target, stopLoss float64) {
	entry = ind.High52w + EntryATRPad*ind.ATR14
	target = ind.Price + TargetATRMult*ind.ATR14
	stopLoss = ind.Price - StopLossATRMult*ind.ATR14
	return entry, target, stopLoss
}

// ComputeIndicators derives the last-bar indicator values from a history.
func ComputeIndicators(history *model.PriceHistory) (*model.IndicatorSet, error) {
	if history.Len() < MinBars {
		return nil, fmt.Errorf("%w: %d bars, need %d", ErrInsufficientHistory, history.Len(), MinBars)
	}
	bars := history.Bars
	for i, b := range bars {
		if !finite(b.Open, b.High, b.Low, b.Close) {
			return nil, fmt.Errorf("%w: non-finite bar at index %d", ErrComputation, i)
		}
	}
	sma50, err := calculator.CalculateMA50(bars)
	if err != nil {
		return nil, fmt.Errorf("%w: SMA50: %v", ErrComputation, err)
	}
	sma200, err := calculator.CalculateMA200(bars)
	if err != nil {
		return nil, fmt.Errorf("%w: SMA200: %v", ErrComputation, err)
	}
	rsi, err := calculator.CalculateRSI(bars, RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("%w: RSI14: %v", ErrComputation, err)
	}
	atr, err := calculator.CalculateATR(bars, ATRPeriod)
	if err != nil {
		return nil, fmt.Errorf("%w: ATR14: %v", ErrComputation, err)
	}
	high, low, err := calculator.WindowRange(bars)
	if err != nil {
		return nil, fmt.Errorf("%w: range: %v", ErrComputation, err)
	}

	price := history.Last().Close
	pos, err := calculator.Calculate52WeekPosition(price, high, low)
	if err != nil {
		return nil, fmt.Errorf("%w: position: %v", ErrComputation, err)
	}

	return &model.IndicatorSet{
		Price:       price,
		SMA50:       sma50,
		SMA200:      sma200,
		RSI14:       rsi,
		ATR14:       atr,
		High52w:     high,
		Low52w:      low,
		Position52w: pos,
	}, nil
}

// Analyze computes the signal record for one ticker's history. It never
// panics; every failure is returned as ErrInsufficientHistory or ErrComputation.
func Analyze(ticker string, history *model.PriceHistory) (rec *model.SignalRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = fmt.Errorf("%w: %v", ErrComputation, r)
		}
	}()

	ind, err := ComputeIndicators(history)
	if err != nil {
		return nil, err
	}

	rules, score := Score(ind)
	entry, target, stopLoss := RiskLevels(ind)
	if !finite(entry, target, stopLoss) {
		return nil, fmt.Errorf("%w: non-finite risk levels", ErrComputation)
	}

	return &model.SignalRecord{
		Ticker:   ticker,
		Price:    ind.Price,
		Status:   MapStatus(score),
		Score:    score,
		Entry:    entry,
		Target:   target,
		StopLoss: stopLoss,
		RSI:      ind.RSI14,
		High52w:  ind.High52w,
		ATR:      ind.ATR14,
		Rules:    rules,
	}, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
