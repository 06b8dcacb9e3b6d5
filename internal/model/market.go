package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceHistory holds the trailing daily bars of one ticker, ascending by time.
type PriceHistory struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

func (h *PriceHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Bars)
}

// Last returns the most recent bar. Callers must check Len first.
func (h *PriceHistory) Last() OHLCV {
	return h.Bars[len(h.Bars)-1]
}
