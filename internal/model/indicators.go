package model

// IndicatorSet holds the last-bar values of every indicator the engine scores.
type IndicatorSet struct {
	Price   float64
	SMA50   float64
	SMA200  float64
	RSI14   float64
	ATR14   float64
	High52w float64
	Low52w  float64
	// Position52w is where Price sits inside the window's range, 0.0 ~ 1.0.
	Position52w float64
}
