package model

import "time"

// Status is the recommendation derived from a score.
type Status string

const (
	StatusStrongBuy Status = "STRONG BUY"
	StatusHold      Status = "HOLD / WATCH"
	StatusExit      Status = "EXIT / AVOID"
)

// RuleScore is the outcome of one scoring rule.
type RuleScore struct {
	Name       string
	Points     int
	Passed     bool
	Commentary string
}

// SignalRecord is one row of the result table. Values keep full precision;
// rounding happens only when a record is displayed.
type SignalRecord struct {
	Ticker   string
	Price    float64
	Status   Status
	Score    int
	Entry    float64
	Target   float64
	StopLoss float64
	RSI      float64
	High52w  float64
	ATR      float64
	Rules    []RuleScore
}

// ResultTable is the ordered output of one scan.
type ResultTable struct {
	Records   []SignalRecord
	Total     int
	Skipped   int
	ScannedAt time.Time
}

// Empty reports the "no data" state: no ticker produced a record.
func (t *ResultTable) Empty() bool {
	return t == nil || len(t.Records) == 0
}

// Tickers returns the tickers of all records with the given status, in table order.
func (t *ResultTable) Tickers(status Status) []string {
	if t == nil {
		return nil
	}
	var out []string
	for _, r := range t.Records {
		if r.Status == status {
			out = append(out, r.Ticker)
		}
	}
	return out
}
