package report

import (
	"github.com/shopspring/decimal"

	"TrendScreener/internal/model"
)

// Row is the display copy of a SignalRecord: price-like fields rounded half
// away from zero to two places.
type Row struct {
	Stock    string          `json:"stock"`
	CMP      decimal.Decimal `json:"cmp"`
	Status   model.Status    `json:"status"`
	Score    int             `json:"score"`
	Entry    decimal.Decimal `json:"entry"`
	Target   decimal.Decimal `json:"target"`
	StopLoss decimal.Decimal `json:"stop_loss"`
	RSI      decimal.Decimal `json:"rsi"`
	High52w  decimal.Decimal `json:"high_52w"`
}

// Round2 rounds v half away from zero to two decimal places.
func Round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Display builds the rounded row for r. r is not modified.
func Display(r model.SignalRecord) Row {
	return Row{
		Stock:    r.Ticker,
		CMP:      Round2(r.Price),
		Status:   r.Status,
		Score:    r.Score,
		Entry:    Round2(r.Entry),
		Target:   Round2(r.Target),
		StopLoss: Round2(r.StopLoss),
		RSI:      Round2(r.RSI),
		High52w:  Round2(r.High52w),
	}
}

func Rows(records []model.SignalRecord) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Display(r)
	}
	return rows
}
