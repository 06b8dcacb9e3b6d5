package report

import (
	"fmt"
	"strings"

	"TrendScreener/internal/model"
)

// StatusFilter selects rows of the dashboard table.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterStrongBuy StatusFilter = "strong-buy"
	FilterExitAvoid StatusFilter = "exit"
)

// ParseStatusFilter accepts the filter names and the display labels.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "strong-buy", "strong buy", "strongbuy", "buy":
		return FilterStrongBuy, nil
	case "exit", "exit/avoid", "exit / avoid", "avoid":
		return FilterExitAvoid, nil
	default:
		return "", fmt.Errorf("unknown status filter %q", s)
	}
}

// Filter returns the records matching f, in table order.
func Filter(table *model.ResultTable, f StatusFilter) []model.SignalRecord {
	if table == nil {
		return nil
	}
	if f == FilterAll || f == "" {
		return table.Records
	}
	want := model.StatusStrongBuy
	if f == FilterExitAvoid {
		want = model.StatusExit
	}
	var out []model.SignalRecord
	for _, r := range table.Records {
		if r.Status == want {
			out = append(out, r)
		}
	}
	return out
}

// Summary holds the two headline subsets of a scan.
type Summary struct {
	StrongBuy []string `json:"strong_buy"`
	ExitAvoid []string `json:"exit_avoid"`
	Total     int      `json:"total"`
	Records   int      `json:"records"`
	Skipped   int      `json:"skipped"`
}

// Summarize splits the table into its strong-buy and exit/avoid tickers.
func Summarize(table *model.ResultTable) Summary {
	if table == nil {
		return Summary{StrongBuy: []string{}, ExitAvoid: []string{}}
	}
	s := Summary{
		StrongBuy: table.Tickers(model.StatusStrongBuy),
		ExitAvoid: table.Tickers(model.StatusExit),
		Total:     table.Total,
		Records:   len(table.Records),
		Skipped:   table.Skipped,
	}
	if s.StrongBuy == nil {
		s.StrongBuy = []string{}
	}
	if s.ExitAvoid == nil {
		s.ExitAvoid = []string{}
	}
	return s
}
