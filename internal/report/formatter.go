package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"TrendScreener/internal/model"
)

// NoDataMessage is shown when a scan produced no records.
const NoDataMessage = "No data found. The network may be slow or the market closed; refresh to retry."

// FormatDashboard renders the summary cards and the filtered results table.
func FormatDashboard(table *model.ResultTable, filter StatusFilter, currency string) string {
	var b strings.Builder

	scannedAt := time.Now()
	if table != nil && !table.ScannedAt.IsZero() {
		scannedAt = table.ScannedAt
	}
	b.WriteString(fmt.Sprintf("== Hybrid Stock Screener | %s ==\n\n", scannedAt.Format("2006-01-02 15:04")))

	if table.Empty() {
		b.WriteString(NoDataMessage + "\n")
		return b.String()
	}

	sum := Summarize(table)
	b.WriteString(fmt.Sprintf("[STRONG BUY] %d: %s\n", len(sum.StrongBuy), strings.Join(sum.StrongBuy, ", ")))
	b.WriteString(fmt.Sprintf("[EXIT NOW]   %d: %s\n\n", len(sum.ExitAvoid), strings.Join(sum.ExitAvoid, ", ")))

	b.WriteString(fmt.Sprintf("Scanner Results (%s)\n", filterLabel(filter)))
	b.WriteString(fmt.Sprintf("%-12s %12s  %-14s %5s %12s %12s %12s %7s %12s\n",
		"Stock", "CMP", "Status", "Score", "Entry", "Target", "Stop Loss", "RSI", "52W High"))
	b.WriteString(strings.Repeat("-", 110) + "\n")
	for _, row := range Rows(Filter(table, filter)) {
		b.WriteString(fmt.Sprintf("%-12s %12s %s%-14s %5d %12s %12s %12s %7s %12s\n",
			row.Stock,
			money(currency, row.CMP),
			marker(row.Status), row.Status,
			row.Score,
			money(currency, row.Entry),
			money(currency, row.Target),
			money(currency, row.StopLoss),
			row.RSI.StringFixed(2),
			money(currency, row.High52w),
		))
	}
	if table.Skipped > 0 {
		b.WriteString(fmt.Sprintf("\n%d of %d tickers skipped (no data or insufficient history)\n", table.Skipped, table.Total))
	}
	return b.String()
}

func money(currency string, d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}

func marker(s model.Status) string {
	switch s {
	case model.StatusStrongBuy:
		return "+"
	case model.StatusExit:
		return "!"
	default:
		return " "
	}
}

func filterLabel(f StatusFilter) string {
	switch f {
	case FilterStrongBuy:
		return "Strong Buy"
	case FilterExitAvoid:
		return "Exit/Avoid"
	default:
		return "All"
	}
}
