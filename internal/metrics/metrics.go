package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for TickersTotal.
const (
	OutcomeOK           = "ok"
	OutcomeFetchFailed  = "fetch_failed"
	OutcomeInsufficient = "insufficient"
	OutcomeComputation  = "computation"
	OutcomeCancelled    = "cancelled"
)

var (
	TickersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "screener_tickers_total", Help: "Tickers processed, by outcome"},
		[]string{"outcome"},
	)
	FetchSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "screener_fetch_seconds", Help: "History fetch latency", Buckets: prometheus.DefBuckets},
		[]string{"provider"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "screener_cache_lookups_total", Help: "History cache lookups"},
		[]string{"result"},
	)
	ScanSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "screener_scan_seconds", Help: "Full universe scan duration", Buckets: prometheus.ExponentialBuckets(0.5, 2, 10)},
	)
	LastScanRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "screener_last_scan_records", Help: "Records in the latest result table, by status"},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(TickersTotal, FetchSeconds, CacheLookups, ScanSeconds, LastScanRecords)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve starts a standalone /metrics listener in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
