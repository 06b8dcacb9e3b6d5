package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"TrendScreener/internal/metrics"
	"TrendScreener/internal/model"
	"TrendScreener/internal/report"
	"TrendScreener/internal/scheduler"
)

// Source is what the API reads scan results from.
type Source interface {
	Latest() *model.ResultTable
	Progress() scheduler.Progress
	TryRunNow() bool
}

// Server serves the latest scan over HTTP.
type Server struct {
	Source   Source
	Currency string
	APIKey   string
	Logger   zerolog.Logger
}

func NewServer(src Source, currency, apiKey string, logger zerolog.Logger) *Server {
	return &Server{Source: src, Currency: currency, APIKey: apiKey, Logger: logger}
}

// Router builds the chi router. Everything under /api sits behind the
// X-API-Key gate when a key is configured.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.HandleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(APIKeyMiddleware(s.APIKey))
		r.Get("/signals", s.HandleSignals)
		r.Get("/summary", s.HandleSummary)
		r.Get("/progress", s.HandleProgress)
		r.Get("/dashboard", s.HandleDashboard)
		r.Post("/scan", s.HandleScan)
	})
	return r
}

// APIKeyMiddleware rejects requests whose X-API-Key header does not match
// key. An empty key disables the check.
func APIKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			got := r.Header.Get("X-API-Key")
			if got == "" {
				writeError(w, http.StatusUnauthorized, "Missing X-API-Key header")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type signalsResponse struct {
	Status    report.StatusFilter `json:"status"`
	ScannedAt time.Time           `json:"scanned_at"`
	Total     int                 `json:"total"`
	Skipped   int                 `json:"skipped"`
	Rows      []report.Row        `json:"rows"`
	Message   string              `json:"message,omitempty"`
}

func (s *Server) HandleSignals(w http.ResponseWriter, r *http.Request) {
	filter, err := report.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	table, ok := s.latest(w)
	if !ok {
		return
	}

	resp := signalsResponse{
		Status:    filter,
		ScannedAt: table.ScannedAt,
		Total:     table.Total,
		Skipped:   table.Skipped,
		Rows:      report.Rows(report.Filter(table, filter)),
	}
	if table.Empty() {
		resp.Message = report.NoDataMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) HandleSummary(w http.ResponseWriter, r *http.Request) {
	table, ok := s.latest(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.Summarize(table))
}

func (s *Server) HandleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Source.Progress())
}

func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := report.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	table, ok := s.latest(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.FormatDashboard(table, filter, s.Currency)))
}

// HandleScan starts a rescan in the background. A scan already in flight
// is not doubled up.
func (s *Server) HandleScan(w http.ResponseWriter, r *http.Request) {
	if !s.Source.TryRunNow() {
		writeJSON(w, http.StatusAccepted, map[string]any{"started": false, "progress": s.Source.Progress()})
		return
	}
	s.Logger.Info().Str("request_id", middleware.GetReqID(r.Context())).Msg("rescan requested")
	writeJSON(w, http.StatusAccepted, map[string]any{"started": true})
}

func (s *Server) latest(w http.ResponseWriter) (*model.ResultTable, bool) {
	table := s.Source.Latest()
	if table == nil {
		writeError(w, http.StatusServiceUnavailable, "First scan has not completed yet")
		return nil, false
	}
	return table, true
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
