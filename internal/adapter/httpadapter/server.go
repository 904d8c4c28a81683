package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/couchcryptid/recruit-map-etl/internal/pipeline"
	"github.com/couchcryptid/recruit-map-etl/internal/session"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingester builds a dataset from one upload batch.
type Ingester interface {
	Ingest(ctx context.Context, batchID string, uploads []pipeline.Upload) (domain.Dataset, error)
}

// Options tunes the dashboard API.
type Options struct {
	MapCenter         domain.Geo
	ClusterResolution int
	MaxUploadBytes    int64
}

// Server exposes the dashboard page and API plus health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	ingester   Ingester
	sessions   *session.Store
	opts       Options
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard, upload, and session
// routes alongside /healthz, /readyz, and /metrics.
func NewServer(addr string, ready sharedobs.ReadinessChecker, ingester Ingester, sessions *session.Store, opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		ingester: ingester,
		sessions: sessions,
		opts:     opts,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /api/uploads", s.handleUpload)
	mux.HandleFunc("GET /api/sessions/{id}/regions", s.handleRegions)
	mux.HandleFunc("GET /api/sessions/{id}/summary", s.handleSummary)
	mux.HandleFunc("GET /api/sessions/{id}/markers", s.handleMarkers)
	mux.HandleFunc("GET /api/sessions/{id}/roster", s.handleRoster)
	mux.HandleFunc("GET /api/sessions/{id}/export", s.handleExport)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
