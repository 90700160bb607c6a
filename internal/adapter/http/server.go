package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
)

// DatasetSource returns the loaded dataset, or nil while it is still loading.
type DatasetSource interface {
	Dataset() *domain.Dataset
}

// Server exposes health, readiness, metrics and dataset coverage for a
// running viewer. It is only started when HTTP_ADDR is set.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// /dataset routes. Readiness follows the view coordinator: ready once the
// dataset is rendered.
func NewServer(addr string, ready sharedobs.ReadinessChecker, data DatasetSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /dataset", s.datasetHandler(data))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("status listener starting", "addr", s.httpServer.Addr, "routes", []string{"/healthz", "/readyz", "/metrics", "/dataset"})
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("status listener stopping")
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// coverage is the /dataset response: what was loaded and how the attribute
// table lined up with the region boundaries.
type coverage struct {
	LoadedAt      time.Time      `json:"loaded_at"`
	Attributes    []string       `json:"attributes"`
	Rows          int            `json:"rows"`
	Regions       int            `json:"regions"`
	Overlays      int            `json:"overlays"`
	Landmarks     int            `json:"landmarks"`
	Matched       int            `json:"matched"`
	Unmatched     []string       `json:"unmatched"`
	Orphans       []string       `json:"orphans"`
	Duplicates    map[string]int `json:"duplicates"`
	ParseFailures int            `json:"parse_failures"`
}

func (s *Server) datasetHandler(data DatasetSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ds := data.Dataset()
		if ds == nil {
			http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
			return
		}
		rep := ds.Report
		body := coverage{
			LoadedAt:      ds.LoadedAt,
			Attributes:    ds.Table.Attributes(),
			Rows:          ds.Table.Len(),
			Regions:       ds.Regions.Len(),
			Overlays:      len(ds.Overlays),
			Landmarks:     len(ds.Landmarks),
			Matched:       len(rep.Matched),
			Unmatched:     rep.Unmatched,
			Orphans:       rep.Orphans,
			Duplicates:    rep.Duplicates,
			ParseFailures: len(rep.ParseFailures),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			s.logger.Warn("write dataset coverage", "error", err)
		}
	}
}
