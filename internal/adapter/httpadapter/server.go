// Package httpadapter serves the report API alongside health, readiness,
// and metrics endpoints.
package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/locate"
)

// ReportService is the report store surface the API needs.
type ReportService interface {
	FetchAll(ctx context.Context) ([]domain.Report, error)
	Create(ctx context.Context, draft domain.ReportDraft) (domain.Report, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the report API plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	reports    ReportService
	locator    locate.Locator
	logger     *slog.Logger
}

// NewServer wires all routes. Readiness is delegated to the report store.
func NewServer(addr string, reports ReportService, locator locate.Locator, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reports: reports,
		locator: locator,
		logger:  logger,
	}

	mux.HandleFunc("GET /api/taxonomy", s.handleTaxonomy)
	mux.HandleFunc("GET /api/reports", s.handleListReports)
	mux.HandleFunc("GET /api/reports.geojson", s.handleMarkers)
	mux.HandleFunc("POST /api/reports", s.handleCreateReport)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/geocode/search", s.handleGeocodeSearch)
	mux.HandleFunc("GET /api/geocode/reverse", s.handleGeocodeReverse)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(reports))
	mux.Handle("GET /metrics", promhttp.Handler())

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
