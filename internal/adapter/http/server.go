package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

// Service is the territory computation surface the API exposes.
type Service interface {
	sharedobs.ReadinessChecker
	DefaultFilter(ctx context.Context) (domain.Filter, error)
	Teams(ctx context.Context) ([]domain.Team, error)
	Territories(ctx context.Context, f domain.Filter) (domain.Territories, error)
	Histogram(ctx context.Context, f domain.Filter, school string) (domain.Histogram, error)
	Destinations(ctx context.Context, f domain.Filter, school string) (domain.Destinations, error)
	Export(ctx context.Context, f domain.Filter, school string) ([]domain.Recruit, string, error)
}

// Server exposes the territories API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        Service
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /api routes and /healthz, /readyz, and /metrics.
func NewServer(addr string, svc Service, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/teams", s.handleTeams)
	mux.HandleFunc("GET /api/territories", s.handleTerritories)
	mux.HandleFunc("GET /api/teams/{school}/histogram", s.handleHistogram)
	mux.HandleFunc("GET /api/teams/{school}/destinations", s.handleDestinations)
	mux.HandleFunc("GET /api/export", s.handleExport)

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
