package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/temperature-dashboard/internal/dashboard"
	"github.com/couchcryptid/temperature-dashboard/internal/domain"
	"github.com/couchcryptid/temperature-dashboard/internal/observability"
)

// BarRenderer draws bar series as an image.
type BarRenderer interface {
	Render(w io.Writer, series []domain.BarSeries) error
}

// Exporter writes a selection as a downloadable workbook.
type Exporter interface {
	Export(w io.Writer, records []domain.TidyRecord, series []domain.BarSeries) error
}

// Deps are the collaborators the HTTP server routes to.
type Deps struct {
	Ready     sharedobs.ReadinessChecker
	Dashboard *dashboard.Dashboard
	Renderer  BarRenderer
	Exporter  Exporter
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

// Server exposes the dashboard page, its JSON API, and the health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       *dashboard.Dashboard
	renderer   BarRenderer
	exporter   Exporter
	metrics    *observability.Metrics
	logger     *slog.Logger

	// closed on shutdown so long-lived streams let the server drain
	closing   chan struct{}
	closeOnce sync.Once
}

// NewServer creates an HTTP server with the dashboard and operational routes.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      accessLog(deps.Logger)(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:     deps.Dashboard,
		renderer: deps.Renderer,
		exporter: deps.Exporter,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		closing:  make(chan struct{}),
	}
	s.httpServer.RegisterOnShutdown(s.closeStreams)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/bar-chart", s.handleBarChartQuery)
	mux.HandleFunc("POST /api/bar-chart", s.handleBarChartBody)
	mux.HandleFunc("GET /api/bar-chart.png", s.handleBarChartPNG)
	mux.HandleFunc("GET /api/export.xlsx", s.handleExport)
	mux.HandleFunc("GET /api/choropleth", s.handleChoropleth)
	mux.HandleFunc("GET /api/countdown", s.handleCountdown)
	mux.HandleFunc("GET /api/countdown/stream", s.handleCountdownStream)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Ready))
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

func (s *Server) closeStreams() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
