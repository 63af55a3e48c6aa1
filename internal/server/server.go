// Package server provides the HTTP dashboard and API for clusterboard.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/clusterboard/internal/assets"
	"github.com/hyperjump/clusterboard/internal/chart"
	"github.com/hyperjump/clusterboard/internal/config"
	"github.com/hyperjump/clusterboard/internal/interaction"
	"github.com/hyperjump/clusterboard/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP server for the dashboard.
type Server struct {
	table    *models.ClusterCountTable
	figure   chart.Figure
	handler  *interaction.Handler
	catalog  *assets.Catalog
	config   *config.Config
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	page     *template.Template
	server   *http.Server
}

// NewServer creates a server with the given dependencies. figure is the initial chart built
// from table and is never modified. catalog and gatherer may be nil.
func NewServer(
	table *models.ClusterCountTable,
	figure chart.Figure,
	handler *interaction.Handler,
	catalog *assets.Catalog,
	cfg *config.Config,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	return &Server{
		table:    table,
		figure:   figure,
		handler:  handler,
		catalog:  catalog,
		config:   cfg,
		gatherer: gatherer,
		logger:   logger,
		page:     dashboardTemplate,
	}
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	r.Get("/api/v1/clusters", s.handleClusters)
	r.Get("/api/v1/figure", s.handleFigure)
	r.Post("/api/v1/select", s.handleSelect)
	r.Get("/api/v1/chart.png", s.handleChartPNG)
	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{DisableCompression: true}))
	}

	// Assets are only served locally when the public prefix is a path on this server.
	if prefix := s.config.Assets.URLPrefix; strings.HasPrefix(prefix, "/") && s.catalog != nil {
		prefix = strings.TrimSuffix(prefix, "/")
		fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(s.catalog.Dir())))
		r.Handle(prefix+"/*", fs)
	}
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr), zap.Int("clusters", s.table.K()))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// requestLogger logs each request with zap after it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
