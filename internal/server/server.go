// Package server provides the HTTP API for Eiga.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/engine"
	"github.com/hyperjump/eiga/internal/ingest"
	"github.com/hyperjump/eiga/internal/metrics"
	"github.com/hyperjump/eiga/internal/store"
	"github.com/hyperjump/eiga/internal/titleindex"
)

// Server is the HTTP server for the Eiga API.
type Server struct {
	engine   *engine.Engine
	store    store.Store
	titles   *titleindex.TitleIndex
	ingestor *ingest.Ingestor
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies. ingestor may be
// nil; the ingest endpoint then responds 501.
func NewServer(
	eng *engine.Engine,
	st store.Store,
	titles *titleindex.TitleIndex,
	ingestor *ingest.Ingestor,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:   eng,
		store:    st,
		titles:   titles,
		ingestor: ingestor,
		config:   cfg,
		logger:   logger,
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware())

	r.Post("/api/v1/query/parse", s.handleParse)
	r.Post("/api/v1/query/execute", s.handleExecute)
	r.Post("/api/v1/answer", s.handleAnswer)
	r.Post("/api/v1/ingest", s.handleIngest)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
