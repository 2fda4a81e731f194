// Package server exposes the matchup analyzer over HTTP: a small JSON
// API, a websocket feed of completed analyses, health probes and the
// Prometheus endpoint.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/nba-edge/internal/analyzer"
	"github.com/yourusername/nba-edge/internal/config"
	"github.com/yourusername/nba-edge/internal/health"
	"github.com/yourusername/nba-edge/internal/metrics"
	"github.com/yourusername/nba-edge/internal/predictor"
	"github.com/yourusername/nba-edge/internal/storage"
)

// Server is the HTTP API service.
type Server struct {
	cfg       *config.Config
	analyzer  *analyzer.Analyzer
	predictor *predictor.Predictor
	history   storage.AnalysisRepository
	hub       *Hub
	checker   *health.Checker
	logger    *logrus.Logger

	registryNames func() []string

	httpServer *http.Server
	baseCtx    context.Context
}

// Deps bundles the server's collaborators. History may be nil when
// storage is disabled.
type Deps struct {
	Config        *config.Config
	Analyzer      *analyzer.Analyzer
	Predictor     *predictor.Predictor
	History       storage.AnalysisRepository
	Checker       *health.Checker
	RegistryNames func() []string
	Logger        *logrus.Logger
}

// New creates the API server and its dashboard hub.
func New(deps Deps) *Server {
	return &Server{
		cfg:           deps.Config,
		analyzer:      deps.Analyzer,
		predictor:     deps.Predictor,
		history:       deps.History,
		hub:           NewHub(deps.Logger),
		checker:       deps.Checker,
		registryNames: deps.RegistryNames,
		logger:        deps.Logger,
	}
}

// Hub exposes the dashboard hub so other components (the scheduler, a
// batch run) can push reports.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.cfg.IsDevelopment() {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	allowedOrigins := s.cfg.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/predict", s.handlePredict)
		r.Get("/teams", s.handleTeams)
		r.Get("/history", s.handleHistory)
		r.Get("/history/{id}", s.handleHistoryByID)
	})

	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.checker.HandleHealth)
	r.Get("/readyz", s.checker.HandleReady)

	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, metrics.Handler())
	}

	return r
}

// Start runs the hub and the HTTP server until the context is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.baseCtx = ctx
	go s.hub.Run(ctx)

	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddress(),
		Handler:      s.Router(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("API server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.checker.SetReady(true)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(s.cfg.Server.ShutdownTimeoutSeconds)*time.Second,
	)
	defer cancel()

	s.logger.Info("API server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
