// Package server wires the store, services and handlers into an HTTP server.
//
// This is the composition root: New opens the store, builds the services on
// top of its repositories and mounts the handlers. Nothing below this package
// knows about the others' concrete types.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/shader-playground/internal/config"
	"github.com/sakif/shader-playground/internal/handler"
	"github.com/sakif/shader-playground/internal/middleware"
	sqliteRepo "github.com/sakif/shader-playground/internal/repository/sqlite"
	"github.com/sakif/shader-playground/internal/service"
)

// Server owns the store; Start closes it on the way out.
type Server struct {
	router   *chi.Mux
	config   config.Config
	logger   *slog.Logger
	db       *sqliteRepo.DB
	presets  *service.PresetService
	projects *service.ProjectService
}

// New opens the database named by cfg, seeds the default presets when
// configured to, and builds the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		db:       db,
		presets:  service.NewPresetService(sqliteRepo.NewPresetRepository(db), logger),
		projects: service.NewProjectService(sqliteRepo.NewProjectRepository(db), logger),
	}

	if cfg.Database.SeedDefaults {
		if _, err := s.presets.SeedDefaults(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("seeding default presets: %w", err)
		}
	}

	s.setupRoutes()
	return s, nil
}

// setupRoutes mounts the middleware and the command API.
//
// GET    /healthz
// GET    /api/presets          list
// POST   /api/presets          create
// GET    /api/presets/{id}     get
// PUT    /api/presets/{id}     update
// DELETE /api/presets/{id}     delete
// ...and the same five routes under /api/projects.
//
// Middleware runs in the order added: RequestID must come before Logger so
// the id is in the request context when the log line is written.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	health := handler.NewHealthHandler(s.db, s.logger)
	presets := handler.NewPresetHandler(s.presets, s.logger)
	projects := handler.NewProjectHandler(s.projects, s.logger)

	s.router.Get("/healthz", health.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/presets", func(r chi.Router) {
			r.Get("/", presets.HandleList)
			r.Post("/", presets.HandleCreate)
			r.Get("/{id}", presets.HandleGetByID)
			r.Put("/{id}", presets.HandleUpdate)
			r.Delete("/{id}", presets.HandleDelete)
		})
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.HandleList)
			r.Post("/", projects.HandleCreate)
			r.Get("/{id}", projects.HandleGetByID)
			r.Put("/{id}", projects.HandleUpdate)
			r.Delete("/{id}", projects.HandleDelete)
		})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database without starting the listener.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start listens on cfg.Server.Addr until ctx is cancelled, then drains
// in-flight requests for up to cfg.Server.ShutdownTimeout and closes the
// database.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.Addr)
	if err != nil {
		s.db.Close()
		return fmt.Errorf("listening on %s: %w", s.config.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.db.Close()

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("database", s.db.Path()),
		)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down", slog.Duration("timeout", s.config.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil
	}
}
