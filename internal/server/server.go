// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: New receives an opened store and
// builds services, handlers and routes from it. OpenStore picks the
// backend from configuration so main and the tests share the same wiring.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/blog-api/internal/config"
	"github.com/sakif/blog-api/internal/handler"
	"github.com/sakif/blog-api/internal/middleware"
	"github.com/sakif/blog-api/internal/repository"
	"github.com/sakif/blog-api/internal/repository/postgres"
	sqliteRepo "github.com/sakif/blog-api/internal/repository/sqlite"
	"github.com/sakif/blog-api/internal/service"
)

// Server represents the HTTP server and all its dependencies. It owns the
// store and closes it on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  repository.Store
}

// OpenStore opens the backend named by cfg.DBDriver.
func OpenStore(cfg config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverPostgres:
		db, err := postgres.New(postgres.Config{
			DSN:         cfg.DatabaseURL,
			ReplicaDSNs: cfg.ReplicaURLs,
			MaxOpen:     cfg.DBMaxOpenConns,
			MaxIdle:     cfg.DBMaxIdleConns,
		}, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
}

// New wires services, handlers and routes on top of store.
func New(cfg config.Config, store repository.Store, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	s.setupRoutes()
	return s
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTES:
// GET                    /               (links to the three collections)
// GET/POST               /topics
// GET                    /topics/top
// GET/PUT/PATCH/DELETE   /topics/{id}
// GET                    /topics/{id}/blogs
// GET/POST               /blogs
// GET/PUT/PATCH/DELETE   /blogs/{id}
// GET                    /blogs/{id}/comments
// GET/POST               /comments
// GET/PUT/PATCH/DELETE   /comments/{id}
//
// Middleware executes in the order it's added: the request id must exist
// before the logger reads it, and Recoverer sits inside the logger so a
// recovered panic is still logged as a 500.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeRouteError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeRouteError(w, http.StatusMethodNotAllowed, "method_not_allowed",
			r.Method+" is not allowed on "+r.URL.Path)
	})

	topicService := service.NewTopicService(s.store.Topics(), s.store.Blogs(), s.logger)
	blogService := service.NewBlogService(s.store.Blogs(), s.store.Comments(), s.logger)
	commentService := service.NewCommentService(s.store.Comments(), s.logger)

	topics := handler.NewTopicHandler(topicService, s.logger)
	blogs := handler.NewBlogHandler(blogService, s.logger)
	comments := handler.NewCommentHandler(commentService, s.logger)

	// Flat patterns only: trailing-slash forms such as /topics/ are 404.
	r := s.router
	r.Get("/", handler.HandleAPIRoot)

	r.Get("/topics", topics.HandleList)
	r.Post("/topics", topics.HandleCreate)
	r.Get("/topics/top", topics.HandleTop)
	r.Get("/topics/{id}", topics.HandleGet)
	r.Put("/topics/{id}", topics.HandleUpdate)
	r.Patch("/topics/{id}", topics.HandlePatch)
	r.Delete("/topics/{id}", topics.HandleDelete)
	r.Get("/topics/{id}/blogs", topics.HandleBlogs)

	r.Get("/blogs", blogs.HandleList)
	r.Post("/blogs", blogs.HandleCreate)
	r.Get("/blogs/{id}", blogs.HandleGet)
	r.Put("/blogs/{id}", blogs.HandleUpdate)
	r.Patch("/blogs/{id}", blogs.HandlePatch)
	r.Delete("/blogs/{id}", blogs.HandleDelete)
	r.Get("/blogs/{id}/comments", blogs.HandleComments)

	r.Get("/comments", comments.HandleList)
	r.Post("/comments", comments.HandleCreate)
	r.Get("/comments/{id}", comments.HandleGet)
	r.Put("/comments/{id}", comments.HandleUpdate)
	r.Patch("/comments/{id}", comments.HandlePatch)
	r.Delete("/comments/{id}", comments.HandleDelete)
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully:
//  1. stop accepting new connections
//  2. wait up to ShutdownTimeout for in-flight requests
//  3. close the store
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("driver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// writeRouteError answers unknown routes with the API's JSON error shape.
func writeRouteError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(handler.ErrorResponse{Error: errorType, Message: message})
}

