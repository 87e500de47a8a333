// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the entire
// dependency chain is assembled in one place:
//
//	server.New() creates: sqlite.DB → repositories → services → handlers
//
// The generation provider is the one dependency constructed OUTSIDE this
// package (in main) and injected, because it talks to an external API and
// tests need to substitute a stub at exactly that seam.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/mhasan/codepilot/internal/config"
	"github.com/mhasan/codepilot/internal/handler"
	"github.com/mhasan/codepilot/internal/middleware"
	"github.com/mhasan/codepilot/internal/provider"
	sqliteRepo "github.com/mhasan/codepilot/internal/repository/sqlite"
	"github.com/mhasan/codepilot/internal/service"
)

// maxBodyBytes caps JSON request bodies at 1MB. Prompts max out at 5000
// characters, so anything near this limit is garbage anyway.
const maxBodyBytes = 1 << 20

// rateLimitedBody is the fixed JSON message returned when a client exceeds the
// generate rate limit.
const rateLimitedBody = `{"error":"Too many requests, please try again later."}`

// Server owns the HTTP router and the database connection. The DB is closed
// during graceful shutdown in Start().
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with all dependencies wired.
//
// IMPORT ALIAS: repository/sqlite is imported as sqliteRepo to avoid
// confusion with the sqlite driver package.
func New(cfg *config.Config, logger *slog.Logger, gen provider.Generator) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(gen)

	return s, nil
}

// Handler exposes the configured router, primarily for tests that drive the
// full middleware stack through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /health       → liveness + uptime
//	POST /api/seed     → find-or-create the demo user
//	POST /api/generate → prompt → Gemini → sanitized code → stored record (rate limited)
//	GET  /api/history  → paginated generations for a user
//
// MIDDLEWARE ORDER MATTERS: RequestID and RealIP run first so the logger and
// the per-IP rate limiter see the right values; Recoverer wraps everything so
// a panic becomes a 500 instead of a crash.
func (s *Server) setupRoutes(gen provider.Generator) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Browser-facing hardening, same posture the frontend already expects:
	// a strict origin allow-list with credentials, secure response headers,
	// and a hard cap on request body size.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
	}).Handler)
	s.router.Use(chimiddleware.RequestSize(maxBodyBytes))

	// Wire the dependency chain. Handlers never touch the database; services
	// never touch HTTP.
	userSvc := service.NewUserService(s.db.Users(), s.logger)
	genSvc := service.NewGenerationService(s.db.Generations(), gen, s.logger)

	dev := s.config.Development()
	healthHandler := handler.NewHealthHandler()
	userHandler := handler.NewUserHandler(userSvc, s.logger, dev)
	genHandler := handler.NewGenerationHandler(genSvc, s.logger, dev)

	s.router.Get("/health", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/seed", userHandler.HandleSeed)
		r.Get("/history", genHandler.HandleHistory)

		// Only the generate endpoint is rate limited — it is the one that
		// spends provider quota. The limiter keys on client IP (RealIP above)
		// with a sliding window, and rejected requests never reach
		// validation, so they cannot touch storage.
		r.With(httprate.Limit(
			s.config.RateLimitRequests,
			s.config.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(rateLimitedBody))
			}),
		)).Post("/generate", genHandler.HandleGenerate)
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30 seconds to finish,
// and close the database last so pending WAL writes are flushed.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("env", s.config.Env),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
