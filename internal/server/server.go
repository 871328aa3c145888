// Package server is the composition root: it opens the configured store,
// builds services and handlers, and mounts them on a chi router.
//
// DEPENDENCY FLOW:
//
//	config.Config → store (filestore | sqlite) → AccountService / FeedbackService
//	              → AuthHandler / FeedbackHandler → chi routes
//
// Handlers only see services; services only see repository interfaces.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sehyaatri/sehyaatri/internal/auth"
	"github.com/sehyaatri/sehyaatri/internal/config"
	"github.com/sehyaatri/sehyaatri/internal/handler"
	"github.com/sehyaatri/sehyaatri/internal/metrics"
	"github.com/sehyaatri/sehyaatri/internal/middleware"
	"github.com/sehyaatri/sehyaatri/internal/repository"
	"github.com/sehyaatri/sehyaatri/internal/repository/filestore"
	sqliteRepo "github.com/sehyaatri/sehyaatri/internal/repository/sqlite"
	"github.com/sehyaatri/sehyaatri/internal/service"
)

// Server owns the router and the open store. The store is closed when Start
// returns or Close is called.
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	store   io.Closer

	accounts repository.AccountRepository
	feedback repository.FeedbackRepository
	tokens   *auth.TokenService
}

// New opens the store named by cfg.StoreDriver and wires every route.
// A store that can't be opened (unwritable directory, corrupt file) is an
// error; the caller should treat it as fatal.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
		tokens:  tokens,
	}

	if err := s.openStore(); err != nil {
		return nil, err
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) openStore() error {
	switch s.config.StoreDriver {
	case config.DriverSQLite:
		if dir := filepath.Dir(s.config.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		db, err := sqliteRepo.New(s.config.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		s.metrics.WatchDB(db.SQL(), "sehyaatri")
		s.store, s.accounts, s.feedback = db, db.Accounts(), db.Feedback()

	default:
		fs, err := filestore.New(s.config.DataDir)
		if err != nil {
			return fmt.Errorf("opening data directory: %w", err)
		}
		s.store, s.accounts, s.feedback = fs, fs.Accounts(), fs.Feedback()
	}
	return nil
}

// setupRoutes mounts middleware and routes.
//
//	GET  /healthz            → liveness
//	GET  /metrics            → Prometheus
//	POST /api/auth/signup    → create owner account, {token}
//	POST /api/auth/login     → {token}
//	POST /api/feedback       → anonymous submission, {ok:true}
//	GET  /api/feedback       → owner listing (bearer token required)
//
// Middleware order: request id first so the logger can see it; CORS before
// routing so preflights never hit a 405.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS)
	s.router.Use(s.metrics.Instrument)

	passwords := auth.NewPasswordServiceWithCost(s.config.BcryptCost)
	accountService := service.NewAccountService(s.accounts, s.tokens, passwords, s.logger)
	feedbackService := service.NewFeedbackService(s.feedback, s.logger)

	authHandler := handler.NewAuthHandler(accountService, s.metrics, s.logger)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, s.metrics, s.logger)

	s.router.Get("/healthz", handler.HandleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Post("/feedback", feedbackHandler.HandleSubmit)
		r.With(auth.RequireBearer(s.tokens)).Get("/feedback", feedbackHandler.HandleList)
	})
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler { return s.router }

// Close releases the store.
func (s *Server) Close() error { return s.store.Close() }

// Start listens on the configured port and blocks until SIGINT/SIGTERM or
// a listener failure.
//
// GRACEFUL SHUTDOWN:
//  1. stop accepting connections
//  2. give in-flight requests 30s to finish
//  3. close the store (deferred, so it runs on every exit path)
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.config.StoreDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
