// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/taibuivan/cinema/internal/core/movie"
	"github.com/taibuivan/cinema/internal/platform/config"
	"github.com/taibuivan/cinema/internal/platform/constants"
	"github.com/taibuivan/cinema/internal/platform/metrics"
	"github.com/taibuivan/cinema/internal/platform/middleware"
	"github.com/taibuivan/cinema/internal/users/account"
	"github.com/taibuivan/cinema/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. Always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. 200 only when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration, login and self-service account routes.
	Auth *auth.Handler

	// Account handles admin account management.
	Account *account.Handler

	// Movie handles the movie and genre catalogue.
	Movie *movie.Handler
}

// Security groups the request authentication collaborators.
type Security struct {
	Decoder  middleware.TokenDecoder
	Resolver middleware.IdentityResolver
	Limiter  *middleware.RateLimiter
}

// Observability groups the metrics sinks.
type Observability struct {
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, security Security, observability Observability, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log, observability.Metrics))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	if security.Limiter != nil {
		r.Use(security.Limiter.Handler)
	}
	r.Use(middleware.Authenticate(security.Decoder, security.Resolver, observability.Metrics))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration.
	if h.Liveness != nil {
		r.Get("/health", h.Liveness)
	}
	if h.Readiness != nil {
		r.Get("/ready", h.Readiness)
	}
	if observability.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(observability.Gatherer))
	}

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		if h.Auth != nil {
			api.Mount("/auth", h.Auth.Routes())
		}
		if h.Account != nil {
			api.Mount("/admin", h.Account.Routes())
		}
		if h.Movie != nil {
			api.Mount("/movies", h.Movie.Routes())
			api.Mount("/genres", h.Movie.GenreRoutes())
		}
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
