// Copyright (c) 2026 Mindfolio. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

It is the composition root for the HTTP transport: only this package
and cmd/api import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mindfolio/mindfolio-server/internal/library/author"
	"github.com/mindfolio/mindfolio-server/internal/library/book"
	"github.com/mindfolio/mindfolio-server/internal/library/bookfile"
	"github.com/mindfolio/mindfolio-server/internal/library/note"
	"github.com/mindfolio/mindfolio-server/internal/library/quote"
	"github.com/mindfolio/mindfolio-server/internal/library/tag"
	"github.com/mindfolio/mindfolio-server/internal/platform/config"
	"github.com/mindfolio/mindfolio-server/internal/platform/constants"
	"github.com/mindfolio/mindfolio-server/internal/platform/middleware"
	"github.com/mindfolio/mindfolio-server/internal/users/auth"
)

// Server wraps the chi router and the [http.Server]. It is constructed
// once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups all domain-specific HTTP handler sets. New domains
// add a field here; nothing else in server.go changes.
type Handlers struct {
	// Liveness is the /health handler, 200 whenever the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration, login, and session refresh.
	Auth *auth.Handler

	// Book handles the library list, detail, and lifecycle writes.
	Book *book.Handler

	// BookFile handles attachment upload, viewing, and covers.
	BookFile *bookfile.Handler

	// Note handles reading notes under a book.
	Note *note.Handler

	// Quote handles quotes and the global quotes view.
	Quote *quote.Handler

	// Tag and Author serve the filter dropdowns and form suggestions.
	Tag    *tag.Handler
	Author *author.Handler
}

// NewServer constructs the chi router with the full middleware chain
// and registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// Global middleware, in execution order.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// Unauthenticated probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// Credential endpoints authenticate by cookie or password, not by
	// bearer token.
	h.Auth.RegisterRoutes(r)

	// Everything else belongs to exactly one signed-in user.
	r.Group(func(authenticated chi.Router) {
		authenticated.Use(middleware.RequireAuth)

		h.Book.RegisterRoutes(authenticated)
		h.BookFile.RegisterRoutes(authenticated)
		h.Note.RegisterRoutes(authenticated)
		h.Quote.RegisterRoutes(authenticated)
		h.Tag.RegisterRoutes(authenticated)
		h.Author.RegisterRoutes(authenticated)
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

// ListenAndServe starts the HTTP server. It blocks until the server is
// closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
