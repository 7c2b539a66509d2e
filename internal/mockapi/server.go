// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

/*
Package mockapi is a self-contained, in-memory rendition of the remote
course-review API, used for local development and end-to-end testing of the
client.

It speaks the exact wire contract the client consumes: flat auth payloads,
Spring-style page envelopes, bare JSON arrays and booleans, and the standard
error envelope. Accounts are bcrypt-hashed, sessions are HS256 JWTs, and the
catalog is seeded deterministically at startup.

Architecture:

  - Store: All state behind one mutex; no persistence.
  - TokenService: Symmetric JWT issuance and verification.
  - Server: chi router plus the middleware chain (logging, rate limiting,
    panic recovery, authentication).
*/
package mockapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// handlers groups the endpoint implementations around their shared deps.
type handlers struct {
	store  *Store
	tokens *TokenService
	log    *slog.Logger
}

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// NewServer constructs the router with the full middleware chain and all
// routes registered. ctx bounds the background work (rate limiter cleanup).
func NewServer(ctx context.Context, addr string, store *Store, tokens *TokenService, log *slog.Logger) *Server {
	h := &handlers{store: store, tokens: tokens, log: log}
	limiter := newRateLimiter(ctx)

	r := chi.NewRouter()
	r.Use(structuredLogger(log))
	r.Use(limiter.middleware)
	r.Use(panicRecovery(log))
	r.Use(authenticate(tokens))
	r.Use(chimw.CleanPath)

	// Liveness probe, outside the API prefix.
	r.Get("/health", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", h.register)
		api.Post("/auth/login", h.login)

		api.Get("/courses/search", h.searchCourses)
		api.Get("/courses/{courseID}", h.getCourse)

		api.Get("/reviews/{courseID}", h.listReviews)

		api.Group(func(private chi.Router) {
			private.Use(requireAuth)

			private.Delete("/account/me", h.deleteAccount)

			private.Get("/reviews/me", h.listMyReviews)
			private.Get("/reviews/{courseID}/has-reviewed", h.hasReviewed)
			private.Post("/reviews/{courseID}", h.createReview)
			private.Put("/reviews/{courseID}/{reviewID}", h.replaceReview)
			private.Patch("/reviews/{courseID}/{reviewID}", h.patchReview)
			private.Delete("/reviews/{courseID}/{reviewID}", h.deleteReview)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       time.Minute,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler exposes the router for in-process use (tests drive the full stack
// through httptest without binding a port).
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server. It blocks until the server is
// closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
