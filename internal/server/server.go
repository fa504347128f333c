// Package server provides the HTTP server for pastecn. It wires the
// snippet service, auth, rate limiting, and analytics behind a chi
// router with the standard middleware stack.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pastecn/pastecn/internal/analytics"
	"github.com/pastecn/pastecn/internal/auth"
	"github.com/pastecn/pastecn/internal/config"
	"github.com/pastecn/pastecn/internal/handler"
	"github.com/pastecn/pastecn/internal/logging"
	"github.com/pastecn/pastecn/internal/middleware"
	"github.com/pastecn/pastecn/internal/ratelimit"
	"github.com/pastecn/pastecn/internal/snippet"
	"github.com/pastecn/pastecn/internal/storage"
)

// Server wraps the HTTP server with pastecn configuration.
type Server struct {
	httpServer *http.Server
	config     *config.Config
	store      storage.Storage
}

// New creates a pastecn HTTP server over the given storage backend.
func New(cfg *config.Config, store storage.Storage, log logging.Logger) (*Server, error) {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders())

	authSvc := auth.New([]byte(cfg.Session.Secret), cfg.Session.Duration)

	var gate ratelimit.Gate = ratelimit.AllowAll{}
	if cfg.Traffic.UnlockLimit > 0 {
		gate = ratelimit.NewMemory(cfg.Traffic.UnlockLimit, cfg.Traffic.UnlockWindow)
	}

	svc := snippet.New(store, cfg, log)
	h := handler.New(cfg, svc, authSvc, gate, analytics.NewLog(log), log)

	r.Mount("/", h.Routes())

	addr := fmt.Sprintf("%s:%d", cfg.Main.Host, cfg.Main.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		config:     cfg,
		store:      store,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the server's address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
