// Package handler provides the HTTP surface: the versioned snippet API,
// the registry endpoint consumed by the shadcn CLI, and the browser
// unlock flow for password-protected snippets.
package handler

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pastecn/pastecn/internal/analytics"
	"github.com/pastecn/pastecn/internal/auth"
	"github.com/pastecn/pastecn/internal/config"
	"github.com/pastecn/pastecn/internal/logging"
	"github.com/pastecn/pastecn/internal/model"
	"github.com/pastecn/pastecn/internal/ratelimit"
	"github.com/pastecn/pastecn/internal/snippet"
)

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	config *config.Config
	svc    *snippet.Service
	auth   *auth.Service
	gate   ratelimit.Gate
	track  analytics.Tracker
	log    logging.Logger
}

// New creates a Handler with the given collaborators.
func New(cfg *config.Config, svc *snippet.Service, authSvc *auth.Service, gate ratelimit.Gate, track analytics.Tracker, log logging.Logger) *Handler {
	return &Handler{
		config: cfg,
		svc:    svc,
		auth:   authSvc,
		gate:   gate,
		track:  track,
		log:    log,
	}
}

// Routes returns the chi router with all API routes configured.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.healthCheck)

	r.Route("/api/v1/snippets", func(r chi.Router) {
		r.Post("/", h.createSnippet)
		r.Get("/{id}", h.getSnippet)
		r.Get("/{id}/meta", h.getSnippetMeta)
	})

	r.Route("/api/snippets/{id}", func(r chi.Router) {
		r.Post("/unlock", h.unlockSnippet)
		r.Get("/content", h.getContent)
	})

	r.Get("/r/{id}", h.getRegistry)

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": h.config.Main.Name,
	})
}

// writeJSON sends v as a JSON response body.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error(context.Background(), "writing response", "error", err)
	}
}

// apiError sends the uniform error envelope {error: {code, message}}.
func (h *Handler) apiError(w http.ResponseWriter, code, message string) {
	h.writeJSON(w, model.HTTPStatus(code), map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// clientIP extracts the caller's address for rate-limit keying. The
// leftmost X-Forwarded-For entry wins behind a proxy; otherwise the
// connection's remote address with the port stripped.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx != -1 {
			fwd = fwd[:idx]
		}
		return strings.TrimSpace(fwd)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
