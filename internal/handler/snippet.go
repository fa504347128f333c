package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pastecn/pastecn/internal/auth"
	"github.com/pastecn/pastecn/internal/model"
	"github.com/pastecn/pastecn/internal/snippet"
	"github.com/pastecn/pastecn/internal/util"
)

// wwwAuthenticate tells CLI consumers how to retry a protected snippet.
const wwwAuthenticate = `Bearer realm="pastecn"`

// createSnippet handles POST /api/v1/snippets.
func (h *Handler) createSnippet(w http.ResponseWriter, r *http.Request) {
	// Bound the request body before decoding; the per-file size check
	// in the service cannot help against an oversized raw body.
	limit := h.config.Main.SizeLimit
	if limit <= 0 {
		limit = 1 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit*2)

	var in snippet.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{
				"error": map[string]string{
					"code":    model.CodeValidationError,
					"message": "request body too large",
				},
			})
			return
		}
		h.apiError(w, model.CodeValidationError, "invalid JSON body")
		return
	}

	result, err := h.svc.Create(r.Context(), in)
	if err != nil {
		var cerr *snippet.CreateError
		if errors.As(err, &cerr) {
			h.apiError(w, cerr.Code, cerr.Message)
			return
		}
		h.log.Error(r.Context(), "creating snippet", "error", err)
		h.apiError(w, model.CodeInternalError, "failed to create snippet")
		return
	}

	h.track.Track(r.Context(), "snippet_created", map[string]any{
		"snippet_id": result.ID,
		"protected":  result.Password != "",
	})

	h.writeJSON(w, http.StatusCreated, result)
}

// getSnippet handles GET /api/v1/snippets/{id}: the full snippet shape
// for programmatic consumers, bearer-gated when protected.
func (h *Handler) getSnippet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.ValidateSnippetID(id) {
		h.apiError(w, model.CodeInvalidID, model.ErrInvalidSnippetID.Error())
		return
	}

	doc, err := h.svc.Document(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrSnippetNotFound) {
			h.apiError(w, model.CodeNotFound, model.ErrSnippetNotFound.Error())
			return
		}
		h.log.Error(r.Context(), "reading snippet", "id", id, "error", err)
		h.apiError(w, model.CodeInternalError, "failed to read snippet")
		return
	}

	if doc.IsExpired(time.Now()) {
		h.apiError(w, model.CodeExpired, model.ErrSnippetExpired.Error())
		return
	}

	if doc.IsProtected() {
		switch h.auth.VerifyBearer(r, doc.PasswordHash()) {
		case auth.BearerOK:
		case auth.BearerNoHeader:
			w.Header().Set("WWW-Authenticate", wwwAuthenticate)
			h.apiError(w, model.CodeAuthRequired, "password required: pass it as a bearer token")
			return
		case auth.BearerNoHash:
			h.log.Error(r.Context(), "protected snippet has no password hash", "id", id)
			h.apiError(w, model.CodeInternalError, model.ErrNoPasswordHash.Error())
			return
		default:
			h.apiError(w, model.CodeInvalidPassword, "invalid password")
			return
		}
	}

	w.Header().Set("Cache-Control", auth.CacheControl(doc.IsProtected()))
	h.writeJSON(w, http.StatusOK, model.ToSnippet(id, doc))
}

// getSnippetMeta handles GET /api/v1/snippets/{id}/meta: the content-free
// projection. Safe without auth because it carries no file contents and
// no hash; the unlock page uses it to render the file list.
func (h *Handler) getSnippetMeta(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.ValidateSnippetID(id) {
		h.apiError(w, model.CodeInvalidID, model.ErrInvalidSnippetID.Error())
		return
	}

	doc, err := h.svc.Document(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrSnippetNotFound) {
			h.apiError(w, model.CodeNotFound, model.ErrSnippetNotFound.Error())
			return
		}
		h.log.Error(r.Context(), "reading snippet metadata", "id", id, "error", err)
		h.apiError(w, model.CodeInternalError, "failed to read snippet")
		return
	}
	if doc.IsExpired(time.Now()) {
		h.apiError(w, model.CodeExpired, model.ErrSnippetExpired.Error())
		return
	}

	w.Header().Set("Cache-Control", auth.CachePrivate)
	h.writeJSON(w, http.StatusOK, model.ToSnippetMetadata(id, doc))
}
