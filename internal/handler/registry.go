package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pastecn/pastecn/internal/auth"
	"github.com/pastecn/pastecn/internal/model"
	"github.com/pastecn/pastecn/internal/util"
)

// getRegistry handles GET /r/{id}, the endpoint the shadcn CLI fetches.
// A trailing .json is accepted so the URL works both bare and as pasted
// from a registry file. Missing, expired, and corrupt documents are all
// reported as NOT_FOUND; the distinction is never observable here.
func (h *Handler) getRegistry(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(chi.URLParam(r, "id"), ".json")
	if !util.ValidateSnippetID(id) {
		h.apiError(w, model.CodeNotFound, model.ErrSnippetNotFound.Error())
		return
	}

	doc, err := h.svc.Document(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrSnippetNotFound) {
			h.apiError(w, model.CodeNotFound, model.ErrSnippetNotFound.Error())
			return
		}
		h.log.Error(r.Context(), "reading registry document", "id", id, "error", err)
		h.apiError(w, model.CodeInternalError, "failed to read snippet")
		return
	}

	switch h.auth.Authorize(r, id, doc, time.Now()) {
	case auth.AccessGranted:
	case auth.AccessNotFound, auth.AccessExpired:
		h.apiError(w, model.CodeNotFound, model.ErrSnippetNotFound.Error())
		return
	case auth.AccessAuthRequired:
		w.Header().Set("WWW-Authenticate", wwwAuthenticate)
		h.apiError(w, model.CodeAuthRequired, "password required: pass it as a bearer token")
		return
	default:
		h.apiError(w, model.CodeInvalidPassword, "invalid password")
		return
	}

	h.track.Track(r.Context(), "registry_fetched", map[string]any{
		"snippet_id": id,
		"protected":  doc.IsProtected(),
	})

	w.Header().Set("Cache-Control", auth.CacheControl(doc.IsProtected()))
	h.writeJSON(w, http.StatusOK, doc.ClientRegistry())
}
