package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pastecn/pastecn/internal/auth"
	"github.com/pastecn/pastecn/internal/model"
	"github.com/pastecn/pastecn/internal/util"
)

// unlockSnippet handles POST /api/snippets/{id}/unlock, the browser
// counterpart to bearer auth: verify the password once, then hand back
// an unlock-session cookie scoped to this snippet.
func (h *Handler) unlockSnippet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.ValidateSnippetID(id) {
		h.apiError(w, model.CodeNotFound, model.ErrSnippetNotFound.Error())
		return
	}

	limited, err := h.gate.Check(r.Context(), id+":"+clientIP(r))
	if err != nil {
		h.log.Error(r.Context(), "rate limit check failed", "id", id, "error", err)
	}
	if limited {
		w.Header().Set("Retry-After", strconv.Itoa(int(h.config.Traffic.UnlockWindow.Seconds())))
		h.apiError(w, model.CodeRateLimited, model.ErrRateLimited.Error())
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password == "" {
		h.apiError(w, model.CodeValidationError, "password is required")
		return
	}

	doc, err := h.svc.Document(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrSnippetNotFound) {
			h.apiError(w, model.CodeNotFound, model.ErrSnippetNotFound.Error())
			return
		}
		h.log.Error(r.Context(), "reading snippet for unlock", "id", id, "error", err)
		h.apiError(w, model.CodeInternalError, "failed to read snippet")
		return
	}
	// Expired and unprotected snippets have nothing to unlock.
	if doc.IsExpired(time.Now()) || !doc.IsProtected() {
		h.apiError(w, model.CodeNotFound, model.ErrSnippetNotFound.Error())
		return
	}

	if !util.VerifyPassword(body.Password, doc.PasswordHash()) {
		h.track.Track(r.Context(), "unlock_failed", map[string]any{"snippet_id": id})
		h.apiError(w, model.CodeInvalidPassword, "invalid password")
		return
	}

	token, err := h.auth.CreateUnlockSession(id)
	if err != nil {
		h.log.Error(r.Context(), "creating unlock session", "id", id, "error", err)
		h.apiError(w, model.CodeInternalError, "failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.UnlockCookieName(id),
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.auth.SessionTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.track.Track(r.Context(), "snippet_unlocked", map[string]any{"snippet_id": id})
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// getContent handles GET /api/snippets/{id}/content: file contents for
// a protected snippet, gated on the unlock-session cookie.
func (h *Handler) getContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
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
		h.log.Error(r.Context(), "reading snippet content", "id", id, "error", err)
		h.apiError(w, model.CodeInternalError, "failed to read snippet")
		return
	}
	if doc.IsExpired(time.Now()) {
		h.apiError(w, model.CodeNotFound, model.ErrSnippetNotFound.Error())
		return
	}

	if doc.IsProtected() {
		cookie, err := r.Cookie(auth.UnlockCookieName(id))
		if err != nil || !h.auth.VerifyUnlockSession(cookie.Value, id) {
			h.apiError(w, model.CodeAuthRequired, "unlock session required")
			return
		}
	}

	type fileContent struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	content := make([]fileContent, 0, len(doc.Files))
	for _, f := range doc.Files {
		content = append(content, fileContent{Path: f.Path, Content: f.Content})
	}

	w.Header().Set("Cache-Control", auth.CachePrivate)
	h.writeJSON(w, http.StatusOK, map[string]any{"content": content})
}
