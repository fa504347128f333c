package auth

import (
	"net/http"
	"time"

	"github.com/pastecn/pastecn/internal/model"
)

// Access is the single outcome of an access decision. Every request
// resolves to exactly one state; all states are terminal for the request.
type Access int

const (
	// AccessNotFound - no document, or a structurally invalid one.
	// The two are never distinguished externally.
	AccessNotFound Access = iota

	// AccessExpired - the document exists and its expiresAt has passed.
	// Permanent; equivalent to gone.
	AccessExpired

	// AccessAuthRequired - protected and no credential was supplied.
	AccessAuthRequired

	// AccessAuthInvalid - protected, credential supplied, verification
	// failed.
	AccessAuthInvalid

	// AccessGranted - unprotected, or credential verification passed.
	AccessGranted
)

// Cache-Control values derived from protection. Unprotected content is
// immutable once created, so it caches forever; a protected response
// contains the secret content and must never be shared across cache
// layers or reused for a different requester, regardless of whether the
// presented credential was valid.
const (
	CacheImmutable = "public, max-age=31536000, immutable"
	CachePrivate   = "private, no-store"
)

// CacheControl returns the cache policy for a granted response.
func CacheControl(isProtected bool) string {
	if isProtected {
		return CachePrivate
	}
	return CacheImmutable
}

// Authorize decides whether a request may see a document's content.
// doc may be nil (lookup failed or structural validation failed), which
// yields AccessNotFound. A bearer header is tried first, then the
// snippet's unlock cookie; either transport verifying grants access.
func (s *Service) Authorize(r *http.Request, snippetID string, doc *model.RegistryDocument, now time.Time) Access {
	if doc == nil {
		return AccessNotFound
	}
	if doc.IsExpired(now) {
		return AccessExpired
	}
	if !doc.IsProtected() {
		return AccessGranted
	}

	supplied := false

	if password := BearerToken(r); password != "" {
		supplied = true
		if s.VerifyBearer(r, doc.PasswordHash()) == BearerOK {
			return AccessGranted
		}
	}

	if cookie, err := r.Cookie(UnlockCookieName(snippetID)); err == nil && cookie.Value != "" {
		supplied = true
		if s.VerifyUnlockSession(cookie.Value, snippetID) {
			return AccessGranted
		}
	}

	if supplied {
		return AccessAuthInvalid
	}
	return AccessAuthRequired
}
