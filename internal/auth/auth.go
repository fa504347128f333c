// Package auth provides snippet access control: bearer-token verification
// for API and CLI clients, signed unlock sessions for browser flows, and
// the per-request access decision.
//
// Both credential transports verify against the same stored bcrypt hash -
// there is exactly one source of truth for "is this the right password";
// the bearer header and the unlock cookie are thin adapters on top of it.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/pastecn/pastecn/internal/util"
)

// BearerStatus is the outcome of bearer-token verification.
type BearerStatus int

const (
	// BearerOK - the supplied password matches the stored hash.
	BearerOK BearerStatus = iota

	// BearerNoHeader - no Authorization: Bearer header was supplied.
	BearerNoHeader

	// BearerNoHash - the snippet is marked protected but carries no
	// stored hash. An internal-consistency fault: the caller did
	// nothing wrong, so this maps to a server error, never to
	// "invalid password".
	BearerNoHash

	// BearerInvalid - a password was supplied and does not match.
	BearerInvalid
)

// Service verifies snippet credentials and issues unlock sessions.
type Service struct {
	secret     []byte
	sessionTTL time.Duration
}

// New creates an auth service. secret signs unlock-session tokens;
// sessionTTL bounds how long a successful unlock stays valid.
func New(secret []byte, sessionTTL time.Duration) *Service {
	return &Service{secret: secret, sessionTTL: sessionTTL}
}

// SessionTTL returns the unlock-session lifetime, used for cookie expiry.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// BearerToken extracts the credential from an Authorization: Bearer
// header, or "" when absent.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}

// VerifyBearer checks the request's bearer credential against a snippet's
// stored password hash.
func (s *Service) VerifyBearer(r *http.Request, hash string) BearerStatus {
	password := BearerToken(r)
	if password == "" {
		return BearerNoHeader
	}
	if hash == "" {
		return BearerNoHash
	}
	if !util.VerifyPassword(password, hash) {
		return BearerInvalid
	}
	return BearerOK
}
