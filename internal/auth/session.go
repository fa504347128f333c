package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// unlockPurpose is the claim value binding a session token to the unlock
// flow so tokens minted for other purposes can never grant access.
const unlockPurpose = "unlock"

// unlockClaims binds an unlock session to one snippet. Validity is
// entirely a function of signature and expiry; there is no server-side
// session table, so revocation before natural expiry is not possible.
type unlockClaims struct {
	jwt.RegisteredClaims
	SnippetID string `json:"snippetId"`
	Purpose   string `json:"purpose"`
}

// CreateUnlockSession issues a signed, time-boxed token after a
// successful interactive password check.
func (s *Service) CreateUnlockSession(snippetID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, unlockClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
		SnippetID: snippetID,
		Purpose:   unlockPurpose,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing unlock session: %w", err)
	}
	return signed, nil
}

// VerifyUnlockSession checks a session token's signature, expiry, and
// claim binding. Any verification failure - bad signature, expired token,
// wrong snippet, wrong purpose - returns false; it never returns an error
// to the caller.
func (s *Service) VerifyUnlockSession(token, snippetID string) bool {
	claims := &unlockClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return false
	}

	return claims.SnippetID == snippetID && claims.Purpose == unlockPurpose
}

// UnlockCookieName returns the cookie name for a snippet's unlock
// session. The name is deterministic per snippet so one snippet's cookie
// can never grant access to another, and multiple unlocked snippets
// coexist in one browser.
func UnlockCookieName(snippetID string) string {
	return "unlock_" + snippetID
}
