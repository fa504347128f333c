// Package model defines domain models and errors for pastecn.
// This package contains the registry wire format, the Snippet projections,
// and the error taxonomy used throughout the application.
package model

import "errors"

// Domain-specific errors for snippet operations. These allow handlers to
// map failures to the appropriate HTTP status and stable API error code.
var (
	// ErrSnippetNotFound is returned when no document exists at an ID,
	// or when the stored document fails structural validation. The two
	// cases are deliberately indistinguishable to external callers.
	ErrSnippetNotFound = errors.New("snippet not found")

	// ErrSnippetExpired is returned when a snippet's expiresAt has passed.
	// A designed terminal state, not a server fault.
	ErrSnippetExpired = errors.New("snippet has expired")

	// ErrSnippetExists is returned by the storage layer when a
	// create-if-absent write finds the key already taken.
	ErrSnippetExists = errors.New("snippet already exists")

	// ErrInvalidSnippetID is returned when an ID fails shape validation.
	ErrInvalidSnippetID = errors.New("invalid snippet ID format")

	// ErrInvalidPath is returned when a file path or target fails
	// path-safety validation.
	ErrInvalidPath = errors.New("invalid file path")

	// ErrIDCollision is returned when snippet creation exhausts its
	// bounded ID retries. Repeated collision in a 64^8 space is a signal
	// of a deeper problem, so it surfaces instead of retrying forever.
	ErrIDCollision = errors.New("snippet ID collision after retries")

	// ErrNoPasswordHash indicates a protected snippet with no stored
	// hash: an internal-consistency fault, never the caller's mistake.
	ErrNoPasswordHash = errors.New("protected snippet has no password hash")

	// ErrRateLimited is returned when a client exceeds the unlock
	// attempt limit.
	ErrRateLimited = errors.New("rate limit exceeded, please try again later")

	// ErrStorageFailure wraps transport faults talking to the object
	// store. Never conflated with not-found; that would hide outages
	// behind a misleading 404.
	ErrStorageFailure = errors.New("storage operation failed")
)

// Stable machine-readable API error codes. These are part of the external
// contract and must not change.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidID       = "INVALID_ID"
	CodeAuthRequired    = "AUTH_REQUIRED"
	CodeInvalidPassword = "INVALID_PASSWORD"
	CodeNotFound        = "NOT_FOUND"
	CodeExpired         = "EXPIRED"
	CodeIDCollision     = "ID_COLLISION"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// HTTPStatus maps an API error code to its HTTP status. EXPIRED maps to
// 404 rather than 410 so an external caller cannot distinguish expired
// from never-existed.
func HTTPStatus(code string) int {
	switch code {
	case CodeValidationError, CodeInvalidID:
		return 400
	case CodeAuthRequired, CodeInvalidPassword:
		return 401
	case CodeNotFound, CodeExpired:
		return 404
	case CodeIDCollision:
		return 409
	case CodeRateLimited:
		return 429
	default:
		return 500
	}
}

// IsNotFound returns true if the error indicates an absent (or corrupt,
// which reads as absent) snippet.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSnippetNotFound)
}

// IsExpired returns true if the error indicates a lapsed snippet.
func IsExpired(err error) bool {
	return errors.Is(err, ErrSnippetExpired)
}

// IsConflict returns true if the error indicates an ID collision.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSnippetExists) || errors.Is(err, ErrIDCollision)
}

// IsValidationError returns true if the error is caller-attributable input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidSnippetID) || errors.Is(err, ErrInvalidPath)
}
