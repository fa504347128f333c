// Package util provides ID generation, path safety, and password utilities
// for pastecn. Snippet IDs are 8 characters drawn from the URL-safe nanoid
// alphabet (64 symbols, 48 bits of entropy), which keeps share URLs short
// while leaving collisions rare enough to handle with a bounded retry.
package util

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

// SnippetIDLength is the length of snippet IDs in characters.
const SnippetIDLength = 8

// idAlphabet is the URL-safe alphabet used for snippet IDs.
// 64 symbols, so a random byte masked to 6 bits maps uniformly.
const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// idPattern validates the shape of snippet IDs: exactly 8 characters from
// the URL-safe alphabet. Anything else - including path separators, empty
// strings, and a trailing ".json" artifact - is rejected. Callers strip a
// ".json" suffix before validating.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8}$`)

// GenerateSnippetID creates a new random snippet ID.
//
// Example output: "xK9mN2pL"
//
// Callers must treat the result as a candidate: the storage layer's
// create-if-absent write is the authority on collisions.
func GenerateSnippetID() (string, error) {
	b := make([]byte, SnippetIDLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random ID: %w", err)
	}
	for i := range b {
		b[i] = idAlphabet[b[i]&63]
	}
	return string(b), nil
}

// ValidateSnippetID checks if an ID has the correct shape.
//
// This validation prevents:
// - Path traversal via crafted IDs (../../../etc/passwd)
// - Storage keys outside the snippets/ prefix
func ValidateSnippetID(id string) bool {
	return idPattern.MatchString(id)
}

// MustGenerateSnippetID generates an ID or panics. Test helper only.
func MustGenerateSnippetID() string {
	id, err := GenerateSnippetID()
	if err != nil {
		panic(fmt.Sprintf("failed to generate snippet ID: %v", err))
	}
	return id
}
