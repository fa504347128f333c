package util

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordLength is the length of generated snippet passwords.
const PasswordLength = 16

// passwordAlphabet excludes visually ambiguous characters (0/O, 1/l/I)
// so generated passwords survive being read aloud or retyped.
// 55 symbols at 16 characters gives ~92 bits of entropy.
const passwordAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz"

// bcryptCost is the fixed bcrypt cost factor for snippet passwords.
// Deliberately slow to hash; this is the brute-force mitigation.
const bcryptCost = 10

// GeneratePassword creates a secure random snippet password.
// Uses rejection sampling so every alphabet symbol is equally likely.
func GeneratePassword() (string, error) {
	const n = len(passwordAlphabet)
	// Largest multiple of n that fits in a byte; bytes at or above it
	// are discarded to avoid modulo bias.
	limit := byte(256 / n * n)

	out := make([]byte, 0, PasswordLength)
	buf := make([]byte, PasswordLength*2)
	for len(out) < PasswordLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generating random password: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, passwordAlphabet[int(b)%n])
			if len(out) == PasswordLength {
				break
			}
		}
	}
	return string(out), nil
}

// HashPassword hashes a plaintext password with bcrypt at the fixed cost.
// The hash is the only form ever persisted; plaintext is returned to the
// creator exactly once and then discarded.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// bcrypt's own compare primitive is constant-time-safe. A malformed hash
// verifies as false; this function never panics or returns an error.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
