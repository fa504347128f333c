package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword_ReturnsCorrectLength(t *testing.T) {
	p, err := GeneratePassword()
	require.NoError(t, err)
	assert.Len(t, p, PasswordLength)
}

func TestGeneratePassword_UsesAlphabet(t *testing.T) {
	p, err := GeneratePassword()
	require.NoError(t, err)

	for _, c := range p {
		assert.True(t, strings.ContainsRune(passwordAlphabet, c), "character %c not in alphabet", c)
	}
}

func TestGeneratePassword_ExcludesAmbiguousCharacters(t *testing.T) {
	for _, c := range "0O1lIi" {
		assert.False(t, strings.ContainsRune(passwordAlphabet, c), "ambiguous character %c in alphabet", c)
	}
}

func TestGeneratePassword_ReturnsUniquePasswords(t *testing.T) {
	a, err := GeneratePassword()
	require.NoError(t, err)
	b, err := GeneratePassword()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("correct horse battery staple", hash))
	assert.False(t, VerifyPassword("wrong password", hash))
}

func TestHashPassword_NeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)

	assert.NotContains(t, hash, "hunter2")
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %s", hash)
}

func TestVerifyPassword_RejectsGarbageHash(t *testing.T) {
	assert.False(t, VerifyPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("anything", ""))
}
