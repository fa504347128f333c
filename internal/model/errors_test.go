package model

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeValidationError, http.StatusBadRequest},
		{CodeInvalidID, http.StatusBadRequest},
		{CodeAuthRequired, http.StatusUnauthorized},
		{CodeInvalidPassword, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeExpired, http.StatusNotFound},
		{CodeIDCollision, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternalError, http.StatusInternalServerError},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestClassifiers(t *testing.T) {
	wrapped := fmt.Errorf("reading snippet: %w", ErrSnippetNotFound)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(ErrSnippetExpired))

	assert.True(t, IsExpired(ErrSnippetExpired))

	assert.True(t, IsConflict(ErrSnippetExists))
	assert.True(t, IsConflict(fmt.Errorf("create: %w", ErrIDCollision)))
	assert.False(t, IsConflict(ErrSnippetNotFound))

	assert.True(t, IsValidationError(ErrInvalidSnippetID))
	assert.True(t, IsValidationError(ErrInvalidPath))
	assert.False(t, IsValidationError(ErrStorageFailure))
}
