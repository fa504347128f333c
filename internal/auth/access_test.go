package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pastecn/pastecn/internal/model"
	"github.com/pastecn/pastecn/internal/util"
)

func openDocument() *model.RegistryDocument {
	return &model.RegistryDocument{
		Schema: model.SchemaURL,
		Name:   "open-button",
		Type:   "registry:component",
		Files:  []model.FileEntry{{Path: "b.tsx", Type: "registry:component", Content: "x"}},
	}
}

func protectedDocument(t *testing.T, password string) *model.RegistryDocument {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)

	doc := openDocument()
	doc.Meta = &model.DocumentMeta{PasswordHash: hash}
	return doc
}

func TestAuthorize_NilDocument(t *testing.T) {
	svc := testService()
	r := httptest.NewRequest(http.MethodGet, "/r/xK9mN2pL", nil)

	assert.Equal(t, AccessNotFound, svc.Authorize(r, "xK9mN2pL", nil, time.Now()))
}

func TestAuthorize_Expired(t *testing.T) {
	svc := testService()
	doc := openDocument()
	doc.Meta = &model.DocumentMeta{ExpiresAt: "2026-01-01T00:00:00Z"}

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	r := httptest.NewRequest(http.MethodGet, "/r/xK9mN2pL", nil)

	assert.Equal(t, AccessExpired, svc.Authorize(r, "xK9mN2pL", doc, now))
}

func TestAuthorize_ExpiredBeatsAuth(t *testing.T) {
	svc := testService()
	doc := protectedDocument(t, "open sesame")
	doc.Meta.ExpiresAt = "2026-01-01T00:00:00Z"

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	r := requestWithBearer("open sesame")

	assert.Equal(t, AccessExpired, svc.Authorize(r, "xK9mN2pL", doc, now))
}

func TestAuthorize_Unprotected(t *testing.T) {
	svc := testService()
	r := httptest.NewRequest(http.MethodGet, "/r/xK9mN2pL", nil)

	assert.Equal(t, AccessGranted, svc.Authorize(r, "xK9mN2pL", openDocument(), time.Now()))
}

func TestAuthorize_ProtectedNoCredential(t *testing.T) {
	svc := testService()
	doc := protectedDocument(t, "open sesame")
	r := httptest.NewRequest(http.MethodGet, "/r/xK9mN2pL", nil)

	assert.Equal(t, AccessAuthRequired, svc.Authorize(r, "xK9mN2pL", doc, time.Now()))
}

func TestAuthorize_BearerCorrect(t *testing.T) {
	svc := testService()
	doc := protectedDocument(t, "open sesame")

	assert.Equal(t, AccessGranted, svc.Authorize(requestWithBearer("open sesame"), "xK9mN2pL", doc, time.Now()))
}

func TestAuthorize_BearerWrong(t *testing.T) {
	svc := testService()
	doc := protectedDocument(t, "open sesame")

	assert.Equal(t, AccessAuthInvalid, svc.Authorize(requestWithBearer("nope"), "xK9mN2pL", doc, time.Now()))
}

func TestAuthorize_UnlockCookie(t *testing.T) {
	svc := testService()
	doc := protectedDocument(t, "open sesame")

	token, err := svc.CreateUnlockSession("xK9mN2pL")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/r/xK9mN2pL", nil)
	r.AddCookie(&http.Cookie{Name: UnlockCookieName("xK9mN2pL"), Value: token})

	assert.Equal(t, AccessGranted, svc.Authorize(r, "xK9mN2pL", doc, time.Now()))
}

func TestAuthorize_CookieForOtherSnippet(t *testing.T) {
	svc := testService()
	doc := protectedDocument(t, "open sesame")

	token, err := svc.CreateUnlockSession("aB3cD4eF")
	require.NoError(t, err)

	// Cookie named for this snippet but carrying a token bound elsewhere.
	r := httptest.NewRequest(http.MethodGet, "/r/xK9mN2pL", nil)
	r.AddCookie(&http.Cookie{Name: UnlockCookieName("xK9mN2pL"), Value: token})

	assert.Equal(t, AccessAuthInvalid, svc.Authorize(r, "xK9mN2pL", doc, time.Now()))
}

func TestCacheControl(t *testing.T) {
	assert.Equal(t, "public, max-age=31536000, immutable", CacheControl(false))
	assert.Equal(t, "private, no-store", CacheControl(true))
}
