package snippet

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pastecn/pastecn/internal/config"
	"github.com/pastecn/pastecn/internal/logging"
	"github.com/pastecn/pastecn/internal/model"
	"github.com/pastecn/pastecn/internal/storage"
	"github.com/pastecn/pastecn/internal/util"
)

func testService(t *testing.T) (*Service, *storage.Mock) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Expire.AllowDevDurations = false
	mock := storage.NewMock()
	return New(mock, cfg, logging.Discard()), mock
}

func validInput() CreateInput {
	return CreateInput{
		Name: "my-button",
		Type: "component",
		Files: []CreateFile{
			{Path: "components/button.tsx", Content: "export const Button = () => null"},
		},
	}
}

func TestCreate_Success(t *testing.T) {
	svc, mock := testService(t)

	result, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, util.ValidateSnippetID(result.ID))
	assert.Equal(t, "http://localhost:8080/p/"+result.ID, result.URL)
	assert.Equal(t, "http://localhost:8080/r/"+result.ID, result.RegistryURL)
	assert.Empty(t, result.Password)
	assert.Equal(t, 1, mock.SnippetCount())

	doc, err := mock.ReadDocument(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SchemaURL, doc.Schema)
	assert.Equal(t, "registry:component", doc.Type)
	assert.Nil(t, doc.Meta)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "registry:component", doc.Files[0].Type)
}

func TestCreate_ValidationFailures(t *testing.T) {
	svc, mock := testService(t)

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"empty name", func(in *CreateInput) { in.Name = "   " }},
		{"name too long", func(in *CreateInput) {
			in.Name = strings.Repeat("n", maxNameLength+1)
		}},
		{"bad type", func(in *CreateInput) { in.Type = "widget" }},
		{"wire type rejected", func(in *CreateInput) { in.Type = "registry:component" }},
		{"no files", func(in *CreateInput) { in.Files = nil }},
		{"traversal path", func(in *CreateInput) { in.Files[0].Path = "../../etc/passwd" }},
		{"absolute target", func(in *CreateInput) { in.Files[0].Target = "/etc/x" }},
		{"empty content", func(in *CreateInput) { in.Files[0].Content = "" }},
		{"unknown expiry", func(in *CreateInput) { in.ExpiresIn = "5min" }},
		{"dev expiry disabled", func(in *CreateInput) { in.ExpiresIn = "10s" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			var cerr *CreateError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, model.CodeValidationError, cerr.Code)
		})
	}

	assert.Equal(t, 0, mock.SnippetCount(), "nothing stored on validation failure")
}

func TestCreate_SizeLimit(t *testing.T) {
	svc, _ := testService(t)
	svc.cfg.Main.SizeLimit = 16

	in := validInput()
	in.Files[0].Content = "this content is longer than sixteen bytes"

	_, err := svc.Create(context.Background(), in)
	var cerr *CreateError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, model.CodeValidationError, cerr.Code)
}

func TestCreate_SuppliedPassword(t *testing.T) {
	svc, mock := testService(t)

	in := validInput()
	in.Password = "correct horse battery staple"

	result, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "correct horse battery staple", result.Password, "echoed exactly once")

	doc, err := mock.ReadDocument(context.Background(), result.ID)
	require.NoError(t, err)
	require.NotNil(t, doc.Meta)
	assert.True(t, util.VerifyPassword("correct horse battery staple", doc.Meta.PasswordHash))
}

func TestCreate_GeneratedPassword(t *testing.T) {
	svc, mock := testService(t)

	in := validInput()
	in.Password = PasswordGenerate

	result, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, result.Password, util.PasswordLength)

	doc, err := mock.ReadDocument(context.Background(), result.ID)
	require.NoError(t, err)
	require.NotNil(t, doc.Meta)
	assert.True(t, util.VerifyPassword(result.Password, doc.Meta.PasswordHash))

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), result.Password, "plaintext never persisted")
}

func TestCreate_Expiry(t *testing.T) {
	svc, mock := testService(t)

	in := validInput()
	in.ExpiresIn = "24h"

	before := time.Now()
	result, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	doc, err := mock.ReadDocument(context.Background(), result.ID)
	require.NoError(t, err)
	require.NotNil(t, doc.Meta)

	expires, err := time.Parse(time.RFC3339, doc.Meta.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(24*time.Hour), expires, 5*time.Second)
}

func TestCreate_NeverExpires(t *testing.T) {
	svc, mock := testService(t)

	in := validInput()
	in.ExpiresIn = "never"

	result, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	doc, err := mock.ReadDocument(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Nil(t, doc.Meta)
}

func TestCreate_DevExpiryWhenEnabled(t *testing.T) {
	svc, mock := testService(t)
	svc.cfg.Expire.AllowDevDurations = true

	in := validInput()
	in.ExpiresIn = "10s"

	result, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	doc, err := mock.ReadDocument(context.Background(), result.ID)
	require.NoError(t, err)
	require.NotNil(t, doc.Meta)
	assert.NotEmpty(t, doc.Meta.ExpiresAt)
}

func TestCreate_CollisionRetryBound(t *testing.T) {
	svc, mock := testService(t)
	mock.CreateErr = model.ErrSnippetExists

	_, err := svc.Create(context.Background(), validInput())
	var cerr *CreateError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, model.CodeIDCollision, cerr.Code)
	assert.Equal(t, maxCreateAttempts, mock.CreateCalls, "exactly bounded attempts")
}

func TestCreate_StorageFaultNotRetried(t *testing.T) {
	svc, mock := testService(t)
	mock.CreateErr = errors.New("disk on fire")

	_, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)
	var cerr *CreateError
	assert.False(t, errors.As(err, &cerr), "storage faults are not collisions")
	assert.Equal(t, 1, mock.CreateCalls, "faults are not retried")
}
