package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *RegistryDocument {
	return &RegistryDocument{
		Schema: SchemaURL,
		Name:   "my-button",
		Type:   "registry:component",
		Files: []FileEntry{
			{Path: "components/button.tsx", Type: "registry:component", Content: "export const Button = () => null"},
		},
	}
}

func TestRegistryDocument_Validate(t *testing.T) {
	assert.NoError(t, validDocument().Validate())
}

func TestRegistryDocument_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegistryDocument)
	}{
		{"missing name", func(d *RegistryDocument) { d.Name = "" }},
		{"missing type", func(d *RegistryDocument) { d.Type = "" }},
		{"no files", func(d *RegistryDocument) { d.Files = nil }},
		{"traversal path", func(d *RegistryDocument) { d.Files[0].Path = "../../etc/passwd" }},
		{"absolute target", func(d *RegistryDocument) { d.Files[0].Target = "/etc/cron.d/x" }},
		{"malformed expiresAt", func(d *RegistryDocument) {
			d.Meta = &DocumentMeta{ExpiresAt: "tomorrow-ish"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)
			assert.Error(t, doc.Validate())
		})
	}
}

func TestRegistryDocument_WireFormat(t *testing.T) {
	doc := validDocument()
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "$schema")
	assert.Contains(t, raw, "name")
	assert.Contains(t, raw, "type")
	assert.Contains(t, raw, "files")
	assert.NotContains(t, raw, "meta")

	var typ string
	require.NoError(t, json.Unmarshal(raw["type"], &typ))
	assert.Equal(t, "registry:component", typ)
}

func TestRegistryDocument_RoundTrip(t *testing.T) {
	doc := validDocument()
	doc.Meta = &DocumentMeta{
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		ExpiresAt:    "2026-09-01T00:00:00Z",
		Extra:        map[string]json.RawMessage{"author": json.RawMessage(`"anon"`)},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var got RegistryDocument
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, doc.Name, got.Name)
	assert.Equal(t, doc.Files, got.Files)
	require.NotNil(t, got.Meta)
	assert.Equal(t, doc.Meta.PasswordHash, got.Meta.PasswordHash)
	assert.Equal(t, doc.Meta.ExpiresAt, got.Meta.ExpiresAt)
	assert.Equal(t, json.RawMessage(`"anon"`), got.Meta.Extra["author"])
}

func TestDocumentMeta_MalformedKnownFieldFailsUnmarshal(t *testing.T) {
	var m DocumentMeta
	err := json.Unmarshal([]byte(`{"passwordHash": 42}`), &m)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"expiresAt": ["2026"]}`), &m)
	assert.Error(t, err)
}

func TestRegistryDocument_IsProtected(t *testing.T) {
	doc := validDocument()
	assert.False(t, doc.IsProtected())

	doc.Meta = &DocumentMeta{}
	assert.False(t, doc.IsProtected())

	doc.Meta.PasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
	assert.True(t, doc.IsProtected())
}

func TestRegistryDocument_IsExpired(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	doc := validDocument()
	assert.False(t, doc.IsExpired(now), "no expiry means never expires")

	doc.Meta = &DocumentMeta{ExpiresAt: now.Add(time.Hour).Format(time.RFC3339)}
	assert.False(t, doc.IsExpired(now))

	doc.Meta.ExpiresAt = now.Format(time.RFC3339)
	assert.True(t, doc.IsExpired(now), "expiry boundary is inclusive")

	doc.Meta.ExpiresAt = now.Add(-time.Hour).Format(time.RFC3339)
	assert.True(t, doc.IsExpired(now))

	doc.Meta.ExpiresAt = "garbage"
	assert.True(t, doc.IsExpired(now), "unparsable expiry fails closed")
}

func TestRegistryDocument_ExpirationIsMonotonic(t *testing.T) {
	doc := validDocument()
	doc.Meta = &DocumentMeta{ExpiresAt: "2026-08-28T00:00:00Z"}

	start := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	expired := false
	for i := 0; i < 48; i++ {
		now := start.Add(time.Duration(i) * time.Hour)
		if doc.IsExpired(now) {
			expired = true
		} else {
			assert.False(t, expired, "document un-expired at %v", now)
		}
	}
	assert.True(t, expired)
}

func TestRegistryDocument_ClientRegistryStripsMeta(t *testing.T) {
	doc := validDocument()
	doc.Meta = &DocumentMeta{PasswordHash: "$2a$10$secretsecretsecret", ExpiresAt: "2026-09-01T00:00:00Z"}

	client := doc.ClientRegistry()
	assert.Nil(t, client.Meta)
	assert.Equal(t, doc.Name, client.Name)
	assert.Equal(t, doc.Files, client.Files)

	data, err := json.Marshal(client)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secretsecret")
	assert.NotContains(t, string(data), "meta")
}

func TestValidSnippetType(t *testing.T) {
	for _, typ := range []string{TypeFile, TypeComponent, TypeHook, TypeLib, TypeBlock} {
		assert.True(t, ValidSnippetType(typ))
	}
	assert.False(t, ValidSnippetType(""))
	assert.False(t, ValidSnippetType("gadget"))
	assert.False(t, ValidSnippetType("registry:component"))
}
