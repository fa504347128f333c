// The registry document is the persisted wire format: one JSON object per
// snippet, in the shadcn registry-item schema so the shadcn CLI can consume
// it directly. Documents are immutable once written; the only lifecycle
// transition is the derived "expired" state.
package model

import (
	"encoding/json"
	"time"

	"github.com/pastecn/pastecn/internal/util"
)

// SchemaURL is the shadcn registry-item JSON schema reference.
// Part of the external CLI contract; not free to change.
const SchemaURL = "https://ui.shadcn.com/schema/registry-item.json"

// Snippet type constants, aligned with the shadcn registry.
// Block denotes a multi-file bundle treated as one unit.
const (
	TypeFile      = "file"
	TypeComponent = "component"
	TypeHook      = "hook"
	TypeLib       = "lib"
	TypeBlock     = "block"
)

// registryPrefix is prepended to snippet types on the wire.
const registryPrefix = "registry:"

// ValidSnippetType reports whether t is one of the fixed snippet types.
func ValidSnippetType(t string) bool {
	switch t {
	case TypeFile, TypeComponent, TypeHook, TypeLib, TypeBlock:
		return true
	}
	return false
}

// RegistryType maps a snippet type to its wire form ("component" ->
// "registry:component").
func RegistryType(t string) string {
	return registryPrefix + t
}

// FileEntry is one file inside a registry document. Target is the install
// destination when it differs from the storage path (used by type=file).
type FileEntry struct {
	Path    string `json:"path"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Target  string `json:"target,omitempty"`
}

// DocumentMeta is the server-side meta side-channel on a registry document.
// The two known fields are modeled explicitly; unknown keys round-trip
// through Extra so future registry revisions survive a read-write cycle.
//
// PasswordHash is write-once and never serialized to any client-facing
// response; responses are built via ClientRegistry or the Snippet
// projections, which drop meta entirely.
type DocumentMeta struct {
	PasswordHash string
	ExpiresAt    string
	Extra        map[string]json.RawMessage
}

// MarshalJSON emits the known fields plus any preserved extension keys.
func (m DocumentMeta) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.Extra)+2)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.PasswordHash != "" {
		b, err := json.Marshal(m.PasswordHash)
		if err != nil {
			return nil, err
		}
		out["passwordHash"] = b
	}
	if m.ExpiresAt != "" {
		b, err := json.Marshal(m.ExpiresAt)
		if err != nil {
			return nil, err
		}
		out["expiresAt"] = b
	}
	return json.Marshal(out)
}

// UnmarshalJSON pulls the known fields out and keeps the rest in Extra.
// A known field with a non-string value is a malformed document and fails
// the unmarshal, which callers treat as not-found.
func (m *DocumentMeta) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = DocumentMeta{}
	for k, v := range raw {
		switch k {
		case "passwordHash":
			if err := json.Unmarshal(v, &m.PasswordHash); err != nil {
				return err
			}
		case "expiresAt":
			if err := json.Unmarshal(v, &m.ExpiresAt); err != nil {
				return err
			}
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]json.RawMessage)
			}
			m.Extra[k] = v
		}
	}
	return nil
}

// RegistryDocument is the persisted wire format for a snippet, matching
// the shadcn registry-item.json schema exactly (including the $schema
// field and registry: type prefix).
type RegistryDocument struct {
	Schema string        `json:"$schema"`
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Files  []FileEntry   `json:"files"`
	Meta   *DocumentMeta `json:"meta,omitempty"`
}

// Validate is the structural gate applied on every read as defense in
// depth: a document that fails it is treated identically to "not found",
// never surfaced as a server error, so corrupt or tampered storage is not
// observable externally.
func (d *RegistryDocument) Validate() error {
	if d.Name == "" {
		return ErrSnippetNotFound
	}
	if d.Type == "" {
		return ErrSnippetNotFound
	}
	if len(d.Files) == 0 {
		return ErrSnippetNotFound
	}
	for _, f := range d.Files {
		if !util.ValidatePath(f.Path) {
			return ErrInvalidPath
		}
		if f.Target != "" && !util.ValidatePath(f.Target) {
			return ErrInvalidPath
		}
	}
	if d.Meta != nil && d.Meta.ExpiresAt != "" {
		if _, err := time.Parse(time.RFC3339, d.Meta.ExpiresAt); err != nil {
			return ErrSnippetNotFound
		}
	}
	return nil
}

// IsProtected reports whether the document carries a password hash.
// Protection is the boolean presence of the hash, never the hash itself.
func (d *RegistryDocument) IsProtected() bool {
	return d.Meta != nil && d.Meta.PasswordHash != ""
}

// PasswordHash returns the stored bcrypt hash, or "" when unprotected.
// Server-side only; must never reach a response body.
func (d *RegistryDocument) PasswordHash() string {
	if d.Meta == nil {
		return ""
	}
	return d.Meta.PasswordHash
}

// ExpiresAt returns the parsed expiration time, if any.
func (d *RegistryDocument) ExpiresAt() (time.Time, bool) {
	if d.Meta == nil || d.Meta.ExpiresAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, d.Meta.ExpiresAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsExpired reports whether the document has lapsed as of now.
// Absence of expiresAt means the snippet never expires. A present but
// unparsable timestamp counts as expired (fail closed); Validate rejects
// such documents before they normally reach this check.
func (d *RegistryDocument) IsExpired(now time.Time) bool {
	if d.Meta == nil || d.Meta.ExpiresAt == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, d.Meta.ExpiresAt)
	if err != nil {
		return true
	}
	return !now.Before(t)
}

// ClientRegistry returns a copy of the document suitable for a client
// response: the meta side-channel is dropped entirely so neither the
// password hash nor server bookkeeping can leak.
func (d *RegistryDocument) ClientRegistry() *RegistryDocument {
	return &RegistryDocument{
		Schema: d.Schema,
		Name:   d.Name,
		Type:   d.Type,
		Files:  d.Files,
	}
}
