package model

import (
	"path"
	"strings"
)

// SnippetFile is one file of a snippet with content. Language is inferred
// from the install target's extension for display purposes.
type SnippetFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Target   string `json:"target"`
	Language string `json:"language"`
	Type     string `json:"type"`
}

// SnippetMetadataFile mirrors SnippetFile minus content. The absence of a
// content field (rather than an empty one) is what makes the metadata
// projection safe to hand to unauthenticated callers.
type SnippetMetadataFile struct {
	Path     string `json:"path"`
	Target   string `json:"target"`
	Language string `json:"language"`
	Type     string `json:"type"`
}

// SnippetMeta is display metadata shared by both projections.
type SnippetMeta struct {
	PrimaryLanguage string `json:"primaryLanguage"`
	FileCount       int    `json:"fileCount"`
	ExpiresAt       string `json:"expiresAt,omitempty"`
}

// Snippet is the full domain projection of a registry document, computed
// on every read and never persisted.
type Snippet struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Files       []SnippetFile `json:"files"`
	Meta        SnippetMeta   `json:"meta"`
	IsProtected bool          `json:"isProtected"`
}

// SnippetMetadata is the content-free projection. It answers "is this
// protected, what files exist, what's the name" without ever materializing
// protected content.
type SnippetMetadata struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Type        string                `json:"type"`
	Files       []SnippetMetadataFile `json:"files"`
	Meta        SnippetMeta           `json:"meta"`
	IsProtected bool                  `json:"isProtected"`
}

// languageByExt maps file extensions to display languages.
var languageByExt = map[string]string{
	"tsx": "tsx",
	"ts":  "ts",
	"jsx": "jsx",
	"js":  "js",
	"md":  "markdown",
}

// InferLanguage infers a display language from a path's extension,
// defaulting to "text".
func InferLanguage(p string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return "text"
}

// snippetTypeByRegistry maps wire types to domain snippet types.
var snippetTypeByRegistry = map[string]string{
	"registry:file":      TypeFile,
	"registry:component": TypeComponent,
	"registry:hook":      TypeHook,
	"registry:lib":       TypeLib,
	"registry:block":     TypeBlock,
}

// fileTypeByRegistry maps wire types to per-file domain types. Blocks map
// to file: the bundle is a block, its individual files are plain files.
var fileTypeByRegistry = map[string]string{
	"registry:file":      TypeFile,
	"registry:component": TypeComponent,
	"registry:hook":      TypeHook,
	"registry:lib":       TypeLib,
	"registry:block":     TypeFile,
}

// DomainType maps a registry type to its domain snippet type. Unknown
// registry types fail open to "file", the least-privileged type, so
// documents written by future registry revisions still round-trip instead
// of erroring.
func DomainType(registryType string) string {
	if t, ok := snippetTypeByRegistry[registryType]; ok {
		return t
	}
	return TypeFile
}

func domainFileType(registryType string) string {
	if t, ok := fileTypeByRegistry[registryType]; ok {
		return t
	}
	return TypeFile
}

// ToSnippet projects a registry document into the full domain model.
// Pure and deterministic; the password hash never appears in the output.
func ToSnippet(id string, doc *RegistryDocument) *Snippet {
	files := make([]SnippetFile, len(doc.Files))
	for i, f := range doc.Files {
		target := f.Target
		if target == "" {
			target = f.Path
		}
		files[i] = SnippetFile{
			Path:     f.Path,
			Content:  f.Content,
			Target:   target,
			Language: InferLanguage(target),
			Type:     domainFileType(f.Type),
		}
	}

	return &Snippet{
		ID:          id,
		Name:        doc.Name,
		Type:        DomainType(doc.Type),
		Files:       files,
		Meta:        snippetMeta(doc, files),
		IsProtected: doc.IsProtected(),
	}
}

// ToSnippetMetadata projects a registry document into the content-free
// domain model, safe for unauthenticated access to protected snippets.
func ToSnippetMetadata(id string, doc *RegistryDocument) *SnippetMetadata {
	files := make([]SnippetMetadataFile, len(doc.Files))
	for i, f := range doc.Files {
		target := f.Target
		if target == "" {
			target = f.Path
		}
		files[i] = SnippetMetadataFile{
			Path:     f.Path,
			Target:   target,
			Language: InferLanguage(target),
			Type:     domainFileType(f.Type),
		}
	}

	var meta SnippetMeta
	if len(files) > 0 {
		meta.PrimaryLanguage = files[0].Language
	} else {
		meta.PrimaryLanguage = "text"
	}
	meta.FileCount = len(files)
	if doc.Meta != nil {
		meta.ExpiresAt = doc.Meta.ExpiresAt
	}

	return &SnippetMetadata{
		ID:          id,
		Name:        doc.Name,
		Type:        DomainType(doc.Type),
		Files:       files,
		Meta:        meta,
		IsProtected: doc.IsProtected(),
	}
}

// snippetMeta derives display metadata: the first file is the primary
// language signal, which is why file order is significant.
func snippetMeta(doc *RegistryDocument, files []SnippetFile) SnippetMeta {
	meta := SnippetMeta{
		PrimaryLanguage: "text",
		FileCount:       len(files),
	}
	if len(files) > 0 {
		meta.PrimaryLanguage = files[0].Language
	}
	if doc.Meta != nil {
		meta.ExpiresAt = doc.Meta.ExpiresAt
	}
	return meta
}
