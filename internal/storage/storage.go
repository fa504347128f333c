// Package storage provides the persistence layer for pastecn. It defines
// the Storage interface that abstracts different backends (S3-compatible
// object store, filesystem, SQL database) allowing the application to
// switch between them without changing business logic.
//
// The contract is deliberately small because snippets are immutable:
// a create-if-absent write, an existence check, and a read. There is no
// update or delete path; expired documents linger in the store and are
// filtered lazily on read by the callers. The atomic create-if-absent
// semantics are load-bearing for correctness, not an optimization: the
// ID-collision race between two concurrent creations is resolved here,
// never by a lock.
//
// All implementations must be safe for concurrent use.
package storage

import (
	"context"
	"fmt"

	"github.com/pastecn/pastecn/internal/config"
	"github.com/pastecn/pastecn/internal/model"
)

// Storage defines the contract for registry document persistence.
type Storage interface {
	// CreateSnippet stores a new registry document under the given ID
	// if and only if the ID is free. Returns model.ErrSnippetExists
	// when the key is already taken. The write is atomic: readers see
	// either nothing or the complete document.
	CreateSnippet(ctx context.Context, id string, doc *model.RegistryDocument) error

	// ReadDocument retrieves the raw registry document for an ID.
	// Returns model.ErrSnippetNotFound when absent. Transport faults
	// are returned wrapped in model.ErrStorageFailure so callers never
	// mistake an outage for a missing snippet.
	ReadDocument(ctx context.Context, id string) (*model.RegistryDocument, error)

	// SnippetExists checks whether a document exists without reading it.
	SnippetExists(ctx context.Context, id string) (bool, error)

	// Close releases any resources held by the backend.
	Close() error
}

// New creates a storage backend based on configuration.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Model.Class {
	case "S3":
		return NewS3(ctx, cfg)
	case "Filesystem":
		return NewFilesystem(cfg)
	case "Database":
		return NewDatabase(cfg)
	default:
		return nil, fmt.Errorf("unknown storage class: %s", cfg.Model.Class)
	}
}

// objectKey returns the store key for a snippet ID. The snippets/ prefix
// namespaces documents inside a shared bucket.
func objectKey(id string) string {
	return "snippets/" + id + ".json"
}
