package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pastecn/pastecn/internal/config"
	"github.com/pastecn/pastecn/internal/model"
)

// Filesystem implements the Storage interface on the local filesystem,
// intended for development and small self-hosted deployments.
//
// Documents are sharded into nested directories to avoid too many files
// in one directory:
//
//	data/
//	  xK/
//	    9m/
//	      xK9mN2pL.json
type Filesystem struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFilesystem creates a filesystem storage backend.
func NewFilesystem(cfg *config.Config) (*Filesystem, error) {
	baseDir := cfg.Model.Dir
	if baseDir == "" {
		baseDir = "data"
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Filesystem{baseDir: baseDir}, nil
}

// documentPath returns the sharded file path for a snippet ID.
func (f *Filesystem) documentPath(id string) string {
	if len(id) < 4 {
		return filepath.Join(f.baseDir, id+".json")
	}
	return filepath.Join(f.baseDir, id[:2], id[2:4], id+".json")
}

// CreateSnippet stores a new document. The existence check and write are
// serialized by the mutex, so the create-if-absent contract holds within
// a single process; the write itself is atomic via temp file + rename.
func (f *Filesystem) CreateSnippet(ctx context.Context, id string, doc *model.RegistryDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.documentPath(id)

	if _, err := os.Stat(path); err == nil {
		return model.ErrSnippetExists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("%w: creating snippet directory: %v", model.ErrStorageFailure, err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0640); err != nil {
		return fmt.Errorf("%w: writing snippet file: %v", model.ErrStorageFailure, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: renaming snippet file: %v", model.ErrStorageFailure, err)
	}

	return nil
}

// ReadDocument retrieves a document from the filesystem.
func (f *Filesystem) ReadDocument(ctx context.Context, id string) (*model.RegistryDocument, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.documentPath(id))
	if os.IsNotExist(err) {
		return nil, model.ErrSnippetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading snippet file: %v", model.ErrStorageFailure, err)
	}

	var doc model.RegistryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, model.ErrSnippetNotFound
	}
	return &doc, nil
}

// SnippetExists checks if a document exists on the filesystem.
func (f *Filesystem) SnippetExists(ctx context.Context, id string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, err := os.Stat(f.documentPath(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("%w: checking snippet file: %v", model.ErrStorageFailure, err)
}

// Close is a no-op for filesystem storage.
func (f *Filesystem) Close() error {
	return nil
}
