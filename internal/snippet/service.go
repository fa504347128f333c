// Package snippet implements the core operations over stored snippets:
// creating registry documents from pasted code and reading them back in
// the shapes the HTTP layer serves.
package snippet

import (
	"context"
	"errors"
	"time"

	"github.com/pastecn/pastecn/internal/config"
	"github.com/pastecn/pastecn/internal/logging"
	"github.com/pastecn/pastecn/internal/model"
	"github.com/pastecn/pastecn/internal/storage"
	"github.com/pastecn/pastecn/internal/util"
)

// Service wraps a storage backend with validation and mapping. All
// reads pass through a structural gate: a stored document that no
// longer validates is reported as missing, never served.
type Service struct {
	store storage.Storage
	cfg   *config.Config
	log   logging.Logger
}

// New builds a Service over store.
func New(store storage.Storage, cfg *config.Config, log logging.Logger) *Service {
	return &Service{store: store, cfg: cfg, log: log}
}

// Document reads and validates the raw registry document for id.
// Returns model.ErrSnippetNotFound for missing and corrupt documents
// alike; corrupt ones are logged so the operator can tell them apart.
func (s *Service) Document(ctx context.Context, id string) (*model.RegistryDocument, error) {
	if !util.ValidateSnippetID(id) {
		return nil, model.ErrSnippetNotFound
	}
	doc, err := s.store.ReadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		s.log.Error(ctx, "stored document failed validation", "id", id, "error", err)
		return nil, model.ErrSnippetNotFound
	}
	return doc, nil
}

// Get returns the full snippet for id, including file contents.
// Expiration is not applied here; callers decide how expired documents
// surface.
func (s *Service) Get(ctx context.Context, id string) (*model.Snippet, error) {
	doc, err := s.Document(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.ToSnippet(id, doc), nil
}

// GetMetadata returns the snippet without file contents.
func (s *Service) GetMetadata(ctx context.Context, id string) (*model.SnippetMetadata, error) {
	doc, err := s.Document(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.ToSnippetMetadata(id, doc), nil
}

// PasswordHash returns the stored bcrypt hash for id. Server-side only;
// the hash must never reach a response body.
func (s *Service) PasswordHash(ctx context.Context, id string) (string, error) {
	doc, err := s.Document(ctx, id)
	if err != nil {
		return "", err
	}
	return doc.PasswordHash(), nil
}

// ExpirationStatus describes whether id exists and whether it has
// passed its expiry.
type ExpirationStatus struct {
	Exists  bool
	Expired bool
}

// CheckExpiration reports the expiration status of id as of now.
func (s *Service) CheckExpiration(ctx context.Context, id string, now time.Time) (ExpirationStatus, error) {
	doc, err := s.Document(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSnippetNotFound) {
			return ExpirationStatus{}, nil
		}
		return ExpirationStatus{}, err
	}
	return ExpirationStatus{Exists: true, Expired: doc.IsExpired(now)}, nil
}
