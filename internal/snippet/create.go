package snippet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pastecn/pastecn/internal/model"
	"github.com/pastecn/pastecn/internal/util"
)

// maxCreateAttempts bounds the ID-collision retry loop. At 64^8
// possible IDs a single retry is already rare; three exhausted attempts
// mean something other than luck is wrong.
const maxCreateAttempts = 3

const maxNameLength = 128

// CreateFile is one file in a creation request.
type CreateFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Target  string `json:"target,omitempty"`
}

// CreateInput carries everything needed to create a snippet.
// Password semantics: absent means public, "generate" asks the server
// to mint one, anything else is used as supplied.
type CreateInput struct {
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Files     []CreateFile `json:"files"`
	Password  string       `json:"password,omitempty"`
	ExpiresIn string       `json:"expiresIn,omitempty"`
}

// PasswordGenerate in CreateInput.Password requests a server-generated
// password.
const PasswordGenerate = "generate"

// CreateResult is returned on successful creation. Password is set when
// the snippet was protected, and this response is the only place the
// plaintext ever appears; it is never persisted or logged.
type CreateResult struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	RegistryURL string `json:"registryUrl"`
	Password    string `json:"password,omitempty"`
}

// CreateError is a creation failure with a stable machine-readable code.
type CreateError struct {
	Code    string
	Message string
}

func (e *CreateError) Error() string { return e.Message }

func validationErr(format string, args ...any) *CreateError {
	return &CreateError{Code: model.CodeValidationError, Message: fmt.Sprintf(format, args...)}
}

// validate checks the input shape before anything is hashed or stored.
func (in *CreateInput) validate(sizeLimit int64) *CreateError {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return validationErr("name is required")
	}
	if len(name) > maxNameLength {
		return validationErr("name exceeds %d characters", maxNameLength)
	}
	if !model.ValidSnippetType(in.Type) {
		return validationErr("invalid snippet type %q", in.Type)
	}
	if len(in.Files) == 0 {
		return validationErr("at least one file is required")
	}
	var total int64
	for i, f := range in.Files {
		if !util.ValidatePath(f.Path) {
			return validationErr("files[%d]: invalid path", i)
		}
		if f.Target != "" && !util.ValidatePath(f.Target) {
			return validationErr("files[%d]: invalid target", i)
		}
		if f.Content == "" {
			return validationErr("files[%d]: content is required", i)
		}
		total += int64(len(f.Content))
	}
	if sizeLimit > 0 && total > sizeLimit {
		return validationErr("snippet exceeds the %d byte size limit", sizeLimit)
	}
	return nil
}

// Create validates input, assembles the registry document, and writes it
// under a fresh random ID. The write is put-if-absent; on an ID
// collision a new ID is drawn, up to maxCreateAttempts times.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if cerr := in.validate(s.cfg.Main.SizeLimit); cerr != nil {
		return nil, cerr
	}

	password := in.Password
	if password == PasswordGenerate {
		p, err := util.GeneratePassword()
		if err != nil {
			return nil, fmt.Errorf("generating password: %w", err)
		}
		password = p
	}

	var meta *model.DocumentMeta
	if password != "" {
		hash, err := util.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		meta = &model.DocumentMeta{PasswordHash: hash}
	}

	if in.ExpiresIn != "" {
		d, ok := s.cfg.ExpireDuration(in.ExpiresIn)
		if !ok {
			return nil, validationErr("invalid expiration option %q", in.ExpiresIn)
		}
		if d > 0 {
			if meta == nil {
				meta = &model.DocumentMeta{}
			}
			meta.ExpiresAt = time.Now().Add(d).UTC().Format(time.RFC3339)
		}
	}

	doc := &model.RegistryDocument{
		Schema: model.SchemaURL,
		Name:   strings.TrimSpace(in.Name),
		Type:   model.RegistryType(in.Type),
		Meta:   meta,
	}
	for _, f := range in.Files {
		doc.Files = append(doc.Files, model.FileEntry{
			Path:    f.Path,
			Type:    doc.Type,
			Content: f.Content,
			Target:  f.Target,
		})
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		id, err := util.GenerateSnippetID()
		if err != nil {
			return nil, fmt.Errorf("generating snippet id: %w", err)
		}
		err = s.store.CreateSnippet(ctx, id, doc)
		if errors.Is(err, model.ErrSnippetExists) {
			s.log.Warn(ctx, "snippet id collision, retrying", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}
		base := strings.TrimRight(s.cfg.Main.BaseURL, "/")
		return &CreateResult{
			ID:          id,
			URL:         base + "/p/" + id,
			RegistryURL: base + "/r/" + id,
			Password:    password,
		}, nil
	}

	return nil, &CreateError{Code: model.CodeIDCollision, Message: model.ErrIDCollision.Error()}
}
