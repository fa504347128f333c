package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/pastecn/pastecn/internal/config"
	"github.com/pastecn/pastecn/internal/model"
)

// S3 implements the Storage interface on an S3-compatible object store.
// Create-if-absent uses a conditional PutObject (If-None-Match: *), which
// S3 evaluates atomically; a lost race surfaces as PreconditionFailed.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 creates an S3 storage backend. When an endpoint is configured the
// client switches to path-style addressing for MinIO-compatible stores.
func NewS3(ctx context.Context, cfg *config.Config) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Model.S3Region),
	}
	if cfg.Model.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Model.S3AccessKey, cfg.Model.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Model.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Model.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, bucket: cfg.Model.S3Bucket}, nil
}

// CreateSnippet writes a document with If-None-Match: * so the key is
// claimed atomically. Two racing creations of the same ID resolve here:
// exactly one succeeds, the other gets ErrSnippetExists.
func (s *S3) CreateSnippet(ctx context.Context, id string, doc *model.RegistryDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if isPreconditionFailed(err) {
			return model.ErrSnippetExists
		}
		return fmt.Errorf("%w: putting object %s: %v", model.ErrStorageFailure, objectKey(id), err)
	}
	return nil
}

// ReadDocument fetches and decodes a document. A missing key maps to
// ErrSnippetNotFound; anything else is a storage fault.
func (s *S3) ReadDocument(ctx context.Context, id string) (*model.RegistryDocument, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, model.ErrSnippetNotFound
		}
		return nil, fmt.Errorf("%w: getting object %s: %v", model.ErrStorageFailure, objectKey(id), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading object %s: %v", model.ErrStorageFailure, objectKey(id), err)
	}

	var doc model.RegistryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		// Undecodable bytes are a corrupt document, not an outage.
		return nil, model.ErrSnippetNotFound
	}
	return &doc, nil
}

// SnippetExists checks for a document with a HEAD request.
func (s *S3) SnippetExists(ctx context.Context, id string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: heading object %s: %v", model.ErrStorageFailure, objectKey(id), err)
	}
	return true, nil
}

// Close is a no-op for the S3 backend.
func (s *S3) Close() error {
	return nil
}

func isPreconditionFailed(err error) bool {
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == "PreconditionFailed"
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	// HeadObject reports 404 as a bare API error in some stores.
	var ae smithy.APIError
	return errors.As(err, &ae) && (ae.ErrorCode() == "NotFound" || ae.ErrorCode() == "NoSuchKey")
}
