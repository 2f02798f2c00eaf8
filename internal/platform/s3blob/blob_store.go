// Package s3blob implements the blob store port against any S3-compatible
// object store (AWS S3, MinIO). The server only ever signs URLs and
// deletes objects; file bytes travel directly between client and bucket.
package s3blob

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/taskledger/taskledger-api/internal/config"
	"github.com/taskledger/taskledger-api/internal/store"
)

// S3BlobStore implements store.BlobStore over an S3 bucket.
type S3BlobStore struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	presignExpiry time.Duration
	logger        *slog.Logger
}

// Ensure S3BlobStore implements store.BlobStore interface
var _ store.BlobStore = (*S3BlobStore)(nil)

// New creates an S3BlobStore from the S3 section of the configuration.
// A non-empty Endpoint points the client at an S3-compatible service
// such as MinIO.
func New(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (*S3BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket must be configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &S3BlobStore{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		presignExpiry: expiry,
		logger:        logger.With(slog.String("component", "s3_blob_store")),
	}, nil
}

// PresignPut implements store.BlobStore.PresignPut
func (s *S3BlobStore) PresignPut(ctx context.Context, key string, contentType string) (string, error) {
	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.presignExpiry))
	if err != nil {
		s.logger.Error("failed to presign put",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to presign put for %s: %w", key, err)
	}

	return req.URL, nil
}

// PresignGet implements store.BlobStore.PresignGet
func (s *S3BlobStore) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiry))
	if err != nil {
		s.logger.Error("failed to presign get",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to presign get for %s: %w", key, err)
	}

	return req.URL, nil
}

// Delete implements store.BlobStore.Delete
func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	s.logger.Debug("blob deleted", slog.String("key", key))
	return nil
}
