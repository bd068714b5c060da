package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/vitrine-imoveis/listing-service/internal/config"
	"github.com/vitrine-imoveis/listing-service/internal/port/storage"
)

// Storage is the MinIO-backed object store for listing photos. Objects
// live under one path per listing; public URLs are plain
// <endpoint>/<bucket>/<path> so a path can be recovered from a URL.
type Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *zap.Logger
}

var _ storage.ObjectStorage = (*Storage)(nil)

func NewStorage(cfg *config.MinIOConfig, logger *zap.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	if err := client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), cfg.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)",
				cfg.Bucket, err, errBucketExists)
		}
		logger.Info("Bucket already exists", zap.String("bucket", cfg.Bucket))
	} else {
		logger.Info("Bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: client.EndpointURL().String(),
		logger:  logger,
	}, nil
}

// Upload stores the blob at path and returns its public URL. With
// overwrite false, an existing object at the path makes the call fail
// with storage.ErrObjectExists instead of silently replacing it.
func (s *Storage) Upload(ctx context.Context, path string, data []byte, contentType string, overwrite bool) (string, error) {
	if !overwrite {
		if _, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{}); err == nil {
			return "", fmt.Errorf("%w: %s", storage.ErrObjectExists, path)
		} else if resp := minio.ToErrorResponse(err); resp.Code != "NoSuchKey" {
			return "", fmt.Errorf("stat object %s: %w", path, err)
		}
	}

	info, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error("PutObject failed",
			zap.String("bucket", s.bucket), zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", path, s.bucket, err)
	}

	s.logger.Debug("Object uploaded",
		zap.String("bucket", info.Bucket), zap.String("path", info.Key), zap.Int64("size", info.Size))
	return s.PublicURL(path), nil
}

func (s *Storage) Delete(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("RemoveObject failed",
			zap.String("bucket", s.bucket), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", path, s.bucket, err)
	}
	return nil
}

// PublicURL derives the retrieval URL for a path. Pure string work, no I/O.
func (s *Storage) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, path)
}

// PathFromURL recovers the storage path from a previously issued public
// URL, for deletions keyed by URL.
func (s *Storage) PathFromURL(url string) (string, error) {
	_, after, ok := strings.Cut(url, "/"+s.bucket+"/")
	if !ok || after == "" {
		return "", fmt.Errorf("url %q does not point into bucket %s", url, s.bucket)
	}
	return after, nil
}
