// Package storage archives rendered document artifacts in MinIO-compatible
// object storage. PDFs and e-invoice XML live in one bucket, prefixed per
// tenant and artifact type.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/platform/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioArchive implements the DocumentArchive port.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive connects to the configured MinIO endpoint and ensures the
// archive bucket exists.
func NewMinioArchive(cfg *config.Config) (*MinioArchive, error) {
	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	archive := &MinioArchive{client: client, bucket: cfg.MinioBucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return archive, nil
}

var _ portssvc.DocumentArchive = (*MinioArchive)(nil)

func (a *MinioArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// StorePDF stores a rendered PDF and returns its object path.
func (a *MinioArchive) StorePDF(ctx context.Context, tenantID string, objectName string, data []byte) (string, error) {
	return a.store(ctx, fmt.Sprintf("%s/pdf/%s", tenantID, objectName), "application/pdf", data)
}

// StoreXML stores an e-invoice XML and returns its object path.
func (a *MinioArchive) StoreXML(ctx context.Context, tenantID string, objectName string, data []byte) (string, error) {
	return a.store(ctx, fmt.Sprintf("%s/xml/%s", tenantID, objectName), "application/xml", data)
}

func (a *MinioArchive) store(ctx context.Context, objectPath string, contentType string, data []byte) (string, error) {
	_, err := a.client.PutObject(ctx, a.bucket, objectPath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", objectPath, err)
	}
	return objectPath, nil
}
