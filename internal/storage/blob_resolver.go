package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/SAP-F-2025/skilltree-service/internal/config"
)

// BlobResolver turns an opaque submission file reference into a URL a
// reviewer can open. The ledger never reads file contents.
type BlobResolver interface {
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// PassthroughResolver returns references unchanged
type PassthroughResolver struct{}

func (PassthroughResolver) ResolveURL(ctx context.Context, ref string) (string, error) {
	return ref, nil
}

// MinioResolver presigns GET URLs for objects in one bucket
type MinioResolver struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewMinioResolver(cfg config.StorageConfig) (*MinioResolver, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		// A fixed region lets presigning run without a bucket location lookup
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &MinioResolver{client: client, bucket: cfg.MinioBucket, expiry: expiry}, nil
}

// ResolveURL leaves absolute http(s) references alone and presigns the rest
// as object keys
func (r *MinioResolver) ResolveURL(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}

	key := strings.TrimPrefix(ref, "/")
	u, err := r.client.PresignedGetObject(ctx, r.bucket, key, r.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return u.String(), nil
}

// NewBlobResolver returns a MinioResolver when an endpoint is configured
func NewBlobResolver(cfg config.StorageConfig) (BlobResolver, error) {
	if cfg.MinioEndpoint == "" {
		return PassthroughResolver{}, nil
	}
	return NewMinioResolver(cfg)
}
