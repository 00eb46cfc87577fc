package media

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore is the MinIO-backed media store.
type MinioStore struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

// Ensure MinioStore implements Store
var _ Store = (*MinioStore)(nil)

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &MinioStore{
		client:   client,
		endpoint: endpoint,
		bucket:   bucket,
		useSSL:   useSSL,
	}, nil
}

// Upload stores a local file under a fresh object key and returns its URL.
func (s *MinioStore) Upload(ctx context.Context, localPath string) (*Asset, error) {
	ext := filepath.Ext(localPath)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := uuid.New().String() + ext
	if _, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &Asset{URL: s.objectURL(key), Key: key}, nil
}

// Delete removes the object referenced by assetURL. Unknown URLs are
// ignored so superseded references from other stores do not fail updates.
func (s *MinioStore) Delete(ctx context.Context, assetURL string) error {
	key := s.objectKey(assetURL)
	if key == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioStore) objectURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}

func (s *MinioStore) objectKey(assetURL string) string {
	prefix := "/" + s.bucket + "/"
	idx := strings.Index(assetURL, prefix)
	if idx < 0 {
		return ""
	}
	return assetURL[idx+len(prefix):]
}
