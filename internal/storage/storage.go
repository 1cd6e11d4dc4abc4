// Package storage holds uploaded photos. Keys are slash-separated paths such
// as "user_images/<uuid>.jpg" and are what Note.Photo and Venue.Thumbnail store.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"livemusicnotes/internal/config"
)

// PhotoStore is a blob store addressed by key.
type PhotoStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Save(ctx context.Context, key string, body []byte, contentType string) error
	// URL is the public address clients use to fetch key.
	URL(key string) string
}

// NewKey returns a fresh random key under folder.
func NewKey(folder, ext string) string {
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), ext)
}

// New builds the backend selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (PhotoStore, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		return NewS3Store(ctx, S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3BucketName,
			PublicURL:       cfg.S3PublicURL,
		})
	case config.StorageMinIO:
		return NewMinIOStore(ctx, MinIOConfig{
			Endpoint:        cfg.MinIOEndpoint,
			AccessKeyID:     cfg.MinIOAccessKeyID,
			SecretAccessKey: cfg.MinIOSecretAccessKey,
			UseSSL:          cfg.MinIOUseSSL,
			Bucket:          cfg.MinIOBucket,
			PublicURL:       cfg.MinIOPublicURL,
		})
	case config.StorageLocal, "":
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
