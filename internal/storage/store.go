package storage

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/config"
)

// ErrInvalidKey is returned for keys that could escape the store root.
var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore persists uploaded files and reports the public URL for each.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL returns the key of an object this store serves at url.
	// ok is false for URLs the store does not manage.
	KeyFromURL(url string) (key string, ok bool)
}

// New selects S3 when a bucket is configured and local disk otherwise.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ObjectStore, error) {
	if cfg.S3.Enabled() {
		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		logger.Info("uploads stored in s3", zap.String("bucket", cfg.S3.Bucket))
		return store, nil
	}
	store, err := NewLocalStore(cfg.Upload.Dest, cfg.Upload.PublicPath)
	if err != nil {
		return nil, err
	}
	logger.Info("uploads stored on disk", zap.String("dir", cfg.Upload.Dest))
	return store, nil
}

func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, `/\`) && key != "." && key != ".."
}
