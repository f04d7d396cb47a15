// Package storage abstracts where the surveys document lives: a scratch
// directory on local disk, or an S3-compatible blob store for deployments
// where the filesystem is ephemeral.
package storage

import (
	"context"
	"errors"

	"github.com/mbolis/surwhen/config"
	"github.com/mbolis/surwhen/log"
)

// ErrNotFound is returned by Read when the key has never been written.
// It is never retried.
var ErrNotFound = errors.New("storage: key not found")

type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	// Write fully replaces the content at key, creating it if absent.
	Write(ctx context.Context, key string, content []byte) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FromConfig picks the backend once at startup: an explicit -storage local
// wins, otherwise blob credentials select the blob backend, otherwise
// local disk. The result is shared process-wide.
func FromConfig(cfg config.Config) (Backend, error) {
	if cfg.Storage == config.StorageLocal || cfg.BlobAccessKey == "" {
		log.Infof("storage: local backend at %s", cfg.DataDir)
		return NewLocal(cfg.DataDir), nil
	}

	blob, err := NewBlob(cfg.BlobEndpoint, cfg.BlobAccessKey, cfg.BlobSecretKey, cfg.BlobBucket, cfg.BlobSecure)
	if err != nil {
		return nil, err
	}
	log.Infof("storage: blob backend at %s/%s", cfg.BlobEndpoint, cfg.BlobBucket)
	return blob, nil
}
