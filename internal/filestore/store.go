// Package filestore defines the object storage seam used to publish exports.
//
// Providers implement Store. Callers depend only on this package, never on a
// specific provider package.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin", "exports")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	info, err := store.PutObject(ctx, cfg.Bucket, "q.csv", body, opts)
package filestore

import (
	"context"
	"io"
	"time"
)

// Store is the interface every object storage provider implements.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// PutObject uploads body to key inside bucket, replacing any existing object.
	PutObject(ctx context.Context, bucket, key string, body io.Reader, opts PutOptions) (*ObjectInfo, error)

	// PresignGetURL returns a time-limited URL that allows anyone to download
	// the object at key inside bucket without credentials.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
