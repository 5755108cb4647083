// Package blobstore keeps product images in Redis, addressed by bucket and key.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/catalog/internal/shared"
)

const (
	// DefaultBucket holds product images.
	DefaultBucket = "product-images"
	// DefaultPrefix is the folder inside the bucket used for product images.
	DefaultPrefix = "products/"
)

var (
	// ErrBlobNotFound is returned when no blob is stored under the key.
	ErrBlobNotFound = fmt.Errorf("blobstore: blob %w", shared.ErrNotFound)
	// ErrInvalidKey is returned for empty keys or keys containing a path separator.
	ErrInvalidKey = errors.New("blobstore: invalid key")
)

// Options configures the bucket layout.
type Options struct {
	Bucket string
	Prefix string
}

// Store is a key-addressed blob store on Redis.
type Store struct {
	client *redis.Client
	bucket string
	prefix string
}

// New creates a Store. Empty options fall back to the product image bucket.
func New(client *redis.Client, opts Options) *Store {
	bucket := opts.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

// ObjectKey returns the Redis key a blob key is stored under.
func (s *Store) ObjectKey(key string) string {
	return s.bucket + ":" + s.prefix + key
}

func checkKey(key string) error {
	if key == "" || strings.Contains(key, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Put stores data under key, replacing any previous blob.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.ObjectKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("blobstore: put %s: %w", key, err)
	}
	return nil
}

// Get returns the blob stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.ObjectKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("blobstore: get %s: %w", key, err)
	}
	return data, nil
}

// Exists reports whether a blob is stored under key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	n, err := s.client.Exists(ctx, s.ObjectKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("blobstore: exists %s: %w", key, err)
	}
	return n > 0, nil
}

// Delete removes the blob stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, s.ObjectKey(key)).Result()
	if err != nil {
		return fmt.Errorf("blobstore: delete %s: %w", key, err)
	}
	if n == 0 {
		return ErrBlobNotFound
	}
	return nil
}
