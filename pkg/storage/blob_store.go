package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

// BlobStore implements MediaStore on a Go CDK bucket
// (file:///var/lib/portfolio/media, mem://, s3://bucket?region=...).
type BlobStore struct {
	bucket *blob.Bucket
}

// OpenBlobStore opens the bucket named by bucketURL.
func OpenBlobStore(ctx context.Context, bucketURL string) (*BlobStore, error) {
	bucketURL = strings.TrimSpace(bucketURL)
	if bucketURL == "" {
		return nil, errors.New("media bucket url is required")
	}
	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}
	return &BlobStore{bucket: b}, nil
}

// NewBlobStore wraps an already opened bucket.
func NewBlobStore(b *blob.Bucket) *BlobStore {
	return &BlobStore{bucket: b}
}

// Open returns a reader for key.
func (s *BlobStore) Open(ctx context.Context, key string) (*Object, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	return &Object{
		Reader:      r,
		Size:        r.Size(),
		ContentType: r.ContentType(),
		ModTime:     r.ModTime(),
	}, nil
}

// Exists reports whether key is present.
func (s *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("stat object: %w", err)
	}
	return ok, nil
}

// List returns every object under prefix, descending into sub-directories.
func (s *BlobStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	it := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	var out []ObjectInfo
	for {
		obj, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		if obj.IsDir {
			continue
		}
		out = append(out, ObjectInfo{Key: obj.Key, Size: obj.Size})
	}
}

// Close releases the bucket.
func (s *BlobStore) Close() error {
	return s.bucket.Close()
}
