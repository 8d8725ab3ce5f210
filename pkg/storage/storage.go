// Package storage reads uploaded media (profile image, project images, resume)
// from an object store.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound reports a missing object.
var ErrNotFound = errors.New("storage: object not found")

// Object is an open media object. Callers must close Reader.
type Object struct {
	Reader      io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// ObjectInfo describes a listed object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// MediaStore provides read access to stored media.
type MediaStore interface {
	Open(ctx context.Context, key string) (*Object, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
