package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func seedBucket(t *testing.T, objects map[string]string) *BlobStore {
	t.Helper()
	ctx := context.Background()
	b := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = b.Close() })
	for key, body := range objects {
		require.NoError(t, b.WriteAll(ctx, key, []byte(body), nil))
	}
	return NewBlobStore(b)
}

func TestBlobStoreOpen(t *testing.T) {
	s := seedBucket(t, map[string]string{"resume/cv.pdf": "%PDF-1.4"})
	obj, err := s.Open(context.Background(), "resume/cv.pdf")
	require.NoError(t, err)
	defer obj.Reader.Close()

	body, err := io.ReadAll(obj.Reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))
	assert.Equal(t, int64(8), obj.Size)
}

func TestBlobStoreOpenMissing(t *testing.T) {
	s := seedBucket(t, nil)
	_, err := s.Open(context.Background(), "resume/none.pdf")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	ok, err := s.Exists(context.Background(), "resume/none.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlobStoreListRecurses(t *testing.T) {
	s := seedBucket(t, map[string]string{
		"profile/me.png":       "p",
		"projects/a/cover.JPG": "a",
		"projects/b/notes.txt": "b",
		"resume/cv.pdf":        "r",
	})
	objs, err := s.List(context.Background(), "projects/")
	require.NoError(t, err)
	keys := make([]string, 0, len(objs))
	for _, o := range objs {
		keys = append(keys, o.Key)
	}
	assert.ElementsMatch(t, []string{"projects/a/cover.JPG", "projects/b/notes.txt"}, keys)

	all, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
