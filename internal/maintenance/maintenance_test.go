package maintenance

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"portfolio/pkg/cache"
	"portfolio/pkg/domain"
	"portfolio/pkg/storage"
	"portfolio/pkg/store"
)

type fakeDB struct {
	analyzed   int
	indexErr   error
	analyzeErr error
}

func (f *fakeDB) Analyze(context.Context) error {
	f.analyzed++
	return f.analyzeErr
}

func (f *fakeDB) EnsureIndexes(context.Context) ([]string, error) {
	return []string{"idx_experience_start_date", "idx_project_featured", "idx_skill_category_order"}, f.indexErr
}

func (f *fakeDB) Ping(context.Context) error { return nil }

type brokenCache struct{ cache.Cache }

func (brokenCache) Clear(context.Context) (int, error) { return 0, errors.New("connection refused") }

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()
	require.NoError(t, c.Set(ctx, "page:/?", []byte("x"), time.Hour))
	var out bytes.Buffer
	r := &Runner{Cache: c, Out: &out}

	require.NoError(t, r.ClearCache(ctx))
	assert.Equal(t, "Cache cleared successfully\n", out.String())
	_, ok, _ := c.Get(ctx, "page:/?")
	assert.False(t, ok)
}

func TestClearCacheFailureIsReported(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{Cache: brokenCache{}, Out: &out}
	require.Error(t, r.ClearCache(context.Background()))
	assert.Equal(t, "Failed to clear cache: connection refused\n", out.String())
}

func TestOptimizeDBSkipsInDebug(t *testing.T) {
	var out bytes.Buffer
	db := &fakeDB{}
	r := &Runner{DB: db, Debug: true, Out: &out}
	require.NoError(t, r.OptimizeDB(context.Background()))
	assert.Equal(t, "This command should only be run in production\n", out.String())
	assert.Zero(t, db.analyzed)
}

func TestOptimizeDB(t *testing.T) {
	var out bytes.Buffer
	db := &fakeDB{}
	r := &Runner{DB: db, Out: &out}
	require.NoError(t, r.OptimizeDB(context.Background()))
	assert.Equal(t, 1, db.analyzed)
	assert.Contains(t, out.String(), "Database tables analyzed successfully")
	assert.Contains(t, out.String(), "Database indexes created successfully")
	assert.Contains(t, out.String(), "Database optimization completed successfully")
}

func TestOptimizeDBIndexWarning(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{DB: &fakeDB{indexErr: errors.New("permission denied")}, Out: &out}
	require.Error(t, r.OptimizeDB(context.Background()))
	assert.Contains(t, out.String(), "Some indexes may already exist: permission denied")
	assert.Contains(t, out.String(), "Database optimization completed successfully")
}

func TestOptimizeDBWithoutDatabase(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{Out: &out}
	assert.ErrorIs(t, r.OptimizeDB(context.Background()), ErrNoDatabase)
}

func TestCountImages(t *testing.T) {
	ctx := context.Background()
	b := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = b.Close() })
	for _, key := range []string{"profile/me.PNG", "projects/a.jpg", "projects/b.jpeg", "projects/c.webp", "projects/d.gif", "resumes/cv.pdf", "notes.txt"} {
		require.NoError(t, b.WriteAll(ctx, key, []byte("x"), nil))
	}
	r := &Runner{Media: storage.NewBlobStore(b)}
	n, err := r.CountImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestOptimizeAll(t *testing.T) {
	ctx := context.Background()
	b := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = b.Close() })
	require.NoError(t, b.WriteAll(ctx, "profile/me.png", []byte("x"), nil))

	var out bytes.Buffer
	db := &fakeDB{}
	r := &Runner{Cache: cache.NewMemoryCache(), DB: db, Media: storage.NewBlobStore(b), Out: &out}
	require.NoError(t, r.Optimize(ctx, Options{All: true}))

	s := out.String()
	assert.Contains(t, s, "Cache cleared successfully")
	assert.Contains(t, s, "Found 1 images")
	assert.Contains(t, s, "Database optimized successfully")
	assert.Contains(t, s, "Template caching is enabled for production")
	assert.Equal(t, 1, db.analyzed)
}

func TestOptimizeSelectedSteps(t *testing.T) {
	var out bytes.Buffer
	db := &fakeDB{}
	r := &Runner{Cache: cache.NewMemoryCache(), DB: db, Out: &out}
	require.NoError(t, r.Optimize(context.Background(), Options{ClearCache: true}))
	assert.Contains(t, out.String(), "Cache cleared successfully")
	assert.NotContains(t, out.String(), "images")
	assert.Zero(t, db.analyzed)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	var out bytes.Buffer
	r := &Runner{Writer: mem, Out: &out}

	err := r.Import(ctx, domain.Content{
		SkillCategories: []domain.SkillCategory{{Name: "Languages", Skills: []domain.Skill{{Name: "Go"}, {Name: "SQL"}}}},
		Projects:        []domain.Project{{Title: "Site", IsFeatured: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Imported 0 experiences, 1 skill categories, 2 skills, 1 projects\n", out.String())

	projects, err := mem.ListFeaturedProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}
