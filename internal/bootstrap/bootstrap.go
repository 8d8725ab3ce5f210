// Package bootstrap builds the storage, cache and media backends selected by
// configuration. Both binaries share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/content"
	"portfolio/internal/ratelimit"
	"portfolio/pkg/cache"
	"portfolio/pkg/domain"
	"portfolio/pkg/storage"
	"portfolio/pkg/store"
)

// Stores groups the views of one data store.
type Stores struct {
	Store  store.Store
	Writer store.ContentWriter
	// DB is nil for the in-memory store.
	DB    store.Maintainer
	close func() error
}

// Close releases the underlying connection pool.
func (s *Stores) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores connects to PostgreSQL when databaseURL is set and otherwise
// serves the content file from memory.
func OpenStores(cfg config.FileConfig) (*Stores, error) {
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		db, err := store.NewGormStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		return &Stores{Store: db, Writer: db, DB: db, close: db.Close}, nil
	}
	mem := store.NewMemoryStore()
	if path := strings.TrimSpace(cfg.ContentFile); path != "" {
		c, err := content.Load(path)
		if err != nil {
			return nil, err
		}
		if err := mem.ReplaceContent(context.Background(), c); err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
		slog.Info("serving content from file", "path", path)
	}
	return &Stores{Store: mem, Writer: mem}, nil
}

// OpenCache returns the Redis response cache, or an in-process cache when no
// Redis address is configured (debug only, enforced by config validation).
func OpenCache(cfg config.FileConfig) (cache.Cache, error) {
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CachePrefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	if !cfg.Debug {
		return nil, errors.New("redis address required outside debug mode")
	}
	return cache.NewMemoryCache(), nil
}

// OpenMedia opens the configured media backend.
func OpenMedia(ctx context.Context, cfg config.FileConfig) (storage.MediaStore, error) {
	switch cfg.MediaBackend {
	case config.MediaBackendMinio:
		m, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.MediaBackendBlob, "":
		b, err := storage.OpenBlobStore(ctx, cfg.MediaBucketURL)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}

// OpenLimiter returns nil when rate limiting is disabled.
func OpenLimiter(cfg config.FileConfig) (ratelimit.Limiter, error) {
	if cfg.RateLimitPerMinute <= 0 {
		return nil, nil
	}
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		prefix := "portfolio:ratelimit"
		if p := strings.TrimSpace(cfg.CachePrefix); p != "" {
			prefix = p + ":ratelimit"
		}
		l, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, cfg.RateLimitPerMinute, time.Minute)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	l, err := ratelimit.NewMemoryFixedWindowLimiter(cfg.RateLimitPerMinute, time.Minute)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// WatchContent keeps a file-backed memory store in sync with the content
// file and clears the response cache after each reload. It returns
// immediately for database-backed stores and blocks until ctx is done
// otherwise.
func WatchContent(ctx context.Context, cfg config.FileConfig, stores *Stores, c cache.Cache) error {
	path := strings.TrimSpace(cfg.ContentFile)
	if stores == nil || stores.DB != nil || stores.Writer == nil || path == "" {
		return nil
	}
	return content.Watch(ctx, path, func(ctx context.Context, doc domain.Content) error {
		if err := stores.Writer.ReplaceContent(ctx, doc); err != nil {
			return err
		}
		if c != nil {
			if _, err := c.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache after reload: %w", err)
			}
		}
		return nil
	})
}
