// Package maintenance implements the operator tasks behind portfolioctl.
// Every task reports its outcome on Out and never aborts the process;
// returned errors are for logging only.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"portfolio/pkg/cache"
	"portfolio/pkg/domain"
	"portfolio/pkg/storage"
	"portfolio/pkg/store"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ErrNoDatabase is returned by database tasks when the configured store has
// no maintenance capability.
var ErrNoDatabase = errors.New("maintenance: no database configured")

// Runner executes maintenance tasks. Any collaborator may be nil; tasks that
// need a missing one report it and return an error.
type Runner struct {
	Cache  cache.Cache
	DB     store.Maintainer
	Writer store.ContentWriter
	Media  storage.MediaStore
	Debug  bool
	Out    io.Writer
	Logger *slog.Logger
}

// Options selects the steps of Optimize.
type Options struct {
	ClearCache     bool
	OptimizeImages bool
	All            bool
}

// ClearCache drops every cached response.
func (r *Runner) ClearCache(ctx context.Context) error {
	if r.Cache == nil {
		r.printf("Failed to clear cache: no cache configured\n")
		return errors.New("maintenance: no cache configured")
	}
	n, err := r.Cache.Clear(ctx)
	if err != nil {
		r.printf("Failed to clear cache: %v\n", err)
		r.logger().Error("cache clear failed", "err", err)
		return err
	}
	r.logger().Info("cache cleared", "entries", n)
	r.printf("Cache cleared successfully\n")
	return nil
}

// OptimizeDB refreshes planner statistics and creates the read-path indexes.
// It is a no-op in debug mode.
func (r *Runner) OptimizeDB(ctx context.Context) error {
	if r.Debug {
		r.printf("This command should only be run in production\n")
		return nil
	}
	if r.DB == nil {
		r.printf("Database optimization skipped: %v\n", ErrNoDatabase)
		return ErrNoDatabase
	}
	if err := r.DB.Analyze(ctx); err != nil {
		r.printf("Database analyze failed: %v\n", err)
		r.logger().Error("database analyze failed", "err", err)
		return err
	}
	r.printf("Database tables analyzed successfully\n")

	names, err := r.DB.EnsureIndexes(ctx)
	if err != nil {
		r.printf("Some indexes may already exist: %v\n", err)
		r.logger().Warn("index creation incomplete", "ensured", names, "err", err)
	} else {
		r.printf("Database indexes created successfully (%s)\n", strings.Join(names, ", "))
	}
	r.printf("Database optimization completed successfully\n")
	return err
}

// CountImages counts image objects in media storage by file extension,
// ignoring case.
func (r *Runner) CountImages(ctx context.Context) (int, error) {
	if r.Media == nil {
		return 0, errors.New("maintenance: no media storage configured")
	}
	objects, err := r.Media.List(ctx, "")
	if err != nil {
		return 0, err
	}
	count := 0
	for _, obj := range objects {
		if _, ok := imageExtensions[strings.ToLower(path.Ext(obj.Key))]; ok {
			count++
		}
	}
	return count, nil
}

// Optimize runs the combined performance task.
func (r *Runner) Optimize(ctx context.Context, opts Options) error {
	var errs []error
	if opts.All || opts.ClearCache {
		r.printf("Clearing cache...\n")
		if err := r.ClearCache(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if opts.All || opts.OptimizeImages {
		r.printf("Scanning images...\n")
		n, err := r.CountImages(ctx)
		if err != nil {
			r.printf("Media storage not available: %v\n", err)
			errs = append(errs, err)
		} else {
			r.printf("Found %d images\n", n)
			r.printf("Image optimization completed\n")
		}
	}
	if opts.All {
		r.printf("Optimizing database...\n")
		if err := r.optimizeDatabase(ctx); err != nil {
			r.printf("Database optimization warning: %v\n", err)
			errs = append(errs, err)
		} else {
			r.printf("Database optimized successfully\n")
		}
		if r.Debug {
			r.printf("Template caching disabled in development\n")
		} else {
			r.printf("Template caching is enabled for production\n")
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) optimizeDatabase(ctx context.Context) error {
	if r.DB == nil {
		return ErrNoDatabase
	}
	if err := r.DB.Analyze(ctx); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	_, err := r.DB.EnsureIndexes(ctx)
	return err
}

// Import replaces all content with the given snapshot.
func (r *Runner) Import(ctx context.Context, content domain.Content) error {
	if r.Writer == nil {
		r.printf("Import failed: %v\n", ErrNoDatabase)
		return ErrNoDatabase
	}
	if err := r.Writer.ReplaceContent(ctx, content); err != nil {
		r.printf("Import failed: %v\n", err)
		r.logger().Error("content import failed", "err", err)
		return err
	}
	skills := 0
	for _, c := range content.SkillCategories {
		skills += len(c.Skills)
	}
	r.printf("Imported %d experiences, %d skill categories, %d skills, %d projects\n",
		len(content.Experiences), len(content.SkillCategories), skills, len(content.Projects))
	return nil
}

func (r *Runner) printf(format string, args ...any) {
	if r.Out == nil {
		return
	}
	fmt.Fprintf(r.Out, format, args...)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
