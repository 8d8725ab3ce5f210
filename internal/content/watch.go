package content

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"portfolio/pkg/domain"
)

const reloadSettle = 300 * time.Millisecond

// Watch reloads path whenever it changes on disk and passes each valid
// document to apply. Documents that fail to load are logged and skipped.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, apply func(context.Context, domain.Content) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve content path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create content watcher: %w", err)
	}
	defer w.Close()
	// editors replace files by rename, so watch the directory
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch content dir: %w", err)
	}
	slog.Info("watching content file", "path", abs)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			pending = time.Now()
		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < reloadSettle {
				continue
			}
			pending = time.Time{}
			c, err := Load(abs)
			if err != nil {
				slog.Warn("content reload skipped", "path", abs, "err", err)
				continue
			}
			if err := apply(ctx, c); err != nil {
				slog.Warn("content reload failed", "path", abs, "err", err)
				continue
			}
			slog.Info("content reloaded", "path", abs)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("content watch error", "err", err)
		}
	}
}
