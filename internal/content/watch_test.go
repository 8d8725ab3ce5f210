package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"portfolio/pkg/domain"
)

func TestWatchReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write content: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan domain.Content, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(_ context.Context, c domain.Content) error {
			got <- c
			return nil
		})
	}()

	updated := strings.Replace(sample, "name: Ada Lovelace", "name: Grace Hopper", 1)
	deadline := time.After(10 * time.Second)
	rewrite := time.NewTicker(time.Second)
	defer rewrite.Stop()
	for {
		select {
		case c := <-got:
			if c.PersonalInfo == nil || c.PersonalInfo.Name != "Grace Hopper" {
				t.Fatalf("reloaded content = %+v", c.PersonalInfo)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch returned %v", err)
			}
			return
		case <-rewrite.C:
			// the watcher may not be registered yet; keep touching the file
			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				t.Fatalf("rewrite content: %v", err)
			}
		case err := <-done:
			t.Fatalf("watch exited early: %v", err)
		case <-deadline:
			t.Fatalf("content change was not picked up")
		}
	}
}

func TestWatchSkipsInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write content: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	applied := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(context.Context, domain.Content) error {
			applied <- struct{}{}
			return nil
		})
	}()

	invalid := []byte("skillCategories:\n  - name: Go\n    skills:\n      - name: Go\n        proficiency: 101\n")
	for i := 0; i < 5; i++ {
		time.Sleep(150 * time.Millisecond)
		if err := os.WriteFile(path, invalid, 0o644); err != nil {
			t.Fatalf("rewrite content: %v", err)
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("watch returned %v", err)
	}
	select {
	case <-applied:
		t.Fatalf("invalid document was applied")
	default:
	}
}
