package app

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"portfolio/pkg/storage"
	"portfolio/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	Store store.Store
	Media storage.MediaStore
	// MediaURL prefixes media keys in responses, e.g. "/media/".
	MediaURL string
	// PersonalInfoID selects the served record; 0 picks the lowest id.
	PersonalInfoID uint
}

// App shapes stored portfolio content for the HTTP layer.
type App struct {
	store          store.Store
	media          storage.MediaStore
	mediaURL       string
	personalInfoID uint
}

// New constructs the application.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store required")
	}
	if cfg.Media == nil {
		return nil, errors.New("media store required")
	}
	mediaURL := cfg.MediaURL
	if mediaURL == "" {
		mediaURL = "/media/"
	}
	if !strings.HasSuffix(mediaURL, "/") {
		mediaURL += "/"
	}
	return &App{
		store:          cfg.Store,
		media:          cfg.Media,
		mediaURL:       mediaURL,
		personalInfoID: cfg.PersonalInfoID,
	}, nil
}

// MediaURL returns the public URL of a media key, or "" for an empty key.
func (a *App) MediaURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return ""
	}
	return a.mediaURL + key
}

// PersonalInfo returns the configured personal info record.
func (a *App) PersonalInfo(ctx context.Context) (PersonalInfoView, error) {
	info, ok, err := a.store.GetPersonalInfo(ctx, a.personalInfoID)
	if err != nil {
		return PersonalInfoView{}, fmt.Errorf("load personal info: %w", err)
	}
	if !ok {
		return PersonalInfoView{}, ErrPersonalInfoNotFound
	}
	return a.personalInfoView(info), nil
}

// Experiences returns every experience, newest first.
func (a *App) Experiences(ctx context.Context) ([]ExperienceView, error) {
	rows, err := a.store.ListExperiences(ctx)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	out := make([]ExperienceView, 0, len(rows))
	for _, e := range rows {
		out = append(out, experienceView(e))
	}
	return out, nil
}

// SkillCategories returns categories with their skills nested.
func (a *App) SkillCategories(ctx context.Context) ([]SkillCategoryView, error) {
	rows, err := a.store.ListSkillCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skill categories: %w", err)
	}
	out := make([]SkillCategoryView, 0, len(rows))
	for _, c := range rows {
		out = append(out, skillCategoryView(c))
	}
	return out, nil
}

// FeaturedProjects returns featured projects only.
func (a *App) FeaturedProjects(ctx context.Context) ([]ProjectView, error) {
	rows, err := a.store.ListFeaturedProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]ProjectView, 0, len(rows))
	for _, p := range rows {
		out = append(out, a.projectView(p))
	}
	return out, nil
}

// Home loads everything the portfolio page shows. A missing personal info
// record is not an error; the page renders without it.
func (a *App) Home(ctx context.Context) (Page, error) {
	var page Page
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, ok, err := a.store.GetPersonalInfo(ctx, a.personalInfoID)
		if err != nil {
			return fmt.Errorf("load personal info: %w", err)
		}
		if ok {
			page.PersonalInfo = &info
		}
		return nil
	})
	g.Go(func() error {
		rows, err := a.store.ListExperiences(ctx)
		if err != nil {
			return fmt.Errorf("list experiences: %w", err)
		}
		page.Experiences = rows
		return nil
	})
	g.Go(func() error {
		rows, err := a.store.ListSkillCategories(ctx)
		if err != nil {
			return fmt.Errorf("list skill categories: %w", err)
		}
		page.SkillCategories = rows
		return nil
	})
	g.Go(func() error {
		rows, err := a.store.ListFeaturedProjects(ctx)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		page.Projects = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}
	return page, nil
}

// Resume is an open resume file. Callers must close Object.Reader.
type Resume struct {
	Filename string
	Object   *storage.Object
}

// Resume opens the resume attached to the configured personal info.
func (a *App) Resume(ctx context.Context) (*Resume, error) {
	info, ok, err := a.store.GetPersonalInfo(ctx, a.personalInfoID)
	if err != nil {
		return nil, fmt.Errorf("load personal info: %w", err)
	}
	if !ok || strings.TrimSpace(info.ResumeFile) == "" {
		return nil, ErrResumeNotFound
	}
	obj, err := a.media.Open(ctx, info.ResumeFile)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrResumeFileMissing
	}
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	return &Resume{Filename: path.Base(info.ResumeFile), Object: obj}, nil
}

// OpenMedia opens a stored media object by key.
func (a *App) OpenMedia(ctx context.Context, key string) (*storage.Object, error) {
	key, ok := cleanMediaKey(key)
	if !ok {
		return nil, ErrMediaNotFound
	}
	obj, err := a.media.Open(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	return obj, nil
}

// cleanMediaKey rejects keys that escape the media root.
func cleanMediaKey(key string) (string, bool) {
	if key == "" || strings.Contains(key, "\\") {
		return "", false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", false
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}
