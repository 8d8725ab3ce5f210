package store

import (
	"context"

	"portfolio/pkg/domain"
)

// Store defines the read path over portfolio content.
type Store interface {
	// GetPersonalInfo returns the record with the given id, or the record with
	// the lowest id when id is 0.
	GetPersonalInfo(ctx context.Context, id uint) (domain.PersonalInfo, bool, error)
	// ListExperiences orders by order desc, start date desc.
	ListExperiences(ctx context.Context) ([]domain.Experience, error)
	// ListSkillCategories orders categories and their nested skills by order asc.
	ListSkillCategories(ctx context.Context) ([]domain.SkillCategory, error)
	// ListFeaturedProjects returns featured projects ordered by order asc.
	ListFeaturedProjects(ctx context.Context) ([]domain.Project, error)
}

// ContentWriter replaces every portfolio record in one step.
type ContentWriter interface {
	ReplaceContent(ctx context.Context, content domain.Content) error
}

// Maintainer is an optional capability of database-backed stores.
type Maintainer interface {
	Analyze(ctx context.Context) error
	EnsureIndexes(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
