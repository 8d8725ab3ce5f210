//go:build integration

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"portfolio/pkg/domain"
)

func setupPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "portfolio",
			"POSTGRES_PASSWORD": "portfolio",
			"POSTGRES_DB":       "portfolio",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://portfolio:portfolio@%s:%s/portfolio?sslmode=disable", host, port.Port())
}

func TestGormStoreReadPath(t *testing.T) {
	s, err := NewGormStore(setupPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	end := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.ReplaceContent(ctx, domain.Content{
		PersonalInfo: &domain.PersonalInfo{Name: "Ada", Title: "Engineer", Description: "d", Email: "ada@example.com"},
		Experiences: []domain.Experience{
			{Title: "old", Company: "A", Description: "d", StartDate: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: &end},
			{Title: "new", Company: "B", Description: "d", StartDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), IsCurrent: true},
		},
		SkillCategories: []domain.SkillCategory{
			{Name: "Tools", Order: 2, Skills: []domain.Skill{{Name: "Docker", Proficiency: 70, Order: 2}, {Name: "Git", Proficiency: 90, Order: 1}}},
			{Name: "Languages", Order: 1, Skills: []domain.Skill{{Name: "Go", Proficiency: 85}}},
		},
		Projects: []domain.Project{
			{Title: "second", Description: "d", Technologies: "Go", Order: 2, IsFeatured: true},
			{Title: "draft", Description: "d", Technologies: "Go", Order: 0, IsFeatured: false},
			{Title: "first", Description: "d", Technologies: "Go", Order: 1, IsFeatured: true},
		},
	}))

	info, ok, err := s.GetPersonalInfo(ctx, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada", info.Name)

	experiences, err := s.ListExperiences(ctx)
	require.NoError(t, err)
	require.Len(t, experiences, 2)
	assert.Equal(t, "new", experiences[0].Title)
	assert.Nil(t, experiences[0].EndDate)
	require.NotNil(t, experiences[1].EndDate)
	assert.Equal(t, "2023-05-01", experiences[1].EndDate.Format(domain.DateLayout))

	categories, err := s.ListSkillCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Languages", categories[0].Name)
	require.Len(t, categories[1].Skills, 2)
	assert.Equal(t, "Git", categories[1].Skills[0].Name)
	for _, c := range categories {
		for _, sk := range c.Skills {
			assert.Equal(t, c.ID, sk.CategoryID)
		}
	}

	projects, err := s.ListFeaturedProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "first", projects[0].Title)
	assert.Equal(t, "second", projects[1].Title)
}

func TestGormStoreMaintenance(t *testing.T) {
	s, err := NewGormStore(setupPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Analyze(ctx))
	names, err := s.EnsureIndexes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"idx_experience_start_date", "idx_project_featured", "idx_skill_category_order"}, names)

	// second run is a no-op
	names, err = s.EnsureIndexes(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 3)
}

func TestGormStoreCategoryDeleteCascades(t *testing.T) {
	s, err := NewGormStore(setupPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.ReplaceContent(ctx, domain.Content{
		SkillCategories: []domain.SkillCategory{{Name: "Cloud", Skills: []domain.Skill{{Name: "AWS", Proficiency: 50}}}},
	}))
	require.NoError(t, s.db.Exec("DELETE FROM skill_category_models").Error)

	var count int64
	require.NoError(t, s.db.Model(&SkillModel{}).Count(&count).Error)
	assert.Zero(t, count)
}
