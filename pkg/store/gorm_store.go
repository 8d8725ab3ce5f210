package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"portfolio/pkg/domain"
)

const migrateLockID int64 = 41707101

// pgDuplicateRelation is raised when two processes race on CREATE INDEX IF NOT EXISTS.
const pgDuplicateRelation = "42P07"

type secondaryIndex struct {
	name string
	ddl  string
}

// Indexes supporting the read-path sort and filter predicates.
var secondaryIndexes = []secondaryIndex{
	{
		name: "idx_experience_start_date",
		ddl:  `CREATE INDEX IF NOT EXISTS idx_experience_start_date ON experience_models (start_date DESC)`,
	},
	{
		name: "idx_project_featured",
		ddl:  `CREATE INDEX IF NOT EXISTS idx_project_featured ON project_models (is_featured) WHERE is_featured = true`,
	},
	{
		name: "idx_skill_category_order",
		ddl:  `CREATE INDEX IF NOT EXISTS idx_skill_category_order ON skill_category_models (sort_order)`,
	},
}

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	if err := withMigrationLock(db, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&PersonalInfoModel{}, &ExperienceModel{}, &SkillCategoryModel{}, &SkillModel{}, &ProjectModel{}); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func withMigrationLock(db *gorm.DB, fn func(*gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open sql conn: %w", err)
	}
	defer conn.Close()
	if err := execAdvisory(ctx, conn, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() {
		_ = execAdvisory(ctx, conn, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()
	return fn(db)
}

func execAdvisory(ctx context.Context, conn *sql.Conn, query string, lockID int64) error {
	_, err := conn.ExecContext(ctx, query, lockID)
	return err
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetPersonalInfo returns the personal info row by id (0 = lowest id).
func (s *GormStore) GetPersonalInfo(ctx context.Context, id uint) (domain.PersonalInfo, bool, error) {
	var model PersonalInfoModel
	q := s.db.WithContext(ctx)
	var err error
	if id == 0 {
		err = q.Order("id asc").First(&model).Error
	} else {
		err = q.First(&model, "id = ?", id).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PersonalInfo{}, false, nil
		}
		return domain.PersonalInfo{}, false, err
	}
	return personalInfoFromModel(model), true, nil
}

// ListExperiences returns experiences by order desc, then start date desc.
func (s *GormStore) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	var models []ExperienceModel
	if err := s.db.WithContext(ctx).
		Order("sort_order desc").
		Order("start_date desc").
		Order("id desc").
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Experience, 0, len(models))
	for _, m := range models {
		res = append(res, experienceFromModel(m))
	}
	return res, nil
}

// ListSkillCategories returns categories with their skills preloaded in order.
func (s *GormStore) ListSkillCategories(ctx context.Context) ([]domain.SkillCategory, error) {
	var models []SkillCategoryModel
	if err := s.db.WithContext(ctx).
		Preload("Skills", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc").Order("id asc")
		}).
		Order("sort_order asc").
		Order("id asc").
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.SkillCategory, 0, len(models))
	for _, m := range models {
		res = append(res, skillCategoryFromModel(m))
	}
	return res, nil
}

// ListFeaturedProjects returns featured projects by order asc.
func (s *GormStore) ListFeaturedProjects(ctx context.Context) ([]domain.Project, error) {
	var models []ProjectModel
	if err := s.db.WithContext(ctx).
		Where("is_featured = ?", true).
		Order("sort_order asc").
		Order("id asc").
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Project, 0, len(models))
	for _, m := range models {
		res = append(res, projectFromModel(m))
	}
	return res, nil
}

// ReplaceContent deletes all portfolio rows and inserts content in one transaction.
func (s *GormStore) ReplaceContent(ctx context.Context, content domain.Content) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&SkillModel{}, &SkillCategoryModel{}, &ExperienceModel{}, &ProjectModel{}, &PersonalInfoModel{}} {
			if err := wipe.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		if content.PersonalInfo != nil {
			model := personalInfoToModel(*content.PersonalInfo)
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("save personal info: %w", err)
			}
		}
		if len(content.Experiences) > 0 {
			models := make([]ExperienceModel, 0, len(content.Experiences))
			for _, e := range content.Experiences {
				models = append(models, experienceToModel(e))
			}
			if err := tx.Create(&models).Error; err != nil {
				return fmt.Errorf("save experiences: %w", err)
			}
		}
		if len(content.SkillCategories) > 0 {
			models := make([]SkillCategoryModel, 0, len(content.SkillCategories))
			for _, c := range content.SkillCategories {
				models = append(models, skillCategoryToModel(c))
			}
			if err := tx.Create(&models).Error; err != nil {
				return fmt.Errorf("save skill categories: %w", err)
			}
		}
		if len(content.Projects) > 0 {
			models := make([]ProjectModel, 0, len(content.Projects))
			for _, p := range content.Projects {
				models = append(models, projectToModel(p))
			}
			if err := tx.Create(&models).Error; err != nil {
				return fmt.Errorf("save projects: %w", err)
			}
		}
		return nil
	})
}

// Analyze refreshes planner statistics for the whole database.
func (s *GormStore) Analyze(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("ANALYZE").Error; err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return nil
}

// EnsureIndexes creates the secondary indexes when absent and returns the
// names of the indexes known to exist afterwards.
func (s *GormStore) EnsureIndexes(ctx context.Context) ([]string, error) {
	ensured := make([]string, 0, len(secondaryIndexes))
	var errs []error
	for _, idx := range secondaryIndexes {
		err := s.db.WithContext(ctx).Exec(idx.ddl).Error
		var pgErr *pgconn.PgError
		if err != nil && !(errors.As(err, &pgErr) && pgErr.Code == pgDuplicateRelation) {
			errs = append(errs, fmt.Errorf("create %s: %w", idx.name, err))
			continue
		}
		ensured = append(ensured, idx.name)
	}
	return ensured, errors.Join(errs...)
}

// Ping checks database connectivity.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func personalInfoFromModel(m PersonalInfoModel) domain.PersonalInfo {
	return domain.PersonalInfo{
		ID:           m.ID,
		Name:         m.Name,
		Title:        m.Title,
		Description:  m.Description,
		Email:        m.Email,
		Phone:        m.Phone,
		Location:     m.Location,
		GithubURL:    m.GithubURL,
		LinkedinURL:  m.LinkedinURL,
		ProfileImage: m.ProfileImage,
		ResumeFile:   m.ResumeFile,
	}
}

func personalInfoToModel(p domain.PersonalInfo) PersonalInfoModel {
	now := time.Now().UTC()
	return PersonalInfoModel{
		ID:           p.ID,
		Name:         p.Name,
		Title:        p.Title,
		Description:  p.Description,
		Email:        p.Email,
		Phone:        p.Phone,
		Location:     p.Location,
		GithubURL:    p.GithubURL,
		LinkedinURL:  p.LinkedinURL,
		ProfileImage: p.ProfileImage,
		ResumeFile:   p.ResumeFile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func experienceFromModel(m ExperienceModel) domain.Experience {
	e := domain.Experience{
		ID:          m.ID,
		Title:       m.Title,
		Company:     m.Company,
		Description: m.Description,
		StartDate:   time.Time(m.StartDate),
		IsCurrent:   m.IsCurrent,
		Order:       m.SortOrder,
	}
	if m.EndDate != nil {
		end := time.Time(*m.EndDate)
		e.EndDate = &end
	}
	return e
}

func experienceToModel(e domain.Experience) ExperienceModel {
	m := ExperienceModel{
		ID:          e.ID,
		Title:       e.Title,
		Company:     e.Company,
		Description: e.Description,
		StartDate:   datatypes.Date(e.StartDate),
		IsCurrent:   e.IsCurrent,
		SortOrder:   e.Order,
	}
	if e.EndDate != nil {
		end := datatypes.Date(*e.EndDate)
		m.EndDate = &end
	}
	return m
}

func skillCategoryFromModel(m SkillCategoryModel) domain.SkillCategory {
	skills := make([]domain.Skill, 0, len(m.Skills))
	for _, sk := range m.Skills {
		skills = append(skills, domain.Skill{
			ID:          sk.ID,
			CategoryID:  sk.CategoryID,
			Name:        sk.Name,
			Proficiency: sk.Proficiency,
			Order:       sk.SortOrder,
		})
	}
	return domain.SkillCategory{
		ID:     m.ID,
		Name:   m.Name,
		Order:  m.SortOrder,
		Skills: skills,
	}
}

func skillCategoryToModel(c domain.SkillCategory) SkillCategoryModel {
	skills := make([]SkillModel, 0, len(c.Skills))
	for _, sk := range c.Skills {
		skills = append(skills, SkillModel{
			ID:          sk.ID,
			Name:        sk.Name,
			Proficiency: sk.Proficiency,
			SortOrder:   sk.Order,
		})
	}
	return SkillCategoryModel{
		ID:        c.ID,
		Name:      c.Name,
		SortOrder: c.Order,
		Skills:    skills,
	}
}

func projectFromModel(m ProjectModel) domain.Project {
	return domain.Project{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Image:        m.Image,
		LiveURL:      m.LiveURL,
		GithubURL:    m.GithubURL,
		Technologies: m.Technologies,
		Order:        m.SortOrder,
		IsFeatured:   m.IsFeatured,
	}
}

func projectToModel(p domain.Project) ProjectModel {
	return ProjectModel{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Image:        p.Image,
		LiveURL:      p.LiveURL,
		GithubURL:    p.GithubURL,
		Technologies: p.Technologies,
		SortOrder:    p.Order,
		IsFeatured:   p.IsFeatured,
	}
}
