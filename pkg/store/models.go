package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type PersonalInfoModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Title        string `gorm:"size:200;not null"`
	Description  string `gorm:"type:text;not null"`
	Email        string `gorm:"size:254;not null"`
	Phone        string `gorm:"size:20"`
	Location     string `gorm:"size:100"`
	GithubURL    string
	LinkedinURL  string
	ProfileImage string
	ResumeFile   string
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

type ExperienceModel struct {
	ID          uint           `gorm:"primaryKey"`
	Title       string         `gorm:"size:200;not null"`
	Company     string         `gorm:"size:200;not null"`
	Description string         `gorm:"type:text;not null"`
	StartDate   datatypes.Date `gorm:"not null"`
	EndDate     *datatypes.Date
	IsCurrent   bool `gorm:"not null;default:false"`
	SortOrder   int  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SkillCategoryModel struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"size:100;not null"`
	SortOrder int          `gorm:"not null;default:0"`
	Skills    []SkillModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

type SkillModel struct {
	ID          uint   `gorm:"primaryKey"`
	CategoryID  uint   `gorm:"not null;index:idx_skill_category_position,priority:1"`
	Name        string `gorm:"size:100;not null"`
	Proficiency int    `gorm:"not null;default:0;check:chk_skill_proficiency,proficiency >= 0 AND proficiency <= 100"`
	SortOrder   int    `gorm:"not null;default:0;index:idx_skill_category_position,priority:2"`
}

type ProjectModel struct {
	ID           uint   `gorm:"primaryKey"`
	Title        string `gorm:"size:200;not null"`
	Description  string `gorm:"type:text;not null"`
	Image        string
	LiveURL      string
	GithubURL    string
	Technologies string `gorm:"type:text;not null"`
	SortOrder    int    `gorm:"not null;default:0"`
	IsFeatured   bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
