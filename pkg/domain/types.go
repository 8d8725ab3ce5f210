package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire and in content files.
const DateLayout = "2006-01-02"

type PersonalInfo struct {
	ID           uint
	Name         string
	Title        string
	Description  string
	Email        string
	Phone        string
	Location     string
	GithubURL    string
	LinkedinURL  string
	ProfileImage string // media storage key, empty when unset
	ResumeFile   string // media storage key, empty when unset
}

type Experience struct {
	ID          uint
	Title       string
	Company     string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	IsCurrent   bool
	Order       int
}

type SkillCategory struct {
	ID     uint
	Name   string
	Order  int
	Skills []Skill
}

type Skill struct {
	ID          uint
	CategoryID  uint
	Name        string
	Proficiency int
	Order       int
}

type Project struct {
	ID           uint
	Title        string
	Description  string
	Image        string // media storage key, empty when unset
	LiveURL      string
	GithubURL    string
	Technologies string // comma-separated
	Order        int
	IsFeatured   bool
}

// Content is a full snapshot of the portfolio records.
type Content struct {
	PersonalInfo    *PersonalInfo
	Experiences     []Experience
	SkillCategories []SkillCategory
	Projects        []Project
}

// ParseTechnologies splits a comma-separated technology list, trimming
// whitespace and dropping empty segments while keeping input order.
func ParseTechnologies(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
