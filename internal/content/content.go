// Package content loads portfolio records from a YAML document. It backs the
// import command and seeds the in-memory store during development.
package content

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"portfolio/pkg/domain"
)

// File is the on-disk layout of a content document.
type File struct {
	PersonalInfo    *PersonalInfo   `yaml:"personalInfo" validate:"omitempty"`
	Experiences     []Experience    `yaml:"experiences" validate:"dive"`
	SkillCategories []SkillCategory `yaml:"skillCategories" validate:"dive"`
	Projects        []Project       `yaml:"projects" validate:"dive"`
}

type PersonalInfo struct {
	Name         string `yaml:"name" validate:"required,max=100"`
	Title        string `yaml:"title" validate:"required,max=200"`
	Description  string `yaml:"description" validate:"required"`
	Email        string `yaml:"email" validate:"required,email"`
	Phone        string `yaml:"phone" validate:"omitempty,max=20"`
	Location     string `yaml:"location" validate:"omitempty,max=100"`
	GithubURL    string `yaml:"githubUrl" validate:"omitempty,url"`
	LinkedinURL  string `yaml:"linkedinUrl" validate:"omitempty,url"`
	ProfileImage string `yaml:"profileImage"`
	ResumeFile   string `yaml:"resumeFile"`
}

type Experience struct {
	Title       string `yaml:"title" validate:"required,max=200"`
	Company     string `yaml:"company" validate:"required,max=200"`
	Description string `yaml:"description" validate:"required"`
	StartDate   string `yaml:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `yaml:"endDate" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent   bool   `yaml:"isCurrent"`
	Order       int    `yaml:"order"`
}

type SkillCategory struct {
	Name   string  `yaml:"name" validate:"required,max=100"`
	Order  int     `yaml:"order"`
	Skills []Skill `yaml:"skills" validate:"dive"`
}

type Skill struct {
	Name        string `yaml:"name" validate:"required,max=100"`
	Proficiency int    `yaml:"proficiency" validate:"min=0,max=100"`
	Order       int    `yaml:"order"`
}

type Project struct {
	Title        string `yaml:"title" validate:"required,max=200"`
	Description  string `yaml:"description" validate:"required"`
	Image        string `yaml:"image"`
	LiveURL      string `yaml:"liveUrl" validate:"omitempty,url"`
	GithubURL    string `yaml:"githubUrl" validate:"omitempty,url"`
	Technologies string `yaml:"technologies" validate:"required,max=500"`
	Order        int    `yaml:"order"`
	// IsFeatured defaults to true when omitted.
	IsFeatured *bool `yaml:"isFeatured"`
}

var validate = validator.New()

// Load reads, validates and converts a content file.
func Load(path string) (domain.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Content{}, fmt.Errorf("read content file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML content document.
func Parse(data []byte) (domain.Content, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Content{}, fmt.Errorf("parse content: %w", err)
	}
	if err := f.Validate(); err != nil {
		return domain.Content{}, err
	}
	return f.toDomain()
}

// Validate checks field constraints and date ordering.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("content: invalid fields: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("content: %w", err)
	}
	for i, e := range f.Experiences {
		if e.EndDate == "" {
			continue
		}
		// layout already checked by the datetime tag
		start, _ := time.Parse(domain.DateLayout, e.StartDate)
		end, _ := time.Parse(domain.DateLayout, e.EndDate)
		if end.Before(start) {
			return fmt.Errorf("content: experiences[%d] end date %s is before start date %s", i, e.EndDate, e.StartDate)
		}
	}
	return nil
}

func (f *File) toDomain() (domain.Content, error) {
	var out domain.Content
	if p := f.PersonalInfo; p != nil {
		out.PersonalInfo = &domain.PersonalInfo{
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
		}
	}
	for _, e := range f.Experiences {
		start, err := time.Parse(domain.DateLayout, e.StartDate)
		if err != nil {
			return domain.Content{}, fmt.Errorf("content: start date %q: %w", e.StartDate, err)
		}
		exp := domain.Experience{
			Title:       e.Title,
			Company:     e.Company,
			Description: e.Description,
			StartDate:   start,
			IsCurrent:   e.IsCurrent,
			Order:       e.Order,
		}
		if e.EndDate != "" {
			end, err := time.Parse(domain.DateLayout, e.EndDate)
			if err != nil {
				return domain.Content{}, fmt.Errorf("content: end date %q: %w", e.EndDate, err)
			}
			exp.EndDate = &end
		}
		out.Experiences = append(out.Experiences, exp)
	}
	for _, c := range f.SkillCategories {
		cat := domain.SkillCategory{Name: c.Name, Order: c.Order}
		for _, s := range c.Skills {
			cat.Skills = append(cat.Skills, domain.Skill{Name: s.Name, Proficiency: s.Proficiency, Order: s.Order})
		}
		out.SkillCategories = append(out.SkillCategories, cat)
	}
	for _, p := range f.Projects {
		featured := true
		if p.IsFeatured != nil {
			featured = *p.IsFeatured
		}
		out.Projects = append(out.Projects, domain.Project{
			Title:        p.Title,
			Description:  p.Description,
			Image:        p.Image,
			LiveURL:      p.LiveURL,
			GithubURL:    p.GithubURL,
			Technologies: p.Technologies,
			Order:        p.Order,
			IsFeatured:   featured,
		})
	}
	return out, nil
}
