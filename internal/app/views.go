package app

import "portfolio/pkg/domain"

// PersonalInfoView is the JSON shape of the personal info endpoint.
// Optional text fields serialize as null when unset.
type PersonalInfoView struct {
	Name         string  `json:"name"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	Location     *string `json:"location"`
	GithubURL    *string `json:"github_url"`
	LinkedinURL  *string `json:"linkedin_url"`
	ProfileImage string  `json:"profile_image,omitempty"`
}

// ExperienceView omits end_date entirely when the role has no end date.
type ExperienceView struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	IsCurrent   bool   `json:"is_current"`
	EndDate     string `json:"end_date,omitempty"`
}

type SkillCategoryView struct {
	Name   string      `json:"name"`
	Skills []SkillView `json:"skills"`
}

type SkillView struct {
	Name        string `json:"name"`
	Proficiency int    `json:"proficiency"`
}

type ProjectView struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	LiveURL      *string  `json:"live_url"`
	GithubURL    *string  `json:"github_url"`
	Image        string   `json:"image,omitempty"`
}

// Page is the render context of the portfolio page. A zero Page is the
// degraded context: no personal info and empty lists.
type Page struct {
	PersonalInfo    *domain.PersonalInfo
	Experiences     []domain.Experience
	SkillCategories []domain.SkillCategory
	Projects        []domain.Project
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (a *App) personalInfoView(p domain.PersonalInfo) PersonalInfoView {
	return PersonalInfoView{
		Name:         p.Name,
		Title:        p.Title,
		Description:  p.Description,
		Email:        p.Email,
		Phone:        nullable(p.Phone),
		Location:     nullable(p.Location),
		GithubURL:    nullable(p.GithubURL),
		LinkedinURL:  nullable(p.LinkedinURL),
		ProfileImage: a.MediaURL(p.ProfileImage),
	}
}

func experienceView(e domain.Experience) ExperienceView {
	v := ExperienceView{
		Title:       e.Title,
		Company:     e.Company,
		Description: e.Description,
		StartDate:   e.StartDate.Format(domain.DateLayout),
		IsCurrent:   e.IsCurrent,
	}
	if e.EndDate != nil {
		v.EndDate = e.EndDate.Format(domain.DateLayout)
	}
	return v
}

func skillCategoryView(c domain.SkillCategory) SkillCategoryView {
	v := SkillCategoryView{Name: c.Name, Skills: make([]SkillView, 0, len(c.Skills))}
	for _, s := range c.Skills {
		v.Skills = append(v.Skills, SkillView{Name: s.Name, Proficiency: s.Proficiency})
	}
	return v
}

func (a *App) projectView(p domain.Project) ProjectView {
	return ProjectView{
		Title:        p.Title,
		Description:  p.Description,
		Technologies: domain.ParseTechnologies(p.Technologies),
		LiveURL:      nullable(p.LiveURL),
		GithubURL:    nullable(p.GithubURL),
		Image:        a.MediaURL(p.Image),
	}
}
