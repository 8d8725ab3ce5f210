package store

import (
	"context"
	"sort"
	"sync"

	"portfolio/pkg/domain"
)

// MemoryStore keeps portfolio content in-process for development and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	people     []domain.PersonalInfo
	experience []domain.Experience
	categories []domain.SkillCategory
	projects   []domain.Project
	nextID     uint
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// GetPersonalInfo returns the record with the given id, or the lowest id when id is 0.
func (m *MemoryStore) GetPersonalInfo(_ context.Context, id uint) (domain.PersonalInfo, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var (
		best  domain.PersonalInfo
		found bool
	)
	for _, p := range m.people {
		if id != 0 {
			if p.ID == id {
				return p, true, nil
			}
			continue
		}
		if !found || p.ID < best.ID {
			best, found = p, true
		}
	}
	return best, found, nil
}

// ListExperiences returns experiences by order desc, then start date desc.
func (m *MemoryStore) ListExperiences(_ context.Context) ([]domain.Experience, error) {
	m.mu.RLock()
	res := append([]domain.Experience(nil), m.experience...)
	m.mu.RUnlock()
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.Order != b.Order {
			return a.Order > b.Order
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID > b.ID
	})
	if res == nil {
		res = []domain.Experience{}
	}
	return res, nil
}

// ListSkillCategories returns categories and skills by order asc.
func (m *MemoryStore) ListSkillCategories(_ context.Context) ([]domain.SkillCategory, error) {
	m.mu.RLock()
	res := make([]domain.SkillCategory, 0, len(m.categories))
	for _, c := range m.categories {
		c.Skills = append([]domain.Skill{}, c.Skills...)
		res = append(res, c)
	}
	m.mu.RUnlock()
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Order != res[j].Order {
			return res[i].Order < res[j].Order
		}
		return res[i].ID < res[j].ID
	})
	for _, c := range res {
		skills := c.Skills
		sort.SliceStable(skills, func(i, j int) bool {
			if skills[i].Order != skills[j].Order {
				return skills[i].Order < skills[j].Order
			}
			return skills[i].ID < skills[j].ID
		})
	}
	return res, nil
}

// ListFeaturedProjects returns featured projects by order asc.
func (m *MemoryStore) ListFeaturedProjects(_ context.Context) ([]domain.Project, error) {
	m.mu.RLock()
	res := make([]domain.Project, 0, len(m.projects))
	for _, p := range m.projects {
		if p.IsFeatured {
			res = append(res, p)
		}
	}
	m.mu.RUnlock()
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Order != res[j].Order {
			return res[i].Order < res[j].Order
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

// ReplaceContent swaps every record, assigning ids to rows that have none.
func (m *MemoryStore) ReplaceContent(_ context.Context, content domain.Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.people = nil
	if content.PersonalInfo != nil {
		p := *content.PersonalInfo
		p.ID = m.assignLocked(p.ID)
		m.people = append(m.people, p)
	}
	m.experience = make([]domain.Experience, 0, len(content.Experiences))
	for _, e := range content.Experiences {
		e.ID = m.assignLocked(e.ID)
		m.experience = append(m.experience, e)
	}
	m.categories = make([]domain.SkillCategory, 0, len(content.SkillCategories))
	for _, c := range content.SkillCategories {
		c.ID = m.assignLocked(c.ID)
		skills := make([]domain.Skill, 0, len(c.Skills))
		for _, sk := range c.Skills {
			sk.ID = m.assignLocked(sk.ID)
			sk.CategoryID = c.ID
			skills = append(skills, sk)
		}
		c.Skills = skills
		m.categories = append(m.categories, c)
	}
	m.projects = make([]domain.Project, 0, len(content.Projects))
	for _, p := range content.Projects {
		p.ID = m.assignLocked(p.ID)
		m.projects = append(m.projects, p)
	}
	return nil
}

// SavePersonalInfo adds or replaces a personal info record by id.
func (m *MemoryStore) SavePersonalInfo(p domain.PersonalInfo) domain.PersonalInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.assignLocked(p.ID)
	for i := range m.people {
		if m.people[i].ID == p.ID {
			m.people[i] = p
			return p
		}
	}
	m.people = append(m.people, p)
	return p
}

// SaveSkillCategory appends a category with its skills.
func (m *MemoryStore) SaveSkillCategory(c domain.SkillCategory) domain.SkillCategory {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.assignLocked(c.ID)
	for i := range c.Skills {
		c.Skills[i].ID = m.assignLocked(c.Skills[i].ID)
		c.Skills[i].CategoryID = c.ID
	}
	m.categories = append(m.categories, c)
	return c
}

// DeleteSkillCategory removes a category together with its skills.
func (m *MemoryStore) DeleteSkillCategory(id uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	filtered := m.categories[:0]
	for _, c := range m.categories {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	m.categories = filtered
}

// assignLocked returns id, or the next free id when id is 0.
func (m *MemoryStore) assignLocked(id uint) uint {
	if id == 0 {
		id = m.nextID
	}
	if id >= m.nextID {
		m.nextID = id + 1
	}
	return id
}
