package client

import (
	"context"
	"net/url"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// Skills is the remote skill lookup. It satisfies picker.Lookup and picker.Resolver.
type Skills struct {
	c *Client
}

// Search returns skills whose name contains q.
func (s *Skills) Search(ctx context.Context, q string) ([]models.Entity, error) {
	var skills []models.Skill
	if err := s.c.get(ctx, "/skills/search", url.Values{"q": {q}}, &skills); err != nil {
		return nil, err
	}
	return skillEntities(skills), nil
}

// Create adds a skill. Skills carry no category, so category is ignored.
func (s *Skills) Create(ctx context.Context, name string, _ models.CourseCategory) (models.Entity, error) {
	var skill models.Skill
	if err := s.c.post(ctx, "/skills", map[string]string{"name": name}, &skill); err != nil {
		return models.Entity{}, err
	}
	return models.SkillEntity(skill), nil
}

// Get fetches one skill.
func (s *Skills) Get(ctx context.Context, id string) (models.Entity, error) {
	var skill models.Skill
	if err := s.c.get(ctx, "/skills/"+url.PathEscape(id), nil, &skill); err != nil {
		return models.Entity{}, err
	}
	return models.SkillEntity(skill), nil
}

// All lists every skill.
func (s *Skills) All(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := s.c.get(ctx, "/skills", nil, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// Courses is the remote course lookup. It satisfies picker.Lookup and picker.Resolver.
type Courses struct {
	c *Client
}

// Search returns courses whose name contains q.
func (s *Courses) Search(ctx context.Context, q string) ([]models.Entity, error) {
	var courses []models.Course
	if err := s.c.get(ctx, "/courses/search", url.Values{"q": {q}}, &courses); err != nil {
		return nil, err
	}
	out := make([]models.Entity, 0, len(courses))
	for _, course := range courses {
		out = append(out, models.CourseEntity(course))
	}
	return out, nil
}

// Create adds a course in the given category.
func (s *Courses) Create(ctx context.Context, name string, category models.CourseCategory) (models.Entity, error) {
	var course models.Course
	body := map[string]string{"name": name, "category": string(category)}
	if err := s.c.post(ctx, "/courses", body, &course); err != nil {
		return models.Entity{}, err
	}
	return models.CourseEntity(course), nil
}

// Get fetches one course.
func (s *Courses) Get(ctx context.Context, id string) (models.Entity, error) {
	var course models.Course
	if err := s.c.get(ctx, "/courses/"+url.PathEscape(id), nil, &course); err != nil {
		return models.Entity{}, err
	}
	return models.CourseEntity(course), nil
}

func skillEntities(skills []models.Skill) []models.Entity {
	out := make([]models.Entity, 0, len(skills))
	for _, s := range skills {
		out = append(out, models.SkillEntity(s))
	}
	return out
}
