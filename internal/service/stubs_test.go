package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (m *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *memCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *memCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

type profileListStub struct {
	mu       sync.Mutex
	profiles []models.StudentProfile
	calls    int
	err      error
	// when gate is set, ListAll signals loaded after copying profiles and then waits on gate.
	gate   chan struct{}
	loaded chan struct{}
}

func (p *profileListStub) ListAll(ctx context.Context) ([]models.StudentProfile, error) {
	p.mu.Lock()
	p.calls++
	if p.err != nil {
		p.mu.Unlock()
		return nil, p.err
	}
	out := make([]models.StudentProfile, len(p.profiles))
	copy(out, p.profiles)
	gate, loaded := p.gate, p.loaded
	p.gate, p.loaded = nil, nil
	p.mu.Unlock()

	if gate != nil {
		close(loaded)
		<-gate
	}
	return out, nil
}

func (p *profileListStub) setHeadline(id, headline string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.profiles {
		if p.profiles[i].ID == id {
			p.profiles[i].Headline = headline
		}
	}
}

type skillRepoStub struct {
	skills    map[string]models.Skill
	created   []models.Skill
	createErr error
	searches  int
	batches   int
}

func newSkillRepoStub(skills ...models.Skill) *skillRepoStub {
	s := &skillRepoStub{skills: map[string]models.Skill{}}
	for _, sk := range skills {
		s.skills[sk.ID] = sk
	}
	return s
}

func (s *skillRepoStub) Search(ctx context.Context, q string, limit int) ([]models.Skill, error) {
	s.searches++
	var out []models.Skill
	for _, sk := range s.skills {
		if strings.Contains(sk.Name, strings.ToLower(q)) {
			out = append(out, sk)
		}
	}
	return out, nil
}

func (s *skillRepoStub) List(ctx context.Context) ([]models.Skill, error) {
	out := make([]models.Skill, 0, len(s.skills))
	for _, sk := range s.skills {
		out = append(out, sk)
	}
	return out, nil
}

func (s *skillRepoStub) FindByID(ctx context.Context, id string) (*models.Skill, error) {
	sk, ok := s.skills[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &sk, nil
}

func (s *skillRepoStub) FindByIDs(ctx context.Context, ids []string) ([]models.Skill, error) {
	s.batches++
	var out []models.Skill
	for _, id := range ids {
		if sk, ok := s.skills[id]; ok {
			out = append(out, sk)
		}
	}
	return out, nil
}

func (s *skillRepoStub) Create(ctx context.Context, skill *models.Skill) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.skills {
		if existing.Name == skill.Name {
			return &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	skill.ID = "skill-" + skill.Name
	s.skills[skill.ID] = *skill
	s.created = append(s.created, *skill)
	return nil
}

type courseRepoStub struct {
	courses map[string]models.Course
}

func newCourseRepoStub(courses ...models.Course) *courseRepoStub {
	c := &courseRepoStub{courses: map[string]models.Course{}}
	for _, course := range courses {
		c.courses[course.ID] = course
	}
	return c
}

func (c *courseRepoStub) Search(ctx context.Context, q string, limit int) ([]models.Course, error) {
	var out []models.Course
	for _, course := range c.courses {
		if strings.Contains(strings.ToLower(course.Name), strings.ToLower(q)) {
			out = append(out, course)
		}
	}
	return out, nil
}

func (c *courseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	course, ok := c.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &course, nil
}

func (c *courseRepoStub) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		if course, ok := c.courses[id]; ok {
			out = append(out, course)
		}
	}
	return out, nil
}

func (c *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	for _, existing := range c.courses {
		if strings.EqualFold(existing.Name, course.Name) && existing.Category == course.Category {
			return &pq.Error{Code: "23505"}
		}
	}
	course.ID = "course-" + strings.ToLower(course.Name) + "-" + string(course.Category)
	c.courses[course.ID] = *course
	return nil
}

type invalidatorStub struct {
	calls int
}

func (i *invalidatorStub) Invalidate(ctx context.Context) error {
	i.calls++
	return nil
}

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func strPtr(s string) *string { return &s }
