package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/directory"
	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
)

const uniqueViolation = "23505"

type skillStore interface {
	Search(ctx context.Context, q string, limit int) ([]models.Skill, error)
	List(ctx context.Context) ([]models.Skill, error)
	FindByID(ctx context.Context, id string) (*models.Skill, error)
	Create(ctx context.Context, skill *models.Skill) error
}

type courseStore interface {
	Search(ctx context.Context, q string, limit int) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
}

type directoryInvalidator interface {
	Invalidate(ctx context.Context) error
}

// LookupConfig tunes skill and course searches.
type LookupConfig struct {
	SearchLimit int
}

// SkillService serves skill lookups and creation.
type SkillService struct {
	repo      skillStore
	directory directoryInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       LookupConfig
}

// NewSkillService constructs a SkillService.
func NewSkillService(repo skillStore, directory directoryInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg LookupConfig) *SkillService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 20
	}
	return &SkillService{repo: repo, directory: directory, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// Search matches skills by name or display name. A blank query matches nothing.
func (s *SkillService) Search(ctx context.Context, q string) ([]models.Skill, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Skill{}, nil
	}
	s.metrics.RecordLookupSearch("skill")
	skills, err := s.repo.Search(ctx, q, s.cfg.SearchLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search skills")
	}
	if skills == nil {
		skills = []models.Skill{}
	}
	return skills, nil
}

// List returns every skill.
func (s *SkillService) List(ctx context.Context) ([]models.Skill, error) {
	skills, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list skills")
	}
	if skills == nil {
		skills = []models.Skill{}
	}
	return skills, nil
}

// Get returns a skill by id.
func (s *SkillService) Get(ctx context.Context, id string) (*models.Skill, error) {
	skill, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "skill not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load skill")
	}
	return skill, nil
}

// Create stores a new skill under its canonical name and keeps the trimmed input for display.
func (s *SkillService) Create(ctx context.Context, req dto.CreateSkillRequest) (*models.Skill, error) {
	req.Name = strings.Join(strings.Fields(req.Name), " ")
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid skill payload")
	}
	if !hasWordCharacter(req.Name) {
		return nil, appErrors.Clone(appErrors.ErrCreateRejected, "skill name must contain a letter or digit")
	}
	if strings.Contains(req.Name, directory.SkillSeparator) {
		return nil, appErrors.Clone(appErrors.ErrCreateRejected, fmt.Sprintf("skill name cannot contain %q", directory.SkillSeparator))
	}

	skill := &models.Skill{Name: models.CanonicalName(req.Name), DisplayName: req.Name}
	err := s.repo.Create(ctx, skill)
	s.metrics.RecordEntityCreate("skill", err)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("skill create conflict", zap.String("name", req.Name))
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("skill %q already exists", req.Name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create skill")
	}
	invalidateDirectory(ctx, s.directory, s.logger)
	return skill, nil
}

// CourseService serves course lookups and creation.
type CourseService struct {
	repo      courseStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       LookupConfig
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg LookupConfig) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 20
	}
	return &CourseService{repo: repo, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// Search matches courses by name. A blank query matches nothing.
func (s *CourseService) Search(ctx context.Context, q string) ([]models.Course, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Course{}, nil
	}
	s.metrics.RecordLookupSearch("course")
	courses, err := s.repo.Search(ctx, q, s.cfg.SearchLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create stores a new course. The same name may exist once per category.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	req.Name = strings.Join(strings.Fields(req.Name), " ")
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !hasWordCharacter(req.Name) {
		return nil, appErrors.Clone(appErrors.ErrCreateRejected, "course name must contain a letter or digit")
	}

	course := &models.Course{Name: req.Name, Category: req.Category}
	err := s.repo.Create(ctx, course)
	s.metrics.RecordEntityCreate("course", err)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("course create conflict", zap.String("name", req.Name), zap.String("category", string(req.Category)))
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("course %q already exists for %s", req.Name, req.Category))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

func hasWordCharacter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func invalidateDirectory(ctx context.Context, d directoryInvalidator, logger *zap.Logger) {
	if d == nil {
		return
	}
	if err := d.Invalidate(ctx); err != nil {
		logger.Warn("directory invalidation failed", zap.Error(err))
	}
}
