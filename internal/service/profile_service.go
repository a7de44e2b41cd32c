package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
)

type profileStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	Create(ctx context.Context, profile *models.StudentProfile) error
	Update(ctx context.Context, profile *models.StudentProfile) error
}

// ProfileService manages student placement profiles.
type ProfileService struct {
	repo      profileStore
	skills    skillBatchFinder
	courses   courseBatchFinder
	directory directoryInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo profileStore, skills skillBatchFinder, courses courseBatchFinder, directory directoryInvalidator, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		repo:      repo,
		skills:    skills,
		courses:   courses,
		directory: directory,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the profile owned by userID with skills and courses resolved.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.StudentProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	resolved, err := resolveReferences(ctx, s.skills, s.courses, []models.StudentProfile{*profile})
	if err != nil {
		return nil, err
	}
	return &resolved[0], nil
}

// Create stores the first profile for userID.
func (s *ProfileService) Create(ctx context.Context, userID string, req dto.ProfileRequest) (*models.StudentProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	exists, err := s.repo.ExistsForUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check profile")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "profile already exists")
	}

	profile := &models.StudentProfile{UserID: userID}
	if err := s.apply(ctx, profile, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "profile already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create profile")
	}
	invalidateDirectory(ctx, s.directory, s.logger)
	return s.Get(ctx, userID)
}

// Update applies the non-nil fields of req to the profile owned by userID.
func (s *ProfileService) Update(ctx context.Context, userID string, req dto.ProfileRequest) (*models.StudentProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if err := s.apply(ctx, profile, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	invalidateDirectory(ctx, s.directory, s.logger)
	return s.Get(ctx, userID)
}

func (s *ProfileService) apply(ctx context.Context, p *models.StudentProfile, req dto.ProfileRequest) error {
	setString(&p.Headline, req.Headline)
	setString(&p.About, req.About)
	setString(&p.Location, req.Location)
	setString(&p.LinkedInURL, req.LinkedInURL)
	setString(&p.GitHubURL, req.GitHubURL)
	setString(&p.ResumeLink, req.ResumeLink)
	setString(&p.ProfileImage, req.ProfileImage)
	if req.PreferredField != nil {
		field := strings.TrimSpace(*req.PreferredField)
		if field == "" {
			p.PreferredField = nil
		} else {
			p.PreferredField = &field
		}
	}

	if req.Skills != nil {
		ids := uniqueTrimmed(req.Skills)
		if err := s.requireSkills(ctx, ids); err != nil {
			return err
		}
		refs := make(models.SkillRefs, len(ids))
		for i, id := range ids {
			refs[i] = models.RefID[models.Skill](id)
		}
		p.Skills = refs
	}

	if req.LookingFor != nil {
		if err := validateLookingFor(*req.LookingFor); err != nil {
			return err
		}
		lf := *req.LookingFor
		p.LookingFor = &lf
	}

	if req.Education != nil {
		education, err := s.education(ctx, req.Education)
		if err != nil {
			return err
		}
		p.Education = education
	}

	if req.Experience != nil {
		if err := validateExperience(req.Experience); err != nil {
			return err
		}
		p.Experience = req.Experience
	}
	if req.Projects != nil {
		p.Projects = req.Projects
	}
	if req.Certificates != nil {
		p.Certificates = req.Certificates
	}

	p.TotalExperienceMonths = models.ExperienceMonths(p.Experience, s.now())
	return nil
}

func (s *ProfileService) requireSkills(ctx context.Context, ids []string) error {
	found, err := findSkills(ctx, s.skills, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify skills")
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "unknown skill ids: "+strings.Join(missing, ", "))
	}
	return nil
}

// education stores bare course refs and rejects entries pointing at unknown courses.
func (s *ProfileService) education(ctx context.Context, entries models.EducationList) (models.EducationList, error) {
	ids := newIDSet()
	out := make(models.EducationList, len(entries))
	for i, e := range entries {
		e.Institute = strings.TrimSpace(e.Institute)
		if e.Institute == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("education[%d]: institute is required", i))
		}
		if e.FromDate != nil && e.ToDate != nil && e.ToDate.Before(*e.FromDate) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("education[%d]: to_date precedes from_date", i))
		}
		e.Course = e.Course.Bare()
		ids.add(e.Course.ID())
		out[i] = e
	}
	found, err := findCourses(ctx, s.courses, ids.order)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify courses")
	}
	if missing := missingIDs(ids.order, found); len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown course ids: "+strings.Join(missing, ", "))
	}
	return out, nil
}

func validateLookingFor(lf models.LookingFor) error {
	if !lf.Type.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "looking_for.type must be internship or job")
	}
	if lf.FromDate != nil && lf.ToDate != nil && lf.ToDate.Before(*lf.FromDate) {
		return appErrors.Clone(appErrors.ErrValidation, "looking_for.to_date precedes from_date")
	}
	return nil
}

func validateExperience(entries models.ExperienceList) error {
	for i, e := range entries {
		if strings.TrimSpace(e.Company) == "" || strings.TrimSpace(e.Role) == "" {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("experience[%d]: company and role are required", i))
		}
		if e.StartDate.IsZero() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("experience[%d]: start_date is required", i))
		}
		if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("experience[%d]: end_date precedes start_date", i))
		}
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func uniqueTrimmed(values []string) []string {
	set := newIDSet()
	for _, v := range values {
		set.add(strings.TrimSpace(v))
	}
	if set.order == nil {
		return []string{}
	}
	return set.order
}
