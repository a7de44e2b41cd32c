package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
)

func newSkillServiceForTest(skills ...models.Skill) (*SkillService, *skillRepoStub, *invalidatorStub) {
	repo := newSkillRepoStub(skills...)
	inv := &invalidatorStub{}
	return NewSkillService(repo, inv, NewMetricsService(), nil, zap.NewNop(), LookupConfig{}), repo, inv
}

func TestSkillSearchBlankQuerySkipsRepository(t *testing.T) {
	svc, repo, _ := newSkillServiceForTest(models.Skill{ID: "s1", Name: "go"})

	skills, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.NotNil(t, skills)
	assert.Empty(t, skills)
	assert.Zero(t, repo.searches)
}

func TestSkillSearchNoMatchesIsEmptySlice(t *testing.T) {
	svc, repo, _ := newSkillServiceForTest(models.Skill{ID: "s1", Name: "go"})

	skills, err := svc.Search(context.Background(), "rust")
	require.NoError(t, err)
	assert.NotNil(t, skills)
	assert.Empty(t, skills)
	assert.Equal(t, 1, repo.searches)
}

func TestSkillCreateCanonicalisesName(t *testing.T) {
	svc, repo, inv := newSkillServiceForTest()

	skill, err := svc.Create(context.Background(), dto.CreateSkillRequest{Name: "  Machine   Learning "})
	require.NoError(t, err)
	assert.Equal(t, "machine learning", skill.Name)
	assert.Equal(t, "Machine Learning", skill.DisplayName)
	assert.NotEmpty(t, skill.ID)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, uint64(1), svc.metrics.Snapshot().EntitiesCreated)
}

func TestSkillCreateDuplicateIsConflict(t *testing.T) {
	svc, _, inv := newSkillServiceForTest(models.Skill{ID: "s1", Name: "go", DisplayName: "Go"})

	_, err := svc.Create(context.Background(), dto.CreateSkillRequest{Name: "GO"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Zero(t, inv.calls)
}

func TestSkillCreateValidation(t *testing.T) {
	svc, _, _ := newSkillServiceForTest()

	_, err := svc.Create(context.Background(), dto.CreateSkillRequest{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), dto.CreateSkillRequest{Name: "!!!"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCreateRejected.Code, appErrors.FromError(err).Code)
}

func TestSkillCreateRejectsListSeparator(t *testing.T) {
	svc, repo, inv := newSkillServiceForTest()

	_, err := svc.Create(context.Background(), dto.CreateSkillRequest{Name: "UI, UX"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCreateRejected.Code, appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Empty(t, repo.created)
	assert.Zero(t, inv.calls)
}

func TestSkillCreateRepositoryFailure(t *testing.T) {
	svc, repo, _ := newSkillServiceForTest()
	repo.createErr = errors.New("connection reset")

	_, err := svc.Create(context.Background(), dto.CreateSkillRequest{Name: "Go"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestSkillGetNotFound(t *testing.T) {
	svc, _, _ := newSkillServiceForTest()

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCourseCreateRequiresKnownCategory(t *testing.T) {
	svc := NewCourseService(newCourseRepoStub(), nil, nil, zap.NewNop(), LookupConfig{})

	_, err := svc.Create(context.Background(), dto.CreateCourseRequest{Name: "B.Tech", Category: "masters"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), dto.CreateCourseRequest{Name: "B.Tech"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseCreateDuplicatePerCategory(t *testing.T) {
	repo := newCourseRepoStub(models.Course{ID: "c1", Name: "B.Tech", Category: models.CourseCategoryUG})
	svc := NewCourseService(repo, nil, nil, zap.NewNop(), LookupConfig{})
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateCourseRequest{Name: "b.tech", Category: models.CourseCategoryUG})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	course, err := svc.Create(ctx, dto.CreateCourseRequest{Name: " B.Tech ", Category: models.CourseCategoryDiploma})
	require.NoError(t, err)
	assert.Equal(t, "B.Tech", course.Name)
	assert.Equal(t, models.CourseCategoryDiploma, course.Category)
}

func TestCourseSearchBlankQuery(t *testing.T) {
	svc := NewCourseService(newCourseRepoStub(models.Course{ID: "c1", Name: "MBA"}), nil, nil, zap.NewNop(), LookupConfig{})

	courses, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, courses)

	courses, err = svc.Search(context.Background(), "mb")
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}
