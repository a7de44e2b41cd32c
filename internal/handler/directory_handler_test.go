package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-portal-api/internal/directory"
	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
)

type directoryMock struct {
	criteria models.FilterCriteria
	view     directory.View
	hit      bool
	err      error
	fields   []string
	all      []models.StudentProfile
}

func (m *directoryMock) Query(ctx context.Context, criteria models.FilterCriteria) (directory.View, bool, error) {
	m.criteria = criteria
	return m.view, m.hit, m.err
}

func (m *directoryMock) All(ctx context.Context) ([]models.StudentProfile, error) {
	return m.all, m.err
}

func (m *directoryMock) Fields(ctx context.Context) ([]string, error) {
	return m.fields, m.err
}

func TestDirectoryHandlerListParsesCriteria(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &directoryMock{
		view: directory.View{Loaded: true, Total: 3, Matched: 1, FiltersActive: true},
		hit:  true,
	}
	handler := NewDirectoryHandler(mock)

	c, w := newGinContext(http.MethodGet, "/students?q=go&skills=Go,SQL&type=internship&experience=6-12", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "go", mock.criteria.Query)
	assert.Equal(t, []string{"Go", "SQL"}, mock.criteria.SkillNames)
	assert.Equal(t, models.OpportunityInternship, mock.criteria.OpportunityType)
	assert.Equal(t, models.ExperienceBand("6-12"), mock.criteria.ExperienceBand)

	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])
	var view directory.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 1, view.Matched)
}

func TestDirectoryHandlerListRejectsInvalidEnum(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &directoryMock{}
	handler := NewDirectoryHandler(mock)

	c, w := newGinContext(http.MethodGet, "/students?type=freelance", nil)
	handler.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
}

func TestDirectoryHandlerPropagatesServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDirectoryHandler(&directoryMock{err: appErrors.Clone(appErrors.ErrInternal, "boom")})

	c, w := newGinContext(http.MethodGet, "/students", nil)
	handler.List(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDirectoryHandlerFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDirectoryHandler(&directoryMock{fields: []string{"Data", "Web"}})

	c, w := newGinContext(http.MethodGet, "/students/fields", nil)
	handler.Fields(c)

	require.Equal(t, http.StatusOK, w.Code)
	var fields []string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &fields))
	assert.Equal(t, []string{"Data", "Web"}, fields)
}
