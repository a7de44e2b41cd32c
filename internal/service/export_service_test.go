package service

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/directory"
	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/pkg/storage"
)

type shortlistStub struct {
	students []models.StudentProfile
	err      error
	last     models.FilterCriteria
}

func (s *shortlistStub) Query(ctx context.Context, criteria models.FilterCriteria) (directory.View, bool, error) {
	s.last = criteria
	if s.err != nil {
		return directory.View{}, false, s.err
	}
	return directory.Compute(directory.NewSnapshot(s.students, time.Now()), criteria), true, nil
}

func shortlistFixture() []models.StudentProfile {
	field := "Data"
	return []models.StudentProfile{
		{
			ID:                    "p1",
			Owner:                 models.Owner{FirstName: "Asha", LastName: "Rao", University: "IIT"},
			Headline:              "Data engineer",
			PreferredField:        &field,
			TotalExperienceMonths: 14,
			Skills: models.SkillRefs{
				models.Resolved(models.Skill{ID: "s1", Name: "python", DisplayName: "Python"}),
				models.Resolved(models.Skill{ID: "s2", Name: "sql", DisplayName: "SQL"}),
			},
			LookingFor: &models.LookingFor{Type: models.OpportunityJob, FromDate: day("2024-09-01")},
		},
		{
			ID:    "p2",
			Owner: models.Owner{FirstName: "Ben", University: "NIT"},
		},
	}
}

func newExportServiceForTest(t *testing.T, source shortlistSource) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	signer := storage.NewDownloadSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(source, store, signer, cfg, zap.NewNop(), nil)
	return svc, dir
}

func TestExportServiceGenerateCSV(t *testing.T) {
	source := &shortlistStub{students: shortlistFixture()}
	svc, dir := newExportServiceForTest(t, source)
	job := &models.ExportJob{
		ID:     "job-1",
		Params: models.ExportParams{Criteria: models.FilterCriteria{Institution: "IIT"}, Format: models.ExportFormatCSV},
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "IIT", source.last.Institution)
	assert.Equal(t, 1, result.Rows)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/export/"))
	assert.Equal(t, ".csv", filepath.Ext(result.RelativePath))

	file, err := os.Open(filepath.Join(dir, result.RelativePath))
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, shortlistHeaders, records[0])
	assert.Equal(t, []string{"Asha Rao", "Data engineer", "IIT", "Data", "job", "2024-09-01", "", "14", "Python, SQL"}, records[1])

	grant, err := svc.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "job-1", grant.JobID)
	assert.Equal(t, result.RelativePath, grant.Path)
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, dir := newExportServiceForTest(t, &shortlistStub{students: shortlistFixture()})
	job := &models.ExportJob{ID: "job-2", Params: models.ExportParams{Format: models.ExportFormatPDF}}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)

	raw, err := os.ReadFile(filepath.Join(dir, result.RelativePath))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestExportServiceGenerateErrors(t *testing.T) {
	svc, _ := newExportServiceForTest(t, &shortlistStub{err: errors.New("snapshot unavailable")})
	_, err := svc.Generate(context.Background(), &models.ExportJob{ID: "j", Params: models.ExportParams{Format: models.ExportFormatCSV}})
	assert.Error(t, err)

	svc, _ = newExportServiceForTest(t, &shortlistStub{})
	_, err = svc.Generate(context.Background(), &models.ExportJob{ID: "j", Params: models.ExportParams{Format: "xlsx"}})
	assert.Error(t, err)

	_, err = svc.Generate(context.Background(), nil)
	assert.Error(t, err)
}

func TestExportServiceCleanupSweepsOldFiles(t *testing.T) {
	svc, dir := newExportServiceForTest(t, &shortlistStub{students: shortlistFixture()})
	result, err := svc.Generate(context.Background(), &models.ExportJob{ID: "job-3", Params: models.ExportParams{Format: models.ExportFormatCSV}})
	require.NoError(t, err)

	removed, err := svc.Cleanup(0)
	require.NoError(t, err)
	assert.Empty(t, removed)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, result.RelativePath), past, past))
	removed, err = svc.Cleanup(0)
	require.NoError(t, err)
	assert.Equal(t, []string{result.RelativePath}, removed)
}
