package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

var profileRowColumns = []string{
	"id", "user_id", "headline", "about", "location", "preferred_field", "linkedin_url", "github_url",
	"resume_link", "profile_image", "skill_ids", "looking_for", "total_experience", "education", "experience",
	"projects", "certificates", "created_at", "updated_at",
	"auid", "first_name", "last_name", "email", "phone", "university",
}

func TestProfileRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(profileRowColumns).
		AddRow("p-1", "u-1", "Frontend engineer", "", "Delhi", "Web Development", "", "", "", "",
			"{s-1,s-2}", `{"type":"internship","from_date":"2025-01-01T00:00:00Z"}`, 6,
			`[{"institute":"IIT Delhi","course":"c-1"}]`, `[]`, `[]`, `[]`, now, now,
			"AU-1", "Asha", "Rao", "asha@example.com", "", "IIT Delhi").
		AddRow("p-2", "u-2", "", "", "", nil, "", "", "", "",
			"{}", nil, 0, nil, nil, nil, nil, now, now,
			"", "Ben", "Okafor", "ben@example.com", "", "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM student_profiles p JOIN users u ON u.id = p.user_id ORDER BY p.created_at ASC, p.id ASC")).
		WillReturnRows(rows)

	profiles, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	first := profiles[0]
	assert.Equal(t, "u-1", first.UserID)
	assert.Equal(t, "Asha Rao", first.Owner.FullName())
	assert.Equal(t, "IIT Delhi", first.Owner.University)
	assert.Equal(t, "Web Development", first.Field())
	assert.Equal(t, []string{"s-1", "s-2"}, first.Skills.IDs())
	require.NotNil(t, first.LookingFor)
	assert.Equal(t, models.OpportunityInternship, first.LookingFor.Type)
	assert.Nil(t, first.LookingFor.ToDate)
	assert.Equal(t, 6, first.TotalExperienceMonths)
	require.Len(t, first.Education, 1)
	assert.Equal(t, "c-1", first.Education[0].Course.ID())

	second := profiles[1]
	assert.Nil(t, second.PreferredField)
	assert.Nil(t, second.LookingFor)
	assert.Empty(t, second.Skills)
	assert.NotNil(t, second.Education)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryFindByUserIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.user_id = $1 LIMIT 1")).
		WithArgs("u-9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUserID(context.Background(), "u-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryCreateStoresBareRefs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	field := "Data Science"
	profile := &models.StudentProfile{
		UserID:         "u-1",
		PreferredField: &field,
		Skills: models.SkillRefs{
			models.Resolved(models.Skill{ID: "s-1", Name: "go", DisplayName: "Go"}),
			models.RefID[models.Skill]("s-2"),
		},
		Education: models.EducationList{{
			Institute: "IIT Delhi",
			Course:    models.Resolved(models.Course{ID: "c-1", Name: "B.Tech"}),
		}},
	}

	mock.ExpectExec("INSERT INTO student_profiles").
		WithArgs(
			sqlmock.AnyArg(), "u-1", "", "", "", "Data Science", "", "", "", "",
			"{\"s-1\",\"s-2\"}", nil, 0,
			[]byte(`[{"institute":"IIT Delhi","course":"c-1"}]`),
			[]byte(`[]`), []byte(`[]`), []byte(`[]`),
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), profile))
	assert.NotEmpty(t, profile.ID)
	assert.False(t, profile.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec("UPDATE student_profiles SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.StudentProfile{ID: "p-404"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProfileRepositoryExistsForUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery("SELECT 1 FROM student_profiles WHERE user_id").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM student_profiles WHERE user_id").
		WithArgs("u-2").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsForUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForUser(context.Background(), "u-2")
	require.NoError(t, err)
	assert.False(t, exists)
}
