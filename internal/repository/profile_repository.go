package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// ProfileRepository persists student profiles. Skills are stored as an id array and the
// nested sections as JSONB documents holding bare references.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type profileRow struct {
	models.Owner
	ID             string                 `db:"id"`
	Headline       string                 `db:"headline"`
	About          string                 `db:"about"`
	Location       string                 `db:"location"`
	PreferredField sql.NullString         `db:"preferred_field"`
	LinkedInURL    string                 `db:"linkedin_url"`
	GitHubURL      string                 `db:"github_url"`
	ResumeLink     string                 `db:"resume_link"`
	ProfileImage   string                 `db:"profile_image"`
	SkillIDs       pq.StringArray         `db:"skill_ids"`
	LookingFor     *models.LookingFor     `db:"looking_for"`
	Experience     int                    `db:"total_experience"`
	Education      models.EducationList   `db:"education"`
	Experiences    models.ExperienceList  `db:"experience"`
	Projects       models.ProjectList     `db:"projects"`
	Certificates   models.CertificateList `db:"certificates"`
	CreatedAt      time.Time              `db:"created_at"`
	UpdatedAt      time.Time              `db:"updated_at"`
}

const profileColumns = `p.id, p.user_id, p.headline, p.about, p.location, p.preferred_field, p.linkedin_url, p.github_url,
        p.resume_link, p.profile_image, p.skill_ids, p.looking_for, p.total_experience, p.education, p.experience,
        p.projects, p.certificates, p.created_at, p.updated_at,
        u.auid, u.first_name, u.last_name, u.email, u.phone, u.university`

const profileFrom = `FROM student_profiles p JOIN users u ON u.id = p.user_id`

// ListAll returns every profile with its owner, oldest first.
func (r *ProfileRepository) ListAll(ctx context.Context) ([]models.StudentProfile, error) {
	query := fmt.Sprintf("SELECT %s %s ORDER BY p.created_at ASC, p.id ASC", profileColumns, profileFrom)
	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	profiles := make([]models.StudentProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].toModel())
	}
	return profiles, nil
}

// FindByUserID returns the profile owned by userID. sql.ErrNoRows is returned unwrapped.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE p.user_id = $1 LIMIT 1", profileColumns, profileFrom)
	var row profileRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by user: %w", err)
	}
	profile := row.toModel()
	return &profile, nil
}

// ExistsForUser reports whether userID already owns a profile.
func (r *ProfileRepository) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM student_profiles WHERE user_id = $1 LIMIT 1`, userID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check profile: %w", err)
	}
	return true, nil
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	const query = `INSERT INTO student_profiles (id, user_id, headline, about, location, preferred_field, linkedin_url, github_url,
        resume_link, profile_image, skill_ids, looking_for, total_experience, education, experience, projects, certificates,
        created_at, updated_at)
        VALUES (:id, :user_id, :headline, :about, :location, :preferred_field, :linkedin_url, :github_url,
        :resume_link, :profile_image, :skill_ids, :looking_for, :total_experience, :education, :experience, :projects,
        :certificates, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fromModel(profile)); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of a profile.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_profiles SET headline = :headline, about = :about, location = :location,
        preferred_field = :preferred_field, linkedin_url = :linkedin_url, github_url = :github_url,
        resume_link = :resume_link, profile_image = :profile_image, skill_ids = :skill_ids, looking_for = :looking_for,
        total_experience = :total_experience, education = :education, experience = :experience, projects = :projects,
        certificates = :certificates, updated_at = :updated_at
        WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, fromModel(profile))
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// profileWrite is the column set written by Create and Update.
type profileWrite struct {
	ID             string                 `db:"id"`
	UserID         string                 `db:"user_id"`
	Headline       string                 `db:"headline"`
	About          string                 `db:"about"`
	Location       string                 `db:"location"`
	PreferredField sql.NullString         `db:"preferred_field"`
	LinkedInURL    string                 `db:"linkedin_url"`
	GitHubURL      string                 `db:"github_url"`
	ResumeLink     string                 `db:"resume_link"`
	ProfileImage   string                 `db:"profile_image"`
	SkillIDs       pq.StringArray         `db:"skill_ids"`
	LookingFor     *models.LookingFor     `db:"looking_for"`
	Experience     int                    `db:"total_experience"`
	Education      models.EducationList   `db:"education"`
	Experiences    models.ExperienceList  `db:"experience"`
	Projects       models.ProjectList     `db:"projects"`
	Certificates   models.CertificateList `db:"certificates"`
	CreatedAt      time.Time              `db:"created_at"`
	UpdatedAt      time.Time              `db:"updated_at"`
}

func fromModel(p *models.StudentProfile) profileWrite {
	w := profileWrite{
		ID:           p.ID,
		UserID:       p.UserID,
		Headline:     p.Headline,
		About:        p.About,
		Location:     p.Location,
		LinkedInURL:  p.LinkedInURL,
		GitHubURL:    p.GitHubURL,
		ResumeLink:   p.ResumeLink,
		ProfileImage: p.ProfileImage,
		SkillIDs:     pq.StringArray(p.Skills.IDs()),
		LookingFor:   p.LookingFor,
		Experience:   p.TotalExperienceMonths,
		Experiences:  p.Experience,
		Projects:     p.Projects,
		Certificates: p.Certificates,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.PreferredField != nil {
		w.PreferredField = sql.NullString{String: *p.PreferredField, Valid: true}
	}
	w.Education = make(models.EducationList, len(p.Education))
	for i, e := range p.Education {
		e.Course = e.Course.Bare()
		w.Education[i] = e
	}
	return w
}

func (row *profileRow) toModel() models.StudentProfile {
	p := models.StudentProfile{
		ID:                    row.ID,
		UserID:                row.Owner.ID,
		Owner:                 row.Owner,
		Headline:              row.Headline,
		About:                 row.About,
		Location:              row.Location,
		LinkedInURL:           row.LinkedInURL,
		GitHubURL:             row.GitHubURL,
		ResumeLink:            row.ResumeLink,
		ProfileImage:          row.ProfileImage,
		LookingFor:            row.LookingFor,
		TotalExperienceMonths: row.Experience,
		Education:             row.Education,
		Experience:            row.Experiences,
		Projects:              row.Projects,
		Certificates:          row.Certificates,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
	if row.PreferredField.Valid {
		field := row.PreferredField.String
		p.PreferredField = &field
	}
	p.Skills = make(models.SkillRefs, 0, len(row.SkillIDs))
	for _, id := range row.SkillIDs {
		p.Skills = append(p.Skills, models.RefID[models.Skill](id))
	}
	if p.Education == nil {
		p.Education = models.EducationList{}
	}
	if p.Experience == nil {
		p.Experience = models.ExperienceList{}
	}
	if p.Projects == nil {
		p.Projects = models.ProjectList{}
	}
	if p.Certificates == nil {
		p.Certificates = models.CertificateList{}
	}
	return p
}
