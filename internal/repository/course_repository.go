package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// CourseRepository persists courses, unique per (lower(name), category).
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Search returns courses whose name contains q.
func (r *CourseRepository) Search(ctx context.Context, q string, limit int) ([]models.Course, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, name, category, created_at FROM courses
        WHERE LOWER(name) LIKE $1 ORDER BY (LOWER(name) LIKE $2) DESC, name ASC LIMIT $3`
	needle := escapeLike(strings.ToLower(q))
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, "%"+needle+"%", needle+"%", limit); err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course. sql.ErrNoRows is returned unwrapped.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, `SELECT id, name, category, created_at FROM courses WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// FindByIDs returns the courses that exist among ids.
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	courses := []models.Course{}
	if len(ids) == 0 {
		return courses, nil
	}
	const query = `SELECT id, name, category, created_at FROM courses WHERE id = ANY($1)`
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find courses by ids: %w", err)
	}
	return courses, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO courses (id, name, category, created_at) VALUES (:id, :name, :category, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}
