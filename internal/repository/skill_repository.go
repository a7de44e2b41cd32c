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

// SkillRepository persists skills. Names are unique in canonical lowercase form.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository constructs a SkillRepository.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// Search returns skills whose name or display name contains q, prefix matches first.
func (r *SkillRepository) Search(ctx context.Context, q string, limit int) ([]models.Skill, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, name, display_name, created_at FROM skills
        WHERE name LIKE $1 OR LOWER(display_name) LIKE $1
        ORDER BY (name LIKE $2) DESC, name ASC LIMIT $3`
	needle := escapeLike(strings.ToLower(q))
	skills := []models.Skill{}
	if err := r.db.SelectContext(ctx, &skills, query, "%"+needle+"%", needle+"%", limit); err != nil {
		return nil, fmt.Errorf("search skills: %w", err)
	}
	return skills, nil
}

// List returns every skill ordered by name.
func (r *SkillRepository) List(ctx context.Context) ([]models.Skill, error) {
	skills := []models.Skill{}
	if err := r.db.SelectContext(ctx, &skills, `SELECT id, name, display_name, created_at FROM skills ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

// FindByID returns a skill. sql.ErrNoRows is returned unwrapped.
func (r *SkillRepository) FindByID(ctx context.Context, id string) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.GetContext(ctx, &skill, `SELECT id, name, display_name, created_at FROM skills WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find skill: %w", err)
	}
	return &skill, nil
}

// FindByIDs returns the skills that exist among ids, in no particular order.
func (r *SkillRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Skill, error) {
	skills := []models.Skill{}
	if len(ids) == 0 {
		return skills, nil
	}
	const query = `SELECT id, name, display_name, created_at FROM skills WHERE id = ANY($1)`
	if err := r.db.SelectContext(ctx, &skills, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find skills by ids: %w", err)
	}
	return skills, nil
}

// Create inserts a skill. A duplicate canonical name surfaces as a pq unique violation.
func (r *SkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	if skill.ID == "" {
		skill.ID = uuid.NewString()
	}
	if skill.CreatedAt.IsZero() {
		skill.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO skills (id, name, display_name, created_at) VALUES (:id, :name, :display_name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, skill); err != nil {
		return fmt.Errorf("create skill: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
