package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Skill is a server-identified skill tag.
type Skill struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	DisplayName string    `db:"display_name" json:"displayName,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

// Identity returns the skill id.
func (s Skill) Identity() string { return s.ID }

// Label is the human facing name.
func (s Skill) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// CourseCategory classifies a course by level.
type CourseCategory string

const (
	CourseCategoryUG      CourseCategory = "ug"
	CourseCategoryPG      CourseCategory = "pg"
	CourseCategoryDiploma CourseCategory = "diploma"
	CourseCategoryPhD     CourseCategory = "phd"
)

// CourseCategories lists the categories a new course may be created with.
func CourseCategories() []CourseCategory {
	return []CourseCategory{CourseCategoryUG, CourseCategoryPG, CourseCategoryDiploma, CourseCategoryPhD}
}

// Valid reports whether c is one of the known categories.
func (c CourseCategory) Valid() bool {
	switch c {
	case CourseCategoryUG, CourseCategoryPG, CourseCategoryDiploma, CourseCategoryPhD:
		return true
	default:
		return false
	}
}

// Course is a server-identified degree programme.
type Course struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Category  CourseCategory `db:"category" json:"category"`
	CreatedAt time.Time      `db:"created_at" json:"-"`
}

// Identity returns the course id.
func (c Course) Identity() string { return c.ID }

// Label is the course name.
func (c Course) Label() string { return c.Name }

// Entity is the picker's uniform view of a skill or a course.
type Entity struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	DisplayName string         `json:"displayName,omitempty"`
	Category    CourseCategory `json:"category,omitempty"`
}

// Label is the display name when present, the canonical name otherwise.
func (e Entity) Label() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Name
}

// SkillEntity converts a skill.
func SkillEntity(s Skill) Entity {
	return Entity{ID: s.ID, Name: s.Name, DisplayName: s.DisplayName}
}

// CourseEntity converts a course.
func CourseEntity(c Course) Entity {
	return Entity{ID: c.ID, Name: c.Name, Category: c.Category}
}

// CanonicalName normalises a user supplied entity name into its lookup key.
func CanonicalName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

type identified interface {
	Identity() string
	Label() string
}

// Ref is either a bare identifier or a resolved entity. API payloads carry both shapes; only
// resolved refs carry display data.
type Ref[T identified] struct {
	id    string
	value *T
}

// RefID builds an unresolved reference.
func RefID[T identified](id string) Ref[T] {
	return Ref[T]{id: id}
}

// Resolved builds a resolved reference.
func Resolved[T identified](v T) Ref[T] {
	return Ref[T]{id: v.Identity(), value: &v}
}

// ID returns the referenced identifier.
func (r Ref[T]) ID() string {
	return r.id
}

// IsResolved reports whether the entity body is present.
func (r Ref[T]) IsResolved() bool {
	return r.value != nil
}

// Value returns the resolved entity.
func (r Ref[T]) Value() (T, bool) {
	if r.value == nil {
		var zero T
		return zero, false
	}
	return *r.value, true
}

// Label returns the resolved entity's display label or "" when unresolved.
func (r Ref[T]) Label() string {
	if r.value == nil {
		return ""
	}
	return (*r.value).Label()
}

// Bare drops the resolved body, keeping only the id. Persisted documents store bare refs.
func (r Ref[T]) Bare() Ref[T] {
	return Ref[T]{id: r.id}
}

// MarshalJSON writes the entity when resolved and the bare id otherwise.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.value != nil {
		return json.Marshal(r.value)
	}
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts either a string id or an entity object.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*r = Ref[T]{id: id}
		return nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return fmt.Errorf("decode reference: %w", err)
	}
	*r = Resolved(v)
	return nil
}

// SkillRef references a skill by id or by value.
type SkillRef = Ref[Skill]

// CourseRef references a course by id or by value.
type CourseRef = Ref[Course]

// SkillRefs is the ordered skill list of a profile.
type SkillRefs []SkillRef

// IDs returns every referenced id in order.
func (s SkillRefs) IDs() []string {
	ids := make([]string, 0, len(s))
	for _, ref := range s {
		if ref.ID() != "" {
			ids = append(ids, ref.ID())
		}
	}
	return ids
}

// Labels returns the non-empty display names of resolved skills in order.
func (s SkillRefs) Labels() []string {
	labels := make([]string, 0, len(s))
	for _, ref := range s {
		if label := ref.Label(); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}
