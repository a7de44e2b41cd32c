package dto

import "github.com/noah-isme/placement-portal-api/internal/models"

// CreateSkillRequest captures POST /skills payload.
type CreateSkillRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// CreateCourseRequest captures POST /courses payload.
type CreateCourseRequest struct {
	Name     string                `json:"name" validate:"required,max=128"`
	Category models.CourseCategory `json:"category" validate:"required,oneof=ug pg diploma phd"`
}
