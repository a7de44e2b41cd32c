package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/pkg/response"
)

type skillLookup interface {
	Search(ctx context.Context, q string) ([]models.Skill, error)
	List(ctx context.Context) ([]models.Skill, error)
	Get(ctx context.Context, id string) (*models.Skill, error)
	Create(ctx context.Context, req dto.CreateSkillRequest) (*models.Skill, error)
}

type courseLookup interface {
	Search(ctx context.Context, q string) ([]models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
}

// SkillHandler serves skill lookup and creation.
type SkillHandler struct {
	skills skillLookup
}

// NewSkillHandler constructs handler.
func NewSkillHandler(skills skillLookup) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// Search godoc
// @Summary Search skills by name
// @Tags Skills
// @Produce json
// @Param q query string false "Search text; blank returns an empty list"
// @Success 200 {object} response.Envelope
// @Router /skills/search [get]
func (h *SkillHandler) Search(c *gin.Context) {
	skills, err := h.skills.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, skills)
}

// List godoc
// @Summary List all skills
// @Tags Skills
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /skills [get]
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.skills.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, skills)
}

// Get godoc
// @Summary Get a skill
// @Tags Skills
// @Produce json
// @Param id path string true "Skill ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /skills/{id} [get]
func (h *SkillHandler) Get(c *gin.Context) {
	skill, err := h.skills.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, skill)
}

// Create godoc
// @Summary Create a skill
// @Tags Skills
// @Accept json
// @Produce json
// @Param payload body dto.CreateSkillRequest true "Skill"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope "name has no letter or digit, or contains a comma"
// @Router /skills [post]
func (h *SkillHandler) Create(c *gin.Context) {
	var req dto.CreateSkillRequest
	if !bindJSON(c, &req, "invalid skill payload") {
		return
	}
	skill, err := h.skills.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, skill)
}

// CourseHandler serves course lookup and creation.
type CourseHandler struct {
	courses courseLookup
}

// NewCourseHandler constructs handler.
func NewCourseHandler(courses courseLookup) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Search godoc
// @Summary Search courses by name
// @Tags Courses
// @Produce json
// @Param q query string false "Search text; blank returns an empty list"
// @Success 200 {object} response.Envelope
// @Router /courses/search [get]
func (h *CourseHandler) Search(c *gin.Context) {
	courses, err := h.courses.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Get godoc
// @Summary Get a course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Create godoc
// @Summary Create a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}
