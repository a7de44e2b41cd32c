package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-portal-api/internal/directory"
	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
	"github.com/noah-isme/placement-portal-api/pkg/response"
)

type directoryQuerier interface {
	Query(ctx context.Context, criteria models.FilterCriteria) (directory.View, bool, error)
	All(ctx context.Context) ([]models.StudentProfile, error)
	Fields(ctx context.Context) ([]string, error)
}

// DirectoryHandler exposes the student directory.
type DirectoryHandler struct {
	directory directoryQuerier
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory directoryQuerier) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// List godoc
// @Summary Filter the student directory
// @Tags Directory
// @Produce json
// @Param q query string false "Free text matched against name, headline, skills and field"
// @Param skills query []string false "Skill display names, all required" collectionFormat(multi)
// @Param type query string false "internship or job"
// @Param from query string false "Available from (YYYY-MM-DD)"
// @Param to query string false "Available until (YYYY-MM-DD)"
// @Param experience query string false "0-6, 6-12, 12-24 or 24+"
// @Param field query string false "Preferred field"
// @Param institution query string false "Institution"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [get]
func (h *DirectoryHandler) List(c *gin.Context) {
	criteria, err := directory.ParseCriteria(c.Request.URL.Query())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error()))
		return
	}
	view, hit, err := h.directory.Query(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.OK(c, view, middleware.ExtractMeta(c))
}

// All godoc
// @Summary Every student profile with skills and courses resolved
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/all [get]
func (h *DirectoryHandler) All(c *gin.Context) {
	students, err := h.directory.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Fields godoc
// @Summary Distinct preferred fields across the directory
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/fields [get]
func (h *DirectoryHandler) Fields(c *gin.Context) {
	fields, err := h.directory.Fields(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, fields)
}
