package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
	"github.com/noah-isme/placement-portal-api/pkg/response"
)

type profileService interface {
	Get(ctx context.Context, userID string) (*models.StudentProfile, error)
	Create(ctx context.Context, userID string, req dto.ProfileRequest) (*models.StudentProfile, error)
	Update(ctx context.Context, userID string, req dto.ProfileRequest) (*models.StudentProfile, error)
}

// ProfileHandler manages student profiles.
type ProfileHandler struct {
	profiles profileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles profileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Mine godoc
// @Summary Current student's profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student [get]
func (h *ProfileHandler) Mine(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	profile, err := h.profiles.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// Create godoc
// @Summary Create the current student's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param payload body dto.ProfileRequest true "Profile"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student [post]
func (h *ProfileHandler) Create(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.ProfileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}
	profile, err := h.profiles.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, profile)
}

// Update godoc
// @Summary Partially update the current student's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param payload body dto.ProfileRequest true "Profile fields to change"
// @Success 200 {object} response.Envelope
// @Router /student [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.ProfileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}
	profile, err := h.profiles.Update(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// ByUser godoc
// @Summary Public profile of a student
// @Tags Profiles
// @Produce json
// @Param userId query string true "Owner user ID"
// @Success 200 {object} response.Envelope
// @Router /students/profile [get]
func (h *ProfileHandler) ByUser(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "userId is required"))
		return
	}
	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}
