package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/pkg/response"
)

type accountService interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, req dto.UpdateAccountRequest) (*models.User, error)
}

// AccountHandler serves the signed-in user's account.
type AccountHandler struct {
	accounts accountService
}

// NewAccountHandler constructs handler.
func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Get godoc
// @Summary Current account
// @Tags Account
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /account [get]
func (h *AccountHandler) Get(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	user, err := h.accounts.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Update godoc
// @Summary Update account details or password
// @Tags Account
// @Accept json
// @Produce json
// @Param payload body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /account [patch]
func (h *AccountHandler) Update(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req, "invalid account payload") {
		return
	}
	user, err := h.accounts.Update(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}
