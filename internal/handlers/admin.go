package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brandonopened/aitaskanalysis/internal/dto"
	apierrors "github.com/brandonopened/aitaskanalysis/internal/errors"
	"github.com/brandonopened/aitaskanalysis/internal/middleware"
	"github.com/brandonopened/aitaskanalysis/internal/models"
	"github.com/brandonopened/aitaskanalysis/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminHandler coordinates the administrator HTTP surface.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListOrganizations returns all organizations ordered by name.
func (h *AdminHandler) ListOrganizations(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgs, err := h.adminService.ListOrganizations(actor)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTOs(orgs))
}

// UpdateUser reassigns a user's role and organization.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "User not found")
		return
	}

	type UpdateUserRequest struct {
		Role           models.Role `json:"role" binding:"required"`
		OrganizationID *uint64     `json:"organizationId"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.adminService.UpdateUser(actor, services.UpdateUserInput{
		UserID:         userID,
		Role:           req.Role,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetStats returns the cross-organization aggregation: summary statistics plus
// the joined completed-task rows behind them.
func (h *AdminHandler) GetStats(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, tasks, err := h.adminService.GlobalStats(actor)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
		"tasks": tasks,
	})
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrUnknownOrganization):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
