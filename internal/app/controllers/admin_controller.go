package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/app/services"
	"github.com/deniz/communityevents/internal/middleware"
)

// AdminController handles platform administration operations
type AdminController struct {
	userService  services.UserService
	statsService services.StatsService
}

// NewAdminController creates a new AdminController
func NewAdminController(userService services.UserService, statsService services.StatsService) *AdminController {
	return &AdminController{
		userService:  userService,
		statsService: statsService,
	}
}

// GetPlatformStats returns platform-wide counters
// @Summary Platform statistics
// @Description Returns totals for users, communities, events and registrations
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PlatformStatsResponse} "Stats retrieved"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /admin/stats [get]
func (c *AdminController) GetPlatformStats(ctx *gin.Context) {
	stats, err := c.statsService.GetPlatformStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, stats, "Stats retrieved")
}

// GetAllUsers lists users with optional filters
// @Summary List users
// @Description Returns users filtered by role, email and name, paginated
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter"
// @Param email query string false "Email filter"
// @Param name query string false "Name filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Users retrieved"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /admin/users [get]
func (c *AdminController) GetAllUsers(ctx *gin.Context) {
	var filter dto.UserFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	users, err := c.userService.GetAllUsers(ctx, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, users, "Users retrieved")
}

// UpdateUserRole changes a user's role
// @Summary Update user role
// @Description Assigns a new role to a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRoleRequest true "New role"
// @Success 200 {object} dto.APIResponse "Role updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid role"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id}/role [put]
func (c *AdminController) UpdateUserRole(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateUserRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	if err := c.userService.UpdateUserRole(ctx, id, req.Role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, nil, "Role updated")
}

// UpdateUserStatus activates or suspends a user
// @Summary Update user status
// @Description Activates or suspends a user account; suspension revokes all sessions
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id}/status [put]
func (c *AdminController) UpdateUserStatus(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateUserStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	if err := c.userService.UpdateUserStatus(ctx, id, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, nil, "Status updated")
}

// DeleteUser removes a user account
// @Summary Delete user
// @Description Deletes a user and all dependent data
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse "User deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.userService.DeleteUser(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, nil, "User deleted")
}
