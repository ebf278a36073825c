package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/app/services"
	"github.com/deniz/communityevents/internal/middleware"
	"github.com/deniz/communityevents/internal/pkg/helpers"
)

// CommunityController handles community operations
type CommunityController struct {
	communityService services.CommunityService
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(communityService services.CommunityService) *CommunityController {
	return &CommunityController{communityService: communityService}
}

// GetAllCommunities lists communities with optional filters
// @Summary List communities
// @Description Returns communities filtered by name, paginated
// @Tags communities
// @Produce json
// @Param name query string false "Name filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityListResponse} "Communities retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /communities [get]
func (c *CommunityController) GetAllCommunities(ctx *gin.Context) {
	var filter dto.CommunityFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	communities, err := c.communityService.GetAllCommunities(ctx, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, communities, "Communities retrieved")
}

// GetCommunityByID returns a community with its members
// @Summary Get community by ID
// @Description Returns a community with member details
// @Tags communities
// @Produce json
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityDetailResponse} "Community retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id} [get]
func (c *CommunityController) GetCommunityByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	community, err := c.communityService.GetCommunityByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, community, "Community retrieved")
}

// CreateCommunity creates a new community
// @Summary Create community
// @Description Creates a community and enrolls the creator as owner
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommunityRequest true "Community data"
// @Success 201 {object} dto.APIResponse{data=dto.CommunityResponse} "Community created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /communities [post]
func (c *CommunityController) CreateCommunity(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateCommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	community, err := c.communityService.CreateCommunity(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusCreated, community, "Community created")
}

// UpdateCommunity updates a community
// @Summary Update community
// @Description Updates a community's name and description (creator or admin only)
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body dto.UpdateCommunityRequest true "Community fields"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityResponse} "Community updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id} [put]
func (c *CommunityController) UpdateCommunity(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateCommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	community, err := c.communityService.UpdateCommunity(ctx, id, userID, currentRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, community, "Community updated")
}

// DeleteCommunity deletes a community
// @Summary Delete community
// @Description Deletes a community and everything under it (creator or admin only)
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse "Community deleted"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id} [delete]
func (c *CommunityController) DeleteCommunity(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.communityService.DeleteCommunity(ctx, id, userID, currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, nil, "Community deleted")
}

// JoinCommunity enrolls the authenticated user as a member
// @Summary Join community
// @Description Adds the authenticated user to the community as a member
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse "Joined community"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Failure 409 {object} dto.ErrorResponse "Already a member"
// @Router /communities/{id}/join [post]
func (c *CommunityController) JoinCommunity(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.communityService.JoinCommunity(ctx, id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, nil, "Joined community")
}

// LeaveCommunity removes the authenticated user's membership
// @Summary Leave community
// @Description Removes the authenticated user from the community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse "Left community"
// @Failure 404 {object} dto.ErrorResponse "Not a member"
// @Failure 409 {object} dto.ErrorResponse "Creator cannot leave"
// @Router /communities/{id}/leave [post]
func (c *CommunityController) LeaveCommunity(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.communityService.LeaveCommunity(ctx, id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, nil, "Left community")
}

// GetCommunityMembers lists a community's members
// @Summary List community members
// @Description Returns the members of a community, paginated
// @Tags communities
// @Produce json
// @Param id path int true "Community ID"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Members retrieved"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id}/members [get]
func (c *CommunityController) GetCommunityMembers(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)
	members, err := c.communityService.GetCommunityMembers(ctx, id, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, members, "Members retrieved")
}
