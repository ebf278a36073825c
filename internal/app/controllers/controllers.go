package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
)

// currentUserID returns the authenticated user's ID set by the JWT middleware
func currentUserID(ctx *gin.Context) (int64, error) {
	value, exists := ctx.Get("userID")
	if !exists {
		return 0, apperrors.ErrTokenInvalid
	}
	userID, ok := value.(int64)
	if !ok || userID <= 0 {
		return 0, apperrors.ErrTokenInvalid
	}
	return userID, nil
}

// currentRole returns the authenticated user's role set by the JWT middleware
func currentRole(ctx *gin.Context) models.RoleType {
	value, exists := ctx.Get("roleType")
	if !exists {
		return ""
	}
	role, ok := value.(string)
	if !ok {
		return ""
	}
	return models.RoleType(role)
}

// parseIDParam parses a positive int64 path parameter
func parseIDParam(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("invalid " + name + " parameter")
	}
	return id, nil
}

// ok writes a success envelope
func ok(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewSuccessResponse(data, message))
}
