package auth

import (
	"context"
	"errors"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/app/repositories"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
	"github.com/deniz/communityevents/internal/pkg/logger"
)

// CanModify reports whether a requester may modify a resource owned by
// ownerID. Owners can always modify their own resources, admins can
// modify anything.
func CanModify(ownerID, requesterID int64, requesterRole models.RoleType) bool {
	if ownerID == requesterID {
		return true
	}
	return requesterRole == models.RoleAdmin
}

// AuthorizationService handles authorization checks that need user lookups
type AuthorizationService struct {
	userRepo *repositories.UserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo *repositories.UserRepository) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

// IsAdmin checks if the user holds the ADMIN role
func (s *AuthorizationService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in IsAdmin")
		return false, err
	}
	return user.RoleType == models.RoleAdmin, nil
}
