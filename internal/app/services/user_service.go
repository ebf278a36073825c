package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/app/repositories"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
	"github.com/deniz/communityevents/internal/pkg/auth"
	"github.com/deniz/communityevents/internal/pkg/helpers"
)

// UserService defines the interface for user operations
type UserService interface {
	GetUserByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	GetAllUsers(ctx context.Context, filter *dto.UserFilterRequest) (*dto.UserListResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error
	UpdateUserRole(ctx context.Context, userID int64, role string) error
	UpdateUserStatus(ctx context.Context, userID int64, status string) error
	DeleteUser(ctx context.Context, userID int64) error
	GetUserRegistrations(ctx context.Context, userID int64, page, pageSize int) (*dto.PaginatedResponse, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo         *repositories.UserRepository
	registrationRepo *repositories.RegistrationRepository
	tokenRepo        *repositories.TokenRepository
	logger           zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo *repositories.UserRepository,
	registrationRepo *repositories.RegistrationRepository,
	tokenRepo *repositories.TokenRepository,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:         userRepo,
		registrationRepo: registrationRepo,
		tokenRepo:        tokenRepo,
		logger:           logger,
	}
}

// GetUserByID retrieves a single user
func (s *userServiceImpl) GetUserByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.FromUser(user)
	return &resp, nil
}

// GetAllUsers retrieves users with filtering and pagination
func (s *userServiceImpl) GetAllUsers(ctx context.Context, filter *dto.UserFilterRequest) (*dto.UserListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	users, total, err := s.userRepo.GetAll(ctx, filter, offset, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.FromUser(&users[i]))
	}

	return &dto.UserListResponse{
		Users:      responses,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, limit),
	}, nil
}

// UpdateProfile updates the caller's profile fields
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.Bio = req.Bio
	user.AvatarURL = req.AvatarURL

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	updated, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromUser(updated)
	return &resp, nil
}

// ChangePassword verifies the current password and replaces it
func (s *userServiceImpl) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	// Existing sessions are invalidated after a password change
	if err := s.tokenRepo.DeleteAllUserTokens(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke sessions after password change")
	}

	s.logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}

// UpdateUserRole changes a user's role, admin only
func (s *userServiceImpl) UpdateUserRole(ctx context.Context, userID int64, role string) error {
	if !models.IsValidRole(role) {
		return apperrors.NewValidationError(fmt.Sprintf("unknown role: %s", role))
	}

	if err := s.userRepo.UpdateRole(ctx, userID, models.RoleType(role)); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Str("role", role).Msg("User role updated")
	return nil
}

// UpdateUserStatus suspends or reactivates a user account, admin only
func (s *userServiceImpl) UpdateUserStatus(ctx context.Context, userID int64, status string) error {
	newStatus := models.UserStatus(status)
	if newStatus != models.UserStatusActive && newStatus != models.UserStatusSuspended {
		return apperrors.NewValidationError(fmt.Sprintf("unknown status: %s", status))
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, newStatus); err != nil {
		return err
	}

	// Suspension kills every active session
	if newStatus == models.UserStatusSuspended {
		if err := s.tokenRepo.DeleteAllUserTokens(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke sessions after suspension")
		}
	}

	s.logger.Info().Int64("userID", userID).Str("status", status).Msg("User status updated")
	return nil
}

// DeleteUser removes a user account
func (s *userServiceImpl) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Msg("User deleted")
	return nil
}

// GetUserRegistrations retrieves a user's event registrations
func (s *userServiceImpl) GetUserRegistrations(ctx context.Context, userID int64, page, pageSize int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	registrations, total, err := s.registrationRepo.GetByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RegistrationResponse, 0, len(registrations))
	for i := range registrations {
		items = append(items, dto.FromRegistration(&registrations[i]))
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}
