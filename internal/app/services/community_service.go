package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/deniz/communityevents/internal/app/auth"
	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/app/repositories"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
	"github.com/deniz/communityevents/internal/pkg/helpers"
)

// CommunityService defines the interface for community operations
type CommunityService interface {
	GetAllCommunities(ctx context.Context, filter *dto.CommunityFilterRequest) (*dto.CommunityListResponse, error)
	GetCommunityByID(ctx context.Context, id int64) (*dto.CommunityDetailResponse, error)
	CreateCommunity(ctx context.Context, creatorID int64, req *dto.CreateCommunityRequest) (*dto.CommunityResponse, error)
	UpdateCommunity(ctx context.Context, id, requesterID int64, requesterRole models.RoleType, req *dto.UpdateCommunityRequest) (*dto.CommunityResponse, error)
	DeleteCommunity(ctx context.Context, id, requesterID int64, requesterRole models.RoleType) error
	JoinCommunity(ctx context.Context, communityID, userID int64) error
	LeaveCommunity(ctx context.Context, communityID, userID int64) error
	GetCommunityMembers(ctx context.Context, communityID int64, page, pageSize int) (*dto.PaginatedResponse, error)
	GetUserCommunities(ctx context.Context, userID int64, page, pageSize int) (*dto.CommunityListResponse, error)
}

// communityServiceImpl implements CommunityService
type communityServiceImpl struct {
	communityRepo  *repositories.CommunityRepository
	membershipRepo *repositories.MembershipRepository
	logger         zerolog.Logger
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(
	communityRepo *repositories.CommunityRepository,
	membershipRepo *repositories.MembershipRepository,
	logger zerolog.Logger,
) CommunityService {
	return &communityServiceImpl{
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// GetAllCommunities retrieves communities with filtering and pagination
func (s *communityServiceImpl) GetAllCommunities(ctx context.Context, filter *dto.CommunityFilterRequest) (*dto.CommunityListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	communities, total, err := s.communityRepo.GetAll(ctx, filter.Search, offset, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list communities")
		return nil, err
	}

	responses := make([]dto.CommunityResponse, 0, len(communities))
	for i := range communities {
		responses = append(responses, dto.FromCommunity(&communities[i]))
	}

	return &dto.CommunityListResponse{
		Communities: responses,
		Pagination:  helpers.NewPaginationInfo(total, filter.Page, limit),
	}, nil
}

// GetCommunityByID retrieves a community with its first page of members
func (s *communityServiceImpl) GetCommunityByID(ctx context.Context, id int64) (*dto.CommunityDetailResponse, error) {
	community, err := s.communityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	members, _, err := s.membershipRepo.GetMembers(ctx, id, 0, helpers.DefaultPageSize)
	if err != nil {
		s.logger.Error().Err(err).Int64("communityID", id).Msg("Failed to load community members")
		return nil, err
	}

	detail := &dto.CommunityDetailResponse{
		CommunityResponse: dto.FromCommunity(community),
	}
	for i := range members {
		detail.Members = append(detail.Members, dto.FromMembership(&members[i]))
	}

	return detail, nil
}

// CreateCommunity creates a community and enrolls the creator as its owner
func (s *communityServiceImpl) CreateCommunity(ctx context.Context, creatorID int64, req *dto.CreateCommunityRequest) (*dto.CommunityResponse, error) {
	baseSlug := helpers.Slugify(req.Name)
	taken, err := s.communityRepo.GetSlugsByPrefix(ctx, baseSlug)
	if err != nil {
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	community := &models.Community{
		Name:        req.Name,
		Slug:        helpers.UniqueSlug(baseSlug, taken),
		Description: req.Description,
		Visibility:  visibility,
		CreatorID:   creatorID,
	}

	id, err := s.communityRepo.Create(ctx, community)
	if err != nil {
		return nil, err
	}
	community.ID = id

	_, err = s.membershipRepo.Create(ctx, &models.Membership{
		CommunityID: id,
		UserID:      creatorID,
		Role:        models.MembershipRoleOwner,
	})
	if err != nil && !errors.Is(err, apperrors.ErrAlreadyMember) {
		s.logger.Error().Err(err).Int64("communityID", id).Msg("Failed to enroll creator as owner")
		return nil, err
	}

	s.logger.Info().Int64("communityID", id).Int64("creatorID", creatorID).Msg("Community created")

	created, err := s.communityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.FromCommunity(created)
	return &resp, nil
}

// UpdateCommunity updates a community owned by the requester
func (s *communityServiceImpl) UpdateCommunity(ctx context.Context, id, requesterID int64, requesterRole models.RoleType, req *dto.UpdateCommunityRequest) (*dto.CommunityResponse, error) {
	community, err := s.communityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CanModify(community.CreatorID, requesterID, requesterRole) {
		return nil, apperrors.ErrPermissionDenied
	}

	community.Name = req.Name
	community.Description = req.Description
	if req.Visibility != "" {
		community.Visibility = req.Visibility
	}

	if err := s.communityRepo.Update(ctx, community); err != nil {
		return nil, err
	}

	updated, err := s.communityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.FromCommunity(updated)
	return &resp, nil
}

// DeleteCommunity removes a community owned by the requester
func (s *communityServiceImpl) DeleteCommunity(ctx context.Context, id, requesterID int64, requesterRole models.RoleType) error {
	community, err := s.communityRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CanModify(community.CreatorID, requesterID, requesterRole) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.communityRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("communityID", id).Int64("requesterID", requesterID).Msg("Community deleted")
	return nil
}

// JoinCommunity adds the user to a community as a regular member
func (s *communityServiceImpl) JoinCommunity(ctx context.Context, communityID, userID int64) error {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return err
	}

	_, err := s.membershipRepo.Create(ctx, &models.Membership{
		CommunityID: communityID,
		UserID:      userID,
		Role:        models.MembershipRoleMember,
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("communityID", communityID).Int64("userID", userID).Msg("User joined community")
	return nil
}

// LeaveCommunity removes the user from a community. The creator cannot leave.
func (s *communityServiceImpl) LeaveCommunity(ctx context.Context, communityID, userID int64) error {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return err
	}

	if community.CreatorID == userID {
		return apperrors.ErrCreatorCannotLeave
	}

	if err := s.membershipRepo.Leave(ctx, communityID, userID); err != nil {
		return err
	}

	s.logger.Info().Int64("communityID", communityID).Int64("userID", userID).Msg("User left community")
	return nil
}

// GetCommunityMembers retrieves the members of a community
func (s *communityServiceImpl) GetCommunityMembers(ctx context.Context, communityID int64, page, pageSize int) (*dto.PaginatedResponse, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	members, total, err := s.membershipRepo.GetMembers(ctx, communityID, offset, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MembershipResponse, 0, len(members))
	for i := range members {
		items = append(items, dto.FromMembership(&members[i]))
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// GetUserCommunities retrieves the communities the user belongs to
func (s *communityServiceImpl) GetUserCommunities(ctx context.Context, userID int64, page, pageSize int) (*dto.CommunityListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	communities, total, err := s.membershipRepo.GetUserCommunities(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommunityResponse, 0, len(communities))
	for i := range communities {
		responses = append(responses, dto.FromCommunity(&communities[i]))
	}

	return &dto.CommunityListResponse{
		Communities: responses,
		Pagination:  helpers.NewPaginationInfo(total, page, limit),
	}, nil
}
