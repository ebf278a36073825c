package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/app/repositories"
)

// StatsService exposes aggregate platform counters for administrators
type StatsService interface {
	GetPlatformStats(ctx context.Context) (*dto.PlatformStatsResponse, error)
}

// statsServiceImpl implements StatsService
type statsServiceImpl struct {
	userRepo         *repositories.UserRepository
	communityRepo    *repositories.CommunityRepository
	eventRepo        *repositories.EventRepository
	registrationRepo *repositories.RegistrationRepository
	logger           zerolog.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(
	userRepo *repositories.UserRepository,
	communityRepo *repositories.CommunityRepository,
	eventRepo *repositories.EventRepository,
	registrationRepo *repositories.RegistrationRepository,
	logger zerolog.Logger,
) StatsService {
	return &statsServiceImpl{
		userRepo:         userRepo,
		communityRepo:    communityRepo,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
	}
}

// GetPlatformStats collects the aggregate counters
func (s *statsServiceImpl) GetPlatformStats(ctx context.Context) (*dto.PlatformStatsResponse, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	communities, err := s.communityRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.eventRepo.CountByStatus(ctx, models.EventStatusUpcoming)
	if err != nil {
		return nil, err
	}

	registrations, err := s.registrationRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	active, err := s.registrationRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.PlatformStatsResponse{
		TotalUsers:          users,
		TotalCommunities:    communities,
		TotalEvents:         events,
		UpcomingEvents:      upcoming,
		TotalRegistrations:  registrations,
		ActiveRegistrations: active,
	}, nil
}
