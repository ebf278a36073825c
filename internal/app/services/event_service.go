package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/deniz/communityevents/internal/app/auth"
	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/app/repositories"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
	"github.com/deniz/communityevents/internal/pkg/geo"
	"github.com/deniz/communityevents/internal/pkg/helpers"
)

// DefaultNearbyRadiusKm is used when a nearby search omits the radius
const DefaultNearbyRadiusKm = 10.0

// validStatusTransitions defines the allowed event lifecycle transitions
var validStatusTransitions = map[models.EventStatus][]models.EventStatus{
	models.EventStatusDraft:    {models.EventStatusUpcoming, models.EventStatusCancelled},
	models.EventStatusUpcoming: {models.EventStatusOngoing, models.EventStatusCancelled},
	models.EventStatusOngoing:  {models.EventStatusCompleted, models.EventStatusCancelled},
}

// eventStore is the event persistence surface the service needs.
// *repositories.EventRepository satisfies it.
type eventStore interface {
	Create(ctx context.Context, event *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetAll(ctx context.Context, filter *dto.EventFilterRequest, offset uint64, limit int) ([]models.Event, int64, error)
	GetUpcomingWithCoordinates(ctx context.Context, after time.Time) ([]models.Event, error)
	GetSlugsByPrefix(ctx context.Context, baseSlug string) ([]string, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, id int64, status models.EventStatus) error
	Delete(ctx context.Context, id int64) error
}

// communityGetter looks up communities by ID
type communityGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Community, error)
}

// membershipChecker answers whether a user belongs to a community
type membershipChecker interface {
	Exists(ctx context.Context, communityID, userID int64) (bool, error)
}

// EventService defines the interface for event operations
type EventService interface {
	CreateEvent(ctx context.Context, creatorID int64, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetEventByID(ctx context.Context, id int64) (*dto.EventResponse, error)
	GetAllEvents(ctx context.Context, filter *dto.EventFilterRequest) (*dto.EventListResponse, error)
	GetNearbyEvents(ctx context.Context, req *dto.NearbyEventsRequest) ([]dto.NearbyEventResponse, error)
	UpdateEvent(ctx context.Context, id, requesterID int64, requesterRole models.RoleType, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	UpdateEventStatus(ctx context.Context, id, requesterID int64, requesterRole models.RoleType, status string) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, id, requesterID int64, requesterRole models.RoleType) error
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo      eventStore
	communityRepo  communityGetter
	membershipRepo membershipChecker
	logger         zerolog.Logger
	now            func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo *repositories.EventRepository,
	communityRepo *repositories.CommunityRepository,
	membershipRepo *repositories.MembershipRepository,
	logger zerolog.Logger,
) EventService {
	return newEventService(eventRepo, communityRepo, membershipRepo, logger)
}

func newEventService(eventRepo eventStore, communityRepo communityGetter, membershipRepo membershipChecker, logger zerolog.Logger) *eventServiceImpl {
	return &eventServiceImpl{
		eventRepo:      eventRepo,
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func validateEventTimes(start, end time.Time) error {
	if !end.After(start) {
		return apperrors.NewValidationError("event end time must be after start time")
	}
	return nil
}

func validateCoordinates(lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return apperrors.NewValidationError("latitude and longitude must be provided together")
	}
	return nil
}

// CreateEvent creates an event inside a community the creator belongs to
func (s *eventServiceImpl) CreateEvent(ctx context.Context, creatorID int64, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if err := validateEventTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	if _, err := s.communityRepo.GetByID(ctx, req.CommunityID); err != nil {
		return nil, err
	}

	isMember, err := s.membershipRepo.Exists(ctx, req.CommunityID, creatorID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperrors.NewForbiddenError("only community members can create events")
	}

	baseSlug := helpers.Slugify(req.Title)
	taken, err := s.eventRepo.GetSlugsByPrefix(ctx, baseSlug)
	if err != nil {
		return nil, err
	}

	status := models.EventStatusDraft
	if req.Publish {
		status = models.EventStatusUpcoming
	}

	mode := req.RegistrationMode
	if mode == "" {
		mode = models.RegistrationModeAuto
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	event := &models.Event{
		CommunityID:      req.CommunityID,
		CreatorID:        creatorID,
		Title:            req.Title,
		Slug:             helpers.UniqueSlug(baseSlug, taken),
		Description:      req.Description,
		Status:           status,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Capacity:         req.Capacity,
		RegistrationMode: mode,
		Visibility:       visibility,
		Address:          req.Address,
		City:             req.City,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Tags:             tags,
	}

	id, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", id).Int64("creatorID", creatorID).Str("status", string(status)).Msg("Event created")

	return s.GetEventByID(ctx, id)
}

// GetEventByID retrieves a single event
func (s *eventServiceImpl) GetEventByID(ctx context.Context, id int64) (*dto.EventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.FromEvent(event)
	return &resp, nil
}

// GetAllEvents retrieves events with filtering and pagination
func (s *eventServiceImpl) GetAllEvents(ctx context.Context, filter *dto.EventFilterRequest) (*dto.EventListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	events, total, err := s.eventRepo.GetAll(ctx, filter, offset, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list events")
		return nil, err
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, dto.FromEvent(&events[i]))
	}

	return &dto.EventListResponse{
		Events:     responses,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, limit),
	}, nil
}

// GetNearbyEvents retrieves upcoming events within a radius of a point,
// sorted by start time. Events without coordinates are never returned.
func (s *eventServiceImpl) GetNearbyEvents(ctx context.Context, req *dto.NearbyEventsRequest) ([]dto.NearbyEventResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, apperrors.NewValidationError("latitude and longitude are required")
	}
	lat, lon := *req.Latitude, *req.Longitude

	radius := DefaultNearbyRadiusKm
	if req.RadiusKm != nil {
		radius = *req.RadiusKm
	}

	events, err := s.eventRepo.GetUpcomingWithCoordinates(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load events for nearby search")
		return nil, err
	}

	nearby := []dto.NearbyEventResponse{}
	for i := range events {
		event := &events[i]
		if !event.HasCoordinates() {
			continue
		}
		if !geo.IsWithinRadius(lat, lon, *event.Latitude, *event.Longitude, radius) {
			continue
		}
		nearby = append(nearby, dto.NearbyEventResponse{
			EventResponse: dto.FromEvent(event),
			DistanceKm:    geo.Distance(lat, lon, *event.Latitude, *event.Longitude),
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].StartTime.Before(nearby[j].StartTime)
	})

	return nearby, nil
}

// UpdateEvent updates an event owned by the requester
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, id, requesterID int64, requesterRole models.RoleType, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	if err := validateEventTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CanModify(event.CreatorID, requesterID, requesterRole) {
		return nil, apperrors.ErrPermissionDenied
	}

	if event.Status == models.EventStatusCompleted || event.Status == models.EventStatusCancelled {
		return nil, apperrors.NewConflictError("completed or cancelled events cannot be updated")
	}

	// Capacity cannot shrink below the seats already taken
	if req.Capacity > 0 && int64(req.Capacity) < event.RegisteredCount {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("capacity %d is below the current registration count %d", req.Capacity, event.RegisteredCount))
	}

	event.Title = req.Title
	event.Description = req.Description
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.Capacity = req.Capacity
	if req.RegistrationMode != "" {
		event.RegistrationMode = req.RegistrationMode
	}
	if req.Visibility != "" {
		event.Visibility = req.Visibility
	}
	event.Address = req.Address
	event.City = req.City
	event.Latitude = req.Latitude
	event.Longitude = req.Longitude
	if req.Tags != nil {
		event.Tags = req.Tags
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return s.GetEventByID(ctx, id)
}

// UpdateEventStatus transitions an event along its lifecycle
func (s *eventServiceImpl) UpdateEventStatus(ctx context.Context, id, requesterID int64, requesterRole models.RoleType, status string) (*dto.EventResponse, error) {
	if !models.IsValidEventStatus(status) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown event status: %s", status))
	}
	newStatus := models.EventStatus(status)

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CanModify(event.CreatorID, requesterID, requesterRole) {
		return nil, apperrors.ErrPermissionDenied
	}

	allowed := false
	for _, next := range validStatusTransitions[event.Status] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("cannot transition event from %s to %s", event.Status, newStatus))
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", id).Str("from", string(event.Status)).Str("to", status).Msg("Event status updated")

	return s.GetEventByID(ctx, id)
}

// DeleteEvent removes an event owned by the requester
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, id, requesterID int64, requesterRole models.RoleType) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CanModify(event.CreatorID, requesterID, requesterRole) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("eventID", id).Int64("requesterID", requesterID).Msg("Event deleted")
	return nil
}
