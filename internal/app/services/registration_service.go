package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/app/repositories"
	"github.com/deniz/communityevents/internal/db"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
	"github.com/deniz/communityevents/internal/pkg/helpers"
)

// txRunner runs a function inside a database transaction.
// *db.PostgresDB satisfies it.
type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// registrationStore is the registration persistence surface the service needs.
// *repositories.RegistrationRepository satisfies it.
type registrationStore interface {
	LockEvent(ctx context.Context, tx pgx.Tx, eventID int64) (*models.Event, error)
	CountActiveTx(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error)
	GetActiveByEventAndUser(ctx context.Context, tx pgx.Tx, eventID, userID int64) (*models.Registration, error)
	CreateTx(ctx context.Context, tx pgx.Tx, eventID, userID int64, status models.RegistrationStatus) (*models.Registration, error)
	CancelActive(ctx context.Context, eventID, userID int64) (bool, error)
	GetByEvent(ctx context.Context, eventID int64, offset uint64, limit int) ([]models.Registration, int64, error)
}

// RegistrationService defines the interface for event registration operations
type RegistrationService interface {
	Register(ctx context.Context, eventID, userID int64) (*dto.RegistrationResponse, error)
	Unregister(ctx context.Context, eventID, userID int64) (bool, error)
	GetEventAttendees(ctx context.Context, eventID int64, page, pageSize int) (*dto.PaginatedResponse, error)
}

// eventGetter looks up events by ID
type eventGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// registrationServiceImpl implements RegistrationService
type registrationServiceImpl struct {
	database         txRunner
	registrationRepo registrationStore
	eventRepo        eventGetter
	logger           zerolog.Logger
	now              func() time.Time
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	database *db.PostgresDB,
	registrationRepo *repositories.RegistrationRepository,
	eventRepo *repositories.EventRepository,
	logger zerolog.Logger,
) RegistrationService {
	return newRegistrationService(database, registrationRepo, eventRepo, logger)
}

func newRegistrationService(database txRunner, registrationRepo registrationStore, eventRepo eventGetter, logger zerolog.Logger) *registrationServiceImpl {
	return &registrationServiceImpl{
		database:         database,
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// Register registers a user for an event. The capacity check and the insert
// run in one transaction behind a row lock on the event, so concurrent
// registrations cannot overshoot the capacity. Registering twice is
// idempotent and returns the existing registration.
func (s *registrationServiceImpl) Register(ctx context.Context, eventID, userID int64) (*dto.RegistrationResponse, error) {
	var registration *models.Registration

	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		event, err := s.registrationRepo.LockEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}

		if !event.IsOpenForRegistration(s.now()) {
			return apperrors.NewConflictError("event is not open for registration")
		}

		existing, err := s.registrationRepo.GetActiveByEventAndUser(ctx, tx, eventID, userID)
		if err == nil {
			registration = existing
			return nil
		}
		if !errors.Is(err, apperrors.ErrRegistrationNotFound) {
			return err
		}

		// MANUAL events queue registrations for organizer approval;
		// waitlisted rows do not occupy a seat, so capacity is not checked.
		status := models.RegistrationStatusRegistered
		if event.RegistrationMode == models.RegistrationModeManual {
			status = models.RegistrationStatusWaitlisted
		} else if !event.IsUnlimited() {
			active, err := s.registrationRepo.CountActiveTx(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if active >= int64(event.Capacity) {
				return apperrors.ErrCapacityExceeded
			}
		}

		created, err := s.registrationRepo.CreateTx(ctx, tx, eventID, userID, status)
		if err != nil {
			return err
		}
		registration = created

		s.logger.Info().Int64("eventID", eventID).Int64("userID", userID).Str("status", string(status)).Msg("User registered for event")
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.FromRegistration(registration)
	return &resp, nil
}

// Unregister cancels a user's active registration for an event. It reports
// whether a registration was actually cancelled; cancelling without an
// active registration is not an error.
func (s *registrationServiceImpl) Unregister(ctx context.Context, eventID, userID int64) (bool, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return false, err
	}

	cancelled, err := s.registrationRepo.CancelActive(ctx, eventID, userID)
	if err != nil {
		return false, err
	}

	if cancelled {
		s.logger.Info().Int64("eventID", eventID).Int64("userID", userID).Msg("User unregistered from event")
	}

	return cancelled, nil
}

// GetEventAttendees retrieves the active registrations for an event
func (s *registrationServiceImpl) GetEventAttendees(ctx context.Context, eventID int64, page, pageSize int) (*dto.PaginatedResponse, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	registrations, total, err := s.registrationRepo.GetByEvent(ctx, eventID, offset, limit)
	if err != nil {
		return nil, err
	}

	attendees := make([]dto.AttendeeResponse, 0, len(registrations))
	for _, reg := range registrations {
		attendee := dto.AttendeeResponse{
			UserID:       reg.UserID,
			Status:       string(reg.Status),
			RegisteredAt: reg.RegisteredAt,
		}
		if reg.User != nil {
			attendee.FirstName = reg.User.FirstName
			attendee.LastName = reg.User.LastName
		}
		attendees = append(attendees, attendee)
	}

	return &dto.PaginatedResponse{
		Items:      attendees,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}
