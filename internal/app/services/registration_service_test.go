package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/db"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
)

// fakeTxRunner executes the transaction function directly with a nil tx
type fakeTxRunner struct{}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

// fakeRegistrationStore keeps registrations in memory
type fakeRegistrationStore struct {
	event         *models.Event
	registrations []*models.Registration
	nextID        int64
}

func (f *fakeRegistrationStore) LockEvent(ctx context.Context, tx pgx.Tx, eventID int64) (*models.Event, error) {
	if f.event == nil || f.event.ID != eventID {
		return nil, apperrors.ErrEventNotFound
	}
	return f.event, nil
}

func (f *fakeRegistrationStore) CountActiveTx(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error) {
	var count int64
	for _, reg := range f.registrations {
		if reg.EventID == eventID && reg.IsActive() {
			count++
		}
	}
	return count, nil
}

func (f *fakeRegistrationStore) GetActiveByEventAndUser(ctx context.Context, tx pgx.Tx, eventID, userID int64) (*models.Registration, error) {
	for _, reg := range f.registrations {
		if reg.EventID == eventID && reg.UserID == userID && reg.Status != models.RegistrationStatusCancelled {
			return reg, nil
		}
	}
	return nil, apperrors.ErrRegistrationNotFound
}

func (f *fakeRegistrationStore) CreateTx(ctx context.Context, tx pgx.Tx, eventID, userID int64, status models.RegistrationStatus) (*models.Registration, error) {
	f.nextID++
	reg := &models.Registration{
		ID:           f.nextID,
		EventID:      eventID,
		UserID:       userID,
		Status:       status,
		RegisteredAt: time.Now(),
	}
	f.registrations = append(f.registrations, reg)
	return reg, nil
}

func (f *fakeRegistrationStore) CancelActive(ctx context.Context, eventID, userID int64) (bool, error) {
	for _, reg := range f.registrations {
		if reg.EventID == eventID && reg.UserID == userID && reg.Status != models.RegistrationStatusCancelled {
			now := time.Now()
			reg.Status = models.RegistrationStatusCancelled
			reg.CancelledAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrationStore) GetByEvent(ctx context.Context, eventID int64, offset uint64, limit int) ([]models.Registration, int64, error) {
	result := []models.Registration{}
	for _, reg := range f.registrations {
		if reg.EventID == eventID && reg.IsActive() {
			result = append(result, *reg)
		}
	}
	return result, int64(len(result)), nil
}

// fakeEventGetter serves a single event
type fakeEventGetter struct {
	event *models.Event
}

func (f *fakeEventGetter) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, apperrors.ErrEventNotFound
	}
	return f.event, nil
}

func upcomingEvent(capacity int) *models.Event {
	return &models.Event{
		ID:        1,
		Status:    models.EventStatusUpcoming,
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(26 * time.Hour),
		Capacity:  capacity,
	}
}

func newTestRegistrationService(event *models.Event) (*registrationServiceImpl, *fakeRegistrationStore) {
	store := &fakeRegistrationStore{event: event}
	svc := newRegistrationService(&fakeTxRunner{}, store, &fakeEventGetter{event: event}, zerolog.Nop())
	return svc, store
}

func TestRegisterRespectsCapacity(t *testing.T) {
	svc, _ := newTestRegistrationService(upcomingEvent(2))
	ctx := context.Background()

	_, err := svc.Register(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Register(ctx, 1, 11)
	require.NoError(t, err)

	_, err = svc.Register(ctx, 1, 12)
	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
}

func TestRegisterIsIdempotent(t *testing.T) {
	svc, store := newTestRegistrationService(upcomingEvent(5))
	ctx := context.Background()

	first, err := svc.Register(ctx, 1, 10)
	require.NoError(t, err)

	second, err := svc.Register(ctx, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.registrations, 1)
}

func TestRegisterUnlimitedCapacity(t *testing.T) {
	svc, _ := newTestRegistrationService(upcomingEvent(0))
	ctx := context.Background()

	for userID := int64(1); userID <= 50; userID++ {
		_, err := svc.Register(ctx, 1, userID)
		require.NoError(t, err)
	}
}

func TestRegisterRejectsClosedEvent(t *testing.T) {
	tests := []struct {
		name  string
		event *models.Event
	}{
		{"draft event", &models.Event{ID: 1, Status: models.EventStatusDraft, StartTime: time.Now().Add(time.Hour)}},
		{"cancelled event", &models.Event{ID: 1, Status: models.EventStatusCancelled, StartTime: time.Now().Add(time.Hour)}},
		{"already started", &models.Event{ID: 1, Status: models.EventStatusUpcoming, StartTime: time.Now().Add(-time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestRegistrationService(tt.event)
			_, err := svc.Register(context.Background(), 1, 10)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConflict)
		})
	}
}

func TestRegisterManualModeWaitlists(t *testing.T) {
	event := upcomingEvent(1)
	event.RegistrationMode = models.RegistrationModeManual
	svc, store := newTestRegistrationService(event)
	ctx := context.Background()

	first, err := svc.Register(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, string(models.RegistrationStatusWaitlisted), first.Status)

	// Waitlisted rows don't occupy seats, so capacity never blocks them
	second, err := svc.Register(ctx, 1, 11)
	require.NoError(t, err)
	assert.Equal(t, string(models.RegistrationStatusWaitlisted), second.Status)

	again, err := svc.Register(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, store.registrations, 2)
}

func TestRegisterUnknownEvent(t *testing.T) {
	svc, _ := newTestRegistrationService(upcomingEvent(5))

	_, err := svc.Register(context.Background(), 99, 10)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestUnregisterCancelsActiveRegistration(t *testing.T) {
	svc, store := newTestRegistrationService(upcomingEvent(2))
	ctx := context.Background()

	_, err := svc.Register(ctx, 1, 10)
	require.NoError(t, err)

	cancelled, err := svc.Unregister(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.Equal(t, models.RegistrationStatusCancelled, store.registrations[0].Status)
	assert.NotNil(t, store.registrations[0].CancelledAt)
}

func TestUnregisterWithoutRegistrationIsNoop(t *testing.T) {
	svc, _ := newTestRegistrationService(upcomingEvent(2))

	cancelled, err := svc.Unregister(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestCancelledSeatCanBeTakenAgain(t *testing.T) {
	svc, _ := newTestRegistrationService(upcomingEvent(1))
	ctx := context.Background()

	_, err := svc.Register(ctx, 1, 10)
	require.NoError(t, err)

	_, err = svc.Register(ctx, 1, 11)
	require.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	cancelled, err := svc.Unregister(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, cancelled)

	_, err = svc.Register(ctx, 1, 11)
	assert.NoError(t, err)
}
