package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
)

// fakeEventStore keeps events in memory
type fakeEventStore struct {
	events map[int64]*models.Event
	nextID int64
}

func newFakeEventStore(events ...*models.Event) *fakeEventStore {
	store := &fakeEventStore{events: map[int64]*models.Event{}}
	for _, event := range events {
		store.events[event.ID] = event
		if event.ID > store.nextID {
			store.nextID = event.ID
		}
	}
	return store
}

func (f *fakeEventStore) Create(ctx context.Context, event *models.Event) (int64, error) {
	f.nextID++
	event.ID = f.nextID
	f.events[event.ID] = event
	return event.ID, nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventStore) GetAll(ctx context.Context, filter *dto.EventFilterRequest, offset uint64, limit int) ([]models.Event, int64, error) {
	result := []models.Event{}
	for _, event := range f.events {
		result = append(result, *event)
	}
	return result, int64(len(result)), nil
}

func (f *fakeEventStore) GetUpcomingWithCoordinates(ctx context.Context, after time.Time) ([]models.Event, error) {
	result := []models.Event{}
	for _, event := range f.events {
		if event.Status == models.EventStatusUpcoming && event.StartTime.After(after) && event.HasCoordinates() {
			result = append(result, *event)
		}
	}
	return result, nil
}

func (f *fakeEventStore) GetSlugsByPrefix(ctx context.Context, baseSlug string) ([]string, error) {
	slugs := []string{}
	for _, event := range f.events {
		if event.Slug == baseSlug || strings.HasPrefix(event.Slug, baseSlug+"-") {
			slugs = append(slugs, event.Slug)
		}
	}
	return slugs, nil
}

func (f *fakeEventStore) Update(ctx context.Context, event *models.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventStore) UpdateStatus(ctx context.Context, id int64, status models.EventStatus) error {
	event, ok := f.events[id]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	event.Status = status
	return nil
}

func (f *fakeEventStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

// fakeCommunityGetter serves a single community
type fakeCommunityGetter struct {
	community *models.Community
}

func (f *fakeCommunityGetter) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	if f.community == nil || f.community.ID != id {
		return nil, apperrors.ErrCommunityNotFound
	}
	return f.community, nil
}

// fakeMembershipChecker answers membership checks from a set
type fakeMembershipChecker struct {
	members map[int64]bool
}

func (f *fakeMembershipChecker) Exists(ctx context.Context, communityID, userID int64) (bool, error) {
	return f.members[userID], nil
}

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func nearbyReq(lat, lon float64, radiusKm *float64) *dto.NearbyEventsRequest {
	return &dto.NearbyEventsRequest{Latitude: &lat, Longitude: &lon, RadiusKm: radiusKm}
}

func radius(km float64) *float64 {
	return &km
}

func newTestEventService(store *fakeEventStore) *eventServiceImpl {
	community := &models.Community{ID: 1, Name: "Hikers", CreatorID: 1}
	members := &fakeMembershipChecker{members: map[int64]bool{1: true, 2: true}}
	return newEventService(store, &fakeCommunityGetter{community: community}, members, zerolog.Nop())
}

func TestCreateEventValidation(t *testing.T) {
	svc := newTestEventService(newFakeEventStore())
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour)

	t.Run("end before start", func(t *testing.T) {
		_, err := svc.CreateEvent(ctx, 1, &dto.CreateEventRequest{
			CommunityID: 1,
			Title:       "Morning Hike",
			StartTime:   start,
			EndTime:     start.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("latitude without longitude", func(t *testing.T) {
		lat := 40.0
		_, err := svc.CreateEvent(ctx, 1, &dto.CreateEventRequest{
			CommunityID: 1,
			Title:       "Morning Hike",
			StartTime:   start,
			EndTime:     start.Add(time.Hour),
			Latitude:    &lat,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("non member cannot create", func(t *testing.T) {
		_, err := svc.CreateEvent(ctx, 99, &dto.CreateEventRequest{
			CommunityID: 1,
			Title:       "Morning Hike",
			StartTime:   start,
			EndTime:     start.Add(time.Hour),
		})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("unknown community", func(t *testing.T) {
		_, err := svc.CreateEvent(ctx, 1, &dto.CreateEventRequest{
			CommunityID: 42,
			Title:       "Morning Hike",
			StartTime:   start,
			EndTime:     start.Add(time.Hour),
		})
		assert.ErrorIs(t, err, apperrors.ErrCommunityNotFound)
	})
}

func TestCreateEventStatus(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestEventService(store)
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour)

	draft, err := svc.CreateEvent(ctx, 1, &dto.CreateEventRequest{
		CommunityID: 1,
		Title:       "Draft Meetup",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.EventStatusDraft), draft.Status)
	assert.Equal(t, models.RegistrationModeAuto, draft.RegistrationMode)
	assert.Equal(t, models.VisibilityPublic, draft.Visibility)

	published, err := svc.CreateEvent(ctx, 1, &dto.CreateEventRequest{
		CommunityID: 1,
		Title:       "Published Meetup",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Publish:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.EventStatusUpcoming), published.Status)
}

func TestCreateEventSlugAllocation(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)
	store := newFakeEventStore(&models.Event{ID: 1, CommunityID: 1, Slug: "morning-hike-2024"})
	svc := newTestEventService(store)
	ctx := context.Background()

	// A suffixed slug from another event leaves the base slug free
	first, err := svc.CreateEvent(ctx, 1, &dto.CreateEventRequest{
		CommunityID: 1,
		Title:       "Morning Hike",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "morning-hike", first.Slug)

	second, err := svc.CreateEvent(ctx, 1, &dto.CreateEventRequest{
		CommunityID: 1,
		Title:       "Morning Hike",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "morning-hike-2", second.Slug)
}

func TestUpdateEventOwnership(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)
	event := &models.Event{
		ID: 1, CommunityID: 1, CreatorID: 1,
		Title: "Picnic", Status: models.EventStatusUpcoming,
		StartTime: start, EndTime: start.Add(time.Hour),
	}
	req := &dto.UpdateEventRequest{
		Title:     "Renamed Picnic",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	}

	t.Run("other member denied", func(t *testing.T) {
		svc := newTestEventService(newFakeEventStore(event))
		_, err := svc.UpdateEvent(context.Background(), 1, 2, models.RoleMember, req)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("owner allowed", func(t *testing.T) {
		eventCopy := *event
		svc := newTestEventService(newFakeEventStore(&eventCopy))
		updated, err := svc.UpdateEvent(context.Background(), 1, 1, models.RoleMember, req)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Picnic", updated.Title)
	})

	t.Run("admin allowed", func(t *testing.T) {
		eventCopy := *event
		svc := newTestEventService(newFakeEventStore(&eventCopy))
		_, err := svc.UpdateEvent(context.Background(), 1, 99, models.RoleAdmin, req)
		assert.NoError(t, err)
	})
}

func TestUpdateEventCapacityBelowRegistrations(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)
	event := &models.Event{
		ID: 1, CommunityID: 1, CreatorID: 1,
		Status: models.EventStatusUpcoming, Capacity: 10, RegisteredCount: 5,
		StartTime: start, EndTime: start.Add(time.Hour),
	}
	svc := newTestEventService(newFakeEventStore(event))

	_, err := svc.UpdateEvent(context.Background(), 1, 1, models.RoleMember, &dto.UpdateEventRequest{
		Title:     "Picnic",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Capacity:  3,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUpdateEventStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.EventStatus
		to      string
		wantErr bool
	}{
		{"draft to upcoming", models.EventStatusDraft, "UPCOMING", false},
		{"upcoming to ongoing", models.EventStatusUpcoming, "ONGOING", false},
		{"ongoing to completed", models.EventStatusOngoing, "COMPLETED", false},
		{"upcoming to cancelled", models.EventStatusUpcoming, "CANCELLED", false},
		{"completed to upcoming", models.EventStatusCompleted, "UPCOMING", true},
		{"cancelled to ongoing", models.EventStatusCancelled, "ONGOING", true},
		{"draft to completed", models.EventStatusDraft, "COMPLETED", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now().Add(24 * time.Hour)
			event := &models.Event{
				ID: 1, CommunityID: 1, CreatorID: 1, Status: tt.from,
				StartTime: start, EndTime: start.Add(time.Hour),
			}
			svc := newTestEventService(newFakeEventStore(event))

			resp, err := svc.UpdateEventStatus(context.Background(), 1, 1, models.RoleMember, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrConflict)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.to, resp.Status)
			}
		})
	}
}

func TestDeleteEventOwnership(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)
	event := &models.Event{ID: 1, CreatorID: 1, StartTime: start, EndTime: start.Add(time.Hour)}

	svc := newTestEventService(newFakeEventStore(event))
	err := svc.DeleteEvent(context.Background(), 1, 2, models.RoleHost)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.DeleteEvent(context.Background(), 1, 1, models.RoleMember)
	assert.NoError(t, err)
}

func TestGetNearbyEvents(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)
	lat0, lon0 := coords(0, 0)
	latFar, lonFar := coords(50, 50)

	origin := &models.Event{
		ID: 1, Title: "At Origin", Status: models.EventStatusUpcoming,
		StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour),
		Latitude: lat0, Longitude: lon0,
	}
	far := &models.Event{
		ID: 2, Title: "Far Away", Status: models.EventStatusUpcoming,
		StartTime: start, EndTime: start.Add(time.Hour),
		Latitude: latFar, Longitude: lonFar,
	}
	noCoords := &models.Event{
		ID: 3, Title: "No Location", Status: models.EventStatusUpcoming,
		StartTime: start, EndTime: start.Add(time.Hour),
	}

	svc := newTestEventService(newFakeEventStore(origin, far, noCoords))
	ctx := context.Background()

	t.Run("finds events within radius", func(t *testing.T) {
		// (1,1) to (0,0) is roughly 157 km
		nearby, err := svc.GetNearbyEvents(ctx, nearbyReq(1, 1, radius(200)))
		require.NoError(t, err)
		require.Len(t, nearby, 1)
		assert.Equal(t, "At Origin", nearby[0].Title)
		assert.InDelta(t, 157.2, nearby[0].DistanceKm, 1.0)
	})

	t.Run("default radius excludes distant events", func(t *testing.T) {
		nearby, err := svc.GetNearbyEvents(ctx, nearbyReq(1, 1, nil))
		require.NoError(t, err)
		assert.Empty(t, nearby)
	})

	t.Run("explicit zero radius matches coincident points only", func(t *testing.T) {
		nearby, err := svc.GetNearbyEvents(ctx, nearbyReq(0, 0, radius(0)))
		require.NoError(t, err)
		require.Len(t, nearby, 1)
		assert.Equal(t, "At Origin", nearby[0].Title)
		assert.Zero(t, nearby[0].DistanceKm)

		// (0.05, 0) is about 5.6 km from the origin event
		nearby, err = svc.GetNearbyEvents(ctx, nearbyReq(0.05, 0, radius(0)))
		require.NoError(t, err)
		assert.Empty(t, nearby)
	})

	t.Run("events without coordinates are never returned", func(t *testing.T) {
		nearby, err := svc.GetNearbyEvents(ctx, nearbyReq(0, 0, radius(20000)))
		require.NoError(t, err)
		for _, event := range nearby {
			assert.NotEqual(t, "No Location", event.Title)
		}
	})

	t.Run("sorted by start time", func(t *testing.T) {
		nearEvent := &models.Event{
			ID: 4, Title: "Sooner", Status: models.EventStatusUpcoming,
			StartTime: start, EndTime: start.Add(time.Hour),
			Latitude: lat0, Longitude: lon0,
		}
		svc := newTestEventService(newFakeEventStore(origin, nearEvent))
		nearby, err := svc.GetNearbyEvents(ctx, nearbyReq(0, 0, radius(50)))
		require.NoError(t, err)
		require.Len(t, nearby, 2)
		assert.Equal(t, "Sooner", nearby[0].Title)
		assert.Equal(t, "At Origin", nearby[1].Title)
	})
}
