package dto

import (
	"time"

	"github.com/deniz/communityevents/internal/app/models"
)

// --- Request DTOs ---

// CreateEventRequest represents event creation data
type CreateEventRequest struct {
	CommunityID      int64                   `json:"communityId" binding:"required,gt=0"`
	Title            string                  `json:"title" binding:"required,min=2,max=200"`
	Description      string                  `json:"description" binding:"max=5000"`
	StartTime        time.Time               `json:"startTime" binding:"required"`
	EndTime          time.Time               `json:"endTime" binding:"required"`
	Capacity         int                     `json:"capacity" binding:"min=0"` // 0 means unlimited
	RegistrationMode models.RegistrationMode `json:"registrationMode" binding:"omitempty,oneof=AUTO MANUAL"`
	Visibility       models.Visibility       `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE"`
	Address          *string                 `json:"address" binding:"omitempty,max=300"`
	City             *string                 `json:"city" binding:"omitempty,max=100"`
	Latitude         *float64                `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude        *float64                `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Tags             []string                `json:"tags" binding:"omitempty,max=10,dive,min=1,max=50"`
	Publish          bool                    `json:"publish"` // false leaves the event in DRAFT
}

// UpdateEventRequest represents event update data
type UpdateEventRequest struct {
	Title            string                  `json:"title" binding:"required,min=2,max=200"`
	Description      string                  `json:"description" binding:"max=5000"`
	StartTime        time.Time               `json:"startTime" binding:"required"`
	EndTime          time.Time               `json:"endTime" binding:"required"`
	Capacity         int                     `json:"capacity" binding:"min=0"`
	RegistrationMode models.RegistrationMode `json:"registrationMode" binding:"omitempty,oneof=AUTO MANUAL"`
	Visibility       models.Visibility       `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE"`
	Address          *string                 `json:"address" binding:"omitempty,max=300"`
	City             *string                 `json:"city" binding:"omitempty,max=100"`
	Latitude         *float64                `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude        *float64                `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Tags             []string                `json:"tags" binding:"omitempty,max=10,dive,min=1,max=50"`
}

// UpdateEventStatusRequest represents an event status transition request
type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT UPCOMING ONGOING COMPLETED CANCELLED"`
}

// EventFilterRequest represents event listing and filtering parameters
type EventFilterRequest struct {
	CommunityID *int64     `form:"communityId"`
	Status      *string    `form:"status" binding:"omitempty,oneof=DRAFT UPCOMING ONGOING COMPLETED CANCELLED"`
	City        *string    `form:"city"`
	Search      *string    `form:"search"` // Matches against title
	From        *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To          *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page        int        `form:"page,default=1" binding:"min=1"`
	PageSize    int        `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// NearbyEventsRequest represents a geographic event search. An absent radius
// defaults server-side; an explicit 0 matches coincident points only.
type NearbyEventsRequest struct {
	Latitude  *float64 `form:"lat" binding:"required,min=-90,max=90"`
	Longitude *float64 `form:"lon" binding:"required,min=-180,max=180"`
	RadiusKm  *float64 `form:"radiusKm" binding:"omitempty,min=0,max=20000"`
}

// --- Response DTOs ---

// EventResponse represents event information
type EventResponse struct {
	ID               int64                   `json:"id"`
	CommunityID      int64                   `json:"communityId"`
	CreatorID        int64                   `json:"creatorId"`
	Title            string                  `json:"title"`
	Slug             string                  `json:"slug"`
	Description      string                  `json:"description"`
	Status           string                  `json:"status"`
	StartTime        time.Time               `json:"startTime"`
	EndTime          time.Time               `json:"endTime"`
	Capacity         int                     `json:"capacity"`
	RegistrationMode models.RegistrationMode `json:"registrationMode"`
	Visibility       models.Visibility       `json:"visibility"`
	RegisteredCount  int64                   `json:"registeredCount"`
	Address          *string                 `json:"address,omitempty"`
	City             *string                 `json:"city,omitempty"`
	Latitude         *float64                `json:"latitude,omitempty"`
	Longitude        *float64                `json:"longitude,omitempty"`
	Tags             []string                `json:"tags,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// FromEvent converts a models.Event to an EventResponse
func FromEvent(event *models.Event) EventResponse {
	if event == nil {
		return EventResponse{}
	}
	return EventResponse{
		ID:               event.ID,
		CommunityID:      event.CommunityID,
		CreatorID:        event.CreatorID,
		Title:            event.Title,
		Slug:             event.Slug,
		Description:      event.Description,
		Status:           string(event.Status),
		StartTime:        event.StartTime,
		EndTime:          event.EndTime,
		Capacity:         event.Capacity,
		RegistrationMode: event.RegistrationMode,
		Visibility:       event.Visibility,
		RegisteredCount:  event.RegisteredCount,
		Address:          event.Address,
		City:             event.City,
		Latitude:         event.Latitude,
		Longitude:        event.Longitude,
		Tags:             event.Tags,
		CreatedAt:        event.CreatedAt,
		UpdatedAt:        event.UpdatedAt,
	}
}

// NearbyEventResponse extends EventResponse with the computed distance
type NearbyEventResponse struct {
	EventResponse
	DistanceKm float64 `json:"distanceKm"`
}

// EventListResponse represents a list of events with pagination
type EventListResponse struct {
	Events     []EventResponse `json:"events"`
	Pagination PaginationInfo  `json:"pagination"`
}

// EventSummary is the compact event projection embedded in registration listings
type EventSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// RegistrationResponse represents a registration for an event
type RegistrationResponse struct {
	ID           int64         `json:"id"`
	EventID      int64         `json:"eventId"`
	UserID       int64         `json:"userId"`
	Status       string        `json:"status"`
	RegisteredAt time.Time     `json:"registeredAt"`
	CheckedInAt  *time.Time    `json:"checkedInAt,omitempty"`
	CancelledAt  *time.Time    `json:"cancelledAt,omitempty"`
	Event        *EventSummary `json:"event,omitempty"`
}

// FromRegistration converts a models.Registration to a RegistrationResponse
func FromRegistration(r *models.Registration) RegistrationResponse {
	if r == nil {
		return RegistrationResponse{}
	}
	resp := RegistrationResponse{
		ID:           r.ID,
		EventID:      r.EventID,
		UserID:       r.UserID,
		Status:       string(r.Status),
		RegisteredAt: r.RegisteredAt,
		CheckedInAt:  r.CheckedInAt,
		CancelledAt:  r.CancelledAt,
	}
	if r.Event != nil {
		resp.Event = &EventSummary{
			ID:        r.Event.ID,
			Title:     r.Event.Title,
			Slug:      r.Event.Slug,
			Status:    string(r.Event.Status),
			StartTime: r.Event.StartTime,
			EndTime:   r.Event.EndTime,
		}
	}
	return resp
}

// AttendeeResponse represents an attendee of an event
type AttendeeResponse struct {
	UserID       int64     `json:"userId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
}
