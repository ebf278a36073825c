package models

import "time"

// Event represents a scheduled community event
type Event struct {
	ID          int64       `json:"id" db:"id"`
	CommunityID int64       `json:"communityId" db:"community_id"`
	CreatorID   int64       `json:"creatorId" db:"creator_id"`
	Title       string      `json:"title" db:"title"`
	Slug        string      `json:"slug" db:"slug"`
	Description string      `json:"description" db:"description"`
	Status      EventStatus `json:"status" db:"status"`
	StartTime   time.Time   `json:"startTime" db:"start_time"`
	EndTime     time.Time   `json:"endTime" db:"end_time"`
	// Capacity 0 means unlimited attendance.
	Capacity         int              `json:"capacity" db:"capacity"`
	RegistrationMode RegistrationMode `json:"registrationMode" db:"registration_mode"`
	Visibility       Visibility       `json:"visibility" db:"visibility"`
	Address          *string          `json:"address,omitempty" db:"address"`
	City             *string          `json:"city,omitempty" db:"city"`
	Latitude         *float64         `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64         `json:"longitude,omitempty" db:"longitude"`
	Tags             []string         `json:"tags,omitempty" db:"tags"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator         *User      `json:"creator,omitempty"`
	Community       *Community `json:"community,omitempty"`
	RegisteredCount int64      `json:"registeredCount,omitempty"`
}

// HasCoordinates reports whether the event carries a geographic location
func (e *Event) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// IsUnlimited reports whether the event has no capacity cap
func (e *Event) IsUnlimited() bool {
	return e.Capacity <= 0
}

// IsOpenForRegistration reports whether new registrations are accepted
func (e *Event) IsOpenForRegistration(now time.Time) bool {
	if e.Status != EventStatusUpcoming {
		return false
	}
	return now.Before(e.StartTime)
}
