package models

import "time"

// Registration represents a user's registration for an event
type Registration struct {
	ID           int64              `json:"id" db:"id"`
	EventID      int64              `json:"eventId" db:"event_id"`
	UserID       int64              `json:"userId" db:"user_id"`
	Status       RegistrationStatus `json:"status" db:"status"`
	RegisteredAt time.Time          `json:"registeredAt" db:"registered_at"`
	CheckedInAt  *time.Time         `json:"checkedInAt,omitempty" db:"checked_in_at"`
	CancelledAt  *time.Time         `json:"cancelledAt,omitempty" db:"cancelled_at"`

	// Related entities
	User  *User  `json:"user,omitempty"`
	Event *Event `json:"event,omitempty"`
}

// IsActive reports whether the registration currently occupies a seat
func (r *Registration) IsActive() bool {
	return r.Status == RegistrationStatusRegistered || r.Status == RegistrationStatusCheckedIn
}
