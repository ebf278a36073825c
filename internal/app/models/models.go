package models

// RoleType defines the user role type
type RoleType string

const (
	RoleMember RoleType = "MEMBER"
	RoleHost   RoleType = "HOST"
	RoleAdmin  RoleType = "ADMIN"
)

// UserStatus defines the lifecycle state of a user account
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// EventStatus defines the lifecycle state of an event
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusUpcoming  EventStatus = "UPCOMING"
	EventStatusOngoing   EventStatus = "ONGOING"
	EventStatusCompleted EventStatus = "COMPLETED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// RegistrationStatus defines the state of an event registration
type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "REGISTERED"
	RegistrationStatusCancelled  RegistrationStatus = "CANCELLED"
	RegistrationStatusWaitlisted RegistrationStatus = "WAITLISTED"
	RegistrationStatusCheckedIn  RegistrationStatus = "CHECKED_IN"
)

// Visibility controls who can discover a community or event
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// RegistrationMode controls how attendees join an event
type RegistrationMode string

const (
	RegistrationModeAuto   RegistrationMode = "AUTO"
	RegistrationModeManual RegistrationMode = "MANUAL"
)

// MembershipRole defines a member's role inside a community
type MembershipRole string

const (
	MembershipRoleMember    MembershipRole = "MEMBER"
	MembershipRoleModerator MembershipRole = "MODERATOR"
	MembershipRoleOwner     MembershipRole = "OWNER"
)

// IsValidRole reports whether s is a known user role
func IsValidRole(s string) bool {
	switch RoleType(s) {
	case RoleMember, RoleHost, RoleAdmin:
		return true
	}
	return false
}

// IsValidEventStatus reports whether s is a known event status
func IsValidEventStatus(s string) bool {
	switch EventStatus(s) {
	case EventStatusDraft, EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}
