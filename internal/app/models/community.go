package models

import "time"

// Community represents a group of users organizing events together
type Community struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Description string     `json:"description" db:"description"`
	Visibility  Visibility `json:"visibility" db:"visibility"`
	CreatorID   int64      `json:"creatorId" db:"creator_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator     *User `json:"creator,omitempty"`
	MemberCount int64 `json:"memberCount,omitempty"`
}

// Membership represents a user's membership in a community
type Membership struct {
	ID          int64          `json:"id" db:"id"`
	CommunityID int64          `json:"communityId" db:"community_id"`
	UserID      int64          `json:"userId" db:"user_id"`
	Role        MembershipRole `json:"role" db:"role"`
	JoinedAt    time.Time      `json:"joinedAt" db:"joined_at"`
	LeftAt      *time.Time     `json:"leftAt,omitempty" db:"left_at"`

	// Related entities
	User      *User      `json:"user,omitempty"`
	Community *Community `json:"community,omitempty"`
}
