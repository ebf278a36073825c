package models

import "time"

// Comment represents a user comment on an event
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	EventID   int64     `json:"eventId" db:"event_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"`
	Content   string    `json:"content" db:"content"`
	Hidden    bool      `json:"hidden" db:"hidden"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Author  *User      `json:"author,omitempty"`
	Replies []*Comment `json:"replies,omitempty"`
}
