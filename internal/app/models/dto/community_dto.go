package dto

import (
	"time"

	"github.com/deniz/communityevents/internal/app/models"
)

// --- Request DTOs ---

// CreateCommunityRequest represents community creation data
type CreateCommunityRequest struct {
	Name        string            `json:"name" binding:"required,min=2,max=100"`
	Description string            `json:"description" binding:"max=2000"`
	Visibility  models.Visibility `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE"`
}

// UpdateCommunityRequest represents community update data
type UpdateCommunityRequest struct {
	Name        string            `json:"name" binding:"required,min=2,max=100"`
	Description string            `json:"description" binding:"max=2000"`
	Visibility  models.Visibility `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE"`
}

// CommunityFilterRequest represents community listing parameters
type CommunityFilterRequest struct {
	Search   *string `form:"search"` // Matches against name
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// CommunityResponse represents basic community information
type CommunityResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Visibility  models.Visibility `json:"visibility"`
	CreatorID   int64             `json:"creatorId"`
	MemberCount int64             `json:"memberCount"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// FromCommunity converts a models.Community to a CommunityResponse
func FromCommunity(community *models.Community) CommunityResponse {
	if community == nil {
		return CommunityResponse{}
	}
	return CommunityResponse{
		ID:          community.ID,
		Name:        community.Name,
		Slug:        community.Slug,
		Description: community.Description,
		Visibility:  community.Visibility,
		CreatorID:   community.CreatorID,
		MemberCount: community.MemberCount,
		CreatedAt:   community.CreatedAt,
		UpdatedAt:   community.UpdatedAt,
	}
}

// MembershipResponse represents a member of a community
type MembershipResponse struct {
	UserID    int64     `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// FromMembership converts a models.Membership to a MembershipResponse
func FromMembership(m *models.Membership) MembershipResponse {
	resp := MembershipResponse{
		UserID:   m.UserID,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
	if m.User != nil {
		resp.FirstName = m.User.FirstName
		resp.LastName = m.User.LastName
	}
	return resp
}

// CommunityDetailResponse extends CommunityResponse with member details
type CommunityDetailResponse struct {
	CommunityResponse
	Members []MembershipResponse `json:"members,omitempty"`
}

// CommunityListResponse represents a list of communities with pagination
type CommunityListResponse struct {
	Communities []CommunityResponse `json:"communities"`
	Pagination  PaginationInfo      `json:"pagination"`
}
