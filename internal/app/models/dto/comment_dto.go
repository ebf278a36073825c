package dto

import (
	"time"

	"github.com/deniz/communityevents/internal/app/models"
)

// CreateCommentRequest represents comment creation data
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	ParentID *int64 `json:"parentId" binding:"omitempty,gt=0"`
}

// UpdateCommentRequest represents comment update data
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// CommentResponse represents a comment on an event
type CommentResponse struct {
	ID        int64             `json:"id"`
	EventID   int64             `json:"eventId"`
	AuthorID  int64             `json:"authorId"`
	ParentID  *int64            `json:"parentId,omitempty"`
	Content   string            `json:"content"`
	Author    *UserResponse     `json:"author,omitempty"`
	Replies   []CommentResponse `json:"replies,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// FromComment converts a models.Comment to a CommentResponse
func FromComment(comment *models.Comment) CommentResponse {
	if comment == nil {
		return CommentResponse{}
	}
	resp := CommentResponse{
		ID:        comment.ID,
		EventID:   comment.EventID,
		AuthorID:  comment.AuthorID,
		ParentID:  comment.ParentID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
	if comment.Author != nil {
		author := FromUser(comment.Author)
		resp.Author = &author
	}
	for _, reply := range comment.Replies {
		resp.Replies = append(resp.Replies, FromComment(reply))
	}
	return resp
}

// CommentListResponse represents a list of comments with pagination
type CommentListResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Pagination PaginationInfo    `json:"pagination"`
}
