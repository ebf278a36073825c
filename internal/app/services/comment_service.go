package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/app/repositories"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
	"github.com/deniz/communityevents/internal/pkg/helpers"
)

// commentStore is the comment persistence surface the service needs.
// *repositories.CommentRepository satisfies it.
type commentStore interface {
	Create(ctx context.Context, comment *models.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	GetByEvent(ctx context.Context, eventID int64, offset uint64, limit int) ([]models.Comment, int64, error)
	Update(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}

// CommentService defines the interface for comment operations
type CommentService interface {
	CreateComment(ctx context.Context, eventID, authorID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetEventComments(ctx context.Context, eventID int64, page, pageSize int) (*dto.CommentListResponse, error)
	UpdateComment(ctx context.Context, commentID, requesterID int64, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID, requesterID int64) error
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	commentRepo commentStore
	eventRepo   eventGetter
	logger      zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo *repositories.CommentRepository,
	eventRepo *repositories.EventRepository,
	logger zerolog.Logger,
) CommentService {
	return newCommentService(commentRepo, eventRepo, logger)
}

func newCommentService(commentRepo commentStore, eventRepo eventGetter, logger zerolog.Logger) *commentServiceImpl {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		eventRepo:   eventRepo,
		logger:      logger,
	}
}

// CreateComment adds a comment to an event, optionally as a reply
func (s *commentServiceImpl) CreateComment(ctx context.Context, eventID, authorID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.EventID != eventID {
			return nil, apperrors.ErrParentCommentMismatch
		}
		// Replies are kept one level deep
		if parent.ParentID != nil {
			return nil, apperrors.NewValidationError("cannot reply to a reply")
		}
	}

	comment := &models.Comment{
		EventID:  eventID,
		AuthorID: authorID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}

	id, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("commentID", id).Int64("eventID", eventID).Int64("authorID", authorID).Msg("Comment created")

	resp := dto.FromComment(created)
	return &resp, nil
}

// GetEventComments retrieves the comments of an event with their replies
func (s *commentServiceImpl) GetEventComments(ctx context.Context, eventID int64, page, pageSize int) (*dto.CommentListResponse, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	comments, total, err := s.commentRepo.GetByEvent(ctx, eventID, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, dto.FromComment(&comments[i]))
	}

	return &dto.CommentListResponse{
		Comments:   responses,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// UpdateComment edits a comment. Only the author may edit, admins included.
func (s *commentServiceImpl) UpdateComment(ctx context.Context, commentID, requesterID int64, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != requesterID {
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.commentRepo.Update(ctx, commentID, req.Content); err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromComment(updated)
	return &resp, nil
}

// DeleteComment removes a comment. Only the author may delete, admins included.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, commentID, requesterID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != requesterID {
		return apperrors.ErrPermissionDenied
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	s.logger.Info().Int64("commentID", commentID).Int64("requesterID", requesterID).Msg("Comment deleted")
	return nil
}
