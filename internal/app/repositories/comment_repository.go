package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
	"github.com/deniz/communityevents/internal/pkg/dberrors"
)

// CommentRepository handles database operations for event comments
type CommentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new comment and returns the assigned ID
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	sql, args, err := r.sb.Insert("comments").
		Columns("event_id", "author_id", "parent_id", "content").
		Values(comment.EventID, comment.AuthorID, comment.ParentID, comment.Content).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create comment query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrEventNotFound
		}
		return 0, fmt.Errorf("error creating comment: %w", err)
	}

	return id, nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	sql, args, err := r.sb.Select("id", "event_id", "author_id", "parent_id", "content", "hidden", "created_at", "updated_at").
		From("comments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get comment query: %w", err)
	}

	var comment models.Comment
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&comment.ID,
		&comment.EventID,
		&comment.AuthorID,
		&comment.ParentID,
		&comment.Content,
		&comment.Hidden,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error retrieving comment: %w", err)
	}

	return &comment, nil
}

// GetByEvent retrieves top-level comments for an event with author details
func (r *CommentRepository) GetByEvent(ctx context.Context, eventID int64, offset uint64, limit int) ([]models.Comment, int64, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.event_id", "c.author_id", "c.parent_id", "c.content", "c.hidden", "c.created_at", "c.updated_at",
		"u.first_name", "u.last_name", "u.avatar_url",
		"COUNT(*) OVER() AS total_count",
	).
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.event_id": eventID, "c.hidden": false}).
		Where("c.parent_id IS NULL").
		OrderBy("c.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list comments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	var total int64
	for rows.Next() {
		comment, err := scanCommentWithAuthor(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning comment row: %w", err)
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating comment rows: %w", err)
	}

	if err := r.attachReplies(ctx, eventID, comments); err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func scanCommentWithAuthor(row pgx.Row, total *int64) (*models.Comment, error) {
	var comment models.Comment
	var author models.User
	dest := []interface{}{
		&comment.ID,
		&comment.EventID,
		&comment.AuthorID,
		&comment.ParentID,
		&comment.Content,
		&comment.Hidden,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&author.FirstName,
		&author.LastName,
		&author.AvatarURL,
	}
	if total != nil {
		dest = append(dest, total)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	author.ID = comment.AuthorID
	comment.Author = &author
	return &comment, nil
}

// attachReplies loads all replies for the event and attaches them to their parents
func (r *CommentRepository) attachReplies(ctx context.Context, eventID int64, parents []models.Comment) error {
	if len(parents) == 0 {
		return nil
	}

	sql, args, err := r.sb.Select(
		"c.id", "c.event_id", "c.author_id", "c.parent_id", "c.content", "c.hidden", "c.created_at", "c.updated_at",
		"u.first_name", "u.last_name", "u.avatar_url",
	).
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.event_id": eventID, "c.hidden": false}).
		Where("c.parent_id IS NOT NULL").
		OrderBy("c.created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build list replies query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error listing replies: %w", err)
	}
	defer rows.Close()

	byParent := map[int64][]*models.Comment{}
	for rows.Next() {
		reply, err := scanCommentWithAuthor(rows, nil)
		if err != nil {
			return fmt.Errorf("error scanning reply row: %w", err)
		}
		byParent[*reply.ParentID] = append(byParent[*reply.ParentID], reply)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating reply rows: %w", err)
	}

	for i := range parents {
		parents[i].Replies = byParent[parents[i].ID]
	}

	return nil
}

// Update updates a comment's content
func (r *CommentRepository) Update(ctx context.Context, id int64, content string) error {
	sql, args, err := r.sb.Update("comments").
		Set("content", content).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update comment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}

// Delete removes a comment; replies cascade
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("comments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete comment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}
