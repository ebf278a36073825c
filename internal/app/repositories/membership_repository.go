package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
	"github.com/deniz/communityevents/internal/pkg/dberrors"
)

// MembershipRepository handles database operations for community memberships.
// Leaving is a soft operation: left_at is set and the row is kept for history,
// so a user can rejoin with a fresh row.
type MembershipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create adds a user to a community
func (r *MembershipRepository) Create(ctx context.Context, membership *models.Membership) (int64, error) {
	sql, args, err := r.sb.Insert("memberships").
		Columns("community_id", "user_id", "role").
		Values(membership.CommunityID, membership.UserID, membership.Role).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create membership query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrAlreadyMember
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrCommunityNotFound
		}
		return 0, fmt.Errorf("error creating membership: %w", err)
	}

	return id, nil
}

// Exists checks whether a user is an active member of a community
func (r *MembershipRepository) Exists(ctx context.Context, communityID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM memberships WHERE community_id = $1 AND user_id = $2 AND left_at IS NULL)",
		communityID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return exists, nil
}

// Leave marks a user's active membership as left
func (r *MembershipRepository) Leave(ctx context.Context, communityID, userID int64) error {
	sql, args, err := r.sb.Update("memberships").
		Set("left_at", time.Now()).
		Where(squirrel.Eq{"community_id": communityID, "user_id": userID, "left_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build leave membership query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error leaving community: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotMember
	}

	return nil
}

// GetMembers retrieves the active members of a community with user details
func (r *MembershipRepository) GetMembers(ctx context.Context, communityID int64, offset uint64, limit int) ([]models.Membership, int64, error) {
	sql, args, err := r.sb.Select(
		"m.id", "m.community_id", "m.user_id", "m.role", "m.joined_at",
		"u.first_name", "u.last_name", "u.email",
		"COUNT(*) OVER() AS total_count",
	).
		From("memberships m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.community_id": communityID, "m.left_at": nil}).
		OrderBy("m.joined_at").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	members := []models.Membership{}
	var total int64
	for rows.Next() {
		var m models.Membership
		var user models.User
		err := rows.Scan(
			&m.ID,
			&m.CommunityID,
			&m.UserID,
			&m.Role,
			&m.JoinedAt,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning membership row: %w", err)
		}
		user.ID = m.UserID
		m.User = &user
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating membership rows: %w", err)
	}

	return members, total, nil
}

// GetUserCommunities retrieves the communities a user is an active member of
func (r *MembershipRepository) GetUserCommunities(ctx context.Context, userID int64, offset uint64, limit int) ([]models.Community, int64, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.name", "c.slug", "c.description", "c.visibility", "c.creator_id", "c.created_at", "c.updated_at",
		"(SELECT COUNT(*) FROM memberships mc WHERE mc.community_id = c.id AND mc.left_at IS NULL) AS member_count",
		"COUNT(*) OVER() AS total_count",
	).
		From("memberships m").
		Join("communities c ON c.id = m.community_id").
		Where(squirrel.Eq{"m.user_id": userID, "m.left_at": nil}).
		OrderBy("m.joined_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build user communities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing user communities: %w", err)
	}
	defer rows.Close()

	communities := []models.Community{}
	var total int64
	for rows.Next() {
		var comm models.Community
		err := rows.Scan(
			&comm.ID,
			&comm.Name,
			&comm.Slug,
			&comm.Description,
			&comm.Visibility,
			&comm.CreatorID,
			&comm.CreatedAt,
			&comm.UpdatedAt,
			&comm.MemberCount,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning community row: %w", err)
		}
		communities = append(communities, comm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating community rows: %w", err)
	}

	return communities, total, nil
}
