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

// CommunityRepository handles database operations for communities
type CommunityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *pgxpool.Pool) *CommunityRepository {
	return &CommunityRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const communityColumns = "c.id, c.name, c.slug, c.description, c.visibility, c.creator_id, c.created_at, c.updated_at"

// GetAll retrieves communities with optional name search and pagination.
// Member counts are computed from active memberships.
func (r *CommunityRepository) GetAll(ctx context.Context, search *string, offset uint64, limit int) ([]models.Community, int64, error) {
	query := r.sb.Select(
		communityColumns,
		"(SELECT COUNT(*) FROM memberships m WHERE m.community_id = c.id AND m.left_at IS NULL) AS member_count",
		"COUNT(*) OVER() AS total_count",
	).From("communities c")

	if search != nil && *search != "" {
		query = query.Where(squirrel.ILike{"c.name": "%" + *search + "%"})
	}

	sql, args, err := query.OrderBy("c.id").Offset(offset).Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list communities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing communities: %w", err)
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

// GetByID retrieves a community by ID including its member count
func (r *CommunityRepository) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	sql, args, err := r.sb.Select(
		communityColumns,
		"(SELECT COUNT(*) FROM memberships m WHERE m.community_id = c.id AND m.left_at IS NULL) AS member_count",
	).From("communities c").
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get community query: %w", err)
	}

	var comm models.Community
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&comm.ID,
		&comm.Name,
		&comm.Slug,
		&comm.Description,
		&comm.Visibility,
		&comm.CreatorID,
		&comm.CreatedAt,
		&comm.UpdatedAt,
		&comm.MemberCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("error retrieving community: %w", err)
	}

	return &comm, nil
}

// GetSlugsByPrefix retrieves the community slugs that are the base slug or a
// suffixed variant of it, so a free one can be picked for a new community
func (r *CommunityRepository) GetSlugsByPrefix(ctx context.Context, baseSlug string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		"SELECT slug FROM communities WHERE slug = $1 OR slug LIKE $2",
		baseSlug, baseSlug+"-%")
	if err != nil {
		return nil, fmt.Errorf("error listing community slugs: %w", err)
	}
	defer rows.Close()

	slugs := []string{}
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("error scanning slug row: %w", err)
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slug rows: %w", err)
	}

	return slugs, nil
}

// Create inserts a new community and returns the assigned ID
func (r *CommunityRepository) Create(ctx context.Context, community *models.Community) (int64, error) {
	sql, args, err := r.sb.Insert("communities").
		Columns("name", "slug", "description", "visibility", "creator_id").
		Values(community.Name, community.Slug, community.Description, community.Visibility, community.CreatorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create community query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "communities_slug_key") {
			return 0, apperrors.ErrSlugAlreadyExists
		}
		return 0, fmt.Errorf("error creating community: %w", err)
	}

	return id, nil
}

// Update updates an existing community
func (r *CommunityRepository) Update(ctx context.Context, community *models.Community) error {
	sql, args, err := r.sb.Update("communities").
		Set("name", community.Name).
		Set("description", community.Description).
		Set("visibility", community.Visibility).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": community.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update community query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating community: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommunityNotFound
	}

	return nil
}

// Delete removes a community; its events and memberships cascade
func (r *CommunityRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("communities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete community query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting community: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommunityNotFound
	}

	return nil
}

// Count returns the total number of communities
func (r *CommunityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM communities").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting communities: %w", err)
	}
	return count, nil
}
