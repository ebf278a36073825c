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
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
	"github.com/deniz/communityevents/internal/pkg/dberrors"
)

// EventRepository handles database operations for events
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const eventColumns = "e.id, e.community_id, e.creator_id, e.title, e.slug, e.description, e.status, e.start_time, e.end_time, e.capacity, e.registration_mode, e.visibility, e.address, e.city, e.latitude, e.longitude, e.tags, e.created_at, e.updated_at"

// registeredCountExpr counts registrations that occupy a seat
const registeredCountExpr = "(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id AND r.status IN ('REGISTERED', 'CHECKED_IN')) AS registered_count"

func scanEvent(row pgx.Row, extra ...interface{}) (*models.Event, error) {
	var event models.Event
	dest := []interface{}{
		&event.ID,
		&event.CommunityID,
		&event.CreatorID,
		&event.Title,
		&event.Slug,
		&event.Description,
		&event.Status,
		&event.StartTime,
		&event.EndTime,
		&event.Capacity,
		&event.RegistrationMode,
		&event.Visibility,
		&event.Address,
		&event.City,
		&event.Latitude,
		&event.Longitude,
		&event.Tags,
		&event.CreatedAt,
		&event.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event and returns the assigned ID
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (int64, error) {
	sql, args, err := r.sb.Insert("events").
		Columns("community_id", "creator_id", "title", "slug", "description", "status",
			"start_time", "end_time", "capacity", "registration_mode", "visibility",
			"address", "city", "latitude", "longitude", "tags").
		Values(event.CommunityID, event.CreatorID, event.Title, event.Slug, event.Description, event.Status,
			event.StartTime, event.EndTime, event.Capacity, event.RegistrationMode, event.Visibility,
			event.Address, event.City, event.Latitude, event.Longitude, event.Tags).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create event query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "events_slug_key") {
			return 0, apperrors.ErrSlugAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrCommunityNotFound
		}
		return 0, fmt.Errorf("error creating event: %w", err)
	}

	return id, nil
}

// GetByID retrieves an event by ID including its active registration count
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns, registeredCountExpr).
		From("events e").
		Where(squirrel.Eq{"e.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	var registeredCount int64
	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...), &registeredCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	event.RegisteredCount = registeredCount

	return event, nil
}

// GetAll retrieves events with filtering and pagination
func (r *EventRepository) GetAll(ctx context.Context, filter *dto.EventFilterRequest, offset uint64, limit int) ([]models.Event, int64, error) {
	query := r.sb.Select(eventColumns, registeredCountExpr, "COUNT(*) OVER() AS total_count").
		From("events e")

	if filter != nil {
		if filter.CommunityID != nil {
			query = query.Where(squirrel.Eq{"e.community_id": *filter.CommunityID})
		}
		if filter.Status != nil && *filter.Status != "" {
			query = query.Where(squirrel.Eq{"e.status": *filter.Status})
		}
		if filter.City != nil && *filter.City != "" {
			query = query.Where(squirrel.ILike{"e.city": *filter.City})
		}
		if filter.Search != nil && *filter.Search != "" {
			query = query.Where(squirrel.ILike{"e.title": "%" + *filter.Search + "%"})
		}
		if filter.From != nil {
			query = query.Where(squirrel.GtOrEq{"e.start_time": *filter.From})
		}
		if filter.To != nil {
			query = query.Where(squirrel.LtOrEq{"e.start_time": *filter.To})
		}
	}

	sql, args, err := query.OrderBy("e.start_time", "e.id").Offset(offset).Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	var total int64
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.CommunityID,
			&event.CreatorID,
			&event.Title,
			&event.Slug,
			&event.Description,
			&event.Status,
			&event.StartTime,
			&event.EndTime,
			&event.Capacity,
			&event.RegistrationMode,
			&event.Visibility,
			&event.Address,
			&event.City,
			&event.Latitude,
			&event.Longitude,
			&event.Tags,
			&event.CreatedAt,
			&event.UpdatedAt,
			&event.RegisteredCount,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, total, nil
}

// GetUpcomingWithCoordinates retrieves future events that carry coordinates.
// Distance filtering happens in the service layer.
func (r *EventRepository) GetUpcomingWithCoordinates(ctx context.Context, after time.Time) ([]models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns, registeredCountExpr).
		From("events e").
		Where(squirrel.Eq{"e.status": models.EventStatusUpcoming}).
		Where(squirrel.Gt{"e.start_time": after}).
		Where("e.latitude IS NOT NULL").
		Where("e.longitude IS NOT NULL").
		OrderBy("e.start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build nearby events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing events with coordinates: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.CommunityID,
			&event.CreatorID,
			&event.Title,
			&event.Slug,
			&event.Description,
			&event.Status,
			&event.StartTime,
			&event.EndTime,
			&event.Capacity,
			&event.RegistrationMode,
			&event.Visibility,
			&event.Address,
			&event.City,
			&event.Latitude,
			&event.Longitude,
			&event.Tags,
			&event.CreatedAt,
			&event.UpdatedAt,
			&event.RegisteredCount,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

// GetSlugsByPrefix retrieves the event slugs that are the base slug or a
// suffixed variant of it, so a free one can be picked for a new event
func (r *EventRepository) GetSlugsByPrefix(ctx context.Context, baseSlug string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		"SELECT slug FROM events WHERE slug = $1 OR slug LIKE $2",
		baseSlug, baseSlug+"-%")
	if err != nil {
		return nil, fmt.Errorf("error listing event slugs: %w", err)
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

// Update updates an existing event's editable fields
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	sql, args, err := r.sb.Update("events").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("start_time", event.StartTime).
		Set("end_time", event.EndTime).
		Set("capacity", event.Capacity).
		Set("registration_mode", event.RegistrationMode).
		Set("visibility", event.Visibility).
		Set("address", event.Address).
		Set("city", event.City).
		Set("latitude", event.Latitude).
		Set("longitude", event.Longitude).
		Set("tags", event.Tags).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

// UpdateStatus transitions an event to a new lifecycle status
func (r *EventRepository) UpdateStatus(ctx context.Context, id int64, status models.EventStatus) error {
	sql, args, err := r.sb.Update("events").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

// Delete removes an event; its registrations and comments cascade
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

// Count returns the total number of events
func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting events: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of events in a given status
func (r *EventRepository) CountByStatus(ctx context.Context, status models.EventStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM events WHERE status = $1", status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting events by status: %w", err)
	}
	return count, nil
}
