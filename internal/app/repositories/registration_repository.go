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

// RegistrationRepository handles database operations for event registrations
type RegistrationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const registrationColumns = "id, event_id, user_id, status, registered_at, checked_in_at, cancelled_at"

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var reg models.Registration
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.RegisteredAt, &reg.CheckedInAt, &reg.CancelledAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// LockEvent loads an event row inside tx with a row lock, serializing
// concurrent registrations for the same event.
func (r *RegistrationRepository) LockEvent(ctx context.Context, tx pgx.Tx, eventID int64) (*models.Event, error) {
	row := tx.QueryRow(ctx, `
		SELECT id, community_id, creator_id, title, slug, description, status,
		       start_time, end_time, capacity, registration_mode, visibility,
		       address, city, latitude, longitude, tags, created_at, updated_at
		FROM events
		WHERE id = $1
		FOR UPDATE`, eventID)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error locking event row: %w", err)
	}

	return event, nil
}

// CountActiveTx counts seat-occupying registrations for an event inside tx
func (r *RegistrationRepository) CountActiveTx(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error) {
	var count int64
	err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status IN ('REGISTERED', 'CHECKED_IN')",
		eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting active registrations: %w", err)
	}
	return count, nil
}

// GetActiveByEventAndUser retrieves a user's non-cancelled registration for
// an event, waitlisted included. A nil tx reads from the pool.
func (r *RegistrationRepository) GetActiveByEventAndUser(ctx context.Context, tx pgx.Tx, eventID, userID int64) (*models.Registration, error) {
	var q interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	} = r.db
	if tx != nil {
		q = tx
	}

	reg, err := scanRegistration(q.QueryRow(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE event_id = $1 AND user_id = $2 AND status IN ('REGISTERED', 'WAITLISTED', 'CHECKED_IN')`,
		eventID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("error retrieving registration: %w", err)
	}

	return reg, nil
}

// CreateTx inserts a registration inside tx and returns it.
// The partial unique index on (event_id, user_id) for active rows is the
// backstop against double registration.
func (r *RegistrationRepository) CreateTx(ctx context.Context, tx pgx.Tx, eventID, userID int64, status models.RegistrationStatus) (*models.Registration, error) {
	reg, err := scanRegistration(tx.QueryRow(ctx, `
		INSERT INTO registrations (event_id, user_id, status)
		VALUES ($1, $2, $3)
		RETURNING `+registrationColumns,
		eventID, userID, status))
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrAlreadyRegistered
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error creating registration: %w", err)
	}

	return reg, nil
}

// CancelActive soft-cancels a user's non-cancelled registration for an event.
// It reports whether a registration was actually cancelled.
func (r *RegistrationRepository) CancelActive(ctx context.Context, eventID, userID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE registrations
		SET status = $1, cancelled_at = $2
		WHERE event_id = $3 AND user_id = $4 AND status IN ('REGISTERED', 'WAITLISTED', 'CHECKED_IN')`,
		models.RegistrationStatusCancelled, time.Now(), eventID, userID)
	if err != nil {
		return false, fmt.Errorf("error cancelling registration: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// GetByEvent retrieves seat-occupying registrations for an event with user details
func (r *RegistrationRepository) GetByEvent(ctx context.Context, eventID int64, offset uint64, limit int) ([]models.Registration, int64, error) {
	sql, args, err := r.sb.Select(
		"r.id", "r.event_id", "r.user_id", "r.status", "r.registered_at", "r.checked_in_at", "r.cancelled_at",
		"u.first_name", "u.last_name",
		"COUNT(*) OVER() AS total_count",
	).
		From("registrations r").
		Join("users u ON u.id = r.user_id").
		Where(squirrel.Eq{"r.event_id": eventID}).
		Where(squirrel.Eq{"r.status": []models.RegistrationStatus{
			models.RegistrationStatusRegistered,
			models.RegistrationStatusCheckedIn,
		}}).
		OrderBy("r.registered_at").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing registrations: %w", err)
	}
	defer rows.Close()

	registrations := []models.Registration{}
	var total int64
	for rows.Next() {
		var reg models.Registration
		var user models.User
		err := rows.Scan(
			&reg.ID,
			&reg.EventID,
			&reg.UserID,
			&reg.Status,
			&reg.RegisteredAt,
			&reg.CheckedInAt,
			&reg.CancelledAt,
			&user.FirstName,
			&user.LastName,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning registration row: %w", err)
		}
		user.ID = reg.UserID
		reg.User = &user
		registrations = append(registrations, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating registration rows: %w", err)
	}

	return registrations, total, nil
}

// GetByUser retrieves a user's registrations with the related events
func (r *RegistrationRepository) GetByUser(ctx context.Context, userID int64, offset uint64, limit int) ([]models.Registration, int64, error) {
	sql, args, err := r.sb.Select(
		"r.id", "r.event_id", "r.user_id", "r.status", "r.registered_at", "r.checked_in_at", "r.cancelled_at",
		"e.title", "e.slug", "e.status", "e.start_time", "e.end_time",
		"COUNT(*) OVER() AS total_count",
	).
		From("registrations r").
		Join("events e ON e.id = r.event_id").
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("e.start_time DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build user registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing user registrations: %w", err)
	}
	defer rows.Close()

	registrations := []models.Registration{}
	var total int64
	for rows.Next() {
		var reg models.Registration
		var event models.Event
		err := rows.Scan(
			&reg.ID,
			&reg.EventID,
			&reg.UserID,
			&reg.Status,
			&reg.RegisteredAt,
			&reg.CheckedInAt,
			&reg.CancelledAt,
			&event.Title,
			&event.Slug,
			&event.Status,
			&event.StartTime,
			&event.EndTime,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning registration row: %w", err)
		}
		event.ID = reg.EventID
		reg.Event = &event
		registrations = append(registrations, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating registration rows: %w", err)
	}

	return registrations, total, nil
}

// Count returns the total number of registrations
func (r *RegistrationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM registrations").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting registrations: %w", err)
	}
	return count, nil
}

// CountActive returns the number of seat-occupying registrations
func (r *RegistrationRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM registrations WHERE status IN ('REGISTERED', 'CHECKED_IN')").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting active registrations: %w", err)
	}
	return count, nil
}
