package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/workspace-booking/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const bookingColumns = `id, workspace_id, room_id, created_by, start_at, end_at, subject, criticality, status, created_at, updated_at`

// CreateBooking inserts a reservation. The overlap checks and the insert run
// in one transaction; because the pool opens transactions in immediate mode,
// two racing inserts for the same interval serialize and the second one
// observes the first one's row. This check is the authoritative exclusion
// guarantee; SQLite has no range-exclusion constraint to lean on.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" || booking.WorkspaceID == "" || booking.RoomID == "" {
		return persistence.ErrConstraintViolation
	}

	startAt := formatTime(booking.StartAt)
	endAt := formatTime(booking.EndAt)

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		// Half-open intervals: touching boundaries do not overlap.
		var roomConflicts int
		err := r.helper.QueryRowTx(tx, `
			SELECT COUNT(*)
			FROM bookings
			WHERE room_id = ? AND status = 'ACTIVE' AND start_at < ? AND end_at > ?
		`, booking.RoomID, endAt, startAt).Scan(&roomConflicts)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if roomConflicts > 0 {
			return persistence.ErrOverlap
		}

		var userConflicts int
		err = r.helper.QueryRowTx(tx, `
			SELECT COUNT(*)
			FROM bookings
			WHERE workspace_id = ? AND created_by = ? AND status = 'ACTIVE' AND start_at < ? AND end_at > ?
		`, booking.WorkspaceID, booking.CreatedBy, endAt, startAt).Scan(&userConflicts)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if userConflicts > 0 {
			return persistence.ErrUserOverlap
		}

		_, err = r.helper.ExecTx(tx, `
			INSERT INTO bookings (`+bookingColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			booking.ID,
			booking.WorkspaceID,
			booking.RoomID,
			booking.CreatedBy,
			startAt,
			endAt,
			booking.Subject,
			booking.Criticality,
			booking.Status,
			formatTime(booking.CreatedAt),
			formatTime(booking.UpdatedAt),
		)
		if err != nil {
			return r.mapBookingError(err)
		}

		return nil
	})
}

// GetBooking retrieves a booking by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)

	var booking persistence.Booking
	err := r.scanBooking(row.Scan, &booking)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, err
	}

	return booking, nil
}

// CancelBooking flips an ACTIVE booking to CANCELLED and returns the updated
// record. Cancelling an already cancelled booking fails with
// ErrAlreadyCancelled; the freed interval is immediately available to new
// inserts once the transaction commits.
func (r *BookingRepository) CancelBooking(ctx context.Context, id string, at time.Time) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var status string
		err := r.helper.QueryRowTx(tx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&status)
		if err != nil {
			if err == sql.ErrNoRows {
				return persistence.ErrNotFound
			}
			return r.mapper.MapError(err)
		}
		if status != "ACTIVE" {
			return persistence.ErrAlreadyCancelled
		}

		_, err = r.helper.ExecTx(tx, `
			UPDATE bookings
			SET status = 'CANCELLED', updated_at = ?
			WHERE id = ?
		`, formatTime(at), id)
		if err != nil {
			return r.mapBookingError(err)
		}
		return nil
	})
	if err != nil {
		return persistence.Booking{}, err
	}

	return r.GetBooking(ctx, id)
}

// ListBookings returns bookings matching the filter ordered by start time.
func (r *BookingRepository) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1 = 1`
	var args []any

	if filter.WorkspaceID != "" {
		query += ` AND workspace_id = ?`
		args = append(args, filter.WorkspaceID)
	}
	if filter.RoomID != "" {
		query += ` AND room_id = ?`
		args = append(args, filter.RoomID)
	}
	if filter.CreatedBy != "" {
		query += ` AND created_by = ?`
		args = append(args, filter.CreatedBy)
	}
	if filter.ActiveOnly || !filter.IncludeCancelled {
		query += ` AND status = 'ACTIVE'`
	}
	if filter.EndsAfter != nil {
		query += ` AND end_at > ?`
		args = append(args, formatTime(*filter.EndsAfter))
	}
	if filter.OverlapsStart != nil && filter.OverlapsEnd != nil {
		query += ` AND start_at < ? AND end_at > ?`
		args = append(args, formatTime(*filter.OverlapsEnd), formatTime(*filter.OverlapsStart))
	}

	query += ` ORDER BY start_at ASC, id ASC`

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		var booking persistence.Booking
		if err := r.scanBooking(rows.Scan, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return bookings, nil
}

func (r *BookingRepository) scanBooking(scan func(dest ...any) error, booking *persistence.Booking) error {
	var startAtStr, endAtStr, createdAtStr, updatedAtStr string

	err := scan(
		&booking.ID,
		&booking.WorkspaceID,
		&booking.RoomID,
		&booking.CreatedBy,
		&startAtStr,
		&endAtStr,
		&booking.Subject,
		&booking.Criticality,
		&booking.Status,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return r.mapper.MapError(err)
	}

	if booking.StartAt, err = parseTime(startAtStr); err != nil {
		return err
	}
	if booking.EndAt, err = parseTime(endAtStr); err != nil {
		return err
	}
	if booking.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return err
	}
	if booking.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return err
	}

	return nil
}

// mapBookingError maps SQLite errors to persistence errors for booking operations.
func (r *BookingRepository) mapBookingError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if containsAny(errStr, []string{"UNIQUE constraint failed"}) {
		return persistence.ErrDuplicate
	}
	if containsAny(errStr, []string{"FOREIGN KEY constraint failed"}) {
		return persistence.ErrForeignKeyViolation
	}
	if containsAny(errStr, []string{"CHECK constraint failed"}) {
		return persistence.ErrConstraintViolation
	}

	return r.mapper.MapError(err)
}
