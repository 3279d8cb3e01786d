package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/workspace-booking/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const roomColumns = `id, workspace_id, name, description, created_at, updated_at`

// CreateRoom inserts a new room. A duplicate name within the workspace
// surfaces as ErrDuplicate via the (workspace_id, name) unique constraint.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" || room.WorkspaceID == "" {
		return persistence.ErrConstraintViolation
	}

	var description sql.NullString
	if room.Description != nil {
		description = sql.NullString{String: *room.Description, Valid: true}
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO rooms (`+roomColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		room.ID,
		room.WorkspaceID,
		room.Name,
		description,
		formatTime(room.CreatedAt),
		formatTime(room.UpdatedAt),
	)
	if err != nil {
		return r.mapRoomError(err)
	}

	return nil
}

// UpdateRoom updates an existing room's name and description.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrNotFound
	}

	var description sql.NullString
	if room.Description != nil {
		description = sql.NullString{String: *room.Description, Valid: true}
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE rooms
		SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, room.Name, description, formatTime(room.UpdatedAt), room.ID)
	if err != nil {
		return r.mapRoomError(err)
	}

	return requireRowsAffected(result)
}

// GetRoom retrieves a room by ID.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	var room persistence.Room
	var description sql.NullString
	var createdAtStr, updatedAtStr string

	err := r.helper.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id).Scan(
		&room.ID,
		&room.WorkspaceID,
		&room.Name,
		&description,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, r.mapper.MapError(err)
	}

	if description.Valid {
		room.Description = &description.String
	}
	if room.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Room{}, err
	}
	if room.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Room{}, err
	}

	return room, nil
}

// ListRooms returns all rooms in a workspace ordered by name.
func (r *RoomRepository) ListRooms(ctx context.Context, workspaceID string) ([]persistence.Room, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE workspace_id = ?
		ORDER BY name ASC, id ASC
	`, workspaceID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		var room persistence.Room
		var description sql.NullString
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(
			&room.ID,
			&room.WorkspaceID,
			&room.Name,
			&description,
			&createdAtStr,
			&updatedAtStr,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if description.Valid {
			room.Description = &description.String
		}
		if room.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, err
		}
		if room.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return rooms, nil
}

// DeleteRoom removes a room. The delete is rejected with
// ErrForeignKeyViolation while any booking rows reference the room.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var bookingCount int
		err := r.helper.QueryRowTx(tx, `SELECT COUNT(*) FROM bookings WHERE room_id = ?`, id).Scan(&bookingCount)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if bookingCount > 0 {
			return persistence.ErrForeignKeyViolation
		}

		result, err := r.helper.ExecTx(tx, `DELETE FROM rooms WHERE id = ?`, id)
		if err != nil {
			return r.mapRoomError(err)
		}
		return requireRowsAffected(result)
	})
}

// mapRoomError maps SQLite errors to persistence errors for room operations.
func (r *RoomRepository) mapRoomError(err error) error {
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
