package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/workspace-booking/internal/persistence"
)

// WorkspaceRepository implements persistence.WorkspaceRepository and
// persistence.MemberRepository using SQLite.
type WorkspaceRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewWorkspaceRepository creates a new SQLite workspace repository.
func NewWorkspaceRepository(pool *ConnectionPool) *WorkspaceRepository {
	return &WorkspaceRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const workspaceColumns = `id, name, timezone, schedule_start_hour, schedule_end_hour, created_by, created_at, updated_at`

// CreateWorkspace inserts the workspace row and the creator's ADMIN membership
// in a single transaction, so a crash cannot leave an admin-less workspace.
func (r *WorkspaceRepository) CreateWorkspace(ctx context.Context, workspace persistence.Workspace, creator persistence.Member) error {
	if workspace.ID == "" || creator.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := r.helper.ExecTx(tx, `
			INSERT INTO workspaces (`+workspaceColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			workspace.ID,
			workspace.Name,
			workspace.Timezone,
			workspace.ScheduleStartHour,
			workspace.ScheduleEndHour,
			workspace.CreatedBy,
			formatTime(workspace.CreatedAt),
			formatTime(workspace.UpdatedAt),
		)
		if err != nil {
			return r.mapWorkspaceError(err)
		}

		_, err = r.helper.ExecTx(tx, `
			INSERT INTO workspace_members (workspace_id, user_id, role, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			workspace.ID,
			creator.UserID,
			creator.Role,
			creator.Status,
			formatTime(creator.CreatedAt),
			formatTime(creator.UpdatedAt),
		)
		if err != nil {
			return r.mapWorkspaceError(err)
		}

		return nil
	})
}

// GetWorkspace retrieves a workspace by ID.
func (r *WorkspaceRepository) GetWorkspace(ctx context.Context, id string) (persistence.Workspace, error) {
	if id == "" {
		return persistence.Workspace{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE id = ?`, id)
	return r.scanWorkspace(row)
}

// UpdateWorkspace updates workspace attributes and schedule settings.
func (r *WorkspaceRepository) UpdateWorkspace(ctx context.Context, workspace persistence.Workspace) error {
	if workspace.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE workspaces
		SET name = ?, timezone = ?, schedule_start_hour = ?, schedule_end_hour = ?, updated_at = ?
		WHERE id = ?
	`,
		workspace.Name,
		workspace.Timezone,
		workspace.ScheduleStartHour,
		workspace.ScheduleEndHour,
		formatTime(workspace.UpdatedAt),
		workspace.ID,
	)
	if err != nil {
		return r.mapWorkspaceError(err)
	}

	return requireRowsAffected(result)
}

// DeleteWorkspace removes a workspace and all its bookings, rooms,
// invitations, and memberships in a single transaction. Children are deleted
// explicitly in dependency order rather than via cascades, so bookings never
// outlive the rooms they reference.
func (r *WorkspaceRepository) DeleteWorkspace(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM bookings WHERE workspace_id = ?`,
			`DELETE FROM rooms WHERE workspace_id = ?`,
			`DELETE FROM invitations WHERE workspace_id = ?`,
			`DELETE FROM workspace_members WHERE workspace_id = ?`,
		} {
			if _, err := r.helper.ExecTx(tx, stmt, id); err != nil {
				return r.mapWorkspaceError(err)
			}
		}

		result, err := r.helper.ExecTx(tx, `DELETE FROM workspaces WHERE id = ?`, id)
		if err != nil {
			return r.mapWorkspaceError(err)
		}
		return requireRowsAffected(result)
	})
}

// ListWorkspacesForUser returns workspaces where the user holds an ACTIVE
// membership, ordered by creation time.
func (r *WorkspaceRepository) ListWorkspacesForUser(ctx context.Context, userID string) ([]persistence.Workspace, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT w.id, w.name, w.timezone, w.schedule_start_hour, w.schedule_end_hour, w.created_by, w.created_at, w.updated_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = ? AND m.status = 'ACTIVE'
		ORDER BY w.created_at ASC, w.id ASC
	`, userID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var workspaces []persistence.Workspace
	for rows.Next() {
		workspace, err := r.scanWorkspaceRows(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, workspace)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return workspaces, nil
}

// GetMember retrieves a membership row.
func (r *WorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID string) (persistence.Member, error) {
	if workspaceID == "" || userID == "" {
		return persistence.Member{}, persistence.ErrNotFound
	}

	var member persistence.Member
	var createdAtStr, updatedAtStr string

	err := r.helper.QueryRow(ctx, `
		SELECT workspace_id, user_id, role, status, created_at, updated_at
		FROM workspace_members
		WHERE workspace_id = ? AND user_id = ?
	`, workspaceID, userID).Scan(
		&member.WorkspaceID,
		&member.UserID,
		&member.Role,
		&member.Status,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Member{}, persistence.ErrNotFound
		}
		return persistence.Member{}, r.mapper.MapError(err)
	}

	if member.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Member{}, err
	}
	if member.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Member{}, err
	}

	return member, nil
}

// ListMembers returns all membership rows for a workspace ordered by creation time.
func (r *WorkspaceRepository) ListMembers(ctx context.Context, workspaceID string) ([]persistence.Member, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT workspace_id, user_id, role, status, created_at, updated_at
		FROM workspace_members
		WHERE workspace_id = ?
		ORDER BY created_at ASC, user_id ASC
	`, workspaceID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var members []persistence.Member
	for rows.Next() {
		var member persistence.Member
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(
			&member.WorkspaceID,
			&member.UserID,
			&member.Role,
			&member.Status,
			&createdAtStr,
			&updatedAtStr,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if member.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, err
		}
		if member.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return members, nil
}

// UpsertMember inserts a membership row, or reactivates and restamps an
// existing one. The stored role is preserved on conflict so reactivation after
// leaving keeps a prior ADMIN role.
func (r *WorkspaceRepository) UpsertMember(ctx context.Context, member persistence.Member) error {
	if member.WorkspaceID == "" || member.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (workspace_id, user_id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
	`,
		member.WorkspaceID,
		member.UserID,
		member.Role,
		member.Status,
		formatTime(member.CreatedAt),
		formatTime(member.UpdatedAt),
	)
	if err != nil {
		return r.mapWorkspaceError(err)
	}

	return nil
}

// UpdateMemberStatus sets the membership status for a user in a workspace.
func (r *WorkspaceRepository) UpdateMemberStatus(ctx context.Context, workspaceID, userID, status string, at time.Time) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE workspace_members
		SET status = ?, updated_at = ?
		WHERE workspace_id = ? AND user_id = ?
	`, status, formatTime(at), workspaceID, userID)
	if err != nil {
		return r.mapWorkspaceError(err)
	}

	return requireRowsAffected(result)
}

func (r *WorkspaceRepository) scanWorkspace(row *sql.Row) (persistence.Workspace, error) {
	var workspace persistence.Workspace
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.Timezone,
		&workspace.ScheduleStartHour,
		&workspace.ScheduleEndHour,
		&workspace.CreatedBy,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Workspace{}, persistence.ErrNotFound
		}
		return persistence.Workspace{}, r.mapper.MapError(err)
	}

	if workspace.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Workspace{}, err
	}
	if workspace.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Workspace{}, err
	}

	return workspace, nil
}

func (r *WorkspaceRepository) scanWorkspaceRows(rows *sql.Rows) (persistence.Workspace, error) {
	var workspace persistence.Workspace
	var createdAtStr, updatedAtStr string

	err := rows.Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.Timezone,
		&workspace.ScheduleStartHour,
		&workspace.ScheduleEndHour,
		&workspace.CreatedBy,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Workspace{}, r.mapper.MapError(err)
	}

	if workspace.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Workspace{}, err
	}
	if workspace.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Workspace{}, err
	}

	return workspace, nil
}

// mapWorkspaceError maps SQLite errors to persistence errors for workspace operations.
func (r *WorkspaceRepository) mapWorkspaceError(err error) error {
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
