package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/workspace-booking/internal/persistence"
)

// InvitationRepository implements persistence.InvitationRepository using SQLite.
type InvitationRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewInvitationRepository creates a new SQLite invitation repository.
func NewInvitationRepository(pool *ConnectionPool) *InvitationRepository {
	return &InvitationRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const invitationColumns = `id, workspace_id, email, token_hash, status, expires_at, invited_by, created_at, updated_at`

// CreateInvitation inserts a new invitation.
func (r *InvitationRepository) CreateInvitation(ctx context.Context, invitation persistence.Invitation) error {
	if invitation.ID == "" || invitation.WorkspaceID == "" || invitation.TokenHash == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		invitation.ID,
		invitation.WorkspaceID,
		normalizeEmail(invitation.Email),
		invitation.TokenHash,
		invitation.Status,
		formatTime(invitation.ExpiresAt),
		invitation.InvitedBy,
		formatTime(invitation.CreatedAt),
		formatTime(invitation.UpdatedAt),
	)
	if err != nil {
		return r.mapInvitationError(err)
	}

	return nil
}

// GetInvitation retrieves an invitation by ID.
func (r *InvitationRepository) GetInvitation(ctx context.Context, id string) (persistence.Invitation, error) {
	if id == "" {
		return persistence.Invitation{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	return r.scanInvitation(rowScanner{row})
}

// FindPendingInvitation locates the PENDING, non-expired invitation for a
// workspace/email pair. The expiry filter applies regardless of whether a
// sweep has physically flipped stale rows.
func (r *InvitationRepository) FindPendingInvitation(ctx context.Context, workspaceID, email string, now time.Time) (persistence.Invitation, error) {
	if workspaceID == "" || email == "" {
		return persistence.Invitation{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE workspace_id = ? AND email = ? AND status = 'PENDING' AND expires_at > ?
	`, workspaceID, normalizeEmail(email), formatTime(now))
	return r.scanInvitation(rowScanner{row})
}

// ListPendingInvitationsForEmail returns PENDING, non-expired invitations
// addressed to the email, ordered by creation time.
func (r *InvitationRepository) ListPendingInvitationsForEmail(ctx context.Context, email string, now time.Time) ([]persistence.Invitation, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE email = ? AND status = 'PENDING' AND expires_at > ?
		ORDER BY created_at ASC, id ASC
	`, normalizeEmail(email), formatTime(now))
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var invitations []persistence.Invitation
	for rows.Next() {
		invitation, err := r.scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return invitations, nil
}

// ExpireInvitations flips PENDING invitations whose expiry has passed to
// EXPIRED, constrained to the supplied scope. It returns the number of rows
// swept.
func (r *InvitationRepository) ExpireInvitations(ctx context.Context, scope persistence.InvitationSweepScope, now time.Time) (int64, error) {
	query := `
		UPDATE invitations
		SET status = 'EXPIRED', updated_at = ?
		WHERE status = 'PENDING' AND expires_at <= ?
	`
	args := []any{formatTime(now), formatTime(now)}

	if scope.WorkspaceID != "" {
		query += ` AND workspace_id = ?`
		args = append(args, scope.WorkspaceID)
	}
	if scope.Email != "" {
		query += ` AND email = ?`
		args = append(args, normalizeEmail(scope.Email))
	}

	result, err := r.helper.Exec(ctx, query, args...)
	if err != nil {
		return 0, r.mapInvitationError(err)
	}

	return result.RowsAffected()
}

// UpdateInvitationStatus transitions an invitation out of PENDING. The guard
// on the current status keeps terminal states terminal even under concurrent
// updates.
func (r *InvitationRepository) UpdateInvitationStatus(ctx context.Context, id, status string, at time.Time) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE invitations
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = 'PENDING'
	`, status, formatTime(at), id)
	if err != nil {
		return r.mapInvitationError(err)
	}

	return requireRowsAffected(result)
}

// AcceptInvitation flips the invitation to ACCEPTED and upserts the member
// row in a single transaction, so a crash cannot leave an accepted invitation
// without a membership.
func (r *InvitationRepository) AcceptInvitation(ctx context.Context, id string, member persistence.Member, at time.Time) error {
	if id == "" || member.WorkspaceID == "" || member.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(tx, `
			UPDATE invitations
			SET status = 'ACCEPTED', updated_at = ?
			WHERE id = ? AND status = 'PENDING'
		`, formatTime(at), id)
		if err != nil {
			return r.mapInvitationError(err)
		}
		if err := requireRowsAffected(result); err != nil {
			return err
		}

		_, err = r.helper.ExecTx(tx, `
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
			return r.mapInvitationError(err)
		}

		return nil
	})
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

type rowScanner struct {
	row *sql.Row
}

func (s rowScanner) Scan(dest ...any) error {
	return s.row.Scan(dest...)
}

func (r *InvitationRepository) scanInvitation(s scanner) (persistence.Invitation, error) {
	var invitation persistence.Invitation
	var expiresAtStr, createdAtStr, updatedAtStr string

	err := s.Scan(
		&invitation.ID,
		&invitation.WorkspaceID,
		&invitation.Email,
		&invitation.TokenHash,
		&invitation.Status,
		&expiresAtStr,
		&invitation.InvitedBy,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Invitation{}, persistence.ErrNotFound
		}
		return persistence.Invitation{}, r.mapper.MapError(err)
	}

	if invitation.ExpiresAt, err = parseTime(expiresAtStr); err != nil {
		return persistence.Invitation{}, err
	}
	if invitation.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Invitation{}, err
	}
	if invitation.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Invitation{}, err
	}

	return invitation, nil
}

// mapInvitationError maps SQLite errors to persistence errors for invitation operations.
func (r *InvitationRepository) mapInvitationError(err error) error {
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
