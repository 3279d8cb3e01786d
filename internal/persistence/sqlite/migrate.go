package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrationStep pairs a monotonically increasing version with the statements
// that bring the schema to that version.
type migrationStep struct {
	version    int
	statements []string
}

var migrations = []migrationStep{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				display_name TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				email_verified_at TEXT,
				disabled INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE email_verifications (
				token_hash TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				expires_at TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				token TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				revoked_at TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE TABLE workspaces (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				timezone TEXT NOT NULL,
				schedule_start_hour INTEGER NOT NULL,
				schedule_end_hour INTEGER NOT NULL,
				created_by TEXT NOT NULL REFERENCES users(id),
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				CHECK (schedule_start_hour >= 0 AND schedule_end_hour <= 24 AND schedule_start_hour < schedule_end_hour)
			)`,
			`CREATE TABLE workspace_members (
				workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
				user_id TEXT NOT NULL REFERENCES users(id),
				role TEXT NOT NULL CHECK (role IN ('ADMIN', 'MEMBER')),
				status TEXT NOT NULL CHECK (status IN ('ACTIVE', 'INACTIVE')),
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (workspace_id, user_id)
			)`,
			`CREATE TABLE invitations (
				id TEXT PRIMARY KEY,
				workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
				email TEXT NOT NULL,
				token_hash TEXT NOT NULL UNIQUE,
				status TEXT NOT NULL CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED', 'EXPIRED')),
				expires_at TEXT NOT NULL,
				invited_by TEXT NOT NULL REFERENCES users(id),
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE INDEX idx_invitations_scope ON invitations (workspace_id, email, status)`,
			`CREATE INDEX idx_invitations_email ON invitations (email, status)`,
		},
	},
	{
		version: 3,
		statements: []string{
			`CREATE TABLE rooms (
				id TEXT PRIMARY KEY,
				workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				description TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				UNIQUE (workspace_id, name)
			)`,
			`CREATE TABLE bookings (
				id TEXT PRIMARY KEY,
				workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
				room_id TEXT NOT NULL REFERENCES rooms(id),
				created_by TEXT NOT NULL REFERENCES users(id),
				start_at TEXT NOT NULL,
				end_at TEXT NOT NULL,
				subject TEXT NOT NULL,
				criticality TEXT NOT NULL CHECK (criticality IN ('HIGH', 'MEDIUM', 'LOW')),
				status TEXT NOT NULL CHECK (status IN ('ACTIVE', 'CANCELLED')),
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				CHECK (start_at < end_at)
			)`,
			`CREATE INDEX idx_bookings_room_window ON bookings (room_id, status, start_at, end_at)`,
			`CREATE INDEX idx_bookings_user_window ON bookings (workspace_id, created_by, status, start_at)`,
		},
	},
}

// Migrate applies pending schema migrations. Each step runs in its own
// transaction together with the bookkeeping insert, so a failed step leaves
// the recorded version consistent with the actual schema.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current sql.NullInt64
	if err := cp.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, step := range migrations {
		if current.Valid && step.version <= int(current.Int64) {
			continue
		}
		err := cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range step.statements {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("migration %d failed: %w", step.version, err)
				}
			}
			if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, step.version); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", step.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
