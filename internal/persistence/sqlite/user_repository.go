package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/example/workspace-booking/internal/persistence"
)

// UserRepository implements persistence.UserRepository and
// persistence.EmailVerificationRepository using SQLite.
type UserRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const userColumns = `id, email, display_name, password_hash, email_verified_at, disabled, created_at, updated_at`

// CreateUser inserts a new user. The email is stored case-normalized so the
// unique index doubles as a case-insensitive uniqueness guarantee.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		user.ID,
		normalizeEmail(user.Email),
		user.DisplayName,
		user.PasswordHash,
		formatNullableTime(user.EmailVerifiedAt),
		user.Disabled,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		return r.mapUserError(err)
	}

	return nil
}

// UpdateUser updates an existing user.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		UPDATE users
		SET email = ?, display_name = ?, password_hash = ?, email_verified_at = ?, disabled = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		normalizeEmail(user.Email),
		user.DisplayName,
		user.PasswordHash,
		formatNullableTime(user.EmailVerifiedAt),
		user.Disabled,
		formatTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return r.mapUserError(err)
	}

	return requireRowsAffected(result)
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

// GetUserByEmail retrieves a user by case-normalized email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	if email == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, normalizeEmail(email))
	return r.scanUser(row)
}

// CreateVerification stores a hashed email verification token.
func (r *UserRepository) CreateVerification(ctx context.Context, verification persistence.EmailVerification) error {
	if verification.TokenHash == "" || verification.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO email_verifications (token_hash, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		verification.TokenHash,
		verification.UserID,
		formatTime(verification.ExpiresAt),
		formatTime(verification.CreatedAt),
	)
	if err != nil {
		return r.mapUserError(err)
	}

	return nil
}

// GetVerification retrieves a verification entry by token hash.
func (r *UserRepository) GetVerification(ctx context.Context, tokenHash string) (persistence.EmailVerification, error) {
	if tokenHash == "" {
		return persistence.EmailVerification{}, persistence.ErrNotFound
	}

	var verification persistence.EmailVerification
	var expiresAtStr, createdAtStr string

	err := r.helper.QueryRow(ctx, `
		SELECT token_hash, user_id, expires_at, created_at
		FROM email_verifications
		WHERE token_hash = ?
	`, tokenHash).Scan(
		&verification.TokenHash,
		&verification.UserID,
		&expiresAtStr,
		&createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.EmailVerification{}, persistence.ErrNotFound
		}
		return persistence.EmailVerification{}, r.mapper.MapError(err)
	}

	if verification.ExpiresAt, err = parseTime(expiresAtStr); err != nil {
		return persistence.EmailVerification{}, err
	}
	if verification.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.EmailVerification{}, err
	}

	return verification, nil
}

// DeleteVerificationsForUser removes all verification entries for a user.
func (r *UserRepository) DeleteVerificationsForUser(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	_, err := r.helper.Exec(ctx, `DELETE FROM email_verifications WHERE user_id = ?`, userID)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (persistence.User, error) {
	var user persistence.User
	var verifiedAt sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&verifiedAt,
		&user.Disabled,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, r.mapper.MapError(err)
	}

	if user.EmailVerifiedAt, err = parseNullableTime(verifiedAt); err != nil {
		return persistence.User{}, err
	}
	if user.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.User{}, err
	}

	return user, nil
}

// mapUserError maps SQLite errors to persistence errors for user operations.
func (r *UserRepository) mapUserError(err error) error {
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

// requireRowsAffected converts a zero-row update into ErrNotFound.
func requireRowsAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// normalizeEmail normalizes email addresses for consistent storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
