package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/workspace-booking/internal/persistence"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	MarkEmailVerified(ctx context.Context, id string, at time.Time) (User, error)
}

// VerificationRepository stores outstanding email verification tokens, keyed
// by token hash.
type VerificationRepository interface {
	CreateVerification(ctx context.Context, tokenHash, userID string, expiresAt, createdAt time.Time) error
	GetVerification(ctx context.Context, tokenHash string) (userID string, expiresAt time.Time, err error)
	DeleteVerificationsForUser(ctx context.Context, userID string) error
}

// EmailSender delivers a message out of band. The service never re-reads
// delivery status.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// UserService handles account registration and email verification.
type UserService struct {
	users           UserRepository
	verifications   VerificationRepository
	sender          EmailSender
	hashPassword    func(password string) (string, error)
	idGenerator     func() string
	tokenGenerator  func() string
	now             func() time.Time
	verificationTTL time.Duration
	logger          *slog.Logger
}

// NewUserService wires dependencies for registration and verification.
func NewUserService(users UserRepository, verifications VerificationRepository, sender EmailSender, idGenerator, tokenGenerator func() string, now func() time.Time, verificationTTL time.Duration) *UserService {
	return NewUserServiceWithLogger(users, verifications, sender, idGenerator, tokenGenerator, now, verificationTTL, nil)
}

// NewUserServiceWithLogger constructs a UserService with a specified logger.
func NewUserServiceWithLogger(users UserRepository, verifications VerificationRepository, sender EmailSender, idGenerator, tokenGenerator func() string, now func() time.Time, verificationTTL time.Duration, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if tokenGenerator == nil {
		tokenGenerator = NewToken
	}
	if now == nil {
		now = time.Now
	}
	if verificationTTL <= 0 {
		verificationTTL = 24 * time.Hour
	}
	return &UserService{
		users:           users,
		verifications:   verifications,
		sender:          sender,
		hashPassword:    func(password string) (string, error) { return CreatePasswordHash(password, DefaultArgon2idParams) },
		idGenerator:     idGenerator,
		tokenGenerator:  tokenGenerator,
		now:             now,
		verificationTTL: verificationTTL,
		logger:          defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// Register validates input, stores the account with a hashed password, and
// sends a verification token to the address. The account stays unverified,
// and therefore without workspace access, until VerifyEmail completes.
func (s *UserService) Register(ctx context.Context, params RegisterUserParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	email := normalizeEmail(params.Email)
	displayName := strings.TrimSpace(params.DisplayName)

	vErr := &ValidationError{}
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is invalid")
	}
	if displayName == "" {
		vErr.add("display_name", "display name is required")
	}
	if len(params.Password) < 8 {
		vErr.add("password", "password must be at least 8 characters")
	}
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := s.hashPassword(params.Password)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	user := User{
		ID:          s.idGenerator(),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted, err := s.users.CreateUser(ctx, user, hash)
	if err != nil {
		if isDuplicateError(err) {
			return User{}, ErrAlreadyExists
		}
		return User{}, err
	}

	logger := s.loggerWith(ctx, "Register", "user_id", persisted.ID)

	if err := s.issueVerification(ctx, persisted); err != nil {
		// The account exists either way; the caller can request a fresh
		// token, so delivery problems are not registration failures.
		logger.WarnContext(ctx, "verification delivery failed", "error", err)
	}

	logger.InfoContext(ctx, "user registered")
	return persisted, nil
}

// VerifyEmail consumes a raw verification token and marks the account
// verified. Unknown and expired tokens are both reported as ErrNotFound.
func (s *UserService) VerifyEmail(ctx context.Context, params VerifyEmailParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil || s.verifications == nil {
		return User{}, fmt.Errorf("user service not configured")
	}

	token := strings.TrimSpace(params.Token)
	if token == "" {
		vErr := &ValidationError{}
		vErr.add("token", "token is required")
		return User{}, vErr
	}

	userID, expiresAt, err := s.verifications.GetVerification(ctx, HashToken(token))
	if err != nil {
		if isNotFoundError(err) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	now := s.now()
	if !now.Before(expiresAt) {
		return User{}, ErrNotFound
	}

	user, err := s.users.MarkEmailVerified(ctx, userID, now)
	if err != nil {
		if isNotFoundError(err) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	if err := s.verifications.DeleteVerificationsForUser(ctx, userID); err != nil {
		s.loggerWith(ctx, "VerifyEmail", "user_id", userID).
			WarnContext(ctx, "verification cleanup failed", "error", err)
	}

	s.loggerWith(ctx, "VerifyEmail", "user_id", userID).InfoContext(ctx, "email verified")
	return user, nil
}

func (s *UserService) issueVerification(ctx context.Context, user User) error {
	if s.verifications == nil {
		return nil
	}

	token := s.tokenGenerator()
	now := s.now()
	if err := s.verifications.CreateVerification(ctx, HashToken(token), user.ID, now.Add(s.verificationTTL), now); err != nil {
		return err
	}

	if s.sender == nil {
		return nil
	}
	body := fmt.Sprintf("Confirm your address with this token: %s", token)
	return s.sender.Send(ctx, user.Email, "Verify your email address", body)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isDuplicateError(err error) bool {
	return errors.Is(err, ErrAlreadyExists) || errors.Is(err, persistence.ErrDuplicate)
}
