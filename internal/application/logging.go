package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/workspace-booking/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrAccountDisabled):
		return "account_disabled"
	case errors.Is(err, ErrSessionExpired):
		return "session_expired"
	case errors.Is(err, ErrSessionRevoked):
		return "session_revoked"
	case errors.Is(err, ErrEmailNotVerified):
		return "email_not_verified"
	case errors.Is(err, ErrWorkspaceNotVisible):
		return "workspace_not_visible"
	case errors.Is(err, ErrAlreadyWorkspaceMember):
		return "already_workspace_member"
	case errors.Is(err, ErrInvitationAlreadyPending):
		return "invitation_already_pending"
	case errors.Is(err, ErrInvitationNotPending):
		return "invitation_not_pending"
	case errors.Is(err, ErrInvitationExpired):
		return "invitation_expired"
	case errors.Is(err, ErrRoomNameTaken):
		return "room_name_taken"
	case errors.Is(err, ErrRoomInUse):
		return "room_in_use"
	case errors.Is(err, ErrBookingMultiDay):
		return "booking_multi_day"
	case errors.Is(err, ErrBookingOutsideHours):
		return "booking_outside_hours"
	case errors.Is(err, ErrBookingPastDate):
		return "booking_past_date"
	case errors.Is(err, ErrBookingOverlap):
		return "booking_overlap"
	case errors.Is(err, ErrBookingUserOverlap):
		return "booking_user_overlap"
	case errors.Is(err, ErrBookingAlreadyCancelled):
		return "booking_already_cancelled"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}

// DomainOutcome reports whether the error is an expected business outcome
// rather than a defect. Domain outcomes are logged below error severity.
func DomainOutcome(err error) bool {
	if err == nil {
		return false
	}
	return ErrorKind(err) != "unexpected"
}
