package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/workspace-booking/internal/application"
)

var (
	errBadRequestBody      = errors.New("request body is not valid JSON")
	errInvalidWorkspaceID  = errors.New("workspace id is missing or invalid")
	errInvalidInvitationID = errors.New("invitation id is missing or invalid")
	errInvalidRoomID       = errors.New("room id is missing or invalid")
	errInvalidBookingID    = errors.New("booking id is missing or invalid")
	errMissingSessionToken = errors.New("a session token is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		r.loggerFor(ctx).Log(ctx, level, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Code: statusCode(status), Message: message})
}

// handleServiceError maps application sentinels to response statuses and
// stable machine-readable codes. Unmapped errors never leak detail.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Code:    "BAD_REQUEST",
			Message: "the request contains invalid fields",
			Errors:  vErr.FieldErrors,
		})
		return
	}

	status, code, message := classifyServiceError(err)
	if status == http.StatusInternalServerError {
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err, "error_kind", application.ErrorKind(err))
	}
	r.writeJSON(ctx, w, status, errorResponse{Code: code, Message: message})
}

func classifyServiceError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, "UNAUTHORIZED", "email or password is incorrect"
	case errors.Is(err, application.ErrSessionExpired),
		errors.Is(err, application.ErrSessionRevoked):
		return http.StatusUnauthorized, "UNAUTHORIZED", "the session is no longer valid"
	case errors.Is(err, application.ErrAccountDisabled):
		return http.StatusForbidden, "FORBIDDEN", "the account is disabled"
	case errors.Is(err, application.ErrEmailNotVerified):
		return http.StatusForbidden, "EMAIL_NOT_VERIFIED", "email verification is required before accessing workspaces"
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusForbidden, "UNAUTHORIZED", "you are not allowed to perform this operation"
	case errors.Is(err, application.ErrWorkspaceNotVisible):
		return http.StatusNotFound, "WORKSPACE_NOT_VISIBLE", "the workspace does not exist or is not visible to you"
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "the requested resource was not found"
	case errors.Is(err, application.ErrAlreadyExists):
		return http.StatusConflict, "EMAIL_ALREADY_REGISTERED", "an account with this email already exists"
	case errors.Is(err, application.ErrAlreadyWorkspaceMember):
		return http.StatusConflict, "ALREADY_WORKSPACE_MEMBER", "the invitee is already an active member of the workspace"
	case errors.Is(err, application.ErrInvitationAlreadyPending):
		return http.StatusConflict, "INVITATION_ALREADY_PENDING", "a pending invitation for this email already exists"
	case errors.Is(err, application.ErrInvitationExpired):
		return http.StatusConflict, "INVITATION_EXPIRED", "the invitation has expired"
	case errors.Is(err, application.ErrInvitationNotPending):
		return http.StatusConflict, "INVITATION_NOT_PENDING", "the invitation has already been resolved"
	case errors.Is(err, application.ErrRoomNameTaken):
		return http.StatusConflict, "ROOM_NAME_ALREADY_EXISTS", "a room with this name already exists in the workspace"
	case errors.Is(err, application.ErrRoomInUse):
		return http.StatusConflict, "ROOM_IN_USE", "the room still has reservations and cannot be removed"
	case errors.Is(err, application.ErrBookingMultiDay):
		return http.StatusUnprocessableEntity, "BOOKING_MULTI_DAY_NOT_ALLOWED", "the reservation must start and end on the same workspace-local day"
	case errors.Is(err, application.ErrBookingOutsideHours):
		return http.StatusUnprocessableEntity, "BOOKING_OUTSIDE_ALLOWED_HOURS", "the reservation falls outside the workspace schedule window"
	case errors.Is(err, application.ErrBookingPastDate):
		return http.StatusUnprocessableEntity, "BOOKING_PAST_DATE_NOT_ALLOWED", "reservations cannot start on a past date"
	case errors.Is(err, application.ErrBookingOverlap):
		return http.StatusConflict, "BOOKING_OVERLAP", "the room is already reserved for an overlapping interval"
	case errors.Is(err, application.ErrBookingUserOverlap):
		return http.StatusConflict, "BOOKING_USER_OVERLAP", "you already hold a reservation for an overlapping interval"
	case errors.Is(err, application.ErrBookingAlreadyCancelled):
		return http.StatusConflict, "BOOKING_ALREADY_CANCELLED", "the reservation is already cancelled"
	default:
		return http.StatusInternalServerError, "INTERNAL", "an internal error occurred"
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "the request is malformed"
	case http.StatusUnauthorized:
		return "authentication is required"
	case http.StatusForbidden:
		return "you are not allowed to perform this operation"
	case http.StatusNotFound:
		return "the requested resource was not found"
	case http.StatusConflict:
		return "the request conflicts with the current state of the resource"
	case http.StatusUnprocessableEntity:
		return "the request contains invalid fields"
	default:
		return "an internal error occurred"
	}
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusUnprocessableEntity:
		return "BAD_REQUEST"
	default:
		return "INTERNAL"
	}
}

type errorResponse struct {
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
