package http

import (
	"context"
	"log/slog"

	"github.com/example/workspace-booking/internal/application"
	"github.com/example/workspace-booking/internal/logging"
)

type contextKey string

const (
	principalContextKey    contextKey = "principal"
	workspaceIDContextKey  contextKey = "workspace_id"
	invitationIDContextKey contextKey = "invitation_id"
	roomIDContextKey       contextKey = "room_id"
	bookingIDContextKey    contextKey = "booking_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithLogger attaches a request-scoped logger to the context. The
// logger is shared with the application layer, so service logs inherit the
// request attributes.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request-scoped logger, or nil when absent.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithWorkspaceID injects the workspace identifier resolved from the request path.
func ContextWithWorkspaceID(ctx context.Context, workspaceID string) context.Context {
	return context.WithValue(ctx, workspaceIDContextKey, workspaceID)
}

// WorkspaceIDFromContext extracts a workspace identifier previously associated with the context.
func WorkspaceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(workspaceIDContextKey).(string)
	return id, ok
}

// ContextWithInvitationID injects the invitation identifier resolved from the request path.
func ContextWithInvitationID(ctx context.Context, invitationID string) context.Context {
	return context.WithValue(ctx, invitationIDContextKey, invitationID)
}

// InvitationIDFromContext extracts an invitation identifier previously associated with the context.
func InvitationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(invitationIDContextKey).(string)
	return id, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

// ContextWithBookingID injects the booking identifier resolved from the request path.
func ContextWithBookingID(ctx context.Context, bookingID string) context.Context {
	return context.WithValue(ctx, bookingIDContextKey, bookingID)
}

// BookingIDFromContext extracts a booking identifier previously associated with the context.
func BookingIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(bookingIDContextKey).(string)
	return id, ok
}
