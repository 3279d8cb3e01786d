package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a uniqueness rule rejects a new record.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when authentication input does not match a stored account.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrAccountDisabled is returned when the account exists but has been disabled.
	ErrAccountDisabled = errors.New("application: account disabled")
	// ErrSessionExpired is returned when a session token is past its expiry.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a session token has been revoked.
	ErrSessionRevoked = errors.New("application: session revoked")

	// ErrEmailNotVerified is returned when an unverified account reaches the
	// authorization boundary. Unverified users fail closed before any
	// workspace state is consulted.
	ErrEmailNotVerified = errors.New("application: email not verified")
	// ErrWorkspaceNotVisible is returned when a workspace, or an invitation
	// into it, does not exist for the caller. It deliberately does not reveal
	// whether the resource exists at all.
	ErrWorkspaceNotVisible = errors.New("application: workspace not visible")

	// ErrAlreadyWorkspaceMember rejects inviting an email that already holds
	// an ACTIVE membership.
	ErrAlreadyWorkspaceMember = errors.New("application: already a workspace member")
	// ErrInvitationAlreadyPending rejects a second open invitation for the
	// same workspace and email.
	ErrInvitationAlreadyPending = errors.New("application: invitation already pending")
	// ErrInvitationNotPending is returned when accept/reject reaches an
	// invitation already in a terminal state.
	ErrInvitationNotPending = errors.New("application: invitation not pending")
	// ErrInvitationExpired is returned when accept/reject reaches an
	// invitation past its expiry.
	ErrInvitationExpired = errors.New("application: invitation expired")

	// ErrRoomNameTaken rejects a room name already used within the workspace.
	ErrRoomNameTaken = errors.New("application: room name already exists")
	// ErrRoomInUse rejects deleting a room that bookings still reference.
	ErrRoomInUse = errors.New("application: room in use")

	// ErrBookingMultiDay rejects a reservation whose start and end fall on
	// different local calendar dates.
	ErrBookingMultiDay = errors.New("application: booking spans multiple days")
	// ErrBookingOutsideHours rejects a reservation outside the workspace's
	// allowed schedule window.
	ErrBookingOutsideHours = errors.New("application: booking outside allowed hours")
	// ErrBookingPastDate rejects a reservation on a local calendar date that
	// has already passed.
	ErrBookingPastDate = errors.New("application: booking on a past date")
	// ErrBookingOverlap rejects a reservation overlapping an ACTIVE one on
	// the same room.
	ErrBookingOverlap = errors.New("application: booking overlaps an existing booking")
	// ErrBookingUserOverlap rejects a reservation overlapping one the same
	// user already holds elsewhere in the workspace.
	ErrBookingUserOverlap = errors.New("application: booking overlaps the user's existing booking")
	// ErrBookingAlreadyCancelled is returned when cancelling a reservation
	// that is no longer ACTIVE.
	ErrBookingAlreadyCancelled = errors.New("application: booking already cancelled")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
