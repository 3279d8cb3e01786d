package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/workspace-booking/internal/persistence"
)

var (
	userCounter       uint64
	workspaceCounter  uint64
	invitationCounter uint64
	roomCounter       uint64
	bookingCounter    uint64
)

var referenceTime = time.Date(2026, time.February, 22, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserOption configures a generated user record.
type UserOption func(*persistence.User)

// NewUser returns a deterministic user record with optional overrides. The
// account is email-verified unless overridden.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	verified := created
	user := persistence.User{
		ID:              id,
		Email:           fmt.Sprintf("%s@example.com", id),
		DisplayName:     fmt.Sprintf("User %03d", idx),
		PasswordHash:    fmt.Sprintf("hash-%03d", idx),
		EmailVerifiedAt: &verified,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(u *persistence.User) {
		u.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(u *persistence.User) {
		u.Email = email
	}
}

// WithUnverifiedEmail clears the verification timestamp.
func WithUnverifiedEmail() UserOption {
	return func(u *persistence.User) {
		u.EmailVerifiedAt = nil
	}
}

// WithDisabledAccount marks the account as disabled.
func WithDisabledAccount() UserOption {
	return func(u *persistence.User) {
		u.Disabled = true
	}
}

// -------------------------- Workspace fixtures ---------------------------

// WorkspaceOption configures a generated workspace record.
type WorkspaceOption func(*persistence.Workspace)

// NewWorkspace returns a deterministic workspace record with optional
// overrides. The default schedule window is 8-18 in UTC.
func NewWorkspace(createdBy string, opts ...WorkspaceOption) persistence.Workspace {
	idx := atomic.AddUint64(&workspaceCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	workspace := persistence.Workspace{
		ID:                fmt.Sprintf("ws-%03d", idx),
		Name:              fmt.Sprintf("Workspace %03d", idx),
		Timezone:          "UTC",
		ScheduleStartHour: 8,
		ScheduleEndHour:   18,
		CreatedBy:         createdBy,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	for _, opt := range opts {
		opt(&workspace)
	}
	return workspace
}

// WithWorkspaceID overrides the generated workspace ID.
func WithWorkspaceID(id string) WorkspaceOption {
	return func(w *persistence.Workspace) {
		w.ID = id
	}
}

// WithTimezone overrides the workspace timezone.
func WithTimezone(tz string) WorkspaceOption {
	return func(w *persistence.Workspace) {
		w.Timezone = tz
	}
}

// WithScheduleWindow overrides the workspace schedule hours.
func WithScheduleWindow(startHour, endHour int) WorkspaceOption {
	return func(w *persistence.Workspace) {
		w.ScheduleStartHour = startHour
		w.ScheduleEndHour = endHour
	}
}

// NewMember returns a membership row for the workspace and user.
func NewMember(workspaceID, userID, role, status string) persistence.Member {
	return persistence.Member{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		Status:      status,
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
}

// -------------------------- Invitation fixtures --------------------------

// InvitationOption configures a generated invitation record.
type InvitationOption func(*persistence.Invitation)

// NewInvitation returns a deterministic PENDING invitation expiring seven days
// after the reference time.
func NewInvitation(workspaceID, email, invitedBy string, opts ...InvitationOption) persistence.Invitation {
	idx := atomic.AddUint64(&invitationCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	invitation := persistence.Invitation{
		ID:          fmt.Sprintf("inv-%03d", idx),
		WorkspaceID: workspaceID,
		Email:       email,
		TokenHash:   fmt.Sprintf("tokenhash-%03d", idx),
		Status:      "PENDING",
		ExpiresAt:   created.Add(7 * 24 * time.Hour),
		InvitedBy:   invitedBy,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&invitation)
	}
	return invitation
}

// WithInvitationStatus overrides the invitation status.
func WithInvitationStatus(status string) InvitationOption {
	return func(i *persistence.Invitation) {
		i.Status = status
	}
}

// WithInvitationExpiry overrides the invitation expiry instant.
func WithInvitationExpiry(expiresAt time.Time) InvitationOption {
	return func(i *persistence.Invitation) {
		i.ExpiresAt = expiresAt
	}
}

// ----------------------------- Room fixtures -----------------------------

// RoomOption configures a generated room record.
type RoomOption func(*persistence.Room)

// NewRoom returns a deterministic room record within the workspace.
func NewRoom(workspaceID string, opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := persistence.Room{
		ID:          fmt.Sprintf("room-%03d", idx),
		WorkspaceID: workspaceID,
		Name:        fmt.Sprintf("Room %03d", idx),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(r *persistence.Room) {
		r.Name = name
	}
}

// --------------------------- Booking fixtures ----------------------------

// BookingOption configures a generated booking record.
type BookingOption func(*persistence.Booking)

// NewBooking returns a deterministic ACTIVE booking for a one-hour slot
// starting two hours after the reference time.
func NewBooking(workspaceID, roomID, createdBy string, opts ...BookingOption) persistence.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	start := referenceTime.Add(2 * time.Hour)
	booking := persistence.Booking{
		ID:          fmt.Sprintf("bk-%03d", idx),
		WorkspaceID: workspaceID,
		RoomID:      roomID,
		CreatedBy:   createdBy,
		StartAt:     start,
		EndAt:       start.Add(time.Hour),
		Subject:     fmt.Sprintf("Booking %03d", idx),
		Criticality: "MEDIUM",
		Status:      "ACTIVE",
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&booking)
	}
	return booking
}

// WithBookingInterval overrides the booked interval.
func WithBookingInterval(start, end time.Time) BookingOption {
	return func(b *persistence.Booking) {
		b.StartAt = start
		b.EndAt = end
	}
}

// WithBookingStatus overrides the booking status.
func WithBookingStatus(status string) BookingOption {
	return func(b *persistence.Booking) {
		b.Status = status
	}
}
