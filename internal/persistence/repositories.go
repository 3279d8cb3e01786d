package persistence

import "context"
import "time"

// UserRepository exposes CRUD operations for user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// EmailVerificationRepository stores outstanding email verification tokens.
type EmailVerificationRepository interface {
	CreateVerification(ctx context.Context, verification EmailVerification) error
	GetVerification(ctx context.Context, tokenHash string) (EmailVerification, error)
	DeleteVerificationsForUser(ctx context.Context, userID string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// WorkspaceRepository stores workspaces and their memberships. CreateWorkspace
// persists the workspace together with its creator's ADMIN membership in a
// single transaction; DeleteWorkspace cascades removal of members,
// invitations, rooms, and bookings in a single transaction.
type WorkspaceRepository interface {
	CreateWorkspace(ctx context.Context, workspace Workspace, creator Member) error
	GetWorkspace(ctx context.Context, id string) (Workspace, error)
	UpdateWorkspace(ctx context.Context, workspace Workspace) error
	DeleteWorkspace(ctx context.Context, id string) error
	ListWorkspacesForUser(ctx context.Context, userID string) ([]Workspace, error)
}

// MemberRepository stores per-workspace membership rows.
type MemberRepository interface {
	GetMember(ctx context.Context, workspaceID, userID string) (Member, error)
	ListMembers(ctx context.Context, workspaceID string) ([]Member, error)
	UpsertMember(ctx context.Context, member Member) error
	UpdateMemberStatus(ctx context.Context, workspaceID, userID, status string, at time.Time) error
}

// InvitationSweepScope narrows a lazy expiry sweep to the rows relevant to the
// current operation. Empty fields are not constrained.
type InvitationSweepScope struct {
	WorkspaceID string
	Email       string
}

// InvitationRepository stores workspace invitations. AcceptInvitation flips
// the invitation to ACCEPTED and upserts the member row in one transaction.
type InvitationRepository interface {
	CreateInvitation(ctx context.Context, invitation Invitation) error
	GetInvitation(ctx context.Context, id string) (Invitation, error)
	FindPendingInvitation(ctx context.Context, workspaceID, email string, now time.Time) (Invitation, error)
	ListPendingInvitationsForEmail(ctx context.Context, email string, now time.Time) ([]Invitation, error)
	ExpireInvitations(ctx context.Context, scope InvitationSweepScope, now time.Time) (int64, error)
	UpdateInvitationStatus(ctx context.Context, id, status string, at time.Time) error
	AcceptInvitation(ctx context.Context, id string, member Member, at time.Time) error
}

// RoomRepository stores bookable rooms. DeleteRoom fails with
// ErrForeignKeyViolation while bookings reference the room.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context, workspaceID string) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// BookingFilter narrows booking queries.
type BookingFilter struct {
	WorkspaceID      string
	RoomID           string
	CreatedBy        string
	ActiveOnly       bool
	EndsAfter        *time.Time
	OverlapsStart    *time.Time
	OverlapsEnd      *time.Time
	IncludeCancelled bool
}

// BookingRepository stores room reservations. CreateBooking performs its
// overlap check and the insert inside a single write-serialized transaction;
// that check is the authoritative exclusion guarantee and surfaces as
// ErrOverlap when violated.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	CancelBooking(ctx context.Context, id string, at time.Time) (Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
}
