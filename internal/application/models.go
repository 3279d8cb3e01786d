package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID        string
	Email         string
	EmailVerified bool
}

// Role classifies a workspace member's privileges.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// MemberStatus tracks whether a membership is currently in force.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusInactive MemberStatus = "INACTIVE"
)

// InvitationStatus tracks the invitation state machine. PENDING is the only
// non-terminal state.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusRejected InvitationStatus = "REJECTED"
	InvitationStatusExpired  InvitationStatus = "EXPIRED"
)

// BookingStatus tracks whether a reservation still holds its interval.
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Criticality ranks how important a reservation is to its creator.
type Criticality string

const (
	CriticalityHigh   Criticality = "HIGH"
	CriticalityMedium Criticality = "MEDIUM"
	CriticalityLow    Criticality = "LOW"
)

// Valid reports whether the value is one of the known criticality levels.
func (c Criticality) Valid() bool {
	switch c {
	case CriticalityHigh, CriticalityMedium, CriticalityLow:
		return true
	}
	return false
}

// AccessLevel classifies a user's relationship to a workspace.
type AccessLevel string

const (
	// AccessNone means the workspace is invisible to the user.
	AccessNone AccessLevel = "NONE"
	// AccessPendingInvitation means the user can see the workspace exists via
	// an open invitation but holds no membership.
	AccessPendingInvitation AccessLevel = "PENDING_INVITATION"
	// AccessActiveMember means the user holds an ACTIVE membership.
	AccessActiveMember AccessLevel = "ACTIVE_MEMBER"
)

// Access is the resolved relationship between a principal and a workspace.
// Role is meaningful only when Level is AccessActiveMember.
type Access struct {
	Level AccessLevel
	Role  Role
}

// User represents an account exposed by the application services.
type User struct {
	ID              string
	Email           string
	DisplayName     string
	EmailVerifiedAt *time.Time
	Disabled        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EmailVerified reports whether the account completed email verification.
func (u User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
	Disabled     bool
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Workspace represents a tenant boundary containing rooms, members, and bookings.
type Workspace struct {
	ID                string
	Name              string
	Timezone          string
	ScheduleStartHour int
	ScheduleEndHour   int
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Member represents a user's role and status within a workspace.
type Member struct {
	WorkspaceID string
	UserID      string
	Role        Role
	Status      MemberStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Invitation represents a time-limited offer of workspace membership tied to
// an email address. The raw token is never part of the model; only its hash is
// stored, and the raw value travels out of band once at creation time.
type Invitation struct {
	ID          string
	WorkspaceID string
	Email       string
	Status      InvitationStatus
	ExpiresAt   time.Time
	InvitedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Room represents a bookable room within a workspace.
type Room struct {
	ID          string
	WorkspaceID string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Booking represents a reservation of a room for a half-open [StartAt, EndAt)
// interval.
type Booking struct {
	ID          string
	WorkspaceID string
	RoomID      string
	CreatedBy   string
	StartAt     time.Time
	EndAt       time.Time
	Subject     string
	Criticality Criticality
	Status      BookingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RegisterUserParams captures the data required to register an account.
type RegisterUserParams struct {
	Email       string
	DisplayName string
	Password    string
}

// VerifyEmailParams carries the raw out-of-band verification token.
type VerifyEmailParams struct {
	Token string
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication.
type AuthenticateResult struct {
	User    User
	Session Session
}

// WorkspaceInput captures caller provided workspace fields. Zero schedule
// hours select the default window; an empty timezone selects UTC.
type WorkspaceInput struct {
	Name              string
	Timezone          string
	ScheduleStartHour int
	ScheduleEndHour   int
}

// CreateWorkspaceParams wraps the data required to create a workspace.
type CreateWorkspaceParams struct {
	Principal Principal
	Input     WorkspaceInput
}

// ScheduleSettingsInput captures admin-editable schedule configuration.
type ScheduleSettingsInput struct {
	Timezone          string
	ScheduleStartHour int
	ScheduleEndHour   int
}

// UpdateScheduleSettingsParams wraps the data required to change a
// workspace's schedule configuration.
type UpdateScheduleSettingsParams struct {
	Principal   Principal
	WorkspaceID string
	Input       ScheduleSettingsInput
}

// VisibleWorkspace pairs a workspace with the relationship that makes it
// visible to the caller.
type VisibleWorkspace struct {
	Workspace Workspace
	Access    Access
}

// MemberDetail joins a membership row with the account it belongs to.
type MemberDetail struct {
	Member
	Email       string
	DisplayName string
}

// InviteMemberParams wraps the data required to invite an email address into
// a workspace.
type InviteMemberParams struct {
	Principal   Principal
	WorkspaceID string
	Email       string
}

// RespondInvitationParams wraps the data required to accept or reject an
// invitation.
type RespondInvitationParams struct {
	Principal    Principal
	InvitationID string
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name        string
	Description *string
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal   Principal
	WorkspaceID string
	Input       RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal   Principal
	WorkspaceID string
	RoomID      string
	Input       RoomInput
}

// BookingInput captures caller provided reservation fields. StartAt and EndAt
// are UTC instants.
type BookingInput struct {
	RoomID      string
	StartAt     time.Time
	EndAt       time.Time
	Subject     string
	Criticality Criticality
}

// CreateBookingParams wraps the data required to create a reservation.
type CreateBookingParams struct {
	Principal   Principal
	WorkspaceID string
	Input       BookingInput
}

// CancelBookingParams wraps the data required to cancel a reservation.
type CancelBookingParams struct {
	Principal   Principal
	WorkspaceID string
	BookingID   string
}

// ListBookingsParams wraps the data and filter flags for reservation
// listings. The zero value of the flags yields the narrowest view: the
// caller's own ACTIVE reservations from the current local day onward.
type ListBookingsParams struct {
	Principal        Principal
	WorkspaceID      string
	AllMembers       bool
	IncludePast      bool
	IncludeCancelled bool
}
