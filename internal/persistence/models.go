package persistence

import "time"

// User represents an account record stored by the service.
type User struct {
	ID              string
	Email           string
	DisplayName     string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	Disabled        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EmailVerification represents an outstanding email verification token.
// Only the SHA-256 hash of the token is stored.
type EmailVerification struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Session represents an authentication session persisted for a user.
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
	Role        string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Invitation represents a time-limited offer of workspace membership tied to
// an email address. Only the SHA-256 hash of the invitation token is stored.
type Invitation struct {
	ID          string
	WorkspaceID string
	Email       string
	TokenHash   string
	Status      string
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

// Booking represents a reservation of a room for a half-open time interval.
type Booking struct {
	ID          string
	WorkspaceID string
	RoomID      string
	CreatedBy   string
	StartAt     time.Time
	EndAt       time.Time
	Subject     string
	Criticality string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
