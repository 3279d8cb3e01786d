package application

import (
	"context"
	"sync"
	"time"

	"github.com/example/workspace-booking/internal/persistence"
	"github.com/example/workspace-booking/internal/testfixtures"
)

// memoryStore is an in-memory stand-in for the persistence adapters. It
// mirrors the repository contracts closely enough for service tests: the
// same sentinel errors, the same transactional effects (accept flips state
// and upserts membership together), and the same overlap re-check on insert.
type memoryStore struct {
	mu sync.Mutex

	users         map[string]User
	passwordHash  map[string]string
	verifications map[string]memoryVerification
	sessions      map[string]Session

	workspaces  map[string]Workspace
	members     map[string]Member
	invitations map[string]Invitation
	tokenHashes map[string]string
	rooms       map[string]Room
	bookings    map[string]Booking

	sweepCalls []string
}

type memoryVerification struct {
	userID    string
	expiresAt time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         make(map[string]User),
		passwordHash:  make(map[string]string),
		verifications: make(map[string]memoryVerification),
		sessions:      make(map[string]Session),
		workspaces:    make(map[string]Workspace),
		members:       make(map[string]Member),
		invitations:   make(map[string]Invitation),
		tokenHashes:   make(map[string]string),
		rooms:         make(map[string]Room),
		bookings:      make(map[string]Booking),
	}
}

func memberKey(workspaceID, userID string) string {
	return workspaceID + "|" + userID
}

func (m *memoryStore) CreateUser(ctx context.Context, user User, hash string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return User{}, persistence.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	m.passwordHash[user.ID] = hash
	return user, nil
}

func (m *memoryStore) GetUser(ctx context.Context, id string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (m *memoryStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, persistence.ErrNotFound
}

func (m *memoryStore) MarkEmailVerified(ctx context.Context, id string, at time.Time) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return User{}, persistence.ErrNotFound
	}
	verifiedAt := at
	user.EmailVerifiedAt = &verifiedAt
	user.UpdatedAt = at
	m.users[id] = user
	return user, nil
}

func (m *memoryStore) GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error) {
	user, err := m.GetUserByEmail(ctx, email)
	if err != nil {
		return UserCredentials{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return UserCredentials{User: user, PasswordHash: m.passwordHash[user.ID], Disabled: user.Disabled}, nil
}

func (m *memoryStore) CreateVerification(ctx context.Context, tokenHash, userID string, expiresAt, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications[tokenHash] = memoryVerification{userID: userID, expiresAt: expiresAt}
	return nil
}

func (m *memoryStore) GetVerification(ctx context.Context, tokenHash string) (string, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	verification, ok := m.verifications[tokenHash]
	if !ok {
		return "", time.Time{}, persistence.ErrNotFound
	}
	return verification.userID, verification.expiresAt, nil
}

func (m *memoryStore) DeleteVerificationsForUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, verification := range m.verifications {
		if verification.userID == userID {
			delete(m.verifications, hash)
		}
	}
	return nil
}

func (m *memoryStore) CreateSession(ctx context.Context, session Session) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Token] = session
	return session, nil
}

func (m *memoryStore) GetSession(ctx context.Context, token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[token]
	if !ok {
		return Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (m *memoryStore) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[token]
	if !ok || session.RevokedAt != nil {
		return Session{}, persistence.ErrNotFound
	}
	at := revokedAt
	session.RevokedAt = &at
	m.sessions[token] = session
	return session, nil
}

func (m *memoryStore) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, session := range m.sessions {
		if !reference.Before(session.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *memoryStore) CreateWorkspace(ctx context.Context, workspace Workspace, creator Member) (Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workspaces[workspace.ID] = workspace
	m.members[memberKey(creator.WorkspaceID, creator.UserID)] = creator
	return workspace, nil
}

func (m *memoryStore) GetWorkspace(ctx context.Context, id string) (Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	workspace, ok := m.workspaces[id]
	if !ok {
		return Workspace{}, persistence.ErrNotFound
	}
	return workspace, nil
}

func (m *memoryStore) UpdateWorkspace(ctx context.Context, workspace Workspace) (Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workspaces[workspace.ID]; !ok {
		return Workspace{}, persistence.ErrNotFound
	}
	m.workspaces[workspace.ID] = workspace
	return workspace, nil
}

func (m *memoryStore) DeleteWorkspace(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workspaces[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.workspaces, id)
	for key, member := range m.members {
		if member.WorkspaceID == id {
			delete(m.members, key)
		}
	}
	for invID, invitation := range m.invitations {
		if invitation.WorkspaceID == id {
			delete(m.invitations, invID)
		}
	}
	for roomID, room := range m.rooms {
		if room.WorkspaceID == id {
			delete(m.rooms, roomID)
		}
	}
	for bookingID, b := range m.bookings {
		if b.WorkspaceID == id {
			delete(m.bookings, bookingID)
		}
	}
	return nil
}

func (m *memoryStore) ListWorkspacesForUser(ctx context.Context, userID string) ([]Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Workspace
	for _, member := range m.members {
		if member.UserID == userID && member.Status == MemberStatusActive {
			if workspace, ok := m.workspaces[member.WorkspaceID]; ok {
				out = append(out, workspace)
			}
		}
	}
	return out, nil
}

func (m *memoryStore) GetMember(ctx context.Context, workspaceID, userID string) (Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.members[memberKey(workspaceID, userID)]
	if !ok {
		return Member{}, persistence.ErrNotFound
	}
	return member, nil
}

func (m *memoryStore) ListMembers(ctx context.Context, workspaceID string) ([]MemberDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MemberDetail
	for _, member := range m.members {
		if member.WorkspaceID != workspaceID {
			continue
		}
		detail := MemberDetail{Member: member}
		if user, ok := m.users[member.UserID]; ok {
			detail.Email = user.Email
			detail.DisplayName = user.DisplayName
		}
		out = append(out, detail)
	}
	return out, nil
}

func (m *memoryStore) UpdateMemberStatus(ctx context.Context, workspaceID, userID string, status MemberStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memberKey(workspaceID, userID)
	member, ok := m.members[key]
	if !ok {
		return persistence.ErrNotFound
	}
	member.Status = status
	member.UpdatedAt = at
	m.members[key] = member
	return nil
}

func (m *memoryStore) CreateInvitation(ctx context.Context, invitation Invitation, tokenHash string) (Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitations[invitation.ID] = invitation
	m.tokenHashes[invitation.ID] = tokenHash
	return invitation, nil
}

func (m *memoryStore) GetInvitation(ctx context.Context, id string) (Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	invitation, ok := m.invitations[id]
	if !ok {
		return Invitation{}, persistence.ErrNotFound
	}
	return invitation, nil
}

func (m *memoryStore) FindPendingInvitation(ctx context.Context, workspaceID, email string, now time.Time) (Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, invitation := range m.invitations {
		if invitation.WorkspaceID == workspaceID &&
			invitation.Email == email &&
			invitation.Status == InvitationStatusPending &&
			invitation.ExpiresAt.After(now) {
			return invitation, nil
		}
	}
	return Invitation{}, persistence.ErrNotFound
}

func (m *memoryStore) ListPendingInvitationsForEmail(ctx context.Context, email string, now time.Time) ([]Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Invitation
	for _, invitation := range m.invitations {
		if invitation.Email == email &&
			invitation.Status == InvitationStatusPending &&
			invitation.ExpiresAt.After(now) {
			out = append(out, invitation)
		}
	}
	return out, nil
}

func (m *memoryStore) ExpireInvitations(ctx context.Context, workspaceID, email string, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepCalls = append(m.sweepCalls, workspaceID+"|"+email)
	var swept int64
	for id, invitation := range m.invitations {
		if workspaceID != "" && invitation.WorkspaceID != workspaceID {
			continue
		}
		if email != "" && invitation.Email != email {
			continue
		}
		if invitation.Status == InvitationStatusPending && !invitation.ExpiresAt.After(now) {
			invitation.Status = InvitationStatusExpired
			invitation.UpdatedAt = now
			m.invitations[id] = invitation
			swept++
		}
	}
	return swept, nil
}

func (m *memoryStore) UpdateInvitationStatus(ctx context.Context, id string, status InvitationStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	invitation, ok := m.invitations[id]
	if !ok || invitation.Status != InvitationStatusPending {
		return persistence.ErrNotFound
	}
	invitation.Status = status
	invitation.UpdatedAt = at
	m.invitations[id] = invitation
	return nil
}

func (m *memoryStore) AcceptInvitation(ctx context.Context, id string, member Member, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	invitation, ok := m.invitations[id]
	if !ok || invitation.Status != InvitationStatusPending {
		return persistence.ErrNotFound
	}
	invitation.Status = InvitationStatusAccepted
	invitation.UpdatedAt = at
	m.invitations[id] = invitation

	key := memberKey(member.WorkspaceID, member.UserID)
	if existing, ok := m.members[key]; ok {
		existing.Status = MemberStatusActive
		existing.UpdatedAt = at
		m.members[key] = existing
		return nil
	}
	m.members[key] = member
	return nil
}

func (m *memoryStore) CreateRoom(ctx context.Context, room Room) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rooms {
		if existing.WorkspaceID == room.WorkspaceID && existing.Name == room.Name {
			return Room{}, persistence.ErrDuplicate
		}
	}
	m.rooms[room.ID] = room
	return room, nil
}

func (m *memoryStore) GetRoom(ctx context.Context, id string) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return Room{}, persistence.ErrNotFound
	}
	return room, nil
}

func (m *memoryStore) UpdateRoom(ctx context.Context, room Room) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room.ID]; !ok {
		return Room{}, persistence.ErrNotFound
	}
	for _, existing := range m.rooms {
		if existing.ID != room.ID && existing.WorkspaceID == room.WorkspaceID && existing.Name == room.Name {
			return Room{}, persistence.ErrDuplicate
		}
	}
	m.rooms[room.ID] = room
	return room, nil
}

func (m *memoryStore) ListRooms(ctx context.Context, workspaceID string) ([]Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Room
	for _, room := range m.rooms {
		if room.WorkspaceID == workspaceID {
			out = append(out, room)
		}
	}
	return out, nil
}

func (m *memoryStore) DeleteRoom(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	for _, b := range m.bookings {
		if b.RoomID == id {
			return persistence.ErrForeignKeyViolation
		}
	}
	delete(m.rooms, id)
	return nil
}

func (m *memoryStore) CreateBooking(ctx context.Context, candidate Booking) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.bookings {
		if existing.Status != BookingStatusActive {
			continue
		}
		if !(existing.StartAt.Before(candidate.EndAt) && candidate.StartAt.Before(existing.EndAt)) {
			continue
		}
		if existing.RoomID == candidate.RoomID {
			return Booking{}, persistence.ErrOverlap
		}
		if existing.WorkspaceID == candidate.WorkspaceID && existing.CreatedBy == candidate.CreatedBy {
			return Booking{}, persistence.ErrUserOverlap
		}
	}
	m.bookings[candidate.ID] = candidate
	return candidate, nil
}

func (m *memoryStore) GetBooking(ctx context.Context, id string) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return Booking{}, persistence.ErrNotFound
	}
	return b, nil
}

func (m *memoryStore) CancelBooking(ctx context.Context, id string, at time.Time) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return Booking{}, persistence.ErrNotFound
	}
	if b.Status != BookingStatusActive {
		return Booking{}, persistence.ErrAlreadyCancelled
	}
	b.Status = BookingStatusCancelled
	b.UpdatedAt = at
	m.bookings[id] = b
	return b, nil
}

func (m *memoryStore) ListBookings(ctx context.Context, query BookingQuery) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		if query.WorkspaceID != "" && b.WorkspaceID != query.WorkspaceID {
			continue
		}
		if query.RoomID != "" && b.RoomID != query.RoomID {
			continue
		}
		if query.CreatedBy != "" && b.CreatedBy != query.CreatedBy {
			continue
		}
		if query.ActiveOnly && b.Status != BookingStatusActive {
			continue
		}
		if query.EndsAfter != nil && !b.EndAt.After(*query.EndsAfter) {
			continue
		}
		if query.OverlapsStart != nil && query.OverlapsEnd != nil {
			if !(b.StartAt.Before(*query.OverlapsEnd) && query.OverlapsStart.Before(b.EndAt)) {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

// captureSender records outgoing messages for assertions.
type captureSender struct {
	mu       sync.Mutex
	messages []capturedMessage
}

type capturedMessage struct {
	To      string
	Subject string
	Body    string
}

func (c *captureSender) Send(ctx context.Context, to, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, capturedMessage{To: to, Subject: subject, Body: body})
	return nil
}

func sequentialIDs(prefix string) func() string {
	return testfixtures.NewIDGenerator(prefix).NextFunc()
}

func fixedNow(t time.Time) func() time.Time {
	return testfixtures.NewClock(t).NowFunc()
}
