package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"
)

// InvitationRepository captures the persistence interactions for
// invitations. AcceptInvitation flips the row to ACCEPTED and upserts the
// membership in one transaction; both writes commit together or not at all.
type InvitationRepository interface {
	CreateInvitation(ctx context.Context, invitation Invitation, tokenHash string) (Invitation, error)
	GetInvitation(ctx context.Context, id string) (Invitation, error)
	FindPendingInvitation(ctx context.Context, workspaceID, email string, now time.Time) (Invitation, error)
	UpdateInvitationStatus(ctx context.Context, id string, status InvitationStatus, at time.Time) error
	AcceptInvitation(ctx context.Context, id string, member Member, at time.Time) error
}

// UserDirectory exposes account lookup by email.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// WorkspaceDirectory exposes workspace lookup by ID.
type WorkspaceDirectory interface {
	GetWorkspace(ctx context.Context, id string) (Workspace, error)
}

// InvitationService drives the invitation state machine: PENDING is the only
// live state, and ACCEPTED, REJECTED, and EXPIRED are terminal.
type InvitationService struct {
	invitations    InvitationRepository
	users          UserDirectory
	members        MembershipDirectory
	workspaces     WorkspaceDirectory
	resolver       *AccessResolver
	sender         EmailSender
	idGenerator    func() string
	tokenGenerator func() string
	now            func() time.Time
	invitationTTL  time.Duration
	logger         *slog.Logger
}

// NewInvitationService wires dependencies for the invitation lifecycle.
func NewInvitationService(invitations InvitationRepository, users UserDirectory, members MembershipDirectory, workspaces WorkspaceDirectory, resolver *AccessResolver, sender EmailSender, idGenerator, tokenGenerator func() string, now func() time.Time, invitationTTL time.Duration) *InvitationService {
	return NewInvitationServiceWithLogger(invitations, users, members, workspaces, resolver, sender, idGenerator, tokenGenerator, now, invitationTTL, nil)
}

// NewInvitationServiceWithLogger constructs an InvitationService with a specified logger.
func NewInvitationServiceWithLogger(invitations InvitationRepository, users UserDirectory, members MembershipDirectory, workspaces WorkspaceDirectory, resolver *AccessResolver, sender EmailSender, idGenerator, tokenGenerator func() string, now func() time.Time, invitationTTL time.Duration, logger *slog.Logger) *InvitationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if tokenGenerator == nil {
		tokenGenerator = NewToken
	}
	if now == nil {
		now = time.Now
	}
	if invitationTTL <= 0 {
		invitationTTL = 7 * 24 * time.Hour
	}
	return &InvitationService{
		invitations:    invitations,
		users:          users,
		members:        members,
		workspaces:     workspaces,
		resolver:       resolver,
		sender:         sender,
		idGenerator:    idGenerator,
		tokenGenerator: tokenGenerator,
		now:            now,
		invitationTTL:  invitationTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *InvitationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "InvitationService", operation, attrs...)
}

// Invite creates a PENDING invitation for an email address and delivers the
// raw token out of band. Admin only. The expiry sweep runs before the admin
// check so an invitation that just lapsed never blocks re-invitation.
func (s *InvitationService) Invite(ctx context.Context, params InviteMemberParams) (Invitation, error) {
	if s == nil {
		return Invitation{}, fmt.Errorf("InvitationService is nil")
	}
	if s.invitations == nil {
		return Invitation{}, fmt.Errorf("invitation repository not configured")
	}

	email := normalizeEmail(params.Email)
	if email == "" {
		vErr := &ValidationError{}
		vErr.add("email", "email is required")
		return Invitation{}, vErr
	}
	if _, err := mail.ParseAddress(email); err != nil {
		vErr := &ValidationError{}
		vErr.add("email", "email is invalid")
		return Invitation{}, vErr
	}

	if s.resolver != nil {
		s.resolver.Sweep(ctx, params.WorkspaceID, email)
	}

	if _, err := s.resolver.RequireAdmin(ctx, params.Principal, params.WorkspaceID); err != nil {
		return Invitation{}, err
	}

	if err := s.rejectExistingMember(ctx, params.WorkspaceID, email); err != nil {
		return Invitation{}, err
	}

	now := s.now()
	_, err := s.invitations.FindPendingInvitation(ctx, params.WorkspaceID, email, now)
	switch {
	case err == nil:
		return Invitation{}, ErrInvitationAlreadyPending
	case !isNotFoundError(err):
		return Invitation{}, err
	}

	token := s.tokenGenerator()
	invitation := Invitation{
		ID:          s.idGenerator(),
		WorkspaceID: params.WorkspaceID,
		Email:       email,
		Status:      InvitationStatusPending,
		ExpiresAt:   now.Add(s.invitationTTL),
		InvitedBy:   params.Principal.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted, err := s.invitations.CreateInvitation(ctx, invitation, HashToken(token))
	if err != nil {
		return Invitation{}, err
	}

	logger := s.loggerWith(ctx, "Invite",
		"workspace_id", params.WorkspaceID,
		"invitation_id", persisted.ID,
	)

	if err := s.deliverInvitation(ctx, persisted, token); err != nil {
		// The invitation row is live either way; an admin can re-send later.
		logger.WarnContext(ctx, "invitation delivery failed", "error", err)
	}

	logger.InfoContext(ctx, "invitation created")
	return persisted, nil
}

// Accept transitions a PENDING invitation to ACCEPTED and activates the
// membership atomically. The invitation must belong to the acting
// principal's email; anything else looks like a missing workspace.
func (s *InvitationService) Accept(ctx context.Context, params RespondInvitationParams) (Invitation, error) {
	if s == nil {
		return Invitation{}, fmt.Errorf("InvitationService is nil")
	}
	if s.invitations == nil {
		return Invitation{}, fmt.Errorf("invitation repository not configured")
	}

	invitation, err := s.claimInvitation(ctx, params)
	if err != nil {
		return Invitation{}, err
	}

	now := s.now()
	member := Member{
		WorkspaceID: invitation.WorkspaceID,
		UserID:      params.Principal.UserID,
		Role:        RoleMember,
		Status:      MemberStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.invitations.AcceptInvitation(ctx, invitation.ID, member, now); err != nil {
		return Invitation{}, err
	}

	invitation.Status = InvitationStatusAccepted
	invitation.UpdatedAt = now

	s.loggerWith(ctx, "Accept",
		"workspace_id", invitation.WorkspaceID,
		"invitation_id", invitation.ID,
		"user_id", params.Principal.UserID,
	).InfoContext(ctx, "invitation accepted")
	return invitation, nil
}

// Reject transitions a PENDING invitation to REJECTED. Same ownership and
// state checks as Accept, without any membership side effect.
func (s *InvitationService) Reject(ctx context.Context, params RespondInvitationParams) (Invitation, error) {
	if s == nil {
		return Invitation{}, fmt.Errorf("InvitationService is nil")
	}
	if s.invitations == nil {
		return Invitation{}, fmt.Errorf("invitation repository not configured")
	}

	invitation, err := s.claimInvitation(ctx, params)
	if err != nil {
		return Invitation{}, err
	}

	now := s.now()
	if err := s.invitations.UpdateInvitationStatus(ctx, invitation.ID, InvitationStatusRejected, now); err != nil {
		return Invitation{}, err
	}

	invitation.Status = InvitationStatusRejected
	invitation.UpdatedAt = now

	s.loggerWith(ctx, "Reject",
		"workspace_id", invitation.WorkspaceID,
		"invitation_id", invitation.ID,
	).InfoContext(ctx, "invitation rejected")
	return invitation, nil
}

// claimInvitation loads the invitation, proves it belongs to the principal,
// and verifies it is still PENDING and unexpired. An expired PENDING row is
// flipped to EXPIRED on the spot; the transition never reverses.
func (s *InvitationService) claimInvitation(ctx context.Context, params RespondInvitationParams) (Invitation, error) {
	if !params.Principal.EmailVerified {
		return Invitation{}, ErrEmailNotVerified
	}

	invitation, err := s.invitations.GetInvitation(ctx, params.InvitationID)
	if err != nil {
		if isNotFoundError(err) {
			return Invitation{}, ErrWorkspaceNotVisible
		}
		return Invitation{}, err
	}

	if invitation.Email != normalizeEmail(params.Principal.Email) {
		return Invitation{}, ErrWorkspaceNotVisible
	}

	switch invitation.Status {
	case InvitationStatusPending:
	case InvitationStatusExpired:
		return Invitation{}, ErrInvitationExpired
	default:
		return Invitation{}, ErrInvitationNotPending
	}

	now := s.now()
	if !now.Before(invitation.ExpiresAt) {
		if err := s.invitations.UpdateInvitationStatus(ctx, invitation.ID, InvitationStatusExpired, now); err != nil && !isNotFoundError(err) {
			return Invitation{}, err
		}
		return Invitation{}, ErrInvitationExpired
	}

	return invitation, nil
}

// rejectExistingMember fails with ErrAlreadyWorkspaceMember when the email
// already holds an ACTIVE membership. An INACTIVE row does not block: that is
// the reactivation path.
func (s *InvitationService) rejectExistingMember(ctx context.Context, workspaceID, email string) error {
	if s.users == nil || s.members == nil {
		return nil
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFoundError(err) {
			return nil
		}
		return err
	}

	member, err := s.members.GetMember(ctx, workspaceID, user.ID)
	if err != nil {
		if isNotFoundError(err) {
			return nil
		}
		return err
	}
	if member.Status == MemberStatusActive {
		return ErrAlreadyWorkspaceMember
	}
	return nil
}

func (s *InvitationService) deliverInvitation(ctx context.Context, invitation Invitation, token string) error {
	if s.sender == nil {
		return nil
	}

	workspaceName := invitation.WorkspaceID
	if s.workspaces != nil {
		if workspace, err := s.workspaces.GetWorkspace(ctx, invitation.WorkspaceID); err == nil {
			workspaceName = workspace.Name
		}
	}

	subject := fmt.Sprintf("You have been invited to %s", workspaceName)
	body := fmt.Sprintf("Use this token to respond to your invitation: %s", token)
	return s.sender.Send(ctx, invitation.Email, subject, body)
}
