package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/workspace-booking/internal/booking"
)

// WorkspaceRepository captures the persistence interactions for workspaces.
// CreateWorkspace persists the workspace together with the creator's ADMIN
// membership in one transaction; DeleteWorkspace cascades removal of members,
// invitations, rooms, and bookings in one transaction.
type WorkspaceRepository interface {
	CreateWorkspace(ctx context.Context, workspace Workspace, creator Member) (Workspace, error)
	GetWorkspace(ctx context.Context, id string) (Workspace, error)
	UpdateWorkspace(ctx context.Context, workspace Workspace) (Workspace, error)
	DeleteWorkspace(ctx context.Context, id string) error
	ListWorkspacesForUser(ctx context.Context, userID string) ([]Workspace, error)
}

// MemberRoster exposes the membership listing and status operations the
// workspace service needs beyond relationship resolution.
type MemberRoster interface {
	ListMembers(ctx context.Context, workspaceID string) ([]MemberDetail, error)
	UpdateMemberStatus(ctx context.Context, workspaceID, userID string, status MemberStatus, at time.Time) error
}

// PendingInvitationLister exposes the open invitations addressed to an email.
type PendingInvitationLister interface {
	ListPendingInvitationsForEmail(ctx context.Context, email string, now time.Time) ([]Invitation, error)
}

// WorkspaceService orchestrates workspace lifecycle and membership views.
type WorkspaceService struct {
	workspaces  WorkspaceRepository
	members     MembershipDirectory
	roster      MemberRoster
	pending     PendingInvitationLister
	resolver    *AccessResolver
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewWorkspaceService wires dependencies for workspace operations.
func NewWorkspaceService(workspaces WorkspaceRepository, members MembershipDirectory, roster MemberRoster, pending PendingInvitationLister, resolver *AccessResolver, idGenerator func() string, now func() time.Time) *WorkspaceService {
	return NewWorkspaceServiceWithLogger(workspaces, members, roster, pending, resolver, idGenerator, now, nil)
}

// NewWorkspaceServiceWithLogger constructs a WorkspaceService with a specified logger.
func NewWorkspaceServiceWithLogger(workspaces WorkspaceRepository, members MembershipDirectory, roster MemberRoster, pending PendingInvitationLister, resolver *AccessResolver, idGenerator func() string, now func() time.Time, logger *slog.Logger) *WorkspaceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &WorkspaceService{
		workspaces:  workspaces,
		members:     members,
		roster:      roster,
		pending:     pending,
		resolver:    resolver,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *WorkspaceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "WorkspaceService", operation, attrs...)
}

// CreateWorkspace validates input and persists the workspace atomically with
// the creator's ADMIN membership.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, params CreateWorkspaceParams) (Workspace, error) {
	if s == nil {
		return Workspace{}, fmt.Errorf("WorkspaceService is nil")
	}
	if s.workspaces == nil {
		return Workspace{}, fmt.Errorf("workspace repository not configured")
	}
	if !params.Principal.EmailVerified {
		return Workspace{}, ErrEmailNotVerified
	}

	name := strings.TrimSpace(params.Input.Name)
	vErr := &ValidationError{}
	if name == "" {
		vErr.add("name", "name is required")
	}
	timezone, window := normalizeScheduleSettings(params.Input.Timezone, params.Input.ScheduleStartHour, params.Input.ScheduleEndHour, vErr)
	if vErr.HasErrors() {
		return Workspace{}, vErr
	}

	now := s.now()
	workspace := Workspace{
		ID:                s.idGenerator(),
		Name:              name,
		Timezone:          timezone,
		ScheduleStartHour: window.StartHour,
		ScheduleEndHour:   window.EndHour,
		CreatedBy:         params.Principal.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	creator := Member{
		WorkspaceID: workspace.ID,
		UserID:      params.Principal.UserID,
		Role:        RoleAdmin,
		Status:      MemberStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted, err := s.workspaces.CreateWorkspace(ctx, workspace, creator)
	if err != nil {
		return Workspace{}, err
	}

	s.loggerWith(ctx, "CreateWorkspace", "workspace_id", persisted.ID).
		InfoContext(ctx, "workspace created")
	return persisted, nil
}

// ListVisibleWorkspaces returns the workspaces the principal can see: those
// with an ACTIVE membership, plus those holding an open invitation for the
// principal's email. An ACTIVE membership wins when both apply.
func (s *WorkspaceService) ListVisibleWorkspaces(ctx context.Context, principal Principal) ([]VisibleWorkspace, error) {
	if s == nil {
		return nil, fmt.Errorf("WorkspaceService is nil")
	}
	if s.workspaces == nil {
		return nil, fmt.Errorf("workspace repository not configured")
	}
	if !principal.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	if s.resolver != nil {
		s.resolver.Sweep(ctx, "", principal.Email)
	}

	memberOf, err := s.workspaces.ListWorkspacesForUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	visible := make([]VisibleWorkspace, 0, len(memberOf))
	seen := make(map[string]struct{}, len(memberOf))
	for _, workspace := range memberOf {
		access := Access{Level: AccessActiveMember, Role: RoleMember}
		if s.members != nil {
			member, err := s.members.GetMember(ctx, workspace.ID, principal.UserID)
			if err != nil && !isNotFoundError(err) {
				return nil, err
			}
			if err == nil {
				access.Role = member.Role
			}
		}
		visible = append(visible, VisibleWorkspace{Workspace: workspace, Access: access})
		seen[workspace.ID] = struct{}{}
	}

	if s.pending != nil {
		invitations, err := s.pending.ListPendingInvitationsForEmail(ctx, principal.Email, s.now())
		if err != nil {
			return nil, err
		}
		for _, invitation := range invitations {
			if _, ok := seen[invitation.WorkspaceID]; ok {
				continue
			}
			workspace, err := s.workspaces.GetWorkspace(ctx, invitation.WorkspaceID)
			if err != nil {
				if isNotFoundError(err) {
					continue
				}
				return nil, err
			}
			visible = append(visible, VisibleWorkspace{
				Workspace: workspace,
				Access:    Access{Level: AccessPendingInvitation},
			})
			seen[invitation.WorkspaceID] = struct{}{}
		}
	}

	sort.Slice(visible, func(i, j int) bool {
		if visible[i].Workspace.Name == visible[j].Workspace.Name {
			return visible[i].Workspace.ID < visible[j].Workspace.ID
		}
		return visible[i].Workspace.Name < visible[j].Workspace.Name
	})

	return visible, nil
}

// GetWorkspace returns a workspace to one of its active members.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, principal Principal, workspaceID string) (Workspace, error) {
	if s == nil {
		return Workspace{}, fmt.Errorf("WorkspaceService is nil")
	}
	if s.workspaces == nil {
		return Workspace{}, fmt.Errorf("workspace repository not configured")
	}

	if _, err := s.resolver.RequireActiveMember(ctx, principal, workspaceID); err != nil {
		return Workspace{}, err
	}

	workspace, err := s.workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		if isNotFoundError(err) {
			return Workspace{}, ErrWorkspaceNotVisible
		}
		return Workspace{}, err
	}
	return workspace, nil
}

// UpdateScheduleSettings changes the workspace timezone and allowed-hours
// window. Admin only; the timezone must name a valid IANA zone.
func (s *WorkspaceService) UpdateScheduleSettings(ctx context.Context, params UpdateScheduleSettingsParams) (Workspace, error) {
	if s == nil {
		return Workspace{}, fmt.Errorf("WorkspaceService is nil")
	}
	if s.workspaces == nil {
		return Workspace{}, fmt.Errorf("workspace repository not configured")
	}

	if _, err := s.resolver.RequireAdmin(ctx, params.Principal, params.WorkspaceID); err != nil {
		return Workspace{}, err
	}

	vErr := &ValidationError{}
	timezone, window := normalizeScheduleSettings(params.Input.Timezone, params.Input.ScheduleStartHour, params.Input.ScheduleEndHour, vErr)
	if vErr.HasErrors() {
		return Workspace{}, vErr
	}

	workspace, err := s.workspaces.GetWorkspace(ctx, params.WorkspaceID)
	if err != nil {
		if isNotFoundError(err) {
			return Workspace{}, ErrWorkspaceNotVisible
		}
		return Workspace{}, err
	}

	workspace.Timezone = timezone
	workspace.ScheduleStartHour = window.StartHour
	workspace.ScheduleEndHour = window.EndHour
	workspace.UpdatedAt = s.now()

	persisted, err := s.workspaces.UpdateWorkspace(ctx, workspace)
	if err != nil {
		return Workspace{}, err
	}

	s.loggerWith(ctx, "UpdateScheduleSettings", "workspace_id", persisted.ID).
		InfoContext(ctx, "schedule settings updated",
			"timezone", persisted.Timezone,
			"start_hour", persisted.ScheduleStartHour,
			"end_hour", persisted.ScheduleEndHour,
		)
	return persisted, nil
}

// DeleteWorkspace removes the workspace and everything it owns. Admin only.
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, principal Principal, workspaceID string) error {
	if s == nil {
		return fmt.Errorf("WorkspaceService is nil")
	}
	if s.workspaces == nil {
		return fmt.Errorf("workspace repository not configured")
	}

	if _, err := s.resolver.RequireAdmin(ctx, principal, workspaceID); err != nil {
		return err
	}

	if err := s.workspaces.DeleteWorkspace(ctx, workspaceID); err != nil {
		if isNotFoundError(err) {
			return ErrWorkspaceNotVisible
		}
		return err
	}

	s.loggerWith(ctx, "DeleteWorkspace", "workspace_id", workspaceID).
		InfoContext(ctx, "workspace deleted")
	return nil
}

// ListMembers returns the workspace roster to one of its active members.
func (s *WorkspaceService) ListMembers(ctx context.Context, principal Principal, workspaceID string) ([]MemberDetail, error) {
	if s == nil {
		return nil, fmt.Errorf("WorkspaceService is nil")
	}
	if s.roster == nil {
		return nil, fmt.Errorf("member roster not configured")
	}

	if _, err := s.resolver.RequireActiveMember(ctx, principal, workspaceID); err != nil {
		return nil, err
	}

	members, err := s.roster.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].Email < members[j].Email
	})
	return members, nil
}

// Leave deactivates the principal's own membership. The row stays so a later
// re-invitation reactivates it with the prior role preserved.
func (s *WorkspaceService) Leave(ctx context.Context, principal Principal, workspaceID string) error {
	if s == nil {
		return fmt.Errorf("WorkspaceService is nil")
	}
	if s.roster == nil {
		return fmt.Errorf("member roster not configured")
	}

	if _, err := s.resolver.RequireActiveMember(ctx, principal, workspaceID); err != nil {
		return err
	}

	if err := s.roster.UpdateMemberStatus(ctx, workspaceID, principal.UserID, MemberStatusInactive, s.now()); err != nil {
		if isNotFoundError(err) {
			return ErrWorkspaceNotVisible
		}
		return err
	}

	s.loggerWith(ctx, "Leave", "workspace_id", workspaceID, "user_id", principal.UserID).
		InfoContext(ctx, "member left workspace")
	return nil
}

// normalizeScheduleSettings applies defaults and validates the timezone and
// hour window, accumulating problems on vErr. Empty timezone means UTC; a
// zero window means the default business hours.
func normalizeScheduleSettings(timezone string, startHour, endHour int, vErr *ValidationError) (string, booking.Window) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		vErr.add("timezone", "timezone must be a valid IANA zone name")
	}

	window := booking.Window{StartHour: startHour, EndHour: endHour}
	if startHour == 0 && endHour == 0 {
		window = booking.DefaultWindow
	}
	if !window.Valid() {
		vErr.add("schedule_hours", "schedule hours must satisfy 0 <= start < end <= 24")
	}

	return timezone, window
}
