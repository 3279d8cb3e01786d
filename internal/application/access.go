package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/workspace-booking/internal/persistence"
)

// MembershipDirectory exposes the membership lookup the resolver needs.
type MembershipDirectory interface {
	GetMember(ctx context.Context, workspaceID, userID string) (Member, error)
}

// InvitationDirectory exposes the invitation reads and the lazy expiry sweep
// the resolver needs. ExpireInvitations flips PENDING rows whose expiry has
// passed to EXPIRED, scoped to the given workspace and/or email; empty scope
// fields are unconstrained.
type InvitationDirectory interface {
	FindPendingInvitation(ctx context.Context, workspaceID, email string, now time.Time) (Invitation, error)
	ExpireInvitations(ctx context.Context, workspaceID, email string, now time.Time) (int64, error)
}

// AccessResolver computes a principal's effective relationship to a
// workspace from membership and invitation state. Every workspace, room, and
// booking operation funnels through it.
type AccessResolver struct {
	members     MembershipDirectory
	invitations InvitationDirectory
	throttle    *sweepThrottle
	now         func() time.Time
	logger      *slog.Logger
}

// NewAccessResolver wires dependencies for relationship resolution.
func NewAccessResolver(members MembershipDirectory, invitations InvitationDirectory, now func() time.Time) *AccessResolver {
	return NewAccessResolverWithLogger(members, invitations, now, nil)
}

// NewAccessResolverWithLogger constructs an AccessResolver with a specified logger.
func NewAccessResolverWithLogger(members MembershipDirectory, invitations InvitationDirectory, now func() time.Time, logger *slog.Logger) *AccessResolver {
	if now == nil {
		now = time.Now
	}
	return &AccessResolver{
		members:     members,
		invitations: invitations,
		throttle:    newSweepThrottle(30*time.Second, 1024, now),
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// Resolve computes the principal's relationship to the workspace. Unverified
// principals fail closed with ErrEmailNotVerified before any workspace state
// is consulted. An ACTIVE membership takes precedence over any invitation
// row. Resolve never errs for a NONE relationship; turning NONE into a
// failure is the guards' job.
func (r *AccessResolver) Resolve(ctx context.Context, principal Principal, workspaceID string) (Access, error) {
	if r == nil {
		return Access{}, fmt.Errorf("AccessResolver is nil")
	}
	if !principal.EmailVerified {
		return Access{}, ErrEmailNotVerified
	}

	r.Sweep(ctx, workspaceID, principal.Email)

	if r.members != nil {
		member, err := r.members.GetMember(ctx, workspaceID, principal.UserID)
		switch {
		case err == nil:
			if member.Status == MemberStatusActive {
				return Access{Level: AccessActiveMember, Role: member.Role}, nil
			}
		case !isNotFoundError(err):
			return Access{}, err
		}
	}

	if r.invitations != nil {
		_, err := r.invitations.FindPendingInvitation(ctx, workspaceID, principal.Email, r.now())
		switch {
		case err == nil:
			return Access{Level: AccessPendingInvitation}, nil
		case !isNotFoundError(err):
			return Access{}, err
		}
	}

	return Access{Level: AccessNone}, nil
}

// RequireActiveMember resolves the relationship and fails unless the
// principal holds an ACTIVE membership. NONE surfaces as
// ErrWorkspaceNotVisible so a workspace the caller cannot see is
// indistinguishable from one that does not exist; a pending-only invitee is
// told the workspace exists but gets ErrUnauthorized.
func (r *AccessResolver) RequireActiveMember(ctx context.Context, principal Principal, workspaceID string) (Access, error) {
	access, err := r.Resolve(ctx, principal, workspaceID)
	if err != nil {
		return Access{}, err
	}

	switch access.Level {
	case AccessActiveMember:
		return access, nil
	case AccessPendingInvitation:
		return Access{}, ErrUnauthorized
	default:
		return Access{}, ErrWorkspaceNotVisible
	}
}

// RequireAdmin is RequireActiveMember narrowed to the ADMIN role.
func (r *AccessResolver) RequireAdmin(ctx context.Context, principal Principal, workspaceID string) (Access, error) {
	access, err := r.RequireActiveMember(ctx, principal, workspaceID)
	if err != nil {
		return Access{}, err
	}
	if access.Role != RoleAdmin {
		return Access{}, ErrUnauthorized
	}
	return access, nil
}

// Sweep runs the lazy expiry sweep for the scope, throttled per scope key.
// Sweep failures are logged and swallowed: every visibility read filters on
// expiresAt independently, so a missed sweep defers bookkeeping without
// admitting an expired invitation.
func (r *AccessResolver) Sweep(ctx context.Context, workspaceID, email string) {
	if r == nil || r.invitations == nil {
		return
	}
	if !r.throttle.Due(sweepKey(workspaceID, email)) {
		return
	}

	swept, err := r.invitations.ExpireInvitations(ctx, workspaceID, email, r.now())
	logger := serviceLogger(ctx, r.logger, "AccessResolver", "Sweep", "workspace_id", workspaceID)
	if err != nil {
		logger.WarnContext(ctx, "invitation expiry sweep failed", "error", err)
		return
	}
	if swept > 0 {
		logger.InfoContext(ctx, "expired stale invitations", "count", swept)
	}
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
