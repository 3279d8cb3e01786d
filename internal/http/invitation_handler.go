package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/workspace-booking/internal/application"
)

type invitationService interface {
	Invite(ctx context.Context, params application.InviteMemberParams) (application.Invitation, error)
	Accept(ctx context.Context, params application.RespondInvitationParams) (application.Invitation, error)
	Reject(ctx context.Context, params application.RespondInvitationParams) (application.Invitation, error)
}

type InvitationHandler struct {
	service   invitationService
	responder responder
	logger    *slog.Logger
}

func NewInvitationHandler(service invitationService, logger *slog.Logger) *InvitationHandler {
	base := defaultLogger(logger)
	return &InvitationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *InvitationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "InvitationHandler", operation, attrs...)
}

func (h *InvitationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	workspaceID, ok := WorkspaceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(workspaceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidWorkspaceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Invite", "principal_id", principal.UserID, "workspace_id", workspaceID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode invitation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Invite", "principal_id", principal.UserID, "workspace_id", workspaceID)

	invitation, err := h.service.Invite(r.Context(), application.InviteMemberParams{
		Principal:   principal,
		WorkspaceID: workspaceID,
		Email:       req.Email,
	})
	if err != nil {
		logServiceFailure(r.Context(), logger, "invitation failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("invitation_id", invitation.ID).InfoContext(r.Context(), "invitation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, invitationResponse{Invitation: toInvitationDTO(invitation)})
}

func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "Accept", h.serviceAccept)
}

func (h *InvitationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "Reject", h.serviceReject)
}

func (h *InvitationHandler) serviceAccept(ctx context.Context, params application.RespondInvitationParams) (application.Invitation, error) {
	return h.service.Accept(ctx, params)
}

func (h *InvitationHandler) serviceReject(ctx context.Context, params application.RespondInvitationParams) (application.Invitation, error) {
	return h.service.Reject(ctx, params)
}

func (h *InvitationHandler) respond(w http.ResponseWriter, r *http.Request, operation string, call func(context.Context, application.RespondInvitationParams) (application.Invitation, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	invitationID, ok := InvitationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(invitationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidInvitationID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), operation, "principal_id", principal.UserID, "invitation_id", invitationID)

	invitation, err := call(r.Context(), application.RespondInvitationParams{
		Principal:    principal,
		InvitationID: invitationID,
	})
	if err != nil {
		logServiceFailure(r.Context(), logger, "invitation response failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("status", string(invitation.Status)).InfoContext(r.Context(), "invitation resolved")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, invitationResponse{Invitation: toInvitationDTO(invitation)})
}

type inviteRequest struct {
	Email string `json:"email"`
}

type invitationResponse struct {
	Invitation invitationDTO `json:"invitation"`
}

type invitationDTO struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	ExpiresAt   string `json:"expires_at"`
	CreatedAt   string `json:"created_at"`
}

func toInvitationDTO(invitation application.Invitation) invitationDTO {
	return invitationDTO{
		ID:          invitation.ID,
		WorkspaceID: invitation.WorkspaceID,
		Email:       invitation.Email,
		Status:      string(invitation.Status),
		ExpiresAt:   invitation.ExpiresAt.UTC().Format(time.RFC3339Nano),
		CreatedAt:   invitation.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
