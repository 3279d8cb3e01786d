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

type workspaceService interface {
	CreateWorkspace(ctx context.Context, params application.CreateWorkspaceParams) (application.Workspace, error)
	ListVisibleWorkspaces(ctx context.Context, principal application.Principal) ([]application.VisibleWorkspace, error)
	GetWorkspace(ctx context.Context, principal application.Principal, workspaceID string) (application.Workspace, error)
	UpdateScheduleSettings(ctx context.Context, params application.UpdateScheduleSettingsParams) (application.Workspace, error)
	DeleteWorkspace(ctx context.Context, principal application.Principal, workspaceID string) error
	ListMembers(ctx context.Context, principal application.Principal, workspaceID string) ([]application.MemberDetail, error)
	Leave(ctx context.Context, principal application.Principal, workspaceID string) error
}

type WorkspaceHandler struct {
	service   workspaceService
	responder responder
	logger    *slog.Logger
}

func NewWorkspaceHandler(service workspaceService, logger *slog.Logger) *WorkspaceHandler {
	base := defaultLogger(logger)
	return &WorkspaceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *WorkspaceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "WorkspaceHandler", operation, attrs...)
}

func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req workspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode workspace request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	workspace, err := h.service.CreateWorkspace(r.Context(), application.CreateWorkspaceParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logServiceFailure(r.Context(), logger, "workspace creation failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("workspace_id", workspace.ID).InfoContext(r.Context(), "workspace created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, workspaceResponse{Workspace: toWorkspaceDTO(workspace)})
}

func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	visible, err := h.service.ListVisibleWorkspaces(r.Context(), principal)
	if err != nil {
		logServiceFailure(r.Context(), logger, "workspace listing failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(visible)).InfoContext(r.Context(), "workspaces listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listWorkspacesResponse{Workspaces: toVisibleWorkspaceDTOs(visible)})
}

func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	logger := h.log(r.Context(), "Get", "principal_id", principal.UserID, "workspace_id", workspaceID)

	workspace, err := h.service.GetWorkspace(r.Context(), principal, workspaceID)
	if err != nil {
		logServiceFailure(r.Context(), logger, "workspace lookup failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, workspaceResponse{Workspace: toWorkspaceDTO(workspace)})
}

func (h *WorkspaceHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
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

	var req scheduleSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateSettings", "principal_id", principal.UserID, "workspace_id", workspaceID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode settings request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateSettings", "principal_id", principal.UserID, "workspace_id", workspaceID)

	workspace, err := h.service.UpdateScheduleSettings(r.Context(), application.UpdateScheduleSettingsParams{
		Principal:   principal,
		WorkspaceID: workspaceID,
		Input: application.ScheduleSettingsInput{
			Timezone:          strings.TrimSpace(req.Timezone),
			ScheduleStartHour: req.ScheduleStartHour,
			ScheduleEndHour:   req.ScheduleEndHour,
		},
	})
	if err != nil {
		logServiceFailure(r.Context(), logger, "settings update failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "schedule settings updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, workspaceResponse{Workspace: toWorkspaceDTO(workspace)})
}

func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "workspace_id", workspaceID)

	if err := h.service.DeleteWorkspace(r.Context(), principal, workspaceID); err != nil {
		logServiceFailure(r.Context(), logger, "workspace delete failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "workspace deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *WorkspaceHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
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
	logger := h.log(r.Context(), "ListMembers", "principal_id", principal.UserID, "workspace_id", workspaceID)

	members, err := h.service.ListMembers(r.Context(), principal, workspaceID)
	if err != nil {
		logServiceFailure(r.Context(), logger, "member listing failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(members)).InfoContext(r.Context(), "members listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMembersResponse{Members: toMemberDTOs(members)})
}

func (h *WorkspaceHandler) Leave(w http.ResponseWriter, r *http.Request) {
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
	logger := h.log(r.Context(), "Leave", "principal_id", principal.UserID, "workspace_id", workspaceID)

	if err := h.service.Leave(r.Context(), principal, workspaceID); err != nil {
		logServiceFailure(r.Context(), logger, "leaving workspace failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "member left workspace")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type workspaceRequest struct {
	Name              string `json:"name"`
	Timezone          string `json:"timezone"`
	ScheduleStartHour int    `json:"schedule_start_hour"`
	ScheduleEndHour   int    `json:"schedule_end_hour"`
}

func (r workspaceRequest) toInput() application.WorkspaceInput {
	return application.WorkspaceInput{
		Name:              strings.TrimSpace(r.Name),
		Timezone:          strings.TrimSpace(r.Timezone),
		ScheduleStartHour: r.ScheduleStartHour,
		ScheduleEndHour:   r.ScheduleEndHour,
	}
}

type scheduleSettingsRequest struct {
	Timezone          string `json:"timezone"`
	ScheduleStartHour int    `json:"schedule_start_hour"`
	ScheduleEndHour   int    `json:"schedule_end_hour"`
}

type workspaceResponse struct {
	Workspace workspaceDTO `json:"workspace"`
}

type listWorkspacesResponse struct {
	Workspaces []visibleWorkspaceDTO `json:"workspaces"`
}

type listMembersResponse struct {
	Members []memberDTO `json:"members"`
}

type workspaceDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Timezone          string `json:"timezone"`
	ScheduleStartHour int    `json:"schedule_start_hour"`
	ScheduleEndHour   int    `json:"schedule_end_hour"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type visibleWorkspaceDTO struct {
	Workspace workspaceDTO `json:"workspace"`
	Access    string       `json:"access"`
	Role      string       `json:"role,omitempty"`
}

type memberDTO struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	JoinedAt    string `json:"joined_at"`
}

func toWorkspaceDTO(workspace application.Workspace) workspaceDTO {
	return workspaceDTO{
		ID:                workspace.ID,
		Name:              workspace.Name,
		Timezone:          workspace.Timezone,
		ScheduleStartHour: workspace.ScheduleStartHour,
		ScheduleEndHour:   workspace.ScheduleEndHour,
		CreatedAt:         workspace.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:         workspace.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toVisibleWorkspaceDTOs(visible []application.VisibleWorkspace) []visibleWorkspaceDTO {
	if len(visible) == 0 {
		return nil
	}
	out := make([]visibleWorkspaceDTO, 0, len(visible))
	for _, entry := range visible {
		dto := visibleWorkspaceDTO{
			Workspace: toWorkspaceDTO(entry.Workspace),
			Access:    string(entry.Access.Level),
		}
		if entry.Access.Level == application.AccessActiveMember {
			dto.Role = string(entry.Access.Role)
		}
		out = append(out, dto)
	}
	return out
}

func toMemberDTOs(members []application.MemberDetail) []memberDTO {
	if len(members) == 0 {
		return nil
	}
	out := make([]memberDTO, 0, len(members))
	for _, member := range members {
		out = append(out, memberDTO{
			UserID:      member.UserID,
			Email:       member.Email,
			DisplayName: member.DisplayName,
			Role:        string(member.Role),
			Status:      string(member.Status),
			JoinedAt:    member.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return out
}
