package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/workspace-booking/internal/application"
)

type bookingService interface {
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (application.Booking, error)
	CancelBooking(ctx context.Context, params application.CancelBookingParams) (application.Booking, error)
	ListBookings(ctx context.Context, params application.ListBookingsParams) ([]application.Booking, error)
}

type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "workspace_id", workspaceID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "workspace_id", workspaceID)

	booking, err := h.service.CreateBooking(r.Context(), application.CreateBookingParams{
		Principal:   principal,
		WorkspaceID: workspaceID,
		Input:       req.toInput(),
	})
	if err != nil {
		logServiceFailure(r.Context(), logger, "booking rejected", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(booking)})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	workspaceID, ok := WorkspaceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(workspaceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidWorkspaceID)
		return
	}
	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Cancel", "principal_id", principal.UserID, "workspace_id", workspaceID, "booking_id", bookingID)

	booking, err := h.service.CancelBooking(r.Context(), application.CancelBookingParams{
		Principal:   principal,
		WorkspaceID: workspaceID,
		BookingID:   bookingID,
	})
	if err != nil {
		logServiceFailure(r.Context(), logger, "booking cancellation failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toBookingDTO(booking)})
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
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
	params := buildListBookingsParams(r.URL.Query(), principal, workspaceID)
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID, "workspace_id", workspaceID)

	bookings, err := h.service.ListBookings(r.Context(), params)
	if err != nil {
		logServiceFailure(r.Context(), logger, "booking listing failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(bookings)).InfoContext(r.Context(), "bookings listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{Bookings: toBookingDTOs(bookings)})
}

// buildListBookingsParams interprets the listing query flags. The default view
// is the caller's own active reservations from the current local day onward.
func buildListBookingsParams(values url.Values, principal application.Principal, workspaceID string) application.ListBookingsParams {
	params := application.ListBookingsParams{
		Principal:   principal,
		WorkspaceID: workspaceID,
	}

	if view := strings.TrimSpace(values.Get("view")); strings.EqualFold(view, "all") {
		params.AllMembers = true
	}
	params.IncludePast = queryFlag(values, "include_past")
	params.IncludeCancelled = queryFlag(values, "include_cancelled")

	return params
}

func queryFlag(values url.Values, name string) bool {
	switch strings.ToLower(strings.TrimSpace(values.Get(name))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

type bookingRequest struct {
	RoomID      string `json:"room_id"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
	Subject     string `json:"subject"`
	Criticality string `json:"criticality"`
}

func (r bookingRequest) toInput() application.BookingInput {
	return application.BookingInput{
		RoomID:      strings.TrimSpace(r.RoomID),
		StartAt:     parseTime(r.StartAt),
		EndAt:       parseTime(r.EndAt),
		Subject:     strings.TrimSpace(r.Subject),
		Criticality: application.Criticality(strings.ToUpper(strings.TrimSpace(r.Criticality))),
	}
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	return time.Time{}
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type listBookingsResponse struct {
	Bookings []bookingDTO `json:"bookings"`
}

type bookingDTO struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	RoomID      string `json:"room_id"`
	CreatedBy   string `json:"created_by"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
	Subject     string `json:"subject"`
	Criticality string `json:"criticality"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toBookingDTO(booking application.Booking) bookingDTO {
	return bookingDTO{
		ID:          booking.ID,
		WorkspaceID: booking.WorkspaceID,
		RoomID:      booking.RoomID,
		CreatedBy:   booking.CreatedBy,
		StartAt:     booking.StartAt.UTC().Format(time.RFC3339Nano),
		EndAt:       booking.EndAt.UTC().Format(time.RFC3339Nano),
		Subject:     booking.Subject,
		Criticality: string(booking.Criticality),
		Status:      string(booking.Status),
		CreatedAt:   booking.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   booking.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toBookingDTOs(bookings []application.Booking) []bookingDTO {
	if len(bookings) == 0 {
		return nil
	}
	out := make([]bookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		out = append(out, toBookingDTO(booking))
	}
	return out
}
