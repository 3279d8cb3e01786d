package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/workspace-booking/internal/booking"
	"github.com/example/workspace-booking/internal/persistence"
)

// BookingQuery narrows reservation listings.
type BookingQuery struct {
	WorkspaceID   string
	RoomID        string
	CreatedBy     string
	ActiveOnly    bool
	EndsAfter     *time.Time
	OverlapsStart *time.Time
	OverlapsEnd   *time.Time
}

// BookingRepository captures the persistence interactions for reservations.
// CreateBooking re-checks both overlap rules inside a write-serialized
// transaction; that check is the authoritative exclusion guarantee, and its
// violations surface as the persistence overlap sentinels.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	CancelBooking(ctx context.Context, id string, at time.Time) (Booking, error)
	ListBookings(ctx context.Context, query BookingQuery) ([]Booking, error)
}

// BookingService runs the admission pipeline for room reservations: input
// sanity, membership, same-local-day locality, the schedule window, the
// past-date rule, and overlap exclusion, in that order, short-circuiting at
// the first violation.
type BookingService struct {
	bookings    BookingRepository
	rooms       RoomRepository
	workspaces  WorkspaceDirectory
	resolver    *AccessResolver
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for reservation operations.
func NewBookingService(bookings BookingRepository, rooms RoomRepository, workspaces WorkspaceDirectory, resolver *AccessResolver, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, rooms, workspaces, resolver, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a BookingService with a specified logger.
func NewBookingServiceWithLogger(bookings BookingRepository, rooms RoomRepository, workspaces WorkspaceDirectory, resolver *AccessResolver, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		rooms:       rooms,
		workspaces:  workspaces,
		resolver:    resolver,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBooking validates a proposed reservation against every admission
// rule and persists it with status ACTIVE. The in-service overlap checks are
// a fast reject; the repository repeats them inside its write transaction,
// so a race between two admitted candidates still ends with exactly one row.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (result Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.bookings == nil || s.rooms == nil || s.workspaces == nil {
		err = fmt.Errorf("booking service not configured")
		return
	}

	input := params.Input

	logger := s.loggerWith(ctx, "CreateBooking",
		"workspace_id", params.WorkspaceID,
		"room_id", input.RoomID,
	)
	defer func() {
		if err == nil {
			logger.With("booking_id", result.ID).InfoContext(ctx, "booking created")
			return
		}
		if DomainOutcome(err) {
			logger.InfoContext(ctx, "booking rejected", "error_kind", ErrorKind(err))
			return
		}
		logger.ErrorContext(ctx, "booking failed", "error", err)
	}()

	if vErr := validateBookingInput(params.WorkspaceID, input); vErr.HasErrors() {
		err = vErr
		return
	}
	if input.Criticality == "" {
		input.Criticality = CriticalityMedium
	}

	if _, err = s.resolver.RequireActiveMember(ctx, params.Principal, params.WorkspaceID); err != nil {
		return
	}

	var workspace Workspace
	workspace, err = s.workspaces.GetWorkspace(ctx, params.WorkspaceID)
	if err != nil {
		if isNotFoundError(err) {
			err = ErrWorkspaceNotVisible
		}
		return
	}

	var room Room
	room, err = s.rooms.GetRoom(ctx, input.RoomID)
	if err != nil {
		if isNotFoundError(err) {
			err = ErrNotFound
		}
		return
	}
	if room.WorkspaceID != workspace.ID {
		err = ErrNotFound
		return
	}

	loc, locErr := time.LoadLocation(workspace.Timezone)
	if locErr != nil {
		err = fmt.Errorf("workspace %s has invalid timezone %q: %w", workspace.ID, workspace.Timezone, locErr)
		return
	}

	if !booking.SameLocalDay(input.StartAt, input.EndAt, loc) {
		err = ErrBookingMultiDay
		return
	}

	window := booking.Window{StartHour: workspace.ScheduleStartHour, EndHour: workspace.ScheduleEndHour}
	if !window.Valid() {
		window = booking.DefaultWindow
	}
	if !booking.WithinWindow(input.StartAt, input.EndAt, loc, window) {
		err = ErrBookingOutsideHours
		return
	}

	if booking.BeforePresentDay(input.StartAt, s.now(), loc) {
		err = ErrBookingPastDate
		return
	}

	candidate := Booking{
		ID:          s.idGenerator(),
		WorkspaceID: workspace.ID,
		RoomID:      room.ID,
		CreatedBy:   params.Principal.UserID,
		StartAt:     input.StartAt.UTC(),
		EndAt:       input.EndAt.UTC(),
		Subject:     strings.TrimSpace(input.Subject),
		Criticality: input.Criticality,
		Status:      BookingStatusActive,
	}
	candidate.CreatedAt = s.now()
	candidate.UpdatedAt = candidate.CreatedAt

	if err = s.rejectOverlaps(ctx, candidate); err != nil {
		return
	}

	result, err = s.bookings.CreateBooking(ctx, candidate)
	if err != nil {
		err = mapBookingRepoError(err)
		result = Booking{}
		return
	}
	return
}

// CancelBooking marks a reservation CANCELLED, immediately freeing its
// interval. Any active member of the workspace may cancel, not only the
// creator. Cancelling twice fails.
func (s *BookingService) CancelBooking(ctx context.Context, params CancelBookingParams) (Booking, error) {
	if s == nil {
		return Booking{}, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}

	if _, err := s.resolver.RequireActiveMember(ctx, params.Principal, params.WorkspaceID); err != nil {
		return Booking{}, err
	}

	existing, err := s.bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		if isNotFoundError(err) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, err
	}
	if existing.WorkspaceID != params.WorkspaceID {
		return Booking{}, ErrNotFound
	}

	cancelled, err := s.bookings.CancelBooking(ctx, params.BookingID, s.now())
	if err != nil {
		return Booking{}, mapBookingRepoError(err)
	}

	s.loggerWith(ctx, "CancelBooking",
		"workspace_id", params.WorkspaceID,
		"booking_id", cancelled.ID,
	).InfoContext(ctx, "booking cancelled")
	return cancelled, nil
}

// ListBookings returns reservations visible to the principal. The default
// view is the caller's own ACTIVE reservations from the current local day
// onward; the flags widen it to other members, past days, and cancelled rows.
func (s *BookingService) ListBookings(ctx context.Context, params ListBookingsParams) ([]Booking, error) {
	if s == nil {
		return nil, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil || s.workspaces == nil {
		return nil, fmt.Errorf("booking service not configured")
	}

	if _, err := s.resolver.RequireActiveMember(ctx, params.Principal, params.WorkspaceID); err != nil {
		return nil, err
	}

	query := BookingQuery{
		WorkspaceID: params.WorkspaceID,
		ActiveOnly:  !params.IncludeCancelled,
	}
	if !params.AllMembers {
		query.CreatedBy = params.Principal.UserID
	}
	if !params.IncludePast {
		workspace, err := s.workspaces.GetWorkspace(ctx, params.WorkspaceID)
		if err != nil {
			if isNotFoundError(err) {
				return nil, ErrWorkspaceNotVisible
			}
			return nil, err
		}
		loc, err := time.LoadLocation(workspace.Timezone)
		if err != nil {
			loc = time.UTC
		}
		// Bookings never span local days, so everything ending after the
		// current local midnight started today or later.
		midnight := startOfLocalDay(s.now(), loc)
		query.EndsAfter = &midnight
	}

	bookings, err := s.bookings.ListBookings(ctx, query)
	if err != nil {
		return nil, err
	}

	ordered := make([]Booking, len(bookings))
	copy(ordered, bookings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StartAt.Equal(ordered[j].StartAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].StartAt.Before(ordered[j].StartAt)
	})
	return ordered, nil
}

// rejectOverlaps is the advisory overlap pass: one query window over the
// workspace's ACTIVE reservations, then in-memory conflict detection for the
// room rule and the cross-room user rule.
func (s *BookingService) rejectOverlaps(ctx context.Context, candidate Booking) error {
	existing, err := s.bookings.ListBookings(ctx, BookingQuery{
		WorkspaceID:   candidate.WorkspaceID,
		ActiveOnly:    true,
		OverlapsStart: &candidate.StartAt,
		OverlapsEnd:   &candidate.EndAt,
	})
	if err != nil {
		return err
	}

	reservations := make([]booking.Reservation, 0, len(existing))
	for _, b := range existing {
		reservations = append(reservations, toReservation(b))
	}

	for _, conflict := range booking.DetectConflicts(reservations, toReservation(candidate)) {
		switch conflict.Type {
		case booking.ConflictTypeRoom:
			return ErrBookingOverlap
		case booking.ConflictTypeUser:
			return ErrBookingUserOverlap
		}
	}
	return nil
}

func toReservation(b Booking) booking.Reservation {
	return booking.Reservation{
		ID:        b.ID,
		RoomID:    b.RoomID,
		CreatedBy: b.CreatedBy,
		Interval:  booking.Interval{Start: b.StartAt, End: b.EndAt},
	}
}

func validateBookingInput(workspaceID string, input BookingInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(workspaceID) == "" {
		vErr.add("workspace_id", "workspace id is required")
	}
	if strings.TrimSpace(input.RoomID) == "" {
		vErr.add("room_id", "room id is required")
	}
	if strings.TrimSpace(input.Subject) == "" {
		vErr.add("subject", "subject is required")
	}
	if input.StartAt.IsZero() {
		vErr.add("start_at", "start is required")
	}
	if input.EndAt.IsZero() {
		vErr.add("end_at", "end is required")
	}
	if !input.StartAt.IsZero() && !input.EndAt.IsZero() && !input.StartAt.Before(input.EndAt) {
		vErr.add("time", "start must be before end")
	}
	if input.Criticality != "" && !input.Criticality.Valid() {
		vErr.add("criticality", "criticality must be HIGH, MEDIUM, or LOW")
	}

	return vErr
}

func startOfLocalDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func mapBookingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrOverlap) {
		return ErrBookingOverlap
	}
	if errors.Is(err, persistence.ErrUserOverlap) {
		return ErrBookingUserOverlap
	}
	if errors.Is(err, persistence.ErrAlreadyCancelled) {
		return ErrBookingAlreadyCancelled
	}
	if isNotFoundError(err) {
		return ErrNotFound
	}
	return err
}
