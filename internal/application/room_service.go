package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/workspace-booking/internal/persistence"
)

// RoomRepository captures the persistence interactions for rooms. DeleteRoom
// fails while bookings still reference the room.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	ListRooms(ctx context.Context, workspaceID string) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// RoomService orchestrates validation and authorization for room management.
type RoomService struct {
	rooms       RoomRepository
	resolver    *AccessResolver
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService wires dependencies for room operations.
func NewRoomService(rooms RoomRepository, resolver *AccessResolver, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, resolver, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a RoomService with a specified logger.
func NewRoomServiceWithLogger(rooms RoomRepository, resolver *AccessResolver, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:       rooms,
		resolver:    resolver,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom adds a room to the workspace. Admin only; the name must be
// unique within the workspace.
func (s *RoomService) CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error) {
	if s == nil {
		return Room{}, fmt.Errorf("RoomService is nil")
	}
	if s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}

	if _, err := s.resolver.RequireAdmin(ctx, params.Principal, params.WorkspaceID); err != nil {
		return Room{}, err
	}

	input, vErr := normalizeRoomInput(params.Input)
	if vErr.HasErrors() {
		return Room{}, vErr
	}

	now := s.now()
	room := Room{
		ID:          s.idGenerator(),
		WorkspaceID: params.WorkspaceID,
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted, err := s.rooms.CreateRoom(ctx, room)
	if err != nil {
		return Room{}, mapRoomRepoError(err)
	}

	s.loggerWith(ctx, "CreateRoom", "workspace_id", params.WorkspaceID, "room_id", persisted.ID).
		InfoContext(ctx, "room created")
	return persisted, nil
}

// UpdateRoom renames or re-describes a room. Admin only.
func (s *RoomService) UpdateRoom(ctx context.Context, params UpdateRoomParams) (Room, error) {
	if s == nil {
		return Room{}, fmt.Errorf("RoomService is nil")
	}
	if s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}

	if _, err := s.resolver.RequireAdmin(ctx, params.Principal, params.WorkspaceID); err != nil {
		return Room{}, err
	}

	existing, err := s.roomInWorkspace(ctx, params.WorkspaceID, params.RoomID)
	if err != nil {
		return Room{}, err
	}

	input, vErr := normalizeRoomInput(params.Input)
	if vErr.HasErrors() {
		return Room{}, vErr
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.UpdatedAt = s.now()

	persisted, err := s.rooms.UpdateRoom(ctx, existing)
	if err != nil {
		return Room{}, mapRoomRepoError(err)
	}
	return persisted, nil
}

// ListRooms returns the workspace's rooms to any active member.
func (s *RoomService) ListRooms(ctx context.Context, principal Principal, workspaceID string) ([]Room, error) {
	if s == nil {
		return nil, fmt.Errorf("RoomService is nil")
	}
	if s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}

	if _, err := s.resolver.RequireActiveMember(ctx, principal, workspaceID); err != nil {
		return nil, err
	}

	rooms, err := s.rooms.ListRooms(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Name == rooms[j].Name {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].Name < rooms[j].Name
	})
	return rooms, nil
}

// DeleteRoom removes a room. Admin only; blocked while bookings reference it.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, workspaceID, roomID string) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	if _, err := s.resolver.RequireAdmin(ctx, principal, workspaceID); err != nil {
		return err
	}

	if _, err := s.roomInWorkspace(ctx, workspaceID, roomID); err != nil {
		return err
	}

	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		return mapRoomRepoError(err)
	}

	s.loggerWith(ctx, "DeleteRoom", "workspace_id", workspaceID, "room_id", roomID).
		InfoContext(ctx, "room deleted")
	return nil
}

// roomInWorkspace loads a room and proves it belongs to the workspace. A
// room from another workspace is reported as missing.
func (s *RoomService) roomInWorkspace(ctx context.Context, workspaceID, roomID string) (Room, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if isNotFoundError(err) {
			return Room{}, ErrNotFound
		}
		return Room{}, err
	}
	if room.WorkspaceID != workspaceID {
		return Room{}, ErrNotFound
	}
	return room, nil
}

func normalizeRoomInput(input RoomInput) (RoomInput, *ValidationError) {
	vErr := &ValidationError{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr.add("name", "name is required")
	}

	description := input.Description
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed == "" {
			description = nil
		} else {
			description = &trimmed
		}
	}

	return RoomInput{Name: name, Description: description}, vErr
}

func mapRoomRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrRoomNameTaken
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return ErrRoomInUse
	}
	if isNotFoundError(err) {
		return ErrNotFound
	}
	return err
}
