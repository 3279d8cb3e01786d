package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newRoomService(store *memoryStore, now time.Time) *RoomService {
	resolver := NewAccessResolver(store, store, fixedNow(now))
	return NewRoomService(store, resolver, sequentialIDs("room"), fixedNow(now))
}

func TestRoomService_CreateRoom(t *testing.T) {
	t.Run("requires workspace admin", func(t *testing.T) {
		store := newMemoryStore()
		seedWorkspace(store, "ws-1")
		seedMember(store, "ws-1", "user-member", RoleMember, MemberStatusActive)
		svc := newRoomService(store, accessNow)

		_, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal:   verifiedPrincipal("user-member", "m@example.com"),
			WorkspaceID: "ws-1",
			Input:       RoomInput{Name: "Large"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects a duplicate name in the workspace", func(t *testing.T) {
		store := newMemoryStore()
		seedWorkspace(store, "ws-1")
		seedMember(store, "ws-1", "user-admin", RoleAdmin, MemberStatusActive)
		store.rooms["room-1"] = Room{ID: "room-1", WorkspaceID: "ws-1", Name: "Large"}
		svc := newRoomService(store, accessNow)

		_, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal:   verifiedPrincipal("user-admin", "a@example.com"),
			WorkspaceID: "ws-1",
			Input:       RoomInput{Name: "Large"},
		})
		if !errors.Is(err, ErrRoomNameTaken) {
			t.Fatalf("expected ErrRoomNameTaken, got %v", err)
		}
	})

	t.Run("persists a trimmed room", func(t *testing.T) {
		store := newMemoryStore()
		seedWorkspace(store, "ws-1")
		seedMember(store, "ws-1", "user-admin", RoleAdmin, MemberStatusActive)
		svc := newRoomService(store, accessNow)

		description := "  whiteboard, projector  "
		room, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal:   verifiedPrincipal("user-admin", "a@example.com"),
			WorkspaceID: "ws-1",
			Input:       RoomInput{Name: "  Large  ", Description: &description},
		})
		if err != nil {
			t.Fatalf("CreateRoom: %v", err)
		}
		if room.Name != "Large" {
			t.Fatalf("expected trimmed name, got %q", room.Name)
		}
		if room.Description == nil || *room.Description != "whiteboard, projector" {
			t.Fatalf("unexpected description: %v", room.Description)
		}
	})
}

func TestRoomService_DeleteRoom(t *testing.T) {
	seed := func() (*memoryStore, *RoomService) {
		store := newMemoryStore()
		seedWorkspace(store, "ws-1")
		seedMember(store, "ws-1", "user-admin", RoleAdmin, MemberStatusActive)
		store.rooms["room-1"] = Room{ID: "room-1", WorkspaceID: "ws-1", Name: "Large"}
		return store, newRoomService(store, accessNow)
	}

	t.Run("blocked while bookings reference the room", func(t *testing.T) {
		store, svc := seed()
		store.bookings["bk-1"] = Booking{ID: "bk-1", WorkspaceID: "ws-1", RoomID: "room-1", Status: BookingStatusActive}

		err := svc.DeleteRoom(context.Background(), verifiedPrincipal("user-admin", "a@example.com"), "ws-1", "room-1")
		if !errors.Is(err, ErrRoomInUse) {
			t.Fatalf("expected ErrRoomInUse, got %v", err)
		}
	})

	t.Run("deletes an unreferenced room", func(t *testing.T) {
		store, svc := seed()

		if err := svc.DeleteRoom(context.Background(), verifiedPrincipal("user-admin", "a@example.com"), "ws-1", "room-1"); err != nil {
			t.Fatalf("DeleteRoom: %v", err)
		}
		if _, ok := store.rooms["room-1"]; ok {
			t.Fatalf("room still present after delete")
		}
	})

	t.Run("a room from another workspace is missing", func(t *testing.T) {
		store, svc := seed()
		store.rooms["room-foreign"] = Room{ID: "room-foreign", WorkspaceID: "ws-2", Name: "Elsewhere"}

		err := svc.DeleteRoom(context.Background(), verifiedPrincipal("user-admin", "a@example.com"), "ws-1", "room-foreign")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRoomService_ListRooms(t *testing.T) {
	store := newMemoryStore()
	seedWorkspace(store, "ws-1")
	seedMember(store, "ws-1", "user-member", RoleMember, MemberStatusActive)
	store.rooms["room-b"] = Room{ID: "room-b", WorkspaceID: "ws-1", Name: "Beta"}
	store.rooms["room-a"] = Room{ID: "room-a", WorkspaceID: "ws-1", Name: "Alpha"}
	store.rooms["room-x"] = Room{ID: "room-x", WorkspaceID: "ws-2", Name: "Other"}
	svc := newRoomService(store, accessNow)

	rooms, err := svc.ListRooms(context.Background(), verifiedPrincipal("user-member", "m@example.com"), "ws-1")
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 2 || rooms[0].Name != "Alpha" || rooms[1].Name != "Beta" {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}
}
