package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

// bookNow pins "now" mid-day so same-day-but-elapsed bookings stay legal.
var bookNow = time.Date(2026, time.February, 22, 12, 0, 0, 0, time.UTC)

func newBookingHarness(timezone string) (*memoryStore, *BookingService) {
	store := newMemoryStore()
	workspace := seedWorkspace(store, "ws-1")
	workspace.Timezone = timezone
	store.workspaces["ws-1"] = workspace

	seedMember(store, "ws-1", "user-a", RoleAdmin, MemberStatusActive)
	seedMember(store, "ws-1", "user-b", RoleMember, MemberStatusActive)
	store.rooms["room-1"] = Room{ID: "room-1", WorkspaceID: "ws-1", Name: "Large"}
	store.rooms["room-2"] = Room{ID: "room-2", WorkspaceID: "ws-1", Name: "Small"}

	resolver := NewAccessResolver(store, store, fixedNow(bookNow))
	svc := NewBookingService(store, store, store, resolver, sequentialIDs("bk"), fixedNow(bookNow))
	return store, svc
}

func bookingAt(roomID string, start, end time.Time) BookingInput {
	return BookingInput{
		RoomID:      roomID,
		StartAt:     start,
		EndAt:       end,
		Subject:     "Planning",
		Criticality: CriticalityMedium,
	}
}

func utcSlot(day, startHour, endHour int) (time.Time, time.Time) {
	start := time.Date(2026, time.February, day, startHour, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.February, day, endHour, 0, 0, 0, time.UTC)
	return start, end
}

func TestBookingService_CreateBooking_Validation(t *testing.T) {
	_, svc := newBookingHarness("UTC")
	start, end := utcSlot(23, 10, 11)

	tests := []struct {
		name  string
		input BookingInput
		field string
	}{
		{
			name:  "subject required",
			input: BookingInput{RoomID: "room-1", StartAt: start, EndAt: end, Subject: "   "},
			field: "subject",
		},
		{
			name:  "room required",
			input: BookingInput{StartAt: start, EndAt: end, Subject: "Planning"},
			field: "room_id",
		},
		{
			name:  "start must precede end",
			input: BookingInput{RoomID: "room-1", StartAt: end, EndAt: start, Subject: "Planning"},
			field: "time",
		},
		{
			name:  "criticality must be a known level",
			input: BookingInput{RoomID: "room-1", StartAt: start, EndAt: end, Subject: "Planning", Criticality: "URGENT"},
			field: "criticality",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
				Principal:   verifiedPrincipal("user-a", "a@example.com"),
				WorkspaceID: "ws-1",
				Input:       tt.input,
			})
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tt.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.field, vErr.FieldErrors)
			}
		})
	}
}

func TestBookingService_CreateBooking_Authorization(t *testing.T) {
	t.Run("strangers cannot see the workspace", func(t *testing.T) {
		_, svc := newBookingHarness("UTC")
		start, end := utcSlot(23, 10, 11)

		_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal:   verifiedPrincipal("user-x", "x@example.com"),
			WorkspaceID: "ws-1",
			Input:       bookingAt("room-1", start, end),
		})
		if !errors.Is(err, ErrWorkspaceNotVisible) {
			t.Fatalf("expected ErrWorkspaceNotVisible, got %v", err)
		}
	})

	t.Run("a room from another workspace is missing", func(t *testing.T) {
		store, svc := newBookingHarness("UTC")
		store.workspaces["ws-2"] = Workspace{ID: "ws-2", Name: "Other", Timezone: "UTC", ScheduleStartHour: 8, ScheduleEndHour: 18}
		store.rooms["room-foreign"] = Room{ID: "room-foreign", WorkspaceID: "ws-2", Name: "Elsewhere"}
		start, end := utcSlot(23, 10, 11)

		_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal:   verifiedPrincipal("user-a", "a@example.com"),
			WorkspaceID: "ws-1",
			Input:       bookingAt("room-foreign", start, end),
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBookingService_CreateBooking_Locality(t *testing.T) {
	// 21:30Z-22:30Z is 23:30-00:30 in Paris during summer time: two local
	// calendar dates even though a single UTC date.
	_, svc := newBookingHarness("Europe/Paris")
	start := time.Date(2026, time.June, 22, 21, 30, 0, 0, time.UTC)
	end := time.Date(2026, time.June, 22, 22, 30, 0, 0, time.UTC)

	_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
		Principal:   verifiedPrincipal("user-a", "a@example.com"),
		WorkspaceID: "ws-1",
		Input:       bookingAt("room-1", start, end),
	})
	if !errors.Is(err, ErrBookingMultiDay) {
		t.Fatalf("expected ErrBookingMultiDay, got %v", err)
	}
}

func TestBookingService_CreateBooking_ScheduleWindow(t *testing.T) {
	tests := []struct {
		name      string
		startHour int
		endHour   int
		wantErr   error
	}{
		{name: "inside window", startHour: 10, endHour: 11},
		{name: "ends exactly at window end", startHour: 17, endHour: 18},
		{name: "starts before window", startHour: 7, endHour: 9, wantErr: ErrBookingOutsideHours},
		{name: "runs past window end", startHour: 17, endHour: 19, wantErr: ErrBookingOutsideHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc := newBookingHarness("UTC")
			start, end := utcSlot(23, tt.startHour, tt.endHour)

			_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
				Principal:   verifiedPrincipal("user-a", "a@example.com"),
				WorkspaceID: "ws-1",
				Input:       bookingAt("room-1", start, end),
			})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBookingService_CreateBooking_PastDate(t *testing.T) {
	t.Run("a previous local date is rejected", func(t *testing.T) {
		_, svc := newBookingHarness("UTC")
		start, end := utcSlot(21, 9, 10)

		_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal:   verifiedPrincipal("user-a", "a@example.com"),
			WorkspaceID: "ws-1",
			Input:       bookingAt("room-1", start, end),
		})
		if !errors.Is(err, ErrBookingPastDate) {
			t.Fatalf("expected ErrBookingPastDate, got %v", err)
		}
	})

	t.Run("same day is allowed even after the time of day has passed", func(t *testing.T) {
		// now is 12:00Z; the 09:00-10:00 slot on the same date already
		// elapsed, but the rule is per local date, not per instant.
		_, svc := newBookingHarness("UTC")
		start, end := utcSlot(22, 9, 10)

		if _, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal:   verifiedPrincipal("user-a", "a@example.com"),
			WorkspaceID: "ws-1",
			Input:       bookingAt("room-1", start, end),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestBookingService_CreateBooking_OverlapExclusion(t *testing.T) {
	create := func(t *testing.T, svc *BookingService, userID, roomID string, startHour, endHour int, startMinute, endMinute int) (Booking, error) {
		t.Helper()
		start := time.Date(2026, time.February, 23, startHour, startMinute, 0, 0, time.UTC)
		end := time.Date(2026, time.February, 23, endHour, endMinute, 0, 0, time.UTC)
		return svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal:   verifiedPrincipal(userID, userID+"@example.com"),
			WorkspaceID: "ws-1",
			Input:       bookingAt(roomID, start, end),
		})
	}

	t.Run("overlapping interval on the same room is rejected", func(t *testing.T) {
		_, svc := newBookingHarness("UTC")
		if _, err := create(t, svc, "user-a", "room-1", 10, 11, 0, 0); err != nil {
			t.Fatalf("seed booking: %v", err)
		}
		if _, err := create(t, svc, "user-b", "room-1", 10, 11, 30, 30); !errors.Is(err, ErrBookingOverlap) {
			t.Fatalf("expected ErrBookingOverlap, got %v", err)
		}
	})

	t.Run("touching boundaries do not overlap", func(t *testing.T) {
		_, svc := newBookingHarness("UTC")
		if _, err := create(t, svc, "user-a", "room-1", 10, 11, 0, 0); err != nil {
			t.Fatalf("seed booking: %v", err)
		}
		if _, err := create(t, svc, "user-b", "room-1", 11, 12, 0, 0); err != nil {
			t.Fatalf("touching booking should succeed, got %v", err)
		}
	})

	t.Run("same user cannot double-book across rooms", func(t *testing.T) {
		_, svc := newBookingHarness("UTC")
		if _, err := create(t, svc, "user-a", "room-1", 10, 11, 0, 0); err != nil {
			t.Fatalf("seed booking: %v", err)
		}
		if _, err := create(t, svc, "user-a", "room-2", 10, 11, 30, 30); !errors.Is(err, ErrBookingUserOverlap) {
			t.Fatalf("expected ErrBookingUserOverlap, got %v", err)
		}
	})

	t.Run("another user may take the other room", func(t *testing.T) {
		_, svc := newBookingHarness("UTC")
		if _, err := create(t, svc, "user-a", "room-1", 10, 11, 0, 0); err != nil {
			t.Fatalf("seed booking: %v", err)
		}
		if _, err := create(t, svc, "user-b", "room-2", 10, 11, 0, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

}

func TestBookingService_CancelBooking(t *testing.T) {
	seed := func(t *testing.T) (*memoryStore, *BookingService, Booking) {
		t.Helper()
		store, svc := newBookingHarness("UTC")
		start, end := utcSlot(23, 13, 14)
		booked, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal:   verifiedPrincipal("user-a", "a@example.com"),
			WorkspaceID: "ws-1",
			Input:       bookingAt("room-1", start, end),
		})
		if err != nil {
			t.Fatalf("seed booking: %v", err)
		}
		return store, svc, booked
	}

	t.Run("cancellation frees the interval immediately", func(t *testing.T) {
		_, svc, booked := seed(t)

		if _, err := svc.CancelBooking(context.Background(), CancelBookingParams{
			Principal:   verifiedPrincipal("user-a", "a@example.com"),
			WorkspaceID: "ws-1",
			BookingID:   booked.ID,
		}); err != nil {
			t.Fatalf("CancelBooking: %v", err)
		}

		if _, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal:   verifiedPrincipal("user-b", "b@example.com"),
			WorkspaceID: "ws-1",
			Input:       bookingAt("room-1", booked.StartAt, booked.EndAt),
		}); err != nil {
			t.Fatalf("identical slot after cancel should succeed, got %v", err)
		}
	})

	t.Run("any active member may cancel", func(t *testing.T) {
		_, svc, booked := seed(t)

		cancelled, err := svc.CancelBooking(context.Background(), CancelBookingParams{
			Principal:   verifiedPrincipal("user-b", "b@example.com"),
			WorkspaceID: "ws-1",
			BookingID:   booked.ID,
		})
		if err != nil {
			t.Fatalf("CancelBooking: %v", err)
		}
		if cancelled.Status != BookingStatusCancelled {
			t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
		}
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		_, svc, booked := seed(t)
		params := CancelBookingParams{
			Principal:   verifiedPrincipal("user-a", "a@example.com"),
			WorkspaceID: "ws-1",
			BookingID:   booked.ID,
		}

		if _, err := svc.CancelBooking(context.Background(), params); err != nil {
			t.Fatalf("first cancel: %v", err)
		}
		if _, err := svc.CancelBooking(context.Background(), params); !errors.Is(err, ErrBookingAlreadyCancelled) {
			t.Fatalf("expected ErrBookingAlreadyCancelled, got %v", err)
		}
	})

	t.Run("a booking from another workspace is missing", func(t *testing.T) {
		store, svc, booked := seed(t)
		foreign := booked
		foreign.ID = "bk-foreign"
		foreign.WorkspaceID = "ws-2"
		store.bookings[foreign.ID] = foreign

		_, err := svc.CancelBooking(context.Background(), CancelBookingParams{
			Principal:   verifiedPrincipal("user-a", "a@example.com"),
			WorkspaceID: "ws-1",
			BookingID:   foreign.ID,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBookingService_ListBookings(t *testing.T) {
	store, svc := newBookingHarness("UTC")

	put := func(id, userID string, day, hour int, status BookingStatus) {
		store.bookings[id] = Booking{
			ID:          id,
			WorkspaceID: "ws-1",
			RoomID:      "room-1",
			CreatedBy:   userID,
			StartAt:     time.Date(2026, time.February, day, hour, 0, 0, 0, time.UTC),
			EndAt:       time.Date(2026, time.February, day, hour+1, 0, 0, 0, time.UTC),
			Subject:     "Planning",
			Criticality: CriticalityMedium,
			Status:      status,
		}
	}
	put("bk-mine-today", "user-a", 22, 15, BookingStatusActive)
	put("bk-other-today", "user-b", 22, 16, BookingStatusActive)
	put("bk-mine-past", "user-a", 21, 10, BookingStatusActive)
	put("bk-mine-cancelled", "user-a", 22, 17, BookingStatusCancelled)

	principal := verifiedPrincipal("user-a", "a@example.com")

	ids := func(bookings []Booking) []string {
		out := make([]string, len(bookings))
		for i, b := range bookings {
			out[i] = b.ID
		}
		return out
	}

	tests := []struct {
		name   string
		params ListBookingsParams
		want   []string
	}{
		{
			name:   "default view is own active current bookings",
			params: ListBookingsParams{Principal: principal, WorkspaceID: "ws-1"},
			want:   []string{"bk-mine-today"},
		},
		{
			name:   "all members widens to other creators",
			params: ListBookingsParams{Principal: principal, WorkspaceID: "ws-1", AllMembers: true},
			want:   []string{"bk-mine-today", "bk-other-today"},
		},
		{
			name:   "include past reaches earlier dates",
			params: ListBookingsParams{Principal: principal, WorkspaceID: "ws-1", IncludePast: true},
			want:   []string{"bk-mine-past", "bk-mine-today"},
		},
		{
			name:   "include cancelled keeps soft-deleted rows",
			params: ListBookingsParams{Principal: principal, WorkspaceID: "ws-1", IncludeCancelled: true},
			want:   []string{"bk-mine-today", "bk-mine-cancelled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, err := svc.ListBookings(context.Background(), tt.params)
			if err != nil {
				t.Fatalf("ListBookings: %v", err)
			}
			got := ids(bookings)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}

	t.Run("strangers cannot list", func(t *testing.T) {
		_, err := svc.ListBookings(context.Background(), ListBookingsParams{
			Principal:   verifiedPrincipal("user-x", "x@example.com"),
			WorkspaceID: "ws-1",
		})
		if !errors.Is(err, ErrWorkspaceNotVisible) {
			t.Fatalf("expected ErrWorkspaceNotVisible, got %v", err)
		}
	})
}
