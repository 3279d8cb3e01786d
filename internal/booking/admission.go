// Package booking holds the pure reservation admission rules: half-open
// interval overlap, same-local-day locality, schedule windows, and the
// past-date rule. Everything here is side-effect free; persistence-backed
// enforcement lives in the repositories.
package booking

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching boundaries do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Reservation is the slice of a booking relevant to conflict detection.
type Reservation struct {
	ID        string
	RoomID    string
	CreatedBy string
	Interval
}

// ConflictType describes which exclusion rule a candidate reservation violates.
type ConflictType string

const (
	// ConflictTypeRoom indicates the room already holds an overlapping reservation.
	ConflictTypeRoom ConflictType = "room"
	// ConflictTypeUser indicates the creator already holds an overlapping
	// reservation, possibly in another room.
	ConflictTypeUser ConflictType = "user"
)

// Conflict details an overlapping reservation relation.
type Conflict struct {
	WithBookingID string
	Type          ConflictType
	RoomID        string
	UserID        string
}

// DetectConflicts identifies room and user conflicts for the candidate
// against the existing reservations. The candidate itself is skipped when it
// appears in the existing set.
func DetectConflicts(existing []Reservation, candidate Reservation) []Conflict {
	var conflicts []Conflict

	for _, reservation := range existing {
		if reservation.ID == candidate.ID {
			continue
		}
		if !reservation.Overlaps(candidate.Interval) {
			continue
		}

		if reservation.RoomID != "" && reservation.RoomID == candidate.RoomID {
			conflicts = append(conflicts, Conflict{
				WithBookingID: reservation.ID,
				Type:          ConflictTypeRoom,
				RoomID:        reservation.RoomID,
			})
			continue
		}

		if reservation.CreatedBy != "" && reservation.CreatedBy == candidate.CreatedBy {
			conflicts = append(conflicts, Conflict{
				WithBookingID: reservation.ID,
				Type:          ConflictTypeUser,
				RoomID:        reservation.RoomID,
				UserID:        reservation.CreatedBy,
			})
		}
	}

	return conflicts
}

// Window is a workspace's allowed schedule hours, [StartHour, EndHour) with
// 0 <= StartHour < EndHour <= 24.
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow is the business-hours window applied when a workspace does
// not configure its own.
var DefaultWindow = Window{StartHour: 8, EndHour: 18}

// Valid reports whether the window holds a legal hour range.
func (w Window) Valid() bool {
	return w.StartHour >= 0 && w.EndHour <= 24 && w.StartHour < w.EndHour
}

// Contains reports whether both local times-of-day, expressed in minutes from
// local midnight, lie within the window. The end boundary is inclusive: a
// reservation ending exactly at the window's end hour is legal.
func (w Window) Contains(startMinutes, endMinutes int) bool {
	return startMinutes >= w.StartHour*60 && endMinutes <= w.EndHour*60
}

// SameLocalDay reports whether both instants fall on the same calendar date
// in the provided location.
func SameLocalDay(start, end time.Time, loc *time.Location) bool {
	localStart := start.In(loc)
	localEnd := end.In(loc)
	y1, m1, d1 := localStart.Date()
	y2, m2, d2 := localEnd.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// WithinWindow reports whether the reservation's local times-of-day lie
// within the window. Callers are expected to have established locality first;
// the check only inspects times-of-day.
func WithinWindow(start, end time.Time, loc *time.Location, window Window) bool {
	return window.Contains(minutesOfDay(start.In(loc)), minutesOfDay(end.In(loc)))
}

// BeforePresentDay reports whether the reservation's local calendar date lies
// strictly before the current local date. Same-day reservations are never
// past, even when the time-of-day has already elapsed.
func BeforePresentDay(start, now time.Time, loc *time.Location) bool {
	return localMidnight(start, loc).Before(localMidnight(now, loc))
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func localMidnight(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
