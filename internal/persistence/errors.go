package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrOverlap is returned when the room interval exclusion rejects an insert.
	ErrOverlap = errors.New("persistence: interval overlap")
	// ErrUserOverlap is returned when the creator already holds an active
	// booking overlapping the inserted interval in the same workspace.
	ErrUserOverlap = errors.New("persistence: user interval overlap")
	// ErrAlreadyCancelled is returned when cancelling a booking that is no longer active.
	ErrAlreadyCancelled = errors.New("persistence: already cancelled")
	// ErrForeignKeyViolation is returned when a write references, or is referenced by, missing or dependent rows.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrConstraintViolation is returned when a CHECK constraint rejects a write.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
