package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/workspace-booking/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool        *sqlite.ConnectionPool
	Users       *sqlite.UserRepository
	Sessions    *sqlite.SessionRepository
	Workspaces  *sqlite.WorkspaceRepository
	Invitations *sqlite.InvitationRepository
	Rooms       *sqlite.RoomRepository
	Bookings    *sqlite.BookingRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "booking.db")

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultDSN(path))
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:        pool,
		Users:       sqlite.NewUserRepository(pool),
		Sessions:    sqlite.NewSessionRepository(pool),
		Workspaces:  sqlite.NewWorkspaceRepository(pool),
		Invitations: sqlite.NewInvitationRepository(pool),
		Rooms:       sqlite.NewRoomRepository(pool),
		Bookings:    sqlite.NewBookingRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
