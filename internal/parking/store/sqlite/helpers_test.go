package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/openlots/parkd/internal/db"
)

// openTestDB returns an in-memory SQLite connection with the same PRAGMAs
// and schema as production. The connection is closed automatically when the
// test finishes.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Each call gets a unique in-memory database. The shared-cache URI keeps
	// the database alive for the lifetime of the connection pool.
	dsn := fmt.Sprintf(
		"file:test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		t.Name(),
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("openTestDB: sql.Open: %v", err)
	}

	// Match production: single connection for SQLite safety.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: ping: %v", err)
	}

	// Apply the same migrations as production.
	if err := db.Migrate(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: migrate: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// newTestWriter returns a db.Worker backed by conn. The worker is closed
// automatically when the test finishes.
func newTestWriter(t *testing.T, conn *sql.DB) *db.Worker {
	t.Helper()

	w := db.NewWorker(conn)
	t.Cleanup(func() { w.Close() })
	return w
}

// seedFloor inserts a floor (if missing) and returns its id.
func seedFloor(t *testing.T, conn *sql.DB, name string) int64 {
	t.Helper()

	if _, err := conn.Exec(`INSERT OR IGNORE INTO floors(floor_name) VALUES (?);`, name); err != nil {
		t.Fatalf("seedFloor insert: %v", err)
	}

	var id int64
	if err := conn.QueryRow(`SELECT floor_id FROM floors WHERE floor_name = ?;`, name).Scan(&id); err != nil {
		t.Fatalf("seedFloor select: %v", err)
	}
	return id
}

// seedSlot inserts a free slot on the given floor and returns its id.
func seedSlot(t *testing.T, conn *sql.DB, floor, number string, distance int, typeID int64) int64 {
	t.Helper()

	floorID := seedFloor(t, conn, floor)
	res, err := conn.Exec(`
INSERT INTO parking_slots(slot_number, distance_from_entry, is_occupied, floor_id, type_id)
VALUES (?, ?, 0, ?, ?);`, number, distance, floorID, typeID)
	if err != nil {
		t.Fatalf("seedSlot insert: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seedSlot id: %v", err)
	}
	return id
}
