package db

import (
	"context"
	"database/sql"
	"fmt"
)

type seedSlot struct {
	floor    string
	number   string
	distance int
	typeID   int64
}

// devSlots is a small starter lot: two floors, a mix of slot types, with
// distances spread enough to make the nearest-slot ordering visible.
var devSlots = []seedSlot{
	{"G", "C1", 5, 1},
	{"G", "C2", 12, 1},
	{"G", "C3", 3, 1},
	{"G", "B1", 2, 2},
	{"G", "B2", 8, 2},
	{"G", "T1", 15, 3},
	{"L1", "C4", 20, 1},
	{"L1", "B3", 25, 2},
	{"L1", "T2", 30, 3},
}

// SeedDev inserts the starter floors and slots. Safe to run on every dev
// start; existing rows are left alone.
func SeedDev(ctx context.Context, db *sql.DB) error {
	floors := []string{"G", "L1"}
	for _, name := range floors {
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO floors(floor_name) VALUES (?);`, name); err != nil {
			return fmt.Errorf("seed floor %s: %w", name, err)
		}
	}

	for _, s := range devSlots {
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO parking_slots(slot_number, distance_from_entry, is_occupied, floor_id, type_id)
SELECT ?, ?, 0, floor_id, ?
FROM floors WHERE floor_name = ?;`,
			s.number, s.distance, s.typeID, s.floor); err != nil {
			return fmt.Errorf("seed slot %s-%s: %w", s.floor, s.number, err)
		}
	}

	return nil
}
