package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// resolveVehicle returns the vehicle id for the plate, inserting a new row
// with the declared type and an "Unknown Owner" placeholder if the plate is
// unseen. A known plate keeps its stored type; the declared type is ignored.
//
// Must be called inside an existing transaction.
func resolveVehicle(ctx context.Context, tx *sql.Tx, plate string, typeID int64, nowMs int64) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
SELECT vehicle_id FROM vehicles WHERE vehicle_number = ?;
`, plate).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("resolveVehicle select: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO vehicles(vehicle_number, type_id, owner_name, created_at_ms)
VALUES (?, ?, 'Unknown Owner', ?);
`, plate, typeID, nowMs)
	if err != nil {
		return 0, fmt.Errorf("resolveVehicle insert: %w", err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolveVehicle last insert id: %w", err)
	}
	return id, nil
}
