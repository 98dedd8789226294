package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	dbpkg "github.com/openlots/parkd/internal/db"
	"github.com/openlots/parkd/internal/parking/store"
)

type AllocationStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAllocationStore(db *sql.DB, writer *dbpkg.Worker) *AllocationStore {
	return &AllocationStore{db: db, writer: writer}
}

func (s *AllocationStore) Park(ctx context.Context, rec store.ParkRecord) (store.ParkReceipt, error) {
	entryMs := rec.EntryTime.UTC().UnixMilli()

	var receipt store.ParkReceipt
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Conditional occupancy write: only wins if the slot is still free
		// at commit time.
		res, err := tx.ExecContext(ctx, `
UPDATE parking_slots SET is_occupied = 1
WHERE slot_id = ? AND is_occupied = 0;
`, rec.SlotID)
		if err != nil {
			return fmt.Errorf("Park occupy slot: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("Park occupy rows: %w", err)
		}
		if n == 0 {
			// Distinguish a lost race from an unknown slot id.
			var one int
			err := tx.QueryRowContext(ctx,
				`SELECT 1 FROM parking_slots WHERE slot_id = ?;`, rec.SlotID,
			).Scan(&one)
			if err == sql.ErrNoRows {
				return store.ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("Park check slot: %w", err)
			}
			return store.ErrSlotTaken
		}

		vehicleID, err := resolveVehicle(ctx, tx, rec.PlateNumber, rec.VehicleTypeID, entryMs)
		if err != nil {
			return err
		}

		// Guarded insert: at most one open ledger entry per vehicle. The
		// partial unique index on (vehicle_id) WHERE status='PARKED' is the
		// authoritative backstop.
		res, err = tx.ExecContext(ctx, `
INSERT INTO vehicle_logs(vehicle_id, slot_id, entry_time_ms, status)
SELECT ?, ?, ?, 'PARKED'
WHERE NOT EXISTS (
  SELECT 1 FROM vehicle_logs WHERE vehicle_id = ? AND status = 'PARKED'
);
`, vehicleID, rec.SlotID, entryMs, vehicleID)
		if err != nil {
			return fmt.Errorf("Park insert log: %w", err)
		}
		n, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("Park log rows: %w", err)
		}
		if n == 0 {
			return store.ErrVehicleParked
		}
		logID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("Park log id: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO slot_assignments(vehicle_id, slot_id, assigned_time_ms)
VALUES (?, ?, ?);
`, vehicleID, rec.SlotID, entryMs); err != nil {
			return fmt.Errorf("Park insert assignment: %w", err)
		}

		receipt = store.ParkReceipt{VehicleID: vehicleID, LogID: logID}
		return nil
	})
	if err != nil {
		return store.ParkReceipt{}, err
	}
	return receipt, nil
}

func (s *AllocationStore) Release(ctx context.Context, rec store.ReleaseRecord) error {
	exitMs := rec.ExitTime.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// The closing update must match exactly one open row; this is what
		// makes billing once-only under concurrent exits.
		res, err := tx.ExecContext(ctx, `
UPDATE vehicle_logs
SET exit_time_ms = ?, amount_charged_cents = ?, status = 'EXITED'
WHERE log_id = ? AND status = 'PARKED';
`, exitMs, rec.AmountCents, rec.LogID)
		if err != nil {
			return fmt.Errorf("Release close log: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("Release log rows: %w", err)
		}
		if n == 0 {
			return store.ErrTicketClosed
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE parking_slots SET is_occupied = 0 WHERE slot_id = ?;
`, rec.SlotID); err != nil {
			return fmt.Errorf("Release free slot: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE slot_assignments SET released_time_ms = ?
WHERE vehicle_id = ? AND slot_id = ? AND released_time_ms IS NULL;
`, exitMs, rec.VehicleID, rec.SlotID); err != nil {
			return fmt.Errorf("Release close assignment: %w", err)
		}

		return nil
	})
}
