package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openlots/parkd/internal/parking/store"
)

type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) FindOpenByPlate(ctx context.Context, plate string) (*store.OpenTicket, error) {
	var t store.OpenTicket
	var entryMs int64
	err := s.db.QueryRowContext(ctx, `
SELECT vl.log_id, vl.vehicle_id, vl.slot_id,
       f.floor_name || '-' || ps.slot_number,
       vl.entry_time_ms, vt.rate_per_hour_cents
FROM vehicle_logs vl
JOIN vehicles v ON vl.vehicle_id = v.vehicle_id
JOIN parking_slots ps ON vl.slot_id = ps.slot_id
JOIN floors f ON ps.floor_id = f.floor_id
JOIN vehicle_types vt ON v.type_id = vt.type_id
WHERE v.vehicle_number = ? AND vl.status = 'PARKED';
`, plate).Scan(&t.LogID, &t.VehicleID, &t.SlotID, &t.SlotLabel, &entryMs, &t.RatePerHourCents)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindOpenByPlate query: %w", err)
	}
	t.EntryTime = time.UnixMilli(entryMs).UTC()
	return &t, nil
}

func (s *LedgerStore) ListEntries(ctx context.Context) ([]store.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT vl.log_id, v.vehicle_number,
       f.floor_name || '-' || ps.slot_number,
       vl.entry_time_ms, vl.exit_time_ms, vl.amount_charged_cents, vl.status
FROM vehicle_logs vl
JOIN vehicles v ON vl.vehicle_id = v.vehicle_id
JOIN parking_slots ps ON vl.slot_id = ps.slot_id
JOIN floors f ON ps.floor_id = f.floor_id
ORDER BY vl.entry_time_ms DESC, vl.log_id DESC;
`)
	if err != nil {
		return nil, fmt.Errorf("ListEntries query: %w", err)
	}
	defer rows.Close()

	var entries []store.Entry
	for rows.Next() {
		var e store.Entry
		var entryMs int64
		var exitMs sql.NullInt64
		var status string
		if err := rows.Scan(&e.LogID, &e.PlateNumber, &e.SlotLabel, &entryMs, &exitMs, &e.AmountCents, &status); err != nil {
			return nil, fmt.Errorf("ListEntries scan: %w", err)
		}
		e.EntryTime = time.UnixMilli(entryMs).UTC()
		if exitMs.Valid {
			t := time.UnixMilli(exitMs.Int64).UTC()
			e.ExitTime = &t
		}
		e.Status = store.EntryStatus(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
