package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openlots/parkd/internal/parking/store"
)

type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) ListFree(ctx context.Context, vehicleTypeID int64) ([]store.Slot, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT slot_id, slot_number, distance_from_entry, is_occupied, floor_id, type_id
FROM parking_slots
WHERE is_occupied = 0 AND type_id = ?
ORDER BY distance_from_entry, slot_id;
`, vehicleTypeID)
	if err != nil {
		return nil, fmt.Errorf("ListFree query: %w", err)
	}
	defer rows.Close()

	var slots []store.Slot
	for rows.Next() {
		var sl store.Slot
		var occupied int
		if err := rows.Scan(&sl.ID, &sl.Number, &sl.DistanceFromEntry, &occupied, &sl.FloorID, &sl.VehicleTypeID); err != nil {
			return nil, fmt.Errorf("ListFree scan: %w", err)
		}
		sl.Occupied = occupied == 1
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

func (s *CatalogStore) ListAvailable(ctx context.Context) ([]store.AvailableSlot, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT f.floor_name || '-' || ps.slot_number, ps.distance_from_entry, vt.name
FROM parking_slots ps
JOIN floors f ON ps.floor_id = f.floor_id
JOIN vehicle_types vt ON ps.type_id = vt.type_id
WHERE ps.is_occupied = 0
ORDER BY ps.distance_from_entry, ps.slot_id;
`)
	if err != nil {
		return nil, fmt.Errorf("ListAvailable query: %w", err)
	}
	defer rows.Close()

	var slots []store.AvailableSlot
	for rows.Next() {
		var sl store.AvailableSlot
		if err := rows.Scan(&sl.Label, &sl.DistanceFromEntry, &sl.TypeName); err != nil {
			return nil, fmt.Errorf("ListAvailable scan: %w", err)
		}
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}
