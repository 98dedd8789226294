package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/openlots/parkd/internal/db"
	"github.com/openlots/parkd/internal/parking/store"
)

type VehicleStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewVehicleStore(db *sql.DB, writer *dbpkg.Worker) *VehicleStore {
	return &VehicleStore{db: db, writer: writer}
}

func (s *VehicleStore) Resolve(ctx context.Context, plate string, typeID int64) (store.Vehicle, error) {
	nowMs := time.Now().UTC().UnixMilli()

	var id int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		id, err = resolveVehicle(ctx, tx, plate, typeID, nowMs)
		return err
	})
	if err != nil {
		return store.Vehicle{}, err
	}

	v, err := s.FindByPlate(ctx, plate)
	if err != nil {
		return store.Vehicle{}, err
	}
	if v == nil {
		return store.Vehicle{}, fmt.Errorf("Resolve: vehicle %d vanished after insert", id)
	}
	return *v, nil
}

func (s *VehicleStore) FindByPlate(ctx context.Context, plate string) (*store.Vehicle, error) {
	var v store.Vehicle
	err := s.db.QueryRowContext(ctx, `
SELECT vehicle_id, vehicle_number, type_id, owner_name
FROM vehicles
WHERE vehicle_number = ?;
`, plate).Scan(&v.ID, &v.PlateNumber, &v.VehicleTypeID, &v.OwnerName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByPlate query: %w", err)
	}
	return &v, nil
}
