package store

import "context"

type Vehicle struct {
	ID            int64
	PlateNumber   string
	VehicleTypeID int64
	OwnerName     string
}

type VehicleStore interface {
	// Resolve returns the vehicle for the plate, creating one with the
	// declared type and an "Unknown Owner" placeholder if the plate is
	// unseen. For a known plate the stored type wins and typeID is ignored.
	// Safe to call repeatedly with the same plate; the plate is unique.
	Resolve(ctx context.Context, plate string, typeID int64) (Vehicle, error)

	// FindByPlate returns nil, nil when the plate is unknown.
	FindByPlate(ctx context.Context, plate string) (*Vehicle, error)
}
