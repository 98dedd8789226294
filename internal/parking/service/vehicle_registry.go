package service

import (
	"context"
	"strings"

	"github.com/openlots/parkd/internal/parking/store"
	"github.com/openlots/parkd/internal/parking/types"
)

// VehicleRegistry maps plate numbers to vehicle identities, creating one on
// first sight.
type VehicleRegistry struct {
	store store.VehicleStore
}

func NewVehicleRegistry(st store.VehicleStore) *VehicleRegistry {
	return &VehicleRegistry{store: st}
}

// NormalizePlate canonicalizes a plate for lookup: trimmed, uppercased.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// Resolve returns the vehicle for the plate, creating it with the declared
// type if unseen. For a known plate the stored type wins: a returning
// vehicle declaring a different type keeps its original registration.
func (r *VehicleRegistry) Resolve(ctx context.Context, plate string, typeID int64) (types.VehicleInfo, error) {
	plate = NormalizePlate(plate)
	if plate == "" {
		return types.VehicleInfo{}, ErrInvalidPlate
	}
	if typeID <= 0 {
		return types.VehicleInfo{}, ErrInvalidVehicleType
	}

	v, err := r.store.Resolve(ctx, plate, typeID)
	if err != nil {
		return types.VehicleInfo{}, err
	}
	return vehicleInfo(v), nil
}

// Lookup returns the registered vehicle for the plate, or ErrNotFound.
func (r *VehicleRegistry) Lookup(ctx context.Context, plate string) (types.VehicleInfo, error) {
	plate = NormalizePlate(plate)
	if plate == "" {
		return types.VehicleInfo{}, ErrInvalidPlate
	}

	v, err := r.store.FindByPlate(ctx, plate)
	if err != nil {
		return types.VehicleInfo{}, err
	}
	if v == nil {
		return types.VehicleInfo{}, ErrNotFound
	}
	return vehicleInfo(*v), nil
}

func vehicleInfo(v store.Vehicle) types.VehicleInfo {
	return types.VehicleInfo{
		VehicleID:     v.ID,
		VehicleNumber: v.PlateNumber,
		VehicleTypeID: v.VehicleTypeID,
		OwnerName:     v.OwnerName,
	}
}
