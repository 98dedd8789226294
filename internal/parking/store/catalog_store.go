package store

import "context"

// Slot is one physical parking space. DistanceFromEntry is meters from the
// entry gate and is fixed at creation, as is the vehicle type the slot
// accepts. Occupancy is only ever changed by AllocationStore.Park/Release.
type Slot struct {
	ID                int64
	Number            string
	DistanceFromEntry int
	Occupied          bool
	FloorID           int64
	VehicleTypeID     int64
}

// AvailableSlot is a free slot joined with display names for listings.
type AvailableSlot struct {
	Label             string // "<floor>-<number>", e.g. "G-C1"
	DistanceFromEntry int
	TypeName          string
}

type CatalogStore interface {
	// ListFree returns the free slots that accept the given vehicle type,
	// ordered by distance from entry ascending, then slot id ascending, so
	// the head of the result is always the deterministic nearest pick.
	ListFree(ctx context.Context, vehicleTypeID int64) ([]Slot, error)

	// ListAvailable returns every free slot of any type, nearest first.
	ListAvailable(ctx context.Context) ([]AvailableSlot, error)
}
