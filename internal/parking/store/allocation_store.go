package store

import (
	"context"
	"time"
)

// ParkRecord describes one park transaction.
type ParkRecord struct {
	PlateNumber   string
	VehicleTypeID int64
	SlotID        int64
	EntryTime     time.Time
}

// ParkReceipt reports the rows created by a successful park transaction.
type ParkReceipt struct {
	VehicleID int64
	LogID     int64
}

// ReleaseRecord describes one exit transaction.
type ReleaseRecord struct {
	LogID       int64
	VehicleID   int64
	SlotID      int64
	ExitTime    time.Time
	AmountCents int64
}

// AllocationStore performs the two atomic read-modify-write operations of
// the engine. Each call is a single transaction: every row change commits
// together or not at all, and occupancy is only ever flipped here.
type AllocationStore interface {
	// Park marks the slot occupied, resolves or creates the vehicle, opens
	// a PARKED ledger entry and an open assignment record. The occupancy
	// write is conditional: ErrSlotTaken if the slot was occupied at commit
	// time, ErrVehicleParked if the vehicle already has an open entry,
	// ErrNotFound if the slot id is unknown. On any error nothing persists.
	Park(ctx context.Context, rec ParkRecord) (ParkReceipt, error)

	// Release closes the ledger entry with the exit time and amount, frees
	// the slot and closes the open assignment. The ledger-closing update
	// must match exactly one open row; ErrTicketClosed otherwise.
	Release(ctx context.Context, rec ReleaseRecord) error
}
