package store

import "errors"

// Sentinel errors reported by store implementations. The service layer maps
// these onto its public error taxonomy.
var (
	// ErrNotFound means a slot or vehicle id was unknown to the store.
	ErrNotFound = errors.New("not found")

	// ErrSlotTaken means the conditional occupancy write lost: the slot was
	// no longer free when the park transaction tried to commit.
	ErrSlotTaken = errors.New("slot already occupied")

	// ErrVehicleParked means the vehicle already has an open ledger entry.
	ErrVehicleParked = errors.New("vehicle already has an open ledger entry")

	// ErrTicketClosed means the ledger entry was no longer open when the
	// release transaction tried to close it.
	ErrTicketClosed = errors.New("ledger entry already closed")
)
