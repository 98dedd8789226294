package service

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
)

var (
	ErrInvalidPlate       = errors.New("vehicle number is required")
	ErrInvalidVehicleType = errors.New("vehicle type id is required")

	// ErrAlreadyParked: the plate already has an open ledger entry.
	ErrAlreadyParked = errors.New("vehicle is already parked")

	// ErrNoSlotAvailable: no free slot of the requested type, or every pick
	// lost its commit race.
	ErrNoSlotAvailable = errors.New("no available slots for this vehicle type")

	// ErrNotParked: the plate has no open ledger entry to bill.
	ErrNotParked = errors.New("vehicle is not currently parked")

	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable: the store connection is gone. Not retried here;
	// the caller owns reconnection.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// AllocationError wraps a store or transaction failure during slot
// assignment. The transaction has been rolled back: the slot is unoccupied
// and no ledger or assignment rows persisted.
type AllocationError struct {
	Err error
}

func (e *AllocationError) Error() string { return "allocation failed: " + e.Err.Error() }
func (e *AllocationError) Unwrap() error { return e.Err }

// BillingError wraps a store or transaction failure during exit processing.
// The ledger entry remains open and the slot remains occupied.
type BillingError struct {
	Err error
}

func (e *BillingError) Error() string { return "billing failed: " + e.Err.Error() }
func (e *BillingError) Unwrap() error { return e.Err }

func allocFail(err error) error {
	if isConnLost(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &AllocationError{Err: err}
}

func billFail(err error) error {
	if isConnLost(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &BillingError{Err: err}
}

func isConnLost(err error) bool {
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone)
}
