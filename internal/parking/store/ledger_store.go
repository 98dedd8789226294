package store

import (
	"context"
	"time"
)

type EntryStatus string

const (
	StatusParked EntryStatus = "PARKED"
	StatusExited EntryStatus = "EXITED"
)

// OpenTicket is an open ledger entry joined with everything the billing
// engine needs to close it: the slot's display label and the hourly rate
// keyed by the vehicle's type.
type OpenTicket struct {
	LogID            int64
	VehicleID        int64
	SlotID           int64
	SlotLabel        string
	EntryTime        time.Time
	RatePerHourCents int64
}

// Entry is one park-to-exit ledger record as shown in the logs view.
type Entry struct {
	LogID       int64
	PlateNumber string
	SlotLabel   string
	EntryTime   time.Time
	ExitTime    *time.Time
	AmountCents int64
	Status      EntryStatus
}

type LedgerStore interface {
	// FindOpenByPlate returns the single open ledger entry for the plate,
	// or nil, nil when the vehicle is not parked.
	FindOpenByPlate(ctx context.Context, plate string) (*OpenTicket, error)

	// ListEntries returns every ledger entry, newest entry time first.
	ListEntries(ctx context.Context) ([]Entry, error)
}
