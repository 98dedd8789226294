package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlots/parkd/internal/parking/store"
	"github.com/openlots/parkd/internal/parking/types"
)

// BillingService computes the fare for a departing vehicle and closes its
// ledger entry, assignment and slot in one store transaction.
type BillingService struct {
	ledger store.LedgerStore
	alloc  store.AllocationStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewBillingService(ledger store.LedgerStore, alloc store.AllocationStore, logger zerolog.Logger) *BillingService {
	return &BillingService{
		ledger: ledger,
		alloc:  alloc,
		logger: logger,
		now:    time.Now,
	}
}

func (s *BillingService) ProcessExit(ctx context.Context, plate string) (types.ExitResult, error) {
	plate = NormalizePlate(plate)
	if plate == "" {
		return types.ExitResult{}, ErrInvalidPlate
	}

	ticket, err := s.ledger.FindOpenByPlate(ctx, plate)
	if err != nil {
		return types.ExitResult{}, billFail(err)
	}
	if ticket == nil {
		return types.ExitResult{}, ErrNotParked
	}

	exitTime := s.now().UTC()
	minutes := minutesBetween(ticket.EntryTime, exitTime)
	hours := billedHours(minutes)
	amount := hours * ticket.RatePerHourCents

	err = s.alloc.Release(ctx, store.ReleaseRecord{
		LogID:       ticket.LogID,
		VehicleID:   ticket.VehicleID,
		SlotID:      ticket.SlotID,
		ExitTime:    exitTime,
		AmountCents: amount,
	})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrTicketClosed):
		// Closed by a concurrent exit; nothing left to bill.
		return types.ExitResult{}, ErrNotParked
	default:
		return types.ExitResult{}, billFail(err)
	}

	s.logger.Info().
		Str("vehicle", plate).
		Str("slot", ticket.SlotLabel).
		Int64("minutes", minutes).
		Int64("billed_hours", hours).
		Int64("amount_cents", amount).
		Msg("vehicle exited")

	return types.ExitResult{
		VehicleNumber: plate,
		SlotLabel:     ticket.SlotLabel,
		BilledHours:   hours,
		AmountCents:   amount,
		Message: fmt.Sprintf("Vehicle %s exited from slot %s: %d hour(s), %d.%02d",
			plate, ticket.SlotLabel, hours, amount/100, amount%100),
	}, nil
}
