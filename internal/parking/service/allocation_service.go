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

// maxAssignAttempts bounds how many times Assign re-picks after losing the
// occupancy race to a concurrent allocation.
const maxAssignAttempts = 3

// AllocationService assigns the nearest free compatible slot to an arriving
// vehicle and records the match, all inside one store transaction.
type AllocationService struct {
	catalog store.CatalogStore
	ledger  store.LedgerStore
	alloc   store.AllocationStore
	logger  zerolog.Logger
	now     func() time.Time
}

func NewAllocationService(
	catalog store.CatalogStore,
	ledger store.LedgerStore,
	alloc store.AllocationStore,
	logger zerolog.Logger,
) *AllocationService {
	return &AllocationService{
		catalog: catalog,
		ledger:  ledger,
		alloc:   alloc,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *AllocationService) Assign(ctx context.Context, plate string, vehicleTypeID int64) (types.AssignmentResult, error) {
	plate = NormalizePlate(plate)
	if plate == "" {
		return types.AssignmentResult{}, ErrInvalidPlate
	}
	if vehicleTypeID <= 0 {
		return types.AssignmentResult{}, ErrInvalidVehicleType
	}

	// Friendly pre-check. The guarded insert inside Park still holds the
	// invariant if another terminal parks the same plate between here and
	// the commit.
	open, err := s.ledger.FindOpenByPlate(ctx, plate)
	if err != nil {
		return types.AssignmentResult{}, allocFail(err)
	}
	if open != nil {
		return types.AssignmentResult{}, ErrAlreadyParked
	}

	for attempt := 1; attempt <= maxAssignAttempts; attempt++ {
		free, err := s.catalog.ListFree(ctx, vehicleTypeID)
		if err != nil {
			return types.AssignmentResult{}, allocFail(err)
		}
		if len(free) == 0 {
			return types.AssignmentResult{}, ErrNoSlotAvailable
		}

		// Candidates arrive ordered by distance; the head is the pick.
		nearest := free[0]
		entryTime := s.now().UTC()

		_, err = s.alloc.Park(ctx, store.ParkRecord{
			PlateNumber:   plate,
			VehicleTypeID: vehicleTypeID,
			SlotID:        nearest.ID,
			EntryTime:     entryTime,
		})
		switch {
		case err == nil:
			s.logger.Info().
				Str("vehicle", plate).
				Str("slot", nearest.Number).
				Int("distance_m", nearest.DistanceFromEntry).
				Msg("vehicle parked")
			return types.AssignmentResult{
				VehicleNumber:     plate,
				SlotLabel:         nearest.Number,
				DistanceFromEntry: nearest.DistanceFromEntry,
				Message: fmt.Sprintf("Vehicle %s assigned to slot %s (distance %dm)",
					plate, nearest.Number, nearest.DistanceFromEntry),
			}, nil
		case errors.Is(err, store.ErrSlotTaken):
			// Lost the conditional write; re-query and pick again.
			s.logger.Debug().
				Str("vehicle", plate).
				Str("slot", nearest.Number).
				Int("attempt", attempt).
				Msg("slot taken at commit, retrying")
			continue
		case errors.Is(err, store.ErrVehicleParked):
			return types.AssignmentResult{}, ErrAlreadyParked
		case errors.Is(err, store.ErrNotFound):
			return types.AssignmentResult{}, ErrNotFound
		default:
			return types.AssignmentResult{}, allocFail(err)
		}
	}

	// Every pick lost its race. Report exhaustion instead of double-booking.
	return types.AssignmentResult{}, ErrNoSlotAvailable
}
