package memory

import (
	"time"

	"github.com/openlots/parkd/internal/parking/store"
)

// Test-only inspection and setup helpers.

// SlotOccupied reports the occupancy flag of the slot with the given id.
func (s *Store) SlotOccupied(slotID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.slotByID(slotID)
	return sl != nil && sl.Occupied
}

// OpenAssignments counts assignment records with no released time.
func (s *Store) OpenAssignments() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, a := range s.assignments {
		if a.releasedTime == nil {
			n++
		}
	}
	return n
}

// BackdateOpenEntry rewrites the entry time of the plate's open ledger entry,
// letting tests simulate a stay of a chosen length.
func (s *Store) BackdateOpenEntry(plate string, entryTime time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[plate]
	if !ok {
		return false
	}
	for _, e := range s.logs {
		if e.vehicleID == v.ID && e.status == store.StatusParked {
			e.entryTime = entryTime.UTC()
			return true
		}
	}
	return false
}
