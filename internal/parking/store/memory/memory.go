// Package memory holds an in-memory implementation of the parking store
// interfaces, intended for tests and dev environments. A single mutex stands
// in for the SQLite transaction boundary: each operation either completes
// fully or leaves no trace.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openlots/parkd/internal/parking/store"
)

// Rates mirror the vehicle_types rows seeded by migration 0001.
var typeInfo = map[int64]struct {
	Name      string
	RateCents int64
}{
	1: {"CAR", 2000},
	2: {"BIKE", 1000},
	3: {"TRUCK", 3000},
}

// SlotConfig seeds one slot. Slot ids are assigned in config order starting
// at 1, which also fixes the distance tie-break.
type SlotConfig struct {
	Number            string
	FloorName         string
	DistanceFromEntry int
	VehicleTypeID     int64
}

type slot struct {
	store.Slot
	floorName string
}

type entry struct {
	logID       int64
	vehicleID   int64
	slotID      int64
	entryTime   time.Time
	exitTime    *time.Time
	amountCents int64
	status      store.EntryStatus
}

type assignment struct {
	vehicleID    int64
	slotID       int64
	assignedTime time.Time
	releasedTime *time.Time
}

type Store struct {
	mu          sync.Mutex
	slots       []*slot
	vehicles    map[string]*store.Vehicle // keyed by plate
	nextVehicle int64
	logs        []*entry
	nextLog     int64
	assignments []*assignment
}

func NewStore(slots []SlotConfig) *Store {
	s := &Store{
		vehicles:    make(map[string]*store.Vehicle),
		nextVehicle: 1,
		nextLog:     1,
	}
	for i, cfg := range slots {
		s.slots = append(s.slots, &slot{
			Slot: store.Slot{
				ID:                int64(i + 1),
				Number:            cfg.Number,
				DistanceFromEntry: cfg.DistanceFromEntry,
				VehicleTypeID:     cfg.VehicleTypeID,
			},
			floorName: cfg.FloorName,
		})
	}
	return s
}

// CatalogStore

func (s *Store) ListFree(_ context.Context, vehicleTypeID int64) ([]store.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.Slot
	for _, sl := range s.slots {
		if !sl.Occupied && sl.VehicleTypeID == vehicleTypeID {
			out = append(out, sl.Slot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceFromEntry < out[j].DistanceFromEntry
	})
	return out, nil
}

func (s *Store) ListAvailable(_ context.Context) ([]store.AvailableSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var free []*slot
	for _, sl := range s.slots {
		if !sl.Occupied {
			free = append(free, sl)
		}
	}
	sort.SliceStable(free, func(i, j int) bool {
		return free[i].DistanceFromEntry < free[j].DistanceFromEntry
	})

	out := make([]store.AvailableSlot, 0, len(free))
	for _, sl := range free {
		out = append(out, store.AvailableSlot{
			Label:             sl.floorName + "-" + sl.Number,
			DistanceFromEntry: sl.DistanceFromEntry,
			TypeName:          typeInfo[sl.VehicleTypeID].Name,
		})
	}
	return out, nil
}

// VehicleStore

func (s *Store) Resolve(_ context.Context, plate string, typeID int64) (store.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked(plate, typeID), nil
}

func (s *Store) FindByPlate(_ context.Context, plate string) (*store.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[plate]
	if !ok {
		return nil, nil
	}
	out := *v
	return &out, nil
}

// resolveLocked keeps the stored type for a known plate; the declared type
// only applies on first sight.
func (s *Store) resolveLocked(plate string, typeID int64) store.Vehicle {
	if v, ok := s.vehicles[plate]; ok {
		return *v
	}
	v := &store.Vehicle{
		ID:            s.nextVehicle,
		PlateNumber:   plate,
		VehicleTypeID: typeID,
		OwnerName:     "Unknown Owner",
	}
	s.nextVehicle++
	s.vehicles[plate] = v
	return *v
}

// LedgerStore

func (s *Store) FindOpenByPlate(_ context.Context, plate string) (*store.OpenTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[plate]
	if !ok {
		return nil, nil
	}
	for _, e := range s.logs {
		if e.vehicleID == v.ID && e.status == store.StatusParked {
			sl := s.slotByID(e.slotID)
			return &store.OpenTicket{
				LogID:            e.logID,
				VehicleID:        e.vehicleID,
				SlotID:           e.slotID,
				SlotLabel:        sl.floorName + "-" + sl.Number,
				EntryTime:        e.entryTime,
				RatePerHourCents: typeInfo[v.VehicleTypeID].RateCents,
			}, nil
		}
	}
	return nil, nil
}

func (s *Store) ListEntries(_ context.Context) ([]store.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.Entry, 0, len(s.logs))
	for _, e := range s.logs {
		sl := s.slotByID(e.slotID)
		out = append(out, store.Entry{
			LogID:       e.logID,
			PlateNumber: s.plateByID(e.vehicleID),
			SlotLabel:   sl.floorName + "-" + sl.Number,
			EntryTime:   e.entryTime,
			ExitTime:    e.exitTime,
			AmountCents: e.amountCents,
			Status:      e.status,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EntryTime.Equal(out[j].EntryTime) {
			return out[i].EntryTime.After(out[j].EntryTime)
		}
		return out[i].LogID > out[j].LogID
	})
	return out, nil
}

// AllocationStore

func (s *Store) Park(_ context.Context, rec store.ParkRecord) (store.ParkReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.slotByID(rec.SlotID)
	if sl == nil {
		return store.ParkReceipt{}, store.ErrNotFound
	}
	if sl.Occupied {
		return store.ParkReceipt{}, store.ErrSlotTaken
	}
	if v, ok := s.vehicles[rec.PlateNumber]; ok {
		for _, e := range s.logs {
			if e.vehicleID == v.ID && e.status == store.StatusParked {
				return store.ParkReceipt{}, store.ErrVehicleParked
			}
		}
	}

	// All checks passed; mutate everything under the one lock.
	v := s.resolveLocked(rec.PlateNumber, rec.VehicleTypeID)
	sl.Occupied = true
	e := &entry{
		logID:     s.nextLog,
		vehicleID: v.ID,
		slotID:    rec.SlotID,
		entryTime: rec.EntryTime.UTC(),
		status:    store.StatusParked,
	}
	s.nextLog++
	s.logs = append(s.logs, e)
	s.assignments = append(s.assignments, &assignment{
		vehicleID:    v.ID,
		slotID:       rec.SlotID,
		assignedTime: rec.EntryTime.UTC(),
	})
	return store.ParkReceipt{VehicleID: v.ID, LogID: e.logID}, nil
}

func (s *Store) Release(_ context.Context, rec store.ReleaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open *entry
	for _, e := range s.logs {
		if e.logID == rec.LogID && e.status == store.StatusParked {
			open = e
			break
		}
	}
	if open == nil {
		return store.ErrTicketClosed
	}

	exit := rec.ExitTime.UTC()
	open.exitTime = &exit
	open.amountCents = rec.AmountCents
	open.status = store.StatusExited

	if sl := s.slotByID(rec.SlotID); sl != nil {
		sl.Occupied = false
	}
	for _, a := range s.assignments {
		if a.vehicleID == rec.VehicleID && a.slotID == rec.SlotID && a.releasedTime == nil {
			a.releasedTime = &exit
		}
	}
	return nil
}

// internal lookups

func (s *Store) slotByID(id int64) *slot {
	for _, sl := range s.slots {
		if sl.ID == id {
			return sl
		}
	}
	return nil
}

func (s *Store) plateByID(vehicleID int64) string {
	for plate, v := range s.vehicles {
		if v.ID == vehicleID {
			return plate
		}
	}
	return ""
}
