package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/openlots/parkd/internal/parking/store"
	sqlitestore "github.com/openlots/parkd/internal/parking/store/sqlite"
)

func entryTime() time.Time {
	return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
}

func TestPark_CreatesAllRows(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	slotID := seedSlot(t, conn, "G", "C1", 5, 1)
	as := sqlitestore.NewAllocationStore(conn, w)

	receipt, err := as.Park(context.Background(), store.ParkRecord{
		PlateNumber:   "KA01AB1234",
		VehicleTypeID: 1,
		SlotID:        slotID,
		EntryTime:     entryTime(),
	})
	if err != nil {
		t.Fatalf("Park: %v", err)
	}
	if receipt.VehicleID == 0 || receipt.LogID == 0 {
		t.Fatalf("expected non-zero receipt, got %+v", receipt)
	}

	var occupied int
	if err := conn.QueryRow(`SELECT is_occupied FROM parking_slots WHERE slot_id = ?;`, slotID).Scan(&occupied); err != nil {
		t.Fatalf("slot query: %v", err)
	}
	if occupied != 1 {
		t.Error("expected slot to be occupied")
	}

	var owner string
	if err := conn.QueryRow(`SELECT owner_name FROM vehicles WHERE vehicle_number = 'KA01AB1234';`).Scan(&owner); err != nil {
		t.Fatalf("vehicle query: %v", err)
	}
	if owner != "Unknown Owner" {
		t.Errorf("expected placeholder owner, got %q", owner)
	}

	var status string
	var exitMs sql.NullInt64
	if err := conn.QueryRow(`SELECT status, exit_time_ms FROM vehicle_logs WHERE log_id = ?;`, receipt.LogID).Scan(&status, &exitMs); err != nil {
		t.Fatalf("log query: %v", err)
	}
	if status != "PARKED" || exitMs.Valid {
		t.Errorf("expected open PARKED log, got status=%s exit set=%v", status, exitMs.Valid)
	}

	var openAssignments int
	if err := conn.QueryRow(`
SELECT COUNT(*) FROM slot_assignments
WHERE vehicle_id = ? AND slot_id = ? AND released_time_ms IS NULL;`,
		receipt.VehicleID, slotID).Scan(&openAssignments); err != nil {
		t.Fatalf("assignment query: %v", err)
	}
	if openAssignments != 1 {
		t.Errorf("expected 1 open assignment, got %d", openAssignments)
	}
}

func TestPark_SlotTaken(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	slotID := seedSlot(t, conn, "G", "C1", 5, 1)
	as := sqlitestore.NewAllocationStore(conn, w)
	ctx := context.Background()

	if _, err := as.Park(ctx, store.ParkRecord{
		PlateNumber: "X1", VehicleTypeID: 1, SlotID: slotID, EntryTime: entryTime(),
	}); err != nil {
		t.Fatalf("first Park: %v", err)
	}

	_, err := as.Park(ctx, store.ParkRecord{
		PlateNumber: "X2", VehicleTypeID: 1, SlotID: slotID, EntryTime: entryTime(),
	})
	if !errors.Is(err, store.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// The failed transaction must leave no trace of X2.
	var vehicles int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vehicles;`).Scan(&vehicles); err != nil {
		t.Fatalf("count vehicles: %v", err)
	}
	if vehicles != 1 {
		t.Errorf("expected 1 vehicle after rollback, got %d", vehicles)
	}
}

func TestPark_VehicleAlreadyParked(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	first := seedSlot(t, conn, "G", "C1", 5, 1)
	second := seedSlot(t, conn, "G", "C2", 8, 1)
	as := sqlitestore.NewAllocationStore(conn, w)
	ctx := context.Background()

	if _, err := as.Park(ctx, store.ParkRecord{
		PlateNumber: "X1", VehicleTypeID: 1, SlotID: first, EntryTime: entryTime(),
	}); err != nil {
		t.Fatalf("first Park: %v", err)
	}

	_, err := as.Park(ctx, store.ParkRecord{
		PlateNumber: "X1", VehicleTypeID: 1, SlotID: second, EntryTime: entryTime(),
	})
	if !errors.Is(err, store.ErrVehicleParked) {
		t.Fatalf("expected ErrVehicleParked, got %v", err)
	}

	// The second slot's occupancy write must have rolled back.
	var occupied int
	if err := conn.QueryRow(`SELECT is_occupied FROM parking_slots WHERE slot_id = ?;`, second).Scan(&occupied); err != nil {
		t.Fatalf("slot query: %v", err)
	}
	if occupied != 0 {
		t.Error("expected second slot to stay free after rollback")
	}

	var logs int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vehicle_logs;`).Scan(&logs); err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if logs != 1 {
		t.Errorf("expected 1 ledger entry, got %d", logs)
	}
}

func TestPark_UnknownSlot(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	as := sqlitestore.NewAllocationStore(conn, w)

	_, err := as.Park(context.Background(), store.ParkRecord{
		PlateNumber: "X1", VehicleTypeID: 1, SlotID: 999, EntryTime: entryTime(),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPark_KnownPlateKeepsStoredType(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	carSlot := seedSlot(t, conn, "G", "C1", 5, 1)
	truckSlot := seedSlot(t, conn, "G", "T1", 9, 3)
	as := sqlitestore.NewAllocationStore(conn, w)
	ctx := context.Background()

	if _, err := as.Park(ctx, store.ParkRecord{
		PlateNumber: "X1", VehicleTypeID: 1, SlotID: carSlot, EntryTime: entryTime(),
	}); err != nil {
		t.Fatalf("first Park: %v", err)
	}
	if err := releaseOpen(ctx, conn, as, "X1"); err != nil {
		t.Fatalf("release: %v", err)
	}

	// Re-park declaring TRUCK: the stored CAR registration wins.
	if _, err := as.Park(ctx, store.ParkRecord{
		PlateNumber: "X1", VehicleTypeID: 3, SlotID: truckSlot, EntryTime: entryTime().Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("second Park: %v", err)
	}

	var typeID int64
	if err := conn.QueryRow(`SELECT type_id FROM vehicles WHERE vehicle_number = 'X1';`).Scan(&typeID); err != nil {
		t.Fatalf("vehicle query: %v", err)
	}
	if typeID != 1 {
		t.Errorf("expected stored type 1 (CAR) to win, got %d", typeID)
	}
}

func TestPark_ConcurrentLastSlot(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	slotID := seedSlot(t, conn, "G", "C1", 5, 1)
	as := sqlitestore.NewAllocationStore(conn, w)

	const contenders = 8
	errs := make([]error, contenders)

	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = as.Park(context.Background(), store.ParkRecord{
				PlateNumber:   plateFor(i),
				VehicleTypeID: 1,
				SlotID:        slotID,
				EntryTime:     entryTime(),
			})
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, store.ErrSlotTaken):
			losses++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly 1 winner, got %d", wins)
	}
	if losses != contenders-1 {
		t.Errorf("expected %d losers, got %d", contenders-1, losses)
	}
}

func TestRelease_ClosesEverything(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	slotID := seedSlot(t, conn, "G", "C1", 5, 1)
	as := sqlitestore.NewAllocationStore(conn, w)
	ctx := context.Background()

	receipt, err := as.Park(ctx, store.ParkRecord{
		PlateNumber: "X1", VehicleTypeID: 1, SlotID: slotID, EntryTime: entryTime(),
	})
	if err != nil {
		t.Fatalf("Park: %v", err)
	}

	exit := entryTime().Add(90 * time.Minute)
	err = as.Release(ctx, store.ReleaseRecord{
		LogID:       receipt.LogID,
		VehicleID:   receipt.VehicleID,
		SlotID:      slotID,
		ExitTime:    exit,
		AmountCents: 4000,
	})
	if err != nil {
		t.Fatalf("Release: %v", err)
	}

	var status string
	var exitMs sql.NullInt64
	var amount int64
	if err := conn.QueryRow(`
SELECT status, exit_time_ms, amount_charged_cents FROM vehicle_logs WHERE log_id = ?;`,
		receipt.LogID).Scan(&status, &exitMs, &amount); err != nil {
		t.Fatalf("log query: %v", err)
	}
	if status != "EXITED" || !exitMs.Valid || amount != 4000 {
		t.Errorf("unexpected closed log: status=%s exit=%v amount=%d", status, exitMs.Valid, amount)
	}
	if exitMs.Int64 != exit.UnixMilli() {
		t.Errorf("expected exit_time_ms %d, got %d", exit.UnixMilli(), exitMs.Int64)
	}

	var occupied int
	if err := conn.QueryRow(`SELECT is_occupied FROM parking_slots WHERE slot_id = ?;`, slotID).Scan(&occupied); err != nil {
		t.Fatalf("slot query: %v", err)
	}
	if occupied != 0 {
		t.Error("expected slot to be free after release")
	}

	var openAssignments int
	if err := conn.QueryRow(`
SELECT COUNT(*) FROM slot_assignments WHERE released_time_ms IS NULL;`).Scan(&openAssignments); err != nil {
		t.Fatalf("assignment query: %v", err)
	}
	if openAssignments != 0 {
		t.Errorf("expected 0 open assignments, got %d", openAssignments)
	}
}

func TestRelease_AlreadyClosed(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	slotID := seedSlot(t, conn, "G", "C1", 5, 1)
	as := sqlitestore.NewAllocationStore(conn, w)
	ctx := context.Background()

	receipt, err := as.Park(ctx, store.ParkRecord{
		PlateNumber: "X1", VehicleTypeID: 1, SlotID: slotID, EntryTime: entryTime(),
	})
	if err != nil {
		t.Fatalf("Park: %v", err)
	}

	rec := store.ReleaseRecord{
		LogID:       receipt.LogID,
		VehicleID:   receipt.VehicleID,
		SlotID:      slotID,
		ExitTime:    entryTime().Add(time.Hour),
		AmountCents: 2000,
	}
	if err := as.Release(ctx, rec); err != nil {
		t.Fatalf("first Release: %v", err)
	}

	rec.AmountCents = 9999
	err = as.Release(ctx, rec)
	if !errors.Is(err, store.ErrTicketClosed) {
		t.Fatalf("expected ErrTicketClosed, got %v", err)
	}

	// The second release must not re-bill.
	var amount int64
	if err := conn.QueryRow(`SELECT amount_charged_cents FROM vehicle_logs WHERE log_id = ?;`, receipt.LogID).Scan(&amount); err != nil {
		t.Fatalf("log query: %v", err)
	}
	if amount != 2000 {
		t.Errorf("expected amount 2000 to stand, got %d", amount)
	}
}

// releaseOpen closes the plate's open entry with a zero fare; test plumbing.
func releaseOpen(ctx context.Context, conn *sql.DB, as *sqlitestore.AllocationStore, plate string) error {
	ls := sqlitestore.NewLedgerStore(conn)
	ticket, err := ls.FindOpenByPlate(ctx, plate)
	if err != nil {
		return err
	}
	return as.Release(ctx, store.ReleaseRecord{
		LogID:     ticket.LogID,
		VehicleID: ticket.VehicleID,
		SlotID:    ticket.SlotID,
		ExitTime:  ticket.EntryTime.Add(time.Hour),
	})
}

func plateFor(i int) string {
	return string(rune('A'+i)) + "A00XX000" + string(rune('0'+i))
}
