package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/openlots/parkd/internal/parking/service"
	"github.com/openlots/parkd/internal/parking/store/memory"
)

func TestSlotCatalog_ListAvailable(t *testing.T) {
	st := memory.NewStore(testSlots())
	catalog := service.NewSlotCatalog(st)
	ctx := context.Background()

	if _, err := newAllocator(st).Assign(ctx, "KA01X1", 1); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	slots, err := catalog.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	// C3 (3m) is occupied; the free slots come back nearest first.
	want := []string{"G-B1", "G-C1", "G-C2"}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d", len(slots), len(want))
	}
	for i, label := range want {
		if slots[i].Label != label {
			t.Errorf("slot[%d] = %s, want %s", i, slots[i].Label, label)
		}
	}
	if slots[0].TypeName != "BIKE" {
		t.Errorf("slot[0] type = %s, want BIKE", slots[0].TypeName)
	}
}

func TestActivityLedger_ListLogs(t *testing.T) {
	st := memory.NewStore(testSlots())
	ledger := service.NewActivityLedger(st)
	ctx := context.Background()

	parkAndBackdate(t, st, "KA01X1", 1, 2*time.Hour)
	if _, err := newBilling(st).ProcessExit(ctx, "KA01X1"); err != nil {
		t.Fatalf("ProcessExit: %v", err)
	}
	if _, err := newAllocator(st).Assign(ctx, "KA01X2", 1); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	logs, err := ledger.ListLogs(ctx)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d entries, want 2", len(logs))
	}

	// Newest entry time first: the still-parked vehicle leads.
	if logs[0].VehicleNumber != "KA01X2" || logs[0].Status != "PARKED" {
		t.Errorf("logs[0] = %s/%s, want KA01X2/PARKED", logs[0].VehicleNumber, logs[0].Status)
	}
	if logs[0].ExitTime != "" {
		t.Errorf("open entry has exit time %q", logs[0].ExitTime)
	}

	closed := logs[1]
	if closed.VehicleNumber != "KA01X1" || closed.Status != "EXITED" {
		t.Errorf("logs[1] = %s/%s, want KA01X1/EXITED", closed.VehicleNumber, closed.Status)
	}
	if closed.AmountCents != 4000 {
		t.Errorf("closed amount = %d, want 4000", closed.AmountCents)
	}
	if closed.ExitTime == "" {
		t.Error("closed entry missing exit time")
	}
	entry, err := time.Parse(time.RFC3339, closed.EntryTime)
	if err != nil {
		t.Fatalf("entry time format: %v", err)
	}
	exit, err := time.Parse(time.RFC3339, closed.ExitTime)
	if err != nil {
		t.Fatalf("exit time format: %v", err)
	}
	if !exit.After(entry) {
		t.Errorf("exit %s not after entry %s", closed.ExitTime, closed.EntryTime)
	}
}
