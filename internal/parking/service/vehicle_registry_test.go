package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/openlots/parkd/internal/parking/service"
	"github.com/openlots/parkd/internal/parking/store/memory"
)

func TestVehicleRegistry_ResolveAndLookup(t *testing.T) {
	st := memory.NewStore(testSlots())
	reg := service.NewVehicleRegistry(st)
	ctx := context.Background()

	created, err := reg.Resolve(ctx, " ka05mn9999 ", 3)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if created.VehicleNumber != "KA05MN9999" {
		t.Errorf("plate = %q, want KA05MN9999", created.VehicleNumber)
	}
	if created.VehicleTypeID != 3 {
		t.Errorf("type = %d, want 3", created.VehicleTypeID)
	}
	if created.OwnerName != "Unknown Owner" {
		t.Errorf("owner = %q, want Unknown Owner", created.OwnerName)
	}

	found, err := reg.Lookup(ctx, "KA05MN9999")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if found.VehicleID != created.VehicleID {
		t.Errorf("lookup id = %d, want %d", found.VehicleID, created.VehicleID)
	}
}

func TestVehicleRegistry_StoredTypeWins(t *testing.T) {
	st := memory.NewStore(testSlots())
	reg := service.NewVehicleRegistry(st)
	ctx := context.Background()

	if _, err := reg.Resolve(ctx, "KA01X1", 1); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	again, err := reg.Resolve(ctx, "KA01X1", 2)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if again.VehicleTypeID != 1 {
		t.Errorf("type = %d, want first-seen 1", again.VehicleTypeID)
	}
}

func TestVehicleRegistry_LookupUnknown(t *testing.T) {
	st := memory.NewStore(testSlots())
	reg := service.NewVehicleRegistry(st)

	_, err := reg.Lookup(context.Background(), "GHOST")
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVehicleRegistry_ValidatesInput(t *testing.T) {
	st := memory.NewStore(testSlots())
	reg := service.NewVehicleRegistry(st)
	ctx := context.Background()

	if _, err := reg.Resolve(ctx, "", 1); !errors.Is(err, service.ErrInvalidPlate) {
		t.Errorf("blank plate: got %v", err)
	}
	if _, err := reg.Resolve(ctx, "KA01X1", 0); !errors.Is(err, service.ErrInvalidVehicleType) {
		t.Errorf("type 0: got %v", err)
	}
	if _, err := reg.Lookup(ctx, "   "); !errors.Is(err, service.ErrInvalidPlate) {
		t.Errorf("blank lookup: got %v", err)
	}
}
