package service

import (
	"context"

	"github.com/openlots/parkd/internal/parking/store"
	"github.com/openlots/parkd/internal/parking/types"
)

// SlotCatalog is the read-only listing view over the slot inventory.
type SlotCatalog struct {
	store store.CatalogStore
}

func NewSlotCatalog(st store.CatalogStore) *SlotCatalog {
	return &SlotCatalog{store: st}
}

// ListAvailable returns every free slot, nearest first.
func (c *SlotCatalog) ListAvailable(ctx context.Context) ([]types.AvailableSlot, error) {
	slots, err := c.store.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.AvailableSlot, 0, len(slots))
	for _, sl := range slots {
		out = append(out, types.AvailableSlot{
			Label:             sl.Label,
			DistanceFromEntry: sl.DistanceFromEntry,
			TypeName:          sl.TypeName,
		})
	}
	return out, nil
}
