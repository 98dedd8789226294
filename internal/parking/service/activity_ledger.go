package service

import (
	"context"
	"time"

	"github.com/openlots/parkd/internal/parking/store"
	"github.com/openlots/parkd/internal/parking/types"
)

// ActivityLedger is the read-only audit view over park/exit events.
type ActivityLedger struct {
	store store.LedgerStore
}

func NewActivityLedger(st store.LedgerStore) *ActivityLedger {
	return &ActivityLedger{store: st}
}

// ListLogs returns every ledger entry, newest entry time first.
func (l *ActivityLedger) ListLogs(ctx context.Context) ([]types.LogEntry, error) {
	entries, err := l.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.LogEntry, 0, len(entries))
	for _, e := range entries {
		le := types.LogEntry{
			VehicleNumber: e.PlateNumber,
			SlotLabel:     e.SlotLabel,
			EntryTime:     e.EntryTime.UTC().Format(time.RFC3339),
			AmountCents:   e.AmountCents,
			Status:        string(e.Status),
		}
		if e.ExitTime != nil {
			le.ExitTime = e.ExitTime.UTC().Format(time.RFC3339)
		}
		out = append(out, le)
	}
	return out, nil
}
