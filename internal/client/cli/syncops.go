package cli

import (
	"context"
	"fmt"
)

// Pending lists the queued operations waiting for the backend.
func (a *App) Pending(ctx context.Context) error {
	ops, err := a.repos.Pending.ListAll(ctx)
	if err != nil {
		printlnFn("Failed to read the pending queue:", err)
		return err
	}
	if len(ops) == 0 {
		printlnFn("Nothing pending.")
		return nil
	}

	for _, op := range ops {
		printlnFn(fmt.Sprintf("%s  %-8s %-7s %s",
			op.CreatedAt.Format("2006-01-02 15:04:05"), op.Entity, op.Kind, op.EntityID))
	}
	return nil
}

// SyncNow probes connectivity and drains the queue immediately instead of
// waiting for the watcher.
func (a *App) SyncNow(ctx context.Context) error {
	a.monitor.Probe(ctx)
	if !a.monitor.IsOnline() {
		printlnFn("Backend unreachable; queued operations kept.")
		return nil
	}

	replayed, dropped, err := a.replay.Drain(ctx)
	if err != nil {
		printlnFn("Sync failed:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Synced %d operation(s), dropped %d.", replayed, dropped))
	return nil
}
