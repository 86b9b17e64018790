package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkovs/tillpoint/internal/common"
)

// ListSales prints the sale history, newest first.
func (a *App) ListSales(ctx context.Context) error {
	sales, err := a.sales.List(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoCachedData) {
			printlnFn("No sales available: backend unreachable and nothing cached yet.")
			return err
		}
		printlnFn("Failed to list sales:", err)
		return err
	}

	if !a.monitor.IsOnline() {
		printlnFn("(showing cached sales)")
	}
	for _, s := range sales {
		marker := ""
		if !s.Synced {
			marker = "  [pending sync]"
		}
		printlnFn(fmt.Sprintf("%-14s %s  %8s  %-6s %d line(s)%s",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Total.StringFixed(2),
			s.PaymentMethod, len(s.Items), marker))
	}
	return nil
}

// Summary prints the aggregated figures for a period (default "today").
func (a *App) Summary(ctx context.Context, args []string) error {
	period := "today"
	if len(args) > 0 {
		period = args[0]
	}

	res, err := a.sales.Summary(ctx, period)
	if err != nil {
		if errors.Is(err, common.ErrNoCachedData) {
			printlnFn("No summary available: backend unreachable and nothing cached yet.")
			return err
		}
		printlnFn("Failed to fetch the summary:", err)
		return err
	}

	if res.Cached {
		printlnFn(fmt.Sprintf("(cached at %s)", res.CachedAt.Format("2006-01-02 15:04")))
	}
	printlnFn(string(res.Data))
	return nil
}
