package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/avolkovs/tillpoint/internal/client/services"
	"github.com/avolkovs/tillpoint/internal/common"
)

// Dashboard prints the analytics dashboard for a period (default "today").
func (a *App) Dashboard(ctx context.Context, args []string) error {
	period := "today"
	if len(args) > 0 {
		period = args[0]
	}
	res, err := a.analytics.Dashboard(ctx, period)
	return a.printAnalytics(res, err)
}

// LowStock prints products at or below a threshold (default 5).
func (a *App) LowStock(ctx context.Context, args []string) error {
	threshold := 5
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			printlnFn("Not a valid threshold:", args[0])
			return fmt.Errorf("%w: bad threshold", common.ErrValidation)
		}
		threshold = n
	}
	res, err := a.analytics.LowStock(ctx, threshold)
	return a.printAnalytics(res, err)
}

func (a *App) printAnalytics(res services.CachedResult, err error) error {
	if err != nil {
		if errors.Is(err, common.ErrNoCachedData) {
			printlnFn("No data available: backend unreachable and nothing cached yet.")
			return err
		}
		printlnFn("Failed to fetch analytics:", err)
		return err
	}
	if res.Cached {
		printlnFn(fmt.Sprintf("(cached at %s)", res.CachedAt.Format("2006-01-02 15:04")))
	}
	printlnFn(string(res.Data))
	return nil
}
