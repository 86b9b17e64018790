// Package analyticscache stores the last successful remote analytics
// response per (type, period) key, for display while offline.
package analyticscache

import (
	"context"

	"github.com/avolkovs/tillpoint/internal/client/models"
)

// Repository is the local-store surface for cached analytics.
type Repository interface {
	// Get returns the cached entry, or common.ErrNoCachedData when the
	// key was never written.
	Get(ctx context.Context, typ, period string) (models.AnalyticsEntry, error)

	// Put installs the entry, replacing any earlier one under the same
	// (type, period) key.
	Put(ctx context.Context, entry models.AnalyticsEntry) error
}
