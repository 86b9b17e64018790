package models

import (
	"encoding/json"
	"time"
)

// AnalyticsEntry is a cache-of-last-resort row: the last successful remote
// read for a (type, period) pair. A later write for the same key replaces
// the earlier one. Absence is not an error; staleness is visible only
// through CachedAt.
type AnalyticsEntry struct {
	Type     string
	Period   string
	Data     json.RawMessage
	CachedAt time.Time
}
