package analyticscache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
)

// SQLiteRepository implements Repository over a *sql.DB.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns the cached entry for (typ, period).
func (r *SQLiteRepository) Get(ctx context.Context, typ, period string) (models.AnalyticsEntry, error) {
	var (
		entry  models.AnalyticsEntry
		data   string
		cached string
	)
	query := `SELECT type, period, data, cached_at FROM analytics_cache WHERE type = ? AND period = ?`
	err := r.db.QueryRowContext(ctx, query, typ, period).Scan(&entry.Type, &entry.Period, &data, &cached)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AnalyticsEntry{}, common.ErrNoCachedData
	}
	if err != nil {
		return models.AnalyticsEntry{}, fmt.Errorf("failed to read analytics cache: %w", err)
	}
	entry.Data = []byte(data)
	if t, err := time.Parse(time.RFC3339Nano, cached); err == nil {
		entry.CachedAt = t
	}
	return entry, nil
}

// Put installs the entry, replacing any earlier one under the same key.
func (r *SQLiteRepository) Put(ctx context.Context, entry models.AnalyticsEntry) error {
	cached := entry.CachedAt
	if cached.IsZero() {
		cached = time.Now()
	}
	query := `INSERT OR REPLACE INTO analytics_cache (type, period, data, cached_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		entry.Type, entry.Period, string(entry.Data), cached.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write analytics cache: %w", err)
	}
	return nil
}
