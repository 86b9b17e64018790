package analyticscache

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE analytics_cache (
  type TEXT NOT NULL,
  period TEXT NOT NULL,
  data TEXT NOT NULL,
  cached_at TIMESTAMP NOT NULL,
  PRIMARY KEY (type, period)
);
`)
	require.NoError(t, err)

	return db
}

func TestGetMissingKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), "dashboard", "week")
	assert.ErrorIs(t, err, common.ErrNoCachedData)
}

func TestPutReplacesSameKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	require.NoError(t, r.Put(ctx, models.AnalyticsEntry{
		Type: "dashboard", Period: "week", Data: []byte(`{"total":"10"}`), CachedAt: first,
	}))
	require.NoError(t, r.Put(ctx, models.AnalyticsEntry{
		Type: "dashboard", Period: "week", Data: []byte(`{"total":"25"}`), CachedAt: second,
	}))
	// different period is a different key
	require.NoError(t, r.Put(ctx, models.AnalyticsEntry{
		Type: "dashboard", Period: "month", Data: []byte(`{"total":"99"}`), CachedAt: second,
	}))

	got, err := r.Get(ctx, "dashboard", "week")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"25"}`, string(got.Data))
	assert.True(t, got.CachedAt.Equal(second))

	month, err := r.Get(ctx, "dashboard", "month")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"99"}`, string(month.Data))
}
