package staff

import (
	"context"
	"database/sql"
	"testing"

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
CREATE TABLE staff (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  is_local INTEGER NOT NULL DEFAULT 0,
  synced INTEGER NOT NULL DEFAULT 0,
  deleted INTEGER NOT NULL DEFAULT 0,
  revision INTEGER NOT NULL DEFAULT 1,
  created_at TIMESTAMP
);
`)
	require.NoError(t, err)

	return db
}

func TestInsertUpdateToggle(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, models.StaffMember{ID: "m1", Name: "Anna", Role: "cashier", Active: true}))

	m, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, m.Active)

	m.Active = false
	require.NoError(t, r.Update(ctx, "m1", m))

	m, err = r.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, m.Active)

	rev, err := r.Revision(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)
}

func TestReplaceAll_SortsByName(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.ReplaceAll(ctx, []models.StaffMember{
		{ID: "m2", Name: "Zane", Active: true},
		{ID: "m1", Name: "Anna", Active: true},
	}))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Anna", all[0].Name)
	assert.True(t, all[0].Synced)
}

func TestSoftDeleteThenPurge(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, models.StaffMember{ID: "m1", Name: "Anna"}))
	require.NoError(t, r.DeleteByID(ctx, "m1"))

	_, err := r.GetByID(ctx, "m1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// row still exists for the replay drain
	rev, err := r.Revision(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)

	require.NoError(t, r.PurgeByID(ctx, "m1"))
	_, err = r.Revision(ctx, "m1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestReplaceIDAndMarkSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, models.StaffMember{ID: "temp-1-ab", Name: "Anna", IsLocal: true}))
	require.NoError(t, r.ReplaceID(ctx, "temp-1-ab", "M-7"))
	require.NoError(t, r.MarkSynced(ctx, "M-7", true))

	m, err := r.GetByID(ctx, "M-7")
	require.NoError(t, err)
	assert.False(t, m.IsLocal)
	assert.True(t, m.Synced)

	assert.ErrorIs(t, r.ReplaceID(ctx, "nope", "x"), common.ErrNotFound)
}
