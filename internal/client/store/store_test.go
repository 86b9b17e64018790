package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "till.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer repos.Close()

	require.NoError(t, repos.DB.PingContext(ctx))

	for _, table := range []string{
		"goose_db_version", "products", "sales", "staff",
		"pending_operations", "analytics_cache", "cart_items", "metadata",
	} {
		assert.True(t, tableExists(t, repos.DB, table), "missing table %s", table)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "till.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	assert.True(t, tableExists(t, db, "goose_db_version"))
}

func TestInitDatabase_RepositoriesAreUsable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "till.db"))
	require.NoError(t, err)
	defer repos.Close()

	n, err := repos.Pending.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := repos.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
